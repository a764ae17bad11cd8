package domain

import (
	"fmt"
	"math/big"
	"time"
)

// VoteOption mirrors the on-chain vote enum.
type VoteOption uint8

const (
	VoteNone VoteOption = iota
	VoteAbstain
	VoteYes
	VoteNo
)

func (v VoteOption) String() string {
	switch v {
	case VoteAbstain:
		return "abstain"
	case VoteYes:
		return "yes"
	case VoteNo:
		return "no"
	default:
		return "none"
	}
}

// ParseVoteOption parses "yes", "no" or "abstain".
func ParseVoteOption(s string) (VoteOption, bool) {
	switch s {
	case "yes", "y":
		return VoteYes, true
	case "no", "n":
		return VoteNo, true
	case "abstain":
		return VoteAbstain, true
	}
	return VoteNone, false
}

// ProposalMetadata is the off-chain description stored with a proposal.
type ProposalMetadata struct {
	Title       string   `json:"title" yaml:"title"`
	Summary     string   `json:"summary" yaml:"summary"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Resources   []string `json:"resources,omitempty" yaml:"resources,omitempty"`
}

// ProposalDraft is everything needed to submit a proposal.
type ProposalDraft struct {
	Metadata  ProposalMetadata
	Actions   []RawAction
	StartDate time.Time
	EndDate   time.Time
}

// Tally holds vote weights per option.
type Tally struct {
	Yes     *big.Int `json:"yes"`
	No      *big.Int `json:"no"`
	Abstain *big.Int `json:"abstain"`
}

// Proposal is an on-chain proposal as read from the governance contract.
type Proposal struct {
	ID        uint64           `json:"id"`
	Open      bool             `json:"open"`
	Executed  bool             `json:"executed"`
	StartDate time.Time        `json:"startDate"`
	EndDate   time.Time        `json:"endDate"`
	Tally     Tally            `json:"tally"`
	Metadata  ProposalMetadata `json:"metadata"`
	Actions   []RawAction      `json:"actions"`
}

// Parameter is one plugin setting that governance may change.
type Parameter struct {
	Plugin    string `json:"plugin" toml:"plugin"`
	Name      string `json:"name" toml:"name"`
	Type      string `json:"type" toml:"type"`
	Interface string `json:"interface" toml:"interface"`
	Setter    string `json:"setter" toml:"setter"`
}

// Method returns the canonical setter signature, e.g. "setMinParticipation(uint32)".
func (p Parameter) Method() string {
	return p.Setter + "(" + CanonicalType(p.Type) + ")"
}

// PullRequest identifies a GitHub pull request.
type PullRequest struct {
	Owner  string `json:"owner"`
	Repo   string `json:"repo"`
	Number int    `json:"number"`
}

// URL returns the web URL of the pull request.
func (p PullRequest) URL() string {
	return fmt.Sprintf("https://github.com/%s/%s/pull/%d", p.Owner, p.Repo, p.Number)
}

// CloneURL returns the HTTPS remote of the repository.
func (p PullRequest) CloneURL() string {
	return fmt.Sprintf("https://github.com/%s/%s.git", p.Owner, p.Repo)
}
