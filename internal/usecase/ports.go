package usecase

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/govctl/internal/domain"
	"github.com/trebuchet-org/govctl/internal/domain/config"
	"github.com/trebuchet-org/govctl/internal/txflow"
)

// GovernanceReader reads DAO state from chain
type GovernanceReader interface {
	Stamps(ctx context.Context, account common.Address) ([]domain.Stamp, error)
	ThresholdHistory(ctx context.Context) (domain.ThresholdHistory, error)
	Proposal(ctx context.Context, id uint64) (*domain.Proposal, error)
	ProposalCount(ctx context.Context) (uint64, error)
	// Balances returns the native balance first, then one entry per token.
	Balances(ctx context.Context, tokens []common.Address) ([]domain.Balance, error)
}

// GovernanceWriter builds DAO write transactions. Nothing is sent until
// the returned transaction is run.
type GovernanceWriter interface {
	Verify(att domain.Attestation) txflow.Transaction
	Unverify(providerID string) txflow.Transaction
	SubmitProposal(draft *domain.ProposalDraft) txflow.Transaction
	Vote(proposalID uint64, option domain.VoteOption) txflow.Transaction
	ClaimReward() txflow.Transaction
}

// Wallet is the signing account
type Wallet interface {
	// Address returns domain.ErrNoWallet when no key is configured.
	Address() (common.Address, error)
	SignMessage(msg []byte) ([]byte, error)
}

// VerifyAPI is the off-chain verification service
type VerifyAPI interface {
	Verify(ctx context.Context, req domain.VerifyRequest) (*domain.VerifyResponse, error)
}

// PendingStore persists started verifications across runs
type PendingStore interface {
	List(ctx context.Context) ([]domain.PendingVerification, error)
	Save(ctx context.Context, pending []domain.PendingVerification) error
}

// TokenStore persists the GitHub token used to resolve pull request commits
type TokenStore interface {
	GitHubToken(ctx context.Context) (string, error)
	SetGitHubToken(ctx context.Context, token string) error
}

// TransferHistory pages through asset transfers of an address
type TransferHistory interface {
	Transfers(ctx context.Context, query domain.TransferQuery) (*domain.TransferPage, error)
}

// LocalConfigRepository manages local configuration persistence
type LocalConfigRepository interface {
	Exists() bool
	Load(ctx context.Context) (*config.LocalConfig, error)
	Save(ctx context.Context, config *config.LocalConfig) error
	GetPath() string
}

// Confirmer asks the user before irreversible steps
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ProviderSelector picks a verification provider interactively
type ProviderSelector interface {
	SelectProvider(ctx context.Context, providers []string, prompt string) (string, error)
}

// Notifier receives user-facing outcome messages
type Notifier interface {
	Success(message string) string
	Error(message string) string
}

// Clock returns the current time
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Message  string
	Spinner  bool
	Metadata any
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}

// NopNotifier drops every message
type NopNotifier struct{}

func (NopNotifier) Success(string) string { return "" }
func (NopNotifier) Error(string) string   { return "" }

// Use case result types

// TxResult is the outcome of one on-chain write
type TxResult struct {
	Label  string
	TxHash common.Hash
	State  txflow.State
}
