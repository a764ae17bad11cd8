package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/govctl/internal/domain"
)

// VoteProposal casts a vote on an open proposal
type VoteProposal struct {
	reader    GovernanceReader
	writer    GovernanceWriter
	wallet    Wallet
	confirmer Confirmer
	progress  ProgressSink
	notifier  Notifier
}

// NewVoteProposal creates a new VoteProposal use case
func NewVoteProposal(
	reader GovernanceReader,
	writer GovernanceWriter,
	wallet Wallet,
	confirmer Confirmer,
	progress ProgressSink,
	notifier Notifier,
) *VoteProposal {
	return &VoteProposal{
		reader:    reader,
		writer:    writer,
		wallet:    wallet,
		confirmer: confirmer,
		progress:  progress,
		notifier:  notifier,
	}
}

// VoteOptions contains the vote to cast
type VoteOptions struct {
	ProposalID uint64
	Option     domain.VoteOption
	Yes        bool // skip confirmation
}

// Run executes the use case
func (uc *VoteProposal) Run(ctx context.Context, opts VoteOptions) (*TxResult, error) {
	if _, err := walletAddress("vote", uc.wallet); err != nil {
		return nil, err
	}
	if opts.Option == domain.VoteNone {
		return nil, domain.ValidationError("vote", fmt.Errorf("a vote option is required"))
	}

	proposal, err := uc.reader.Proposal(ctx, opts.ProposalID)
	if err != nil {
		return nil, domain.NetworkError("vote", err)
	}
	if !proposal.Open {
		return nil, domain.PreconditionError("vote", fmt.Errorf("proposal %d is not open for voting", opts.ProposalID))
	}

	if !opts.Yes && uc.confirmer != nil {
		ok, err := uc.confirmer.Confirm(ctx, fmt.Sprintf("Vote %s on proposal %d (%s)?", opts.Option, opts.ProposalID, proposal.Metadata.Title))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrCancelled
		}
	}

	return runTransaction(ctx, uc.writer.Vote(opts.ProposalID, opts.Option), uc.progress, uc.notifier)
}
