package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/trebuchet-org/govctl/internal/actions"
	"github.com/trebuchet-org/govctl/internal/domain"
	"github.com/trebuchet-org/govctl/internal/domain/config"
	"golang.org/x/sync/errgroup"
)

// ShowProposal reads an on-chain proposal and describes its actions
type ShowProposal struct {
	reader GovernanceReader
	codec  *actions.Codec
	config *config.RuntimeConfig
}

// NewShowProposal creates a new ShowProposal use case
func NewShowProposal(reader GovernanceReader, codec *actions.Codec, cfg *config.RuntimeConfig) *ShowProposal {
	return &ShowProposal{reader: reader, codec: codec, config: cfg}
}

// ProposalAction is one action of an on-chain proposal. Description is nil
// when the call does not match any known action kind.
type ProposalAction struct {
	Raw         domain.RawAction
	Encoded     *domain.EncodedAction
	Description *actions.Description
	Err         error
}

// ProposalView is a proposal with its actions interpreted
type ProposalView struct {
	Proposal *domain.Proposal
	Actions  []ProposalAction
}

// Run executes the use case
func (uc *ShowProposal) Run(ctx context.Context, id uint64) (*ProposalView, error) {
	if uc.config == nil || uc.config.DAO == nil {
		return nil, domain.PreconditionError("show proposal", domain.ErrNoDAO)
	}

	proposal, err := uc.reader.Proposal(ctx, id)
	if err != nil {
		return nil, domain.NetworkError("show proposal", err)
	}

	view := &ProposalView{Proposal: proposal, Actions: make([]ProposalAction, len(proposal.Actions))}
	for i, raw := range proposal.Actions {
		view.Actions[i] = uc.describe(ctx, raw)
	}
	return view, nil
}

func (uc *ShowProposal) describe(ctx context.Context, raw domain.RawAction) ProposalAction {
	pa := ProposalAction{Raw: raw}
	encoded, err := uc.codec.Interpret(ctx, raw, uc.config.DAO.Address)
	if err != nil {
		pa.Err = err
		return pa
	}
	pa.Encoded = encoded
	pa.Description, pa.Err = uc.codec.Describe(ctx, encoded)
	return pa
}

// ListProposals reads the most recent proposals
type ListProposals struct {
	reader GovernanceReader
}

// NewListProposals creates a new ListProposals use case
func NewListProposals(reader GovernanceReader) *ListProposals {
	return &ListProposals{reader: reader}
}

// Run returns up to limit proposals, newest first.
func (uc *ListProposals) Run(ctx context.Context, limit int) ([]*domain.Proposal, error) {
	count, err := uc.reader.ProposalCount(ctx)
	if err != nil {
		return nil, domain.NetworkError("list proposals", err)
	}
	n := count
	if limit > 0 && uint64(limit) < n {
		n = uint64(limit)
	}

	proposals := make([]*domain.Proposal, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i := uint64(0); i < n; i++ {
		id := count - 1 - i
		g.Go(func() error {
			p, err := uc.reader.Proposal(gctx, id)
			if err != nil {
				return fmt.Errorf("proposal %d: %w", id, err)
			}
			proposals[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, domain.NetworkError("list proposals", err)
	}

	sort.SliceStable(proposals, func(a, b int) bool { return proposals[a].ID > proposals[b].ID })
	return proposals, nil
}
