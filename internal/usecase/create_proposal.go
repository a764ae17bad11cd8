package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/govctl/internal/actions"
	"github.com/trebuchet-org/govctl/internal/domain"
	"github.com/trebuchet-org/govctl/internal/domain/config"
)

// CreateProposal turns a proposal file into an on-chain proposal
type CreateProposal struct {
	codec     *actions.Codec
	writer    GovernanceWriter
	config    *config.RuntimeConfig
	confirmer Confirmer
	clock     Clock
	progress  ProgressSink
	notifier  Notifier
	log       *slog.Logger
}

// NewCreateProposal creates a new CreateProposal use case
func NewCreateProposal(
	codec *actions.Codec,
	writer GovernanceWriter,
	cfg *config.RuntimeConfig,
	confirmer Confirmer,
	clock Clock,
	progress ProgressSink,
	notifier Notifier,
	log *slog.Logger,
) *CreateProposal {
	return &CreateProposal{
		codec:     codec,
		writer:    writer,
		config:    cfg,
		confirmer: confirmer,
		clock:     clock,
		progress:  progress,
		notifier:  notifier,
		log:       log,
	}
}

// EncodedActions is an action list ready for submission
type EncodedActions struct {
	Encoded      []*domain.EncodedAction
	Raw          []domain.RawAction
	Descriptions []*actions.Description
}

// ProposalPreview is a fully encoded proposal awaiting confirmation
type ProposalPreview struct {
	Draft   *domain.ProposalDraft
	Actions *EncodedActions
}

// CreateProposalOptions contains options for submitting
type CreateProposalOptions struct {
	Yes    bool // skip confirmation
	DryRun bool // stop after encoding
}

// Encode encodes and describes an action list. Any failing action fails the
// whole list with a *domain.BatchError.
func (uc *CreateProposal) Encode(ctx context.Context, list []domain.Action) (*EncodedActions, error) {
	if err := uc.requireDAO(); err != nil {
		return nil, err
	}

	encoded, err := uc.codec.EncodeAll(ctx, list)
	if err != nil {
		return nil, err
	}

	raw := make([]domain.RawAction, len(encoded))
	for i, enc := range encoded {
		r, err := enc.Raw(uc.config.DAO.Address)
		if err != nil {
			return nil, domain.NewError(domain.KindInternal, "encode actions", fmt.Errorf("action %d: %w", i, err))
		}
		raw[i] = r
	}

	descriptions, err := uc.codec.DescribeAll(ctx, encoded)
	if err != nil {
		return nil, err
	}

	return &EncodedActions{Encoded: encoded, Raw: raw, Descriptions: descriptions}, nil
}

// Prepare parses and encodes a proposal file.
func (uc *CreateProposal) Prepare(ctx context.Context, data []byte) (*ProposalPreview, error) {
	file, err := actions.ParseProposalFile(data, uc.codec.Registry())
	if err != nil {
		return nil, err
	}

	encoded, err := uc.Encode(ctx, file.Actions)
	if err != nil {
		return nil, err
	}

	start := uc.clock.Now()
	draft := &domain.ProposalDraft{
		Metadata:  file.Metadata,
		Actions:   encoded.Raw,
		StartDate: start,
		EndDate:   start.Add(file.Duration),
	}
	uc.log.Debug("prepared proposal", "title", draft.Metadata.Title, "actions", len(draft.Actions), "end", draft.EndDate)

	return &ProposalPreview{Draft: draft, Actions: encoded}, nil
}

// Submit sends a prepared proposal.
func (uc *CreateProposal) Submit(ctx context.Context, preview *ProposalPreview, opts CreateProposalOptions) (*TxResult, error) {
	if preview == nil || preview.Draft == nil {
		return nil, errors.New("nothing to submit")
	}
	if opts.DryRun {
		return nil, nil
	}

	if !opts.Yes && uc.confirmer != nil {
		prompt := fmt.Sprintf("Submit proposal %q with %d action(s)?", preview.Draft.Metadata.Title, len(preview.Draft.Actions))
		ok, err := uc.confirmer.Confirm(ctx, prompt)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrCancelled
		}
	}

	return runTransaction(ctx, uc.writer.SubmitProposal(preview.Draft), uc.progress, uc.notifier)
}

func (uc *CreateProposal) requireDAO() error {
	if uc.config == nil || uc.config.DAO == nil {
		return domain.PreconditionError("encode actions", domain.ErrNoDAO)
	}
	return nil
}
