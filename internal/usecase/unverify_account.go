package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/trebuchet-org/govctl/internal/domain"
)

// UnverifyAccount removes a provider stamp from the wallet address
type UnverifyAccount struct {
	reader    GovernanceReader
	writer    GovernanceWriter
	wallet    Wallet
	confirmer Confirmer
	progress  ProgressSink
	notifier  Notifier
}

// NewUnverifyAccount creates a new unverify account use case
func NewUnverifyAccount(
	reader GovernanceReader,
	writer GovernanceWriter,
	wallet Wallet,
	confirmer Confirmer,
	progress ProgressSink,
	notifier Notifier,
) *UnverifyAccount {
	return &UnverifyAccount{
		reader:    reader,
		writer:    writer,
		wallet:    wallet,
		confirmer: confirmer,
		progress:  progress,
		notifier:  notifier,
	}
}

// UnverifyOptions contains options for unverifying
type UnverifyOptions struct {
	ProviderID string
	Yes        bool // skip confirmation
}

// ErrCancelled is returned when the user declines a confirmation
var ErrCancelled = errors.New("cancelled by user")

// Run executes the use case
func (uc *UnverifyAccount) Run(ctx context.Context, opts UnverifyOptions) (*TxResult, error) {
	addr, err := walletAddress("unverify", uc.wallet)
	if err != nil {
		return nil, err
	}
	if opts.ProviderID == "" {
		return nil, domain.ValidationError("unverify", errors.New("provider is required"))
	}

	stamps, err := uc.reader.Stamps(ctx, addr)
	if err != nil {
		return nil, domain.NetworkError("unverify", err)
	}
	found := false
	for _, s := range stamps {
		if s.ProviderID == opts.ProviderID {
			found = true
			break
		}
	}
	if !found {
		return nil, domain.PreconditionError("unverify",
			fmt.Errorf("%w: no %s stamp for %s", domain.ErrNotFound, opts.ProviderID, addr.Hex()))
	}

	if !opts.Yes && uc.confirmer != nil {
		ok, err := uc.confirmer.Confirm(ctx, fmt.Sprintf("Remove %s verification from %s?", opts.ProviderID, addr.Hex()))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrCancelled
		}
	}

	return runTransaction(ctx, uc.writer.Unverify(opts.ProviderID), uc.progress, uc.notifier)
}
