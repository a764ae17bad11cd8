package usecase

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/govctl/internal/domain"
	"github.com/trebuchet-org/govctl/internal/domain/config"
	"github.com/trebuchet-org/govctl/internal/verification"
)

// ListPendingVerifications lists started verifications that have not yet
// expired, dropping expired records from the store.
type ListPendingVerifications struct {
	store  PendingStore
	wallet Wallet
	config *config.RuntimeConfig
	clock  Clock
}

// NewListPendingVerifications creates a new ListPendingVerifications use case
func NewListPendingVerifications(store PendingStore, wallet Wallet, cfg *config.RuntimeConfig, clock Clock) *ListPendingVerifications {
	return &ListPendingVerifications{store: store, wallet: wallet, config: cfg, clock: clock}
}

// PendingListResult contains the pending verifications for one account
type PendingListResult struct {
	Account common.Address
	Pending []domain.PendingVerification
	Dropped int
}

// Run executes the use case
func (uc *ListPendingVerifications) Run(ctx context.Context, account common.Address) (*PendingListResult, error) {
	addr, err := resolveAccount(account, uc.config, uc.wallet)
	if err != nil {
		return nil, err
	}

	all, err := uc.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending verifications: %w", err)
	}

	kept, dropped := verification.PrunePending(all, uc.clock.Now().Unix())
	if len(dropped) > 0 {
		if err := uc.store.Save(ctx, kept); err != nil {
			return nil, fmt.Errorf("failed to prune pending verifications: %w", err)
		}
	}

	return &PendingListResult{
		Account: addr,
		Pending: forAccount(kept, addr),
		Dropped: len(forAccount(dropped, addr)),
	}, nil
}
