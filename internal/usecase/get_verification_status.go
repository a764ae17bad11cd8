package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"github.com/trebuchet-org/govctl/internal/domain"
	"github.com/trebuchet-org/govctl/internal/domain/config"
	"github.com/trebuchet-org/govctl/internal/verification"
	"golang.org/x/sync/errgroup"
)

// GetVerificationStatus computes the verification state of an account
type GetVerificationStatus struct {
	reader  GovernanceReader
	pending PendingStore
	wallet  Wallet
	config  *config.RuntimeConfig
	clock   Clock
	log     *slog.Logger
}

// NewGetVerificationStatus creates a new GetVerificationStatus use case
func NewGetVerificationStatus(
	reader GovernanceReader,
	pending PendingStore,
	wallet Wallet,
	cfg *config.RuntimeConfig,
	clock Clock,
	log *slog.Logger,
) *GetVerificationStatus {
	return &GetVerificationStatus{
		reader:  reader,
		pending: pending,
		wallet:  wallet,
		config:  cfg,
		clock:   clock,
		log:     log,
	}
}

// VerificationStatusResult contains the computed status of every stamp
type VerificationStatusResult struct {
	Account    common.Address
	Now        time.Time
	Providers  []domain.ProviderStatus
	Pending    []domain.PendingVerification
	Thresholds domain.ThresholdHistory
}

// Verified reports whether any provider is currently verified.
func (r *VerificationStatusResult) Verified() bool {
	return lo.SomeBy(r.Providers, func(p domain.ProviderStatus) bool { return p.Status.Verified })
}

// Provider returns the status for one provider, if a stamp exists.
func (r *VerificationStatusResult) Provider(id string) (domain.ProviderStatus, bool) {
	return lo.Find(r.Providers, func(p domain.ProviderStatus) bool { return p.ProviderID == id })
}

// Run executes the use case. A zero account resolves to the configured one.
func (uc *GetVerificationStatus) Run(ctx context.Context, account common.Address) (*VerificationStatusResult, error) {
	addr, err := resolveAccount(account, uc.config, uc.wallet)
	if err != nil {
		return nil, err
	}

	var (
		stamps  []domain.Stamp
		history domain.ThresholdHistory
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stamps, err = uc.reader.Stamps(gctx, addr)
		if err != nil {
			return fmt.Errorf("failed to load stamps: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		history, err = uc.reader.ThresholdHistory(gctx)
		if err != nil {
			return fmt.Errorf("failed to load threshold history: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, domain.NetworkError("get verification status", err)
	}

	now := uc.clock.Now()
	result := &VerificationStatusResult{
		Account:    addr,
		Now:        now,
		Providers:  verification.Summarize(stamps, history, unixSeconds(now)),
		Thresholds: history,
	}

	if uc.pending != nil {
		all, err := uc.pending.List(ctx)
		if err != nil {
			uc.log.Warn("could not read pending verifications", "error", err)
		} else {
			kept, _ := verification.PrunePending(forAccount(all, addr), now.Unix())
			result.Pending = kept
		}
	}

	uc.log.Debug("verification status", "account", addr.Hex(), "stamps", len(stamps), "thresholds", len(history))
	return result, nil
}

func forAccount(pending []domain.PendingVerification, addr common.Address) []domain.PendingVerification {
	return lo.Filter(pending, func(p domain.PendingVerification, _ int) bool {
		return strings.EqualFold(p.Address, addr.Hex())
	})
}
