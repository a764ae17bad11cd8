package usecase

import (
	"context"
	"errors"

	"github.com/samber/lo"
	"github.com/trebuchet-org/govctl/internal/domain"
	"github.com/trebuchet-org/govctl/internal/verification"
)

// ClaimReward claims the verification reward for the wallet address
type ClaimReward struct {
	reader   GovernanceReader
	writer   GovernanceWriter
	wallet   Wallet
	clock    Clock
	progress ProgressSink
	notifier Notifier
}

// NewClaimReward creates a new ClaimReward use case
func NewClaimReward(
	reader GovernanceReader,
	writer GovernanceWriter,
	wallet Wallet,
	clock Clock,
	progress ProgressSink,
	notifier Notifier,
) *ClaimReward {
	return &ClaimReward{
		reader:   reader,
		writer:   writer,
		wallet:   wallet,
		clock:    clock,
		progress: progress,
		notifier: notifier,
	}
}

// Run executes the use case. Only accounts with a currently valid stamp may claim.
func (uc *ClaimReward) Run(ctx context.Context) (*TxResult, error) {
	addr, err := walletAddress("claim reward", uc.wallet)
	if err != nil {
		return nil, err
	}

	stamps, err := uc.reader.Stamps(ctx, addr)
	if err != nil {
		return nil, domain.NetworkError("claim reward", err)
	}
	history, err := uc.reader.ThresholdHistory(ctx)
	if err != nil {
		return nil, domain.NetworkError("claim reward", err)
	}

	statuses := verification.Summarize(stamps, history, unixSeconds(uc.clock.Now()))
	if !lo.SomeBy(statuses, func(p domain.ProviderStatus) bool { return p.Status.Verified }) {
		return nil, domain.PreconditionError("claim reward", errors.New("account has no valid verification"))
	}

	return runTransaction(ctx, uc.writer.ClaimReward(), uc.progress, uc.notifier)
}
