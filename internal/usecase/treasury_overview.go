package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/trebuchet-org/govctl/internal/domain"
	"github.com/trebuchet-org/govctl/internal/domain/config"
	"golang.org/x/sync/errgroup"
)

// TreasuryOverview collects DAO balances and recent transfers. Each part
// loads independently; a failing part does not hide the others.
type TreasuryOverview struct {
	reader  GovernanceReader
	history TransferHistory
	config  *config.RuntimeConfig
	log     *slog.Logger
}

// NewTreasuryOverview creates a new TreasuryOverview use case
func NewTreasuryOverview(reader GovernanceReader, history TransferHistory, cfg *config.RuntimeConfig, log *slog.Logger) *TreasuryOverview {
	return &TreasuryOverview{reader: reader, history: history, config: cfg, log: log}
}

// TreasuryOptions selects which transfers to page through
type TreasuryOptions struct {
	Categories      []domain.TransferCategory
	MaxCount        int
	DepositsPage    string
	WithdrawalsPage string
}

// TreasuryResult contains the loaded parts
type TreasuryResult struct {
	Balances    domain.Result[[]domain.Balance]
	Deposits    domain.Result[*domain.TransferPage]
	Withdrawals domain.Result[*domain.TransferPage]
}

var errNoExplorer = errors.New("no explorer URL configured")

// DefaultTransferPageSize is used when TreasuryOptions.MaxCount is zero
const DefaultTransferPageSize = 20

// Run executes the use case
func (uc *TreasuryOverview) Run(ctx context.Context, opts TreasuryOptions) (*TreasuryResult, error) {
	if uc.config == nil || uc.config.DAO == nil {
		return nil, domain.PreconditionError("treasury overview", domain.ErrNoDAO)
	}
	dao := uc.config.DAO

	if len(opts.Categories) == 0 {
		opts.Categories = domain.AllTransferCategories()
	}
	if opts.MaxCount <= 0 {
		opts.MaxCount = DefaultTransferPageSize
	}

	result := &TreasuryResult{
		Balances:    domain.Loading[[]domain.Balance](),
		Deposits:    domain.Loading[*domain.TransferPage](),
		Withdrawals: domain.Loading[*domain.TransferPage](),
	}

	var g errgroup.Group
	g.Go(func() error {
		result.Balances = domain.From(uc.reader.Balances(ctx, dao.TreasuryTokens))
		return nil
	})
	g.Go(func() error {
		result.Deposits = uc.transfers(ctx, domain.TransferQuery{
			Address:    dao.Address.Hex(),
			Direction:  domain.Deposits,
			Categories: opts.Categories,
			PageKey:    opts.DepositsPage,
			MaxCount:   opts.MaxCount,
		})
		return nil
	})
	g.Go(func() error {
		result.Withdrawals = uc.transfers(ctx, domain.TransferQuery{
			Address:    dao.Address.Hex(),
			Direction:  domain.Withdrawals,
			Categories: opts.Categories,
			PageKey:    opts.WithdrawalsPage,
			MaxCount:   opts.MaxCount,
		})
		return nil
	})
	_ = g.Wait()

	for name, err := range map[string]error{
		"balances":    result.Balances.Error(),
		"deposits":    result.Deposits.Error(),
		"withdrawals": result.Withdrawals.Error(),
	} {
		if err != nil {
			uc.log.Debug("treasury part failed", "part", name, "error", err)
		}
	}
	return result, nil
}

func (uc *TreasuryOverview) transfers(ctx context.Context, q domain.TransferQuery) domain.Result[*domain.TransferPage] {
	if uc.history == nil {
		return domain.Err[*domain.TransferPage](domain.PreconditionError("transfer history", errNoExplorer))
	}
	return domain.From(uc.history.Transfers(ctx, q))
}
