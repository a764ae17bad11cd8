package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/govctl/internal/domain"
	"github.com/trebuchet-org/govctl/internal/usecase"
	"golang.org/x/sync/errgroup"
)

// Stamps returns every provider stamp recorded for account
func (c *Client) Stamps(ctx context.Context, account common.Address) ([]domain.Stamp, error) {
	if err := c.requireDAO(); err != nil {
		return nil, err
	}
	values, err := c.call(ctx, governanceABI, c.dao, "getStamps", account)
	if err != nil {
		return nil, err
	}

	raw := *abi.ConvertType(values[0], new([]stampOut)).(*[]stampOut)
	stamps := make([]domain.Stamp, len(raw))
	for i, s := range raw {
		stamps[i] = domain.Stamp{
			ProviderID: s.ProviderId,
			UserHash:   hexutil.Encode(s.UserHash[:]),
			VerifiedAt: s.VerifiedAt,
		}
	}
	return stamps, nil
}

// ThresholdHistory returns every verification validity change
func (c *Client) ThresholdHistory(ctx context.Context) (domain.ThresholdHistory, error) {
	if err := c.requireDAO(); err != nil {
		return nil, err
	}
	values, err := c.call(ctx, governanceABI, c.dao, "getThresholdHistory")
	if err != nil {
		return nil, err
	}

	raw := *abi.ConvertType(values[0], new([]thresholdOut)).(*[]thresholdOut)
	history := make(domain.ThresholdHistory, len(raw))
	for i, t := range raw {
		history[i] = domain.Threshold{EffectiveFrom: t.Timestamp, ValidityDays: t.Threshold}
	}
	return history, nil
}

// ProposalCount returns the number of proposals created so far
func (c *Client) ProposalCount(ctx context.Context) (uint64, error) {
	if err := c.requireDAO(); err != nil {
		return 0, err
	}
	values, err := c.call(ctx, governanceABI, c.dao, "proposalCount")
	if err != nil {
		return 0, err
	}
	return values[0].(*big.Int).Uint64(), nil
}

// Proposal reads one proposal
func (c *Client) Proposal(ctx context.Context, id uint64) (*domain.Proposal, error) {
	if err := c.requireDAO(); err != nil {
		return nil, err
	}
	values, err := c.call(ctx, governanceABI, c.dao, "getProposal", new(big.Int).SetUint64(id))
	if err != nil {
		return nil, err
	}
	if len(values) != 6 {
		return nil, fmt.Errorf("getProposal returned %d values", len(values))
	}

	params := *abi.ConvertType(values[2], new(proposalParamsOut)).(*proposalParamsOut)
	tally := *abi.ConvertType(values[3], new(tallyOut)).(*tallyOut)
	actions := *abi.ConvertType(values[4], new([]actionTuple)).(*[]actionTuple)

	if params.StartDate == 0 && params.EndDate == 0 {
		return nil, fmt.Errorf("proposal %d: %w", id, domain.ErrNotFound)
	}

	p := &domain.Proposal{
		ID:        id,
		Open:      values[0].(bool),
		Executed:  values[1].(bool),
		StartDate: time.Unix(int64(params.StartDate), 0),
		EndDate:   time.Unix(int64(params.EndDate), 0),
		Tally:     domain.Tally{Yes: tally.Yes, No: tally.No, Abstain: tally.Abstain},
		Actions:   make([]domain.RawAction, len(actions)),
	}
	for i, a := range actions {
		p.Actions[i] = domain.RawAction{To: a.To, Value: a.Value, Data: a.Data}
	}
	if metadata := values[5].([]byte); len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &p.Metadata); err != nil {
			c.log.Debug("proposal metadata is not JSON", "id", id, "error", err)
			p.Metadata.Title = string(metadata)
		}
	}
	return p, nil
}

// Balances returns the DAO's native balance followed by each token balance
func (c *Client) Balances(ctx context.Context, tokens []common.Address) ([]domain.Balance, error) {
	if err := c.requireDAO(); err != nil {
		return nil, err
	}
	backend, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}

	balances := make([]domain.Balance, len(tokens)+1)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		amount, err := backend.BalanceAt(gctx, c.dao, nil)
		if err != nil {
			return domain.NetworkError("native balance", err)
		}
		balances[0] = domain.Balance{Symbol: c.nativeSymbol(), Decimals: 18, Amount: amount}
		return nil
	})
	for i, token := range tokens {
		g.Go(func() error {
			b, err := c.tokenBalance(gctx, token)
			if err != nil {
				return fmt.Errorf("token %s: %w", token.Hex(), err)
			}
			balances[i+1] = *b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return balances, nil
}

func (c *Client) tokenBalance(ctx context.Context, token common.Address) (*domain.Balance, error) {
	values, err := c.call(ctx, erc20ABI, token, "balanceOf", c.dao)
	if err != nil {
		return nil, err
	}
	decimals, err := c.Decimals(ctx, token)
	if err != nil {
		return nil, err
	}
	symbol, err := c.Symbol(ctx, token)
	if err != nil {
		return nil, err
	}
	return &domain.Balance{Token: token.Hex(), Symbol: symbol, Decimals: decimals, Amount: values[0].(*big.Int)}, nil
}

func (c *Client) nativeSymbol() string {
	if c.network != nil && c.network.NativeSymbol != "" {
		return c.network.NativeSymbol
	}
	return "ETH"
}

var _ usecase.GovernanceReader = (*Client)(nil)
