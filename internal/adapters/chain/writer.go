package chain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/govctl/internal/domain"
	"github.com/trebuchet-org/govctl/internal/txflow"
	"github.com/trebuchet-org/govctl/internal/usecase"
)

// ErrReverted is returned when a mined transaction failed
var ErrReverted = errors.New("transaction reverted")

// Verify records a verifier attestation on-chain
func (c *Client) Verify(att domain.Attestation) txflow.Transaction {
	return c.transaction("verify", "verifyAddress",
		att.Address, [32]byte(att.UserHash), att.Timestamp, att.ProviderID, []byte(att.Signature))
}

// Unverify removes the caller's stamp for providerID
func (c *Client) Unverify(providerID string) txflow.Transaction {
	return c.transaction("unverify", "unverify", providerID)
}

// ClaimReward claims every outstanding verification reward
func (c *Client) ClaimReward() txflow.Transaction {
	return c.transaction("claim reward", "claimVerificationRewardAll")
}

// Vote casts option on a proposal
func (c *Client) Vote(proposalID uint64, option domain.VoteOption) txflow.Transaction {
	return c.transaction("vote", "vote", new(big.Int).SetUint64(proposalID), uint8(option))
}

// SubmitProposal creates a proposal. Metadata is stored as JSON.
func (c *Client) SubmitProposal(draft *domain.ProposalDraft) txflow.Transaction {
	metadata, err := json.Marshal(draft.Metadata)
	if err != nil {
		return failedTransaction("create proposal", fmt.Errorf("failed to encode metadata: %w", err))
	}
	actions := make([]actionTuple, len(draft.Actions))
	for i, a := range draft.Actions {
		value := a.Value
		if value == nil {
			value = new(big.Int)
		}
		actions[i] = actionTuple{To: a.To, Value: value, Data: a.Data}
	}
	return c.transaction("create proposal", "createProposal",
		metadata, actions, new(big.Int), unixSeconds(draft.StartDate), unixSeconds(draft.EndDate))
}

func (c *Client) transaction(label, method string, args ...any) txflow.Transaction {
	data, err := governanceABI.Pack(method, args...)
	if err != nil {
		return failedTransaction(label, fmt.Errorf("failed to pack %s: %w", method, err))
	}
	return txflow.Transaction{
		Label: label,
		Send: func(ctx context.Context) (common.Hash, error) {
			return c.send(ctx, c.dao, data)
		},
		Wait: c.waitMined,
	}
}

func failedTransaction(label string, err error) txflow.Transaction {
	return txflow.Transaction{
		Label: label,
		Send:  func(context.Context) (common.Hash, error) { return common.Hash{}, err },
	}
}

// send signs and broadcasts a call to to with data
func (c *Client) send(ctx context.Context, to common.Address, data []byte) (common.Hash, error) {
	if err := c.requireDAO(); err != nil {
		return common.Hash{}, err
	}
	if c.key == nil {
		return common.Hash{}, domain.PreconditionError("send transaction", domain.ErrNoWallet)
	}
	backend, err := c.connect(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	chainID, err := c.resolveChainID(ctx, backend)
	if err != nil {
		return common.Hash{}, err
	}

	from := crypto.PubkeyToAddress(c.key.PublicKey)
	nonce, err := backend.PendingNonceAt(ctx, from)
	if err != nil {
		return common.Hash{}, domain.NetworkError("get nonce", err)
	}
	gas, err := backend.EstimateGas(ctx, ethereum.CallMsg{From: from, To: &to, Data: data})
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to estimate gas: %w", err)
	}

	tx, err := c.buildTx(ctx, backend, chainID, nonce, to, gas, data)
	if err != nil {
		return common.Hash{}, err
	}

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), c.key)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to sign transaction: %w", err)
	}
	if err := backend.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, domain.NetworkError("send transaction", err)
	}
	c.log.Debug("transaction sent", "hash", signed.Hash().Hex(), "nonce", nonce, "gas", gas)
	return signed.Hash(), nil
}

// buildTx prefers an EIP-1559 transaction and falls back to legacy pricing
// on chains without a base fee.
func (c *Client) buildTx(ctx context.Context, backend Backend, chainID *big.Int, nonce uint64, to common.Address, gas uint64, data []byte) (*types.Transaction, error) {
	head, err := backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, domain.NetworkError("get head", err)
	}

	if head.BaseFee == nil {
		price, err := backend.SuggestGasPrice(ctx)
		if err != nil {
			return nil, domain.NetworkError("suggest gas price", err)
		}
		return types.NewTx(&types.LegacyTx{Nonce: nonce, To: &to, Gas: gas, GasPrice: price, Data: data}), nil
	}

	tip, err := backend.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, domain.NetworkError("suggest gas tip", err)
	}
	feeCap := new(big.Int).Add(new(big.Int).Mul(head.BaseFee, big.NewInt(2)), tip)
	return types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Gas:       gas,
		To:        &to,
		Data:      data,
	}), nil
}

func (c *Client) resolveChainID(ctx context.Context, backend Backend) (*big.Int, error) {
	if c.chainID != nil {
		return c.chainID, nil
	}
	id, err := backend.ChainID(ctx)
	if err != nil {
		return nil, domain.NetworkError("get chain ID", err)
	}
	c.chainID = id
	return id, nil
}

// waitMined polls for the receipt of hash
func (c *Client) waitMined(ctx context.Context, hash common.Hash) error {
	backend, err := c.connect(ctx)
	if err != nil {
		return err
	}
	ticker := time.NewTicker(c.PollInterval)
	defer ticker.Stop()

	for {
		receipt, err := backend.TransactionReceipt(ctx, hash)
		if err == nil {
			if receipt.Status == types.ReceiptStatusFailed {
				return fmt.Errorf("%w: %s", ErrReverted, hash.Hex())
			}
			return nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return domain.NetworkError("get receipt", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func unixSeconds(t time.Time) uint64 {
	if t.IsZero() || t.Unix() < 0 {
		return 0
	}
	return uint64(t.Unix())
}

var _ usecase.GovernanceWriter = (*Client)(nil)
