package actions

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/govctl/internal/domain"
)

const (
	erc20Interface = "IERC20"
	transferMethod = "transfer(address,uint256)"

	nativeDecimals = 18
)

// WithdrawKind moves native coin or ERC20 tokens out of the treasury.
type WithdrawKind struct {
	metadata     TokenMetadata
	nativeSymbol string
}

// NewWithdrawKind creates the withdraw kind.
func NewWithdrawKind(metadata TokenMetadata, nativeSymbol string) *WithdrawKind {
	if nativeSymbol == "" {
		nativeSymbol = "ETH"
	}
	return &WithdrawKind{metadata: metadata, nativeSymbol: nativeSymbol}
}

func (k *WithdrawKind) Name() domain.ActionName { return domain.ActionWithdrawAssets }

func (k *WithdrawKind) Empty() domain.Action { return &domain.WithdrawAssets{} }

func (k *WithdrawKind) Methods(context.Context) ([]MethodRef, error) {
	return []MethodRef{
		{Interface: erc20Interface, Method: transferMethod},
		{},
	}, nil
}

func (k *WithdrawKind) Encode(ctx context.Context, action domain.Action) (*domain.EncodedAction, error) {
	w, ok := action.(*domain.WithdrawAssets)
	if !ok {
		return nil, fmt.Errorf("withdraw kind cannot encode %T", action)
	}

	var errs fieldErrors
	recipient, err := ValidateAddress(strings.TrimSpace(w.Recipient))
	if err != nil {
		errs = append(errs, domain.NewFieldError("recipient", "invalid address"))
	}

	var token *common.Address
	if t := strings.TrimSpace(w.Token); t != "" {
		addr, err := ValidateAddress(t)
		if err != nil {
			errs = append(errs, domain.NewFieldError("token", "invalid address"))
		} else {
			token = &addr
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	decimals := uint8(nativeDecimals)
	if token != nil {
		decimals, err = k.metadata.Decimals(ctx, *token)
		if err != nil {
			return nil, domain.NewFieldError("token", "could not fetch token decimals")
		}
	}

	amount, err := ParseAmount(w.Amount, decimals)
	if err != nil {
		return nil, domain.NewFieldError("amount", "invalid amount")
	}
	if amount.Sign() == 0 {
		return nil, domain.NewFieldError("amount", "amount must be greater than zero")
	}

	if token == nil {
		return &domain.EncodedAction{To: &recipient, Value: amount}, nil
	}
	return &domain.EncodedAction{
		Interface: erc20Interface,
		Method:    transferMethod,
		Params:    []any{recipient, amount},
		To:        token,
	}, nil
}

func (k *WithdrawKind) Describe(ctx context.Context, encoded *domain.EncodedAction) (*Description, error) {
	var (
		recipient common.Address
		amount    *big.Int
		symbol    = k.nativeSymbol
		decimals  = uint8(nativeDecimals)
		fields    []Field
	)

	if encoded.Method == "" {
		if encoded.To == nil || encoded.Value == nil {
			return nil, fmt.Errorf("value transfer without recipient or value")
		}
		recipient, amount = *encoded.To, encoded.Value
	} else {
		if encoded.To == nil || len(encoded.Params) != 2 {
			return nil, fmt.Errorf("malformed token transfer")
		}
		var ok bool
		if recipient, ok = encoded.Params[0].(common.Address); !ok {
			return nil, fmt.Errorf("transfer recipient has type %T", encoded.Params[0])
		}
		if amount, ok = encoded.Params[1].(*big.Int); !ok {
			return nil, fmt.Errorf("transfer amount has type %T", encoded.Params[1])
		}
		token := *encoded.To
		var err error
		if decimals, err = k.metadata.Decimals(ctx, token); err != nil {
			return nil, fmt.Errorf("failed to fetch token decimals: %w", err)
		}
		if symbol, err = k.metadata.Symbol(ctx, token); err != nil {
			symbol = token.Hex()
		}
		fields = append(fields, Field{Label: "Token", Value: token.Hex()})
	}

	formatted := FormatAmount(amount, decimals) + " " + symbol
	fields = append([]Field{
		{Label: "Recipient", Value: recipient.Hex()},
		{Label: "Amount", Value: formatted},
	}, fields...)

	return &Description{
		Name:    k.Name(),
		Title:   "Withdraw assets",
		Summary: fmt.Sprintf("Withdraw %s to %s", formatted, recipient.Hex()),
		Fields:  fields,
	}, nil
}
