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
	mintInterface = "IERC20MultiMinterFacet"
	mintMethod    = "multimint(address[],uint256[])"
)

// MintKind mints governance tokens to several wallets in one call.
type MintKind struct {
	token    common.Address
	metadata TokenMetadata
}

// NewMintKind creates the mint kind for the DAO's governance token.
func NewMintKind(token common.Address, metadata TokenMetadata) *MintKind {
	return &MintKind{token: token, metadata: metadata}
}

func (k *MintKind) Name() domain.ActionName { return domain.ActionMintTokens }

func (k *MintKind) Empty() domain.Action {
	return &domain.MintTokens{Recipients: []domain.MintRecipient{}}
}

func (k *MintKind) Methods(context.Context) ([]MethodRef, error) {
	return []MethodRef{{Interface: mintInterface, Method: mintMethod}}, nil
}

func (k *MintKind) Encode(ctx context.Context, action domain.Action) (*domain.EncodedAction, error) {
	mint, ok := action.(*domain.MintTokens)
	if !ok {
		return nil, fmt.Errorf("mint kind cannot encode %T", action)
	}
	if len(mint.Recipients) == 0 {
		return nil, domain.NewFieldError("recipients", "at least one recipient is required")
	}

	decimals, err := k.metadata.Decimals(ctx, k.token)
	if err != nil {
		return nil, domain.NewFieldError("recipients", "could not fetch token decimals")
	}

	var errs fieldErrors
	seen := make(map[string]int, len(mint.Recipients))
	addresses := make([]common.Address, 0, len(mint.Recipients))
	amounts := make([]*big.Int, 0, len(mint.Recipients))

	for i, r := range mint.Recipients {
		toField := fmt.Sprintf("recipients[%d].to", i)
		amountField := fmt.Sprintf("recipients[%d].amount", i)

		addr, err := ValidateAddress(strings.TrimSpace(r.To))
		if err != nil {
			errs = append(errs, domain.NewFieldError(toField, "invalid address"))
		} else {
			key := strings.ToLower(addr.Hex())
			if first, dup := seen[key]; dup {
				errs = append(errs, domain.NewFieldError(toField, fmt.Sprintf("duplicate address (also recipient %d)", first)))
			}
			seen[key] = i
		}

		amount, err := ParseAmount(r.Amount, decimals)
		switch {
		case err != nil:
			errs = append(errs, domain.NewFieldError(amountField, "invalid amount"))
		case amount.Sign() == 0:
			errs = append(errs, domain.NewFieldError(amountField, "amount must be greater than zero"))
		}

		addresses = append(addresses, addr)
		amounts = append(amounts, amount)
	}
	if len(errs) > 0 {
		return nil, errs
	}

	return &domain.EncodedAction{
		Interface: mintInterface,
		Method:    mintMethod,
		Params:    []any{addresses, amounts},
	}, nil
}

func (k *MintKind) Describe(ctx context.Context, encoded *domain.EncodedAction) (*Description, error) {
	if len(encoded.Params) != 2 {
		return nil, fmt.Errorf("multimint expects 2 params, got %d", len(encoded.Params))
	}
	addresses, ok := encoded.Params[0].([]common.Address)
	if !ok {
		return nil, fmt.Errorf("multimint addresses have type %T", encoded.Params[0])
	}
	amounts, ok := encoded.Params[1].([]*big.Int)
	if !ok {
		return nil, fmt.Errorf("multimint amounts have type %T", encoded.Params[1])
	}
	if len(addresses) != len(amounts) {
		return nil, fmt.Errorf("multimint has %d addresses but %d amounts", len(addresses), len(amounts))
	}

	decimals, err := k.metadata.Decimals(ctx, k.token)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch token decimals: %w", err)
	}
	symbol, err := k.metadata.Symbol(ctx, k.token)
	if err != nil {
		symbol = "tokens"
	}

	total := new(big.Int)
	fields := make([]Field, len(addresses))
	for i, addr := range addresses {
		total.Add(total, amounts[i])
		fields[i] = Field{Label: addr.Hex(), Value: FormatAmount(amounts[i], decimals) + " " + symbol}
	}

	return &Description{
		Name:    k.Name(),
		Title:   "Mint tokens",
		Summary: fmt.Sprintf("Mint %s %s to %d wallet(s)", FormatAmount(total, decimals), symbol, len(addresses)),
		Fields:  fields,
	}, nil
}

// fieldErrors reports several invalid fields of one action.
type fieldErrors []*domain.FieldError

func (f fieldErrors) Error() string {
	msgs := make([]string, len(f))
	for i, fe := range f {
		msgs[i] = fe.Error()
	}
	return strings.Join(msgs, "; ")
}
