package domain

import (
	"bytes"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ActionName tags each proposal action variant.
type ActionName string

const (
	ActionMintTokens     ActionName = "mint_tokens"
	ActionWithdrawAssets ActionName = "withdraw_assets"
	ActionChangeParam    ActionName = "change_param"
	ActionMergePR        ActionName = "merge_pr"
)

// Action is the form representation of one proposal step. The variant set is
// closed: only types in this package implement it.
type Action interface {
	Name() ActionName
	isAction()
}

// MintRecipient is one wallet/amount pair of a mint action.
type MintRecipient struct {
	To     string `json:"to" yaml:"to"`
	Amount string `json:"amount" yaml:"amount"`
}

// MintTokens mints governance tokens to a list of wallets.
type MintTokens struct {
	Recipients []MintRecipient `json:"recipients" yaml:"recipients"`
}

// WithdrawAssets moves treasury funds to a recipient. An empty Token means the native coin.
type WithdrawAssets struct {
	Recipient string `json:"recipient" yaml:"recipient"`
	Token     string `json:"token,omitempty" yaml:"token,omitempty"`
	Amount    string `json:"amount" yaml:"amount"`
}

// ChangeParam sets a plugin parameter to a new value.
type ChangeParam struct {
	Plugin    string `json:"plugin" yaml:"plugin"`
	Parameter string `json:"parameter" yaml:"parameter"`
	Value     string `json:"value" yaml:"value"`
}

// MergePR merges a GitHub pull request at its latest commit.
type MergePR struct {
	URL string `json:"url" yaml:"url"`
}

func (*MintTokens) Name() ActionName     { return ActionMintTokens }
func (*WithdrawAssets) Name() ActionName { return ActionWithdrawAssets }
func (*ChangeParam) Name() ActionName    { return ActionChangeParam }
func (*MergePR) Name() ActionName        { return ActionMergePR }

func (*MintTokens) isAction()     {}
func (*WithdrawAssets) isAction() {}
func (*ChangeParam) isAction()    {}
func (*MergePR) isAction()        {}

// EncodedAction is the contract-ready form of a proposal action.
// Interface names the facet, Method is a full signature like "transfer(address,uint256)".
// To is nil when the call targets the DAO diamond itself. An empty Method is a plain value transfer.
type EncodedAction struct {
	Interface string          `json:"interface"`
	Method    string          `json:"method"`
	Params    []any           `json:"params"`
	To        *common.Address `json:"to,omitempty"`
	Value     *big.Int        `json:"value,omitempty"`
}

// Selector returns the 4-byte function selector, or nil for value transfers.
func (a *EncodedAction) Selector() []byte {
	if a.Method == "" {
		return nil
	}
	return crypto.Keccak256([]byte(a.Method))[:4]
}

// Calldata returns selector followed by the ABI-packed params.
func (a *EncodedAction) Calldata() ([]byte, error) {
	if a.Method == "" {
		return nil, nil
	}
	args, err := MethodArguments(a.Method)
	if err != nil {
		return nil, err
	}
	packed, err := args.Pack(a.Params...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", a.Method, err)
	}
	return append(a.Selector(), packed...), nil
}

// Raw converts the action to the on-chain (to, value, data) triple.
// dao is used as the target when the action doesn't name one.
func (a *EncodedAction) Raw(dao common.Address) (RawAction, error) {
	data, err := a.Calldata()
	if err != nil {
		return RawAction{}, err
	}
	raw := RawAction{To: dao, Value: new(big.Int), Data: data}
	if a.To != nil {
		raw.To = *a.To
	}
	if a.Value != nil {
		raw.Value = new(big.Int).Set(a.Value)
	}
	return raw, nil
}

// MethodName returns the function name part of a signature.
func (a *EncodedAction) MethodName() string {
	if i := strings.IndexByte(a.Method, '('); i >= 0 {
		return a.Method[:i]
	}
	return a.Method
}

// RawAction is the action triple stored in an on-chain proposal.
type RawAction struct {
	To    common.Address `json:"to"`
	Value *big.Int       `json:"value"`
	Data  []byte         `json:"data"`
}

// MethodArguments parses the argument list of a signature such as
// "multimint(address[],uint256[])". Tuple arguments are not supported.
func MethodArguments(signature string) (abi.Arguments, error) {
	open := strings.IndexByte(signature, '(')
	if open <= 0 || !strings.HasSuffix(signature, ")") {
		return nil, fmt.Errorf("malformed method signature %q", signature)
	}
	inner := signature[open+1 : len(signature)-1]
	if inner == "" {
		return abi.Arguments{}, nil
	}
	var args abi.Arguments
	for _, typ := range strings.Split(inner, ",") {
		if strings.ContainsAny(typ, "()") {
			return nil, fmt.Errorf("tuple arguments are not supported in %q", signature)
		}
		typ = strings.TrimSpace(typ)
		if err := checkIntWidth(typ); err != nil {
			return nil, fmt.Errorf("bad argument type %q in %q: %w", typ, signature, err)
		}
		t, err := abi.NewType(typ, "", nil)
		if err != nil {
			return nil, fmt.Errorf("bad argument type %q in %q: %w", typ, signature, err)
		}
		args = append(args, abi.Argument{Type: t})
	}
	return args, nil
}

// CanonicalType expands the uint and int aliases to their 256-bit names, as
// selectors are computed over canonical types.
func CanonicalType(typ string) string {
	base, suffix := typ, ""
	if i := strings.IndexByte(typ, '['); i >= 0 {
		base, suffix = typ[:i], typ[i:]
	}
	switch base {
	case "uint", "int":
		return base + "256" + suffix
	}
	return typ
}

// checkIntWidth rejects integer widths outside 8..256 in steps of 8.
// abi.NewType accepts any width.
func checkIntWidth(typ string) error {
	base := typ
	if i := strings.IndexByte(typ, '['); i >= 0 {
		base = typ[:i]
	}
	var rest string
	switch {
	case strings.HasPrefix(base, "uint"):
		rest = base[4:]
	case strings.HasPrefix(base, "int"):
		rest = base[3:]
	default:
		return nil
	}
	bits, err := strconv.Atoi(rest)
	if err != nil || bits < 8 || bits > 256 || bits%8 != 0 {
		return fmt.Errorf("invalid integer width %q", base)
	}
	return nil
}

// DecodeCalldata unpacks calldata produced for signature.
func DecodeCalldata(signature string, data []byte) ([]any, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("calldata too short")
	}
	selector := crypto.Keccak256([]byte(signature))[:4]
	if !bytes.Equal(selector, data[:4]) {
		return nil, fmt.Errorf("selector mismatch for %s", signature)
	}
	args, err := MethodArguments(signature)
	if err != nil {
		return nil, err
	}
	return args.Unpack(data[4:])
}

// AllActionNames lists every action variant.
func AllActionNames() []ActionName {
	return []ActionName{ActionMintTokens, ActionWithdrawAssets, ActionChangeParam, ActionMergePR}
}

// NewAction returns an empty form for name.
func NewAction(name ActionName) (Action, error) {
	switch name {
	case ActionMintTokens:
		return &MintTokens{Recipients: []MintRecipient{}}, nil
	case ActionWithdrawAssets:
		return &WithdrawAssets{}, nil
	case ActionChangeParam:
		return &ChangeParam{}, nil
	case ActionMergePR:
		return &MergePR{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAction, name)
}
