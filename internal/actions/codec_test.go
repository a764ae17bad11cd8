package actions

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/govctl/internal/domain"
)

var (
	govToken = common.HexToAddress("0x1000000000000000000000000000000000000001")
	usdc     = common.HexToAddress("0x2000000000000000000000000000000000000002")
	dao      = common.HexToAddress("0xda00000000000000000000000000000000000000")
)

type fakeMetadata struct {
	decimals map[common.Address]uint8
	symbols  map[common.Address]string
	err      error
}

func (f *fakeMetadata) Decimals(_ context.Context, token common.Address) (uint8, error) {
	if f.err != nil {
		return 0, f.err
	}
	d, ok := f.decimals[token]
	if !ok {
		return 0, errors.New("unknown token")
	}
	return d, nil
}

func (f *fakeMetadata) Symbol(_ context.Context, token common.Address) (string, error) {
	s, ok := f.symbols[token]
	if !ok {
		return "", errors.New("unknown token")
	}
	return s, nil
}

type fakeResolver struct {
	mu     sync.Mutex
	delays map[int]time.Duration
	fail   map[int]bool
	done   []int
}

func (f *fakeResolver) LatestCommit(ctx context.Context, pr domain.PullRequest) (string, error) {
	if d := f.delays[pr.Number]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	f.mu.Lock()
	f.done = append(f.done, pr.Number)
	f.mu.Unlock()
	if f.fail[pr.Number] {
		return "", errors.New("github unavailable")
	}
	return "deadbeefcafe" + string(rune('0'+pr.Number)), nil
}

type fakeParams struct {
	params []domain.Parameter
	err    error
}

func (f *fakeParams) ChangeableParameters(context.Context) ([]domain.Parameter, error) {
	return f.params, f.err
}

func testParams() []domain.Parameter {
	return []domain.Parameter{
		{Plugin: "PartialVotingFacet", Name: "minParticipation", Type: "uint32", Interface: "IPartialVotingFacet", Setter: "setMinParticipation"},
		{Plugin: "PartialVotingFacet", Name: "votingMode", Type: "uint8", Interface: "IPartialVotingFacet", Setter: "setVotingMode"},
		{Plugin: "RewardMultiplierFacet", Name: "offset", Type: "int8", Interface: "IRewardMultiplierFacet", Setter: "setOffset"},
		{Plugin: "DAOReferenceFacet", Name: "treasury", Type: "address", Interface: "IDAOReferenceFacet", Setter: "setTreasury"},
	}
}

func newTestCodec(t *testing.T, resolver *fakeResolver) *Codec {
	t.Helper()
	meta := &fakeMetadata{
		decimals: map[common.Address]uint8{govToken: 18, usdc: 6},
		symbols:  map[common.Address]string{govToken: "SECOIN", usdc: "USDC"},
	}
	if resolver == nil {
		resolver = &fakeResolver{}
	}
	registry, err := NewRegistry(
		NewMintKind(govToken, meta),
		NewWithdrawKind(meta, "MATIC"),
		NewChangeParamKind(&fakeParams{params: testParams()}),
		NewMergePRKind(resolver),
	)
	require.NoError(t, err)
	return NewCodec(registry, nil)
}

func prAction(n int) *domain.MergePR {
	return &domain.MergePR{URL: "https://github.com/secureseco/dao/pull/" + string(rune('0'+n))}
}

func TestNewRegistry(t *testing.T) {
	meta := &fakeMetadata{}

	_, err := NewRegistry(NewMintKind(govToken, meta), NewWithdrawKind(meta, ""))
	assert.ErrorContains(t, err, "no kind registered")

	_, err = NewRegistry(NewMintKind(govToken, meta), NewMintKind(govToken, meta))
	assert.ErrorContains(t, err, "registered twice")

	codec := newTestCodec(t, nil)
	assert.Equal(t, domain.AllActionNames(), codec.Registry().Names())

	_, err = codec.Registry().Get("burn_tokens")
	assert.ErrorIs(t, err, domain.ErrUnknownAction)
}

func TestCodec_EncodeAll_PreservesOrder(t *testing.T) {
	resolver := &fakeResolver{delays: map[int]time.Duration{2: 50 * time.Millisecond}}
	codec := newTestCodec(t, resolver)

	encoded, err := codec.EncodeAll(context.Background(), []domain.Action{prAction(1), prAction(2), prAction(3)})
	require.NoError(t, err)
	require.Len(t, encoded, 3)

	for i, enc := range encoded {
		assert.Equal(t, string(rune('1'+i)), enc.Params[2], "action %d out of order", i)
	}
	// the slow action really did finish last
	assert.Equal(t, 2, resolver.done[len(resolver.done)-1])
}

func TestCodec_EncodeAll_PartialFailureBlocksSubmission(t *testing.T) {
	resolver := &fakeResolver{fail: map[int]bool{2: true}}
	codec := newTestCodec(t, resolver)

	encoded, err := codec.EncodeAll(context.Background(), []domain.Action{prAction(1), prAction(2), prAction(3)})
	assert.Nil(t, encoded)

	var batch *domain.BatchError
	require.ErrorAs(t, err, &batch)
	require.Len(t, batch.Errors, 1)
	assert.Equal(t, 1, batch.Errors[0].Index)
	assert.Equal(t, "url", batch.Errors[0].Field)
	assert.Equal(t, "could not fetch latest commit hash", batch.Errors[0].Message)
	assert.Equal(t, domain.KindPartialBatch, domain.KindOf(err))
}

func TestCodec_EncodeAll_CollectsEveryFailure(t *testing.T) {
	codec := newTestCodec(t, nil)

	_, err := codec.EncodeAll(context.Background(), []domain.Action{
		&domain.MintTokens{Recipients: []domain.MintRecipient{
			{To: "0x3000000000000000000000000000000000000003", Amount: "1"},
			{To: "0x3000000000000000000000000000000000000003", Amount: "2"},
			{To: "nope", Amount: "x"},
		}},
		&domain.WithdrawAssets{Recipient: "0x4000000000000000000000000000000000000004", Amount: "1"},
		&domain.ChangeParam{Plugin: "PartialVotingFacet", Parameter: "votingMode", Value: "256"},
		nil,
	})

	var batch *domain.BatchError
	require.ErrorAs(t, err, &batch)

	fields := map[int][]string{}
	for _, fe := range batch.Errors {
		fields[fe.Index] = append(fields[fe.Index], fe.Field)
	}
	assert.ElementsMatch(t, []string{"recipients[1].to", "recipients[2].to", "recipients[2].amount"}, fields[0])
	assert.Empty(t, fields[1])
	assert.Equal(t, []string{"value"}, fields[2])
	assert.Len(t, fields[3], 1)
}

func TestMintKind_Encode(t *testing.T) {
	codec := newTestCodec(t, nil)
	kind, _ := codec.Registry().Get(domain.ActionMintTokens)
	ctx := context.Background()

	t.Run("empty list", func(t *testing.T) {
		_, err := kind.Encode(ctx, kind.Empty())
		var fe *domain.FieldError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "recipients", fe.Field)
	})

	t.Run("duplicates differ only in case", func(t *testing.T) {
		_, err := kind.Encode(ctx, &domain.MintTokens{Recipients: []domain.MintRecipient{
			{To: "0xabcdefabcdefabcdefabcdefabcdefabcdefabcd", Amount: "1"},
			{To: "0xABCDEFABCDEFABCDEFABCDEFABCDEFABCDEFABCD", Amount: "1"},
		}})
		assert.ErrorContains(t, err, "duplicate address")
	})

	t.Run("zero amount", func(t *testing.T) {
		_, err := kind.Encode(ctx, &domain.MintTokens{Recipients: []domain.MintRecipient{
			{To: "0xabcdefabcdefabcdefabcdefabcdefabcdefabcd", Amount: "0"},
		}})
		assert.ErrorContains(t, err, "greater than zero")
	})

	t.Run("valid", func(t *testing.T) {
		enc, err := kind.Encode(ctx, &domain.MintTokens{Recipients: []domain.MintRecipient{
			{To: "0xabcdefabcdefabcdefabcdefabcdefabcdefabcd", Amount: "1.5"},
			{To: "0x1111111111111111111111111111111111111111", Amount: "2"},
		}})
		require.NoError(t, err)
		assert.Equal(t, "IERC20MultiMinterFacet", enc.Interface)
		assert.Equal(t, "multimint(address[],uint256[])", enc.Method)
		amounts := enc.Params[1].([]*big.Int)
		assert.Equal(t, "1500000000000000000", amounts[0].String())
		assert.Equal(t, "2000000000000000000", amounts[1].String())
	})

	t.Run("decimals lookup fails", func(t *testing.T) {
		broken := NewMintKind(govToken, &fakeMetadata{err: errors.New("rpc down")})
		_, err := broken.Encode(ctx, &domain.MintTokens{Recipients: []domain.MintRecipient{
			{To: "0xabcdefabcdefabcdefabcdefabcdefabcdefabcd", Amount: "1"},
		}})
		assert.ErrorContains(t, err, "could not fetch token decimals")
	})
}

func TestWithdrawKind_Encode(t *testing.T) {
	codec := newTestCodec(t, nil)
	kind, _ := codec.Registry().Get(domain.ActionWithdrawAssets)
	ctx := context.Background()
	recipient := "0x4000000000000000000000000000000000000004"

	native, err := kind.Encode(ctx, &domain.WithdrawAssets{Recipient: recipient, Amount: "0.5"})
	require.NoError(t, err)
	assert.Empty(t, native.Method)
	assert.Equal(t, "500000000000000000", native.Value.String())
	assert.Equal(t, common.HexToAddress(recipient), *native.To)

	token, err := kind.Encode(ctx, &domain.WithdrawAssets{Recipient: recipient, Token: usdc.Hex(), Amount: "12.3456789"})
	require.NoError(t, err)
	assert.Equal(t, "transfer(address,uint256)", token.Method)
	assert.Equal(t, usdc, *token.To)
	assert.Equal(t, "12345678", token.Params[1].(*big.Int).String())

	_, err = kind.Encode(ctx, &domain.WithdrawAssets{Recipient: "0x12", Token: "bad", Amount: "1"})
	var many fieldErrors
	require.ErrorAs(t, err, &many)
	assert.Len(t, many, 2)
}

func TestChangeParamKind_Encode(t *testing.T) {
	codec := newTestCodec(t, nil)
	kind, _ := codec.Registry().Get(domain.ActionChangeParam)
	ctx := context.Background()

	tests := []struct {
		name      string
		action    *domain.ChangeParam
		wantField string
	}{
		{"uint8 max", &domain.ChangeParam{Plugin: "PartialVotingFacet", Parameter: "votingMode", Value: "255"}, ""},
		{"uint8 overflow", &domain.ChangeParam{Plugin: "PartialVotingFacet", Parameter: "votingMode", Value: "256"}, "value"},
		{"uint8 negative", &domain.ChangeParam{Plugin: "PartialVotingFacet", Parameter: "votingMode", Value: "-1"}, "value"},
		{"int8 min", &domain.ChangeParam{Plugin: "RewardMultiplierFacet", Parameter: "offset", Value: "-128"}, ""},
		{"int8 underflow", &domain.ChangeParam{Plugin: "RewardMultiplierFacet", Parameter: "offset", Value: "-129"}, "value"},
		{"address", &domain.ChangeParam{Plugin: "DAOReferenceFacet", Parameter: "treasury", Value: usdc.Hex()}, ""},
		{"bad address", &domain.ChangeParam{Plugin: "DAOReferenceFacet", Parameter: "treasury", Value: "0xzz"}, "value"},
		{"unknown plugin", &domain.ChangeParam{Plugin: "Nope", Parameter: "x", Value: "1"}, "plugin"},
		{"unknown parameter", &domain.ChangeParam{Plugin: "PartialVotingFacet", Parameter: "x", Value: "1"}, "parameter"},
		{"missing plugin", &domain.ChangeParam{Parameter: "x", Value: "1"}, "plugin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := kind.Encode(ctx, tt.action)
			if tt.wantField == "" {
				require.NoError(t, err)
				_, err := enc.Calldata()
				assert.NoError(t, err)
				return
			}
			var fe *domain.FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.wantField, fe.Field)
		})
	}

	t.Run("parameter list unavailable", func(t *testing.T) {
		broken := NewChangeParamKind(&fakeParams{err: errors.New("sdk down")})
		_, err := broken.Encode(ctx, &domain.ChangeParam{Plugin: "a", Parameter: "b", Value: "1"})
		assert.ErrorContains(t, err, "could not fetch changeable parameters")
	})
}

func TestChangeParamKind_BareIntAlias(t *testing.T) {
	kind := NewChangeParamKind(&fakeParams{params: []domain.Parameter{
		{Plugin: "CounterFacet", Name: "n", Type: "uint", Interface: "ICounterFacet", Setter: "setN"},
	}})
	ctx := context.Background()

	enc, err := kind.Encode(ctx, &domain.ChangeParam{Plugin: "CounterFacet", Parameter: "n", Value: "5"})
	require.NoError(t, err)
	assert.Equal(t, "setN(uint256)", enc.Method)

	data, err := enc.Calldata()
	require.NoError(t, err)
	assert.Equal(t, crypto.Keccak256([]byte("setN(uint256)"))[:4], data[:4])
	assert.Len(t, data, 4+32)

	desc, err := kind.Describe(ctx, enc)
	require.NoError(t, err)
	assert.NotEmpty(t, desc.Title)
}

func TestParsePullRequestURL(t *testing.T) {
	pr, err := ParsePullRequestURL("https://github.com/secureseco/dao/pull/42")
	require.NoError(t, err)
	assert.Equal(t, domain.PullRequest{Owner: "secureseco", Repo: "dao", Number: 42}, pr)

	pr, err = ParsePullRequestURL("https://github.com/secureseco/dao/pull/42/files")
	require.NoError(t, err)
	assert.Equal(t, 42, pr.Number)

	for _, bad := range []string{"", "https://gitlab.com/a/b/pull/1", "https://github.com/a/b/issues/1", "https://github.com/a/b/pull/x", "https://github.com/a/b/pull/0"} {
		_, err := ParsePullRequestURL(bad)
		assert.Error(t, err, bad)
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	codec := newTestCodec(t, nil)
	ctx := context.Background()

	list := []domain.Action{
		&domain.MintTokens{Recipients: []domain.MintRecipient{{To: "0xabcdefabcdefabcdefabcdefabcdefabcdefabcd", Amount: "10"}}},
		&domain.WithdrawAssets{Recipient: "0x4000000000000000000000000000000000000004", Token: usdc.Hex(), Amount: "1.25"},
		&domain.WithdrawAssets{Recipient: "0x4000000000000000000000000000000000000004", Amount: "2"},
		&domain.ChangeParam{Plugin: "PartialVotingFacet", Parameter: "minParticipation", Value: "250000"},
		prAction(7),
	}
	encoded, err := codec.EncodeAll(ctx, list)
	require.NoError(t, err)

	var interpreted []*domain.EncodedAction
	for _, enc := range encoded {
		raw, err := enc.Raw(dao)
		require.NoError(t, err)
		back, err := codec.Interpret(ctx, raw, dao)
		require.NoError(t, err)
		assert.Equal(t, enc.Interface, back.Interface)
		assert.Equal(t, enc.Method, back.Method)
		interpreted = append(interpreted, back)
	}

	descriptions, err := codec.DescribeAll(ctx, interpreted)
	require.NoError(t, err)
	require.Len(t, descriptions, 5)

	assert.Equal(t, "Mint 10 SECOIN to 1 wallet(s)", descriptions[0].Summary)
	assert.Equal(t, "Withdraw 1.25 USDC to 0x4000000000000000000000000000000000000004", descriptions[1].Summary)
	assert.Equal(t, "Withdraw 2 MATIC to 0x4000000000000000000000000000000000000004", descriptions[2].Summary)
	assert.Equal(t, "Set PartialVotingFacet.minParticipation to 250000", descriptions[3].Summary)
	assert.Equal(t, "Merge secureseco/dao#7 at deadbee", descriptions[4].Summary)

	for i, d := range descriptions {
		assert.Equal(t, list[i].Name(), d.Name)
	}
}

func TestCodec_InterpretUnknown(t *testing.T) {
	codec := newTestCodec(t, nil)
	_, err := codec.Interpret(context.Background(), domain.RawAction{To: dao, Value: big.NewInt(0), Data: []byte{1, 2, 3, 4}}, dao)
	assert.ErrorIs(t, err, domain.ErrUnknownAction)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Mint Tokens", DisplayName(domain.ActionMintTokens))
	assert.Equal(t, "Merge Pr", DisplayName(domain.ActionMergePR))
}
