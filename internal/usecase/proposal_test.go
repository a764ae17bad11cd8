package usecase

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/govctl/internal/domain"
	"github.com/trebuchet-org/govctl/internal/domain/config"
	"github.com/trebuchet-org/govctl/internal/txflow"
)

const proposalFile = `
title: Fund the audit
summary: Pay the auditors and merge their fixes
duration: 48h
actions:
  - name: withdraw_assets
    recipient: "0x4000000000000000000000000000000000000004"
    token: "0x2000000000000000000000000000000000000002"
    amount: "2.5"
  - name: merge_pr
    url: https://github.com/secureseco/dao/pull/7
`

func newCreateProposal(t *testing.T, resolverErr error, writer *mockWriter, confirmer Confirmer) *CreateProposal {
	return NewCreateProposal(newTestCodec(t, resolverErr), writer, testConfig(), confirmer,
		fixedClock{testNow}, NopProgress{}, NopNotifier{}, discardLogger())
}

func TestCreateProposal_PrepareAndSubmit(t *testing.T) {
	writer := &mockWriter{}
	confirmer := &mockConfirmer{answer: true}
	uc := newCreateProposal(t, nil, writer, confirmer)

	preview, err := uc.Prepare(context.Background(), []byte(proposalFile))
	require.NoError(t, err)

	draft := preview.Draft
	assert.Equal(t, "Fund the audit", draft.Metadata.Title)
	assert.Equal(t, testNow, draft.StartDate)
	assert.Equal(t, testNow.Add(48*time.Hour), draft.EndDate)
	require.Len(t, draft.Actions, 2)
	assert.Equal(t, testToken, draft.Actions[0].To)
	assert.Equal(t, testDAO, draft.Actions[1].To, "facet calls target the DAO")

	require.Len(t, preview.Actions.Descriptions, 2)
	assert.Equal(t, "Merge secureseco/dao#7 at 0123456", preview.Actions.Descriptions[1].Summary)

	result, err := uc.Submit(context.Background(), preview, CreateProposalOptions{})
	require.NoError(t, err)
	assert.Equal(t, txflow.Confirmed, result.State)
	assert.Same(t, draft, writer.draft)
	assert.Len(t, confirmer.prompts, 1)
}

func TestCreateProposal_PartialFailureBlocksSubmission(t *testing.T) {
	writer := &mockWriter{}
	uc := newCreateProposal(t, errBoom, writer, nil)

	_, err := uc.Prepare(context.Background(), []byte(proposalFile))
	require.Error(t, err)

	var batch *domain.BatchError
	require.True(t, errors.As(err, &batch))
	require.Len(t, batch.Errors, 1)
	assert.Equal(t, 1, batch.Errors[0].Index)
	assert.Equal(t, "url", batch.Errors[0].Field)
	assert.Equal(t, "could not fetch latest commit hash", batch.Errors[0].Message)
	assert.Equal(t, domain.KindPartialBatch, domain.KindOf(err))
	assert.Empty(t, writer.calls)
}

func TestCreateProposal_DryRunAndCancel(t *testing.T) {
	writer := &mockWriter{}
	uc := newCreateProposal(t, nil, writer, &mockConfirmer{answer: false})
	preview, err := uc.Prepare(context.Background(), []byte(proposalFile))
	require.NoError(t, err)

	result, err := uc.Submit(context.Background(), preview, CreateProposalOptions{DryRun: true})
	assert.NoError(t, err)
	assert.Nil(t, result)

	_, err = uc.Submit(context.Background(), preview, CreateProposalOptions{})
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Empty(t, writer.calls)
}

func TestCreateProposal_NoDAO(t *testing.T) {
	uc := NewCreateProposal(newTestCodec(t, nil), &mockWriter{}, &config.RuntimeConfig{}, nil,
		fixedClock{testNow}, NopProgress{}, NopNotifier{}, discardLogger())
	_, err := uc.Encode(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrNoDAO)
}

func TestShowProposal(t *testing.T) {
	codec := newTestCodec(t, nil)
	create := newCreateProposal(t, nil, &mockWriter{}, nil)
	encoded, err := create.Encode(context.Background(), []domain.Action{
		&domain.MintTokens{Recipients: []domain.MintRecipient{{To: testAccount.Hex(), Amount: "3"}}},
	})
	require.NoError(t, err)

	unknown := domain.RawAction{To: testDAO, Value: big.NewInt(0), Data: []byte{0xde, 0xad, 0xbe, 0xef}}
	reader := &mockReader{proposals: map[uint64]*domain.Proposal{
		4: {ID: 4, Open: true, Actions: []domain.RawAction{encoded.Raw[0], unknown}},
	}}

	view, err := NewShowProposal(reader, codec, testConfig()).Run(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, view.Actions, 2)

	require.NotNil(t, view.Actions[0].Description)
	assert.Equal(t, "Mint 3 REP to 1 wallet(s)", view.Actions[0].Description.Summary)
	assert.Nil(t, view.Actions[1].Description)
	assert.Error(t, view.Actions[1].Err)

	_, err = NewShowProposal(reader, codec, testConfig()).Run(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListProposals(t *testing.T) {
	reader := &mockReader{proposals: map[uint64]*domain.Proposal{
		0: {ID: 0}, 1: {ID: 1}, 2: {ID: 2},
	}}
	list, err := NewListProposals(reader).Run(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, uint64(2), list[0].ID)
	assert.Equal(t, uint64(1), list[1].ID)
}

func TestVoteProposal(t *testing.T) {
	reader := &mockReader{proposals: map[uint64]*domain.Proposal{
		1: {ID: 1, Open: true},
		2: {ID: 2, Open: false},
	}}

	tests := []struct {
		name   string
		opts   VoteOptions
		kind   domain.ErrorKind
		wantOK bool
	}{
		{"open", VoteOptions{ProposalID: 1, Option: domain.VoteYes, Yes: true}, 0, true},
		{"closed", VoteOptions{ProposalID: 2, Option: domain.VoteNo, Yes: true}, domain.KindPrecondition, false},
		{"no option", VoteOptions{ProposalID: 1, Yes: true}, domain.KindValidation, false},
		{"missing", VoteOptions{ProposalID: 9, Option: domain.VoteAbstain, Yes: true}, domain.KindNetwork, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := &mockWriter{}
			uc := NewVoteProposal(reader, writer, &mockWallet{addr: testAccount}, nil, NopProgress{}, NopNotifier{})
			_, err := uc.Run(context.Background(), tt.opts)
			if tt.wantOK {
				require.NoError(t, err)
				assert.Equal(t, []string{"vote"}, writer.calls)
				return
			}
			assert.Equal(t, tt.kind, domain.KindOf(err))
			assert.Empty(t, writer.calls)
		})
	}
}

func TestTreasuryOverview(t *testing.T) {
	reader := &mockReader{balances: []domain.Balance{{Symbol: "ETH", Decimals: 18, Amount: big.NewInt(5)}}}
	history := &mockHistory{pages: map[domain.TransferDirection]*domain.TransferPage{
		domain.Deposits:    {Transfers: []domain.Transfer{{Hash: "0x1"}}, NextPageKey: "next"},
		domain.Withdrawals: {},
	}}

	result, err := NewTreasuryOverview(reader, history, testConfig(), discardLogger()).Run(context.Background(), TreasuryOptions{})
	require.NoError(t, err)

	balances, err := result.Balances.Get()
	require.NoError(t, err)
	assert.Len(t, balances, 1)

	deposits, err := result.Deposits.Get()
	require.NoError(t, err)
	assert.Equal(t, "next", deposits.NextPageKey)
	assert.True(t, result.Withdrawals.IsOk())
}

func TestTreasuryOverview_PartialFailure(t *testing.T) {
	reader := &mockReader{balanceErr: errBoom}
	history := &mockHistory{pages: map[domain.TransferDirection]*domain.TransferPage{domain.Deposits: {}, domain.Withdrawals: {}}}

	result, err := NewTreasuryOverview(reader, history, testConfig(), discardLogger()).Run(context.Background(), TreasuryOptions{})
	require.NoError(t, err)
	assert.True(t, result.Balances.IsErr())
	assert.ErrorIs(t, result.Balances.Error(), errBoom)
	assert.True(t, result.Deposits.IsOk())
}
