package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/govctl/internal/domain"
	"github.com/trebuchet-org/govctl/internal/txflow"
)

const day = 86400

var testNow = time.Unix(100*day, 0)

func TestGetVerificationStatus(t *testing.T) {
	reader := &mockReader{
		stamps: []domain.Stamp{
			{ProviderID: "proofofhumanity", VerifiedAt: []uint64{10 * day}},
			{ProviderID: "github", VerifiedAt: []uint64{50 * day, 95 * day}},
		},
		history: domain.ThresholdHistory{{EffectiveFrom: 0, ValidityDays: 30}},
	}
	pending := &memPendingStore{items: []domain.PendingVerification{
		{Address: testAccount.Hex(), ProviderID: "github", RecordedAt: testNow.Unix() - 60},
		{Address: testAccount.Hex(), ProviderID: "github", RecordedAt: testNow.Unix() - 7200},
		{Address: testDAO.Hex(), ProviderID: "github", RecordedAt: testNow.Unix()},
	}}

	uc := NewGetVerificationStatus(reader, pending, &mockWallet{addr: testAccount}, testConfig(), fixedClock{testNow}, discardLogger())
	result, err := uc.Run(context.Background(), common.Address{})
	require.NoError(t, err)

	assert.Equal(t, testAccount, result.Account)
	require.Len(t, result.Providers, 2)
	assert.Equal(t, "github", result.Providers[0].ProviderID)
	assert.True(t, result.Providers[0].Status.Verified)
	assert.Equal(t, int64(25*day), *result.Providers[0].Status.TimeLeft)
	assert.True(t, result.Providers[1].Status.Expired)
	assert.True(t, result.Verified())

	_, ok := result.Provider("twitter")
	assert.False(t, ok)

	require.Len(t, result.Pending, 1)
	assert.Equal(t, testNow.Unix()-60, result.Pending[0].RecordedAt)
}

func TestGetVerificationStatus_SingleClockRead(t *testing.T) {
	boundary := int64(40 * day)
	reader := &mockReader{
		stamps:  []domain.Stamp{{ProviderID: "github", VerifiedAt: []uint64{10 * day}}},
		history: domain.ThresholdHistory{{EffectiveFrom: 0, ValidityDays: 30}},
	}
	clock := &tickingClock{now: time.Unix(boundary-1, 0), step: time.Second}

	uc := NewGetVerificationStatus(reader, nil, nil, testConfig(), clock, discardLogger())
	result, err := uc.Run(context.Background(), testAccount)
	require.NoError(t, err)

	assert.Equal(t, boundary-1, result.Now.Unix())
	require.Len(t, result.Providers, 1)
	assert.True(t, result.Providers[0].Status.Verified)
	assert.Equal(t, int64(1), *result.Providers[0].Status.TimeLeft)
}

func TestGetVerificationStatus_NoAccount(t *testing.T) {
	uc := NewGetVerificationStatus(&mockReader{}, nil, &mockWallet{noKey: true}, testConfig(), fixedClock{testNow}, discardLogger())
	_, err := uc.Run(context.Background(), common.Address{})
	assert.ErrorIs(t, err, domain.ErrNoWallet)
	assert.Equal(t, domain.KindPrecondition, domain.KindOf(err))
}

func TestGetVerificationStatus_ReaderFailure(t *testing.T) {
	uc := NewGetVerificationStatus(&mockReader{stampsErr: errBoom}, nil, nil, testConfig(), fixedClock{testNow}, discardLogger())
	_, err := uc.Run(context.Background(), testAccount)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, domain.KindNetwork, domain.KindOf(err))
}

func newVerifyAccount(api *mockVerifyAPI, store *memPendingStore, writer *mockWriter, notifier *recordingNotifier) (*VerifyAccount, *mockWallet) {
	wallet := &mockWallet{addr: testAccount}
	uc := NewVerifyAccount(wallet, api, store, writer, nil, fixedClock{testNow}, NopProgress{}, notifier, discardLogger())
	return uc, wallet
}

func TestVerifyAccount_Start(t *testing.T) {
	api := &mockVerifyAPI{resp: &domain.VerifyResponse{OK: true, URL: "https://github.com/login/oauth"}}
	store := &memPendingStore{items: []domain.PendingVerification{
		{Address: testAccount.Hex(), ProviderID: "github", RecordedAt: testNow.Unix() - 100},
		{Address: testAccount.Hex(), ProviderID: "proofofhumanity", RecordedAt: testNow.Unix() - 4000},
	}}
	uc, wallet := newVerifyAccount(api, store, &mockWriter{}, &recordingNotifier{})

	result, err := uc.Start(context.Background(), "GitHub")
	require.NoError(t, err)

	require.Len(t, wallet.signed, 1)
	assert.Equal(t, domain.VerificationMessage(testAccount, "github", api.got.Nonce), wallet.signed[0])
	assert.Equal(t, "0x0102", api.got.Signature)
	assert.Equal(t, "github", api.got.ProviderID)
	assert.NotEmpty(t, api.got.Nonce)

	assert.True(t, result.Replaced)
	assert.Equal(t, "https://github.com/login/oauth", result.URL)
	require.Len(t, store.items, 1, "expired record pruned and previous github record replaced")
	assert.Equal(t, testNow.Unix(), store.items[0].RecordedAt)
}

func TestVerifyAccount_StartErrors(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		api      *mockVerifyAPI
		kind     domain.ErrorKind
	}{
		{"unknown provider", "twitter", &mockVerifyAPI{}, domain.KindValidation},
		{"missing provider", "", &mockVerifyAPI{}, domain.KindValidation},
		{"api down", "github", &mockVerifyAPI{err: errBoom}, domain.KindNetwork},
		{"rejected", "github", &mockVerifyAPI{resp: &domain.VerifyResponse{OK: false, Message: "already verified"}}, domain.KindPrecondition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memPendingStore{}
			uc, _ := newVerifyAccount(tt.api, store, &mockWriter{}, &recordingNotifier{})
			_, err := uc.Start(context.Background(), tt.provider)
			require.Error(t, err)
			assert.Equal(t, tt.kind, domain.KindOf(err))
			assert.Zero(t, store.saves)
		})
	}
}

func TestVerifyAccount_Complete(t *testing.T) {
	store := &memPendingStore{items: []domain.PendingVerification{
		{Address: testAccount.Hex(), ProviderID: "github", RecordedAt: testNow.Unix()},
	}}
	writer := &mockWriter{}
	notifier := &recordingNotifier{}
	uc, _ := newVerifyAccount(&mockVerifyAPI{}, store, writer, notifier)

	callback := "https://dao.example.org/finish?address=" + testAccount.Hex() +
		"&hash=0x1111111111111111111111111111111111111111111111111111111111111111" +
		"&timestamp=1700000000&providerId=github&sig=0xbeef"

	result, err := uc.Complete(context.Background(), callback)
	require.NoError(t, err)
	assert.Equal(t, txflow.Confirmed, result.State)
	assert.Equal(t, testTxHash, result.TxHash)
	assert.Equal(t, "github", writer.att.ProviderID)
	assert.Empty(t, store.items)
	assert.Equal(t, []string{"verify confirmed"}, notifier.successes)
}

func TestVerifyAccount_CompleteWrongWallet(t *testing.T) {
	writer := &mockWriter{}
	uc, _ := newVerifyAccount(&mockVerifyAPI{}, &memPendingStore{}, writer, &recordingNotifier{})

	callback := "https://x/?address=" + testDAO.Hex() +
		"&hash=0x1111111111111111111111111111111111111111111111111111111111111111" +
		"&timestamp=1&providerId=github&sig=0x01"
	_, err := uc.Complete(context.Background(), callback)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.Empty(t, writer.calls)
}

func TestUnverifyAccount(t *testing.T) {
	reader := &mockReader{stamps: []domain.Stamp{{ProviderID: "github", VerifiedAt: []uint64{1}}}}

	t.Run("confirmed", func(t *testing.T) {
		writer := &mockWriter{}
		confirmer := &mockConfirmer{answer: true}
		uc := NewUnverifyAccount(reader, writer, &mockWallet{addr: testAccount}, confirmer, NopProgress{}, NopNotifier{})
		result, err := uc.Run(context.Background(), UnverifyOptions{ProviderID: "github"})
		require.NoError(t, err)
		assert.Equal(t, txflow.Confirmed, result.State)
		assert.Len(t, confirmer.prompts, 1)
	})

	t.Run("declined", func(t *testing.T) {
		writer := &mockWriter{}
		uc := NewUnverifyAccount(reader, writer, &mockWallet{addr: testAccount}, &mockConfirmer{}, NopProgress{}, NopNotifier{})
		_, err := uc.Run(context.Background(), UnverifyOptions{ProviderID: "github"})
		assert.ErrorIs(t, err, ErrCancelled)
		assert.Empty(t, writer.calls)
	})

	t.Run("no stamp", func(t *testing.T) {
		uc := NewUnverifyAccount(reader, &mockWriter{}, &mockWallet{addr: testAccount}, nil, NopProgress{}, NopNotifier{})
		_, err := uc.Run(context.Background(), UnverifyOptions{ProviderID: "proofofhumanity", Yes: true})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Equal(t, domain.KindPrecondition, domain.KindOf(err))
	})
}

func TestListPendingVerifications(t *testing.T) {
	store := &memPendingStore{items: []domain.PendingVerification{
		{Address: testAccount.Hex(), ProviderID: "github", RecordedAt: testNow.Unix() - 3600},
		{Address: testAccount.Hex(), ProviderID: "proofofhumanity", RecordedAt: testNow.Unix() - 3601},
		{Address: testDAO.Hex(), ProviderID: "github", RecordedAt: testNow.Unix() - 3601},
	}}
	uc := NewListPendingVerifications(store, &mockWallet{addr: testAccount}, testConfig(), fixedClock{testNow})

	result, err := uc.Run(context.Background(), common.Address{})
	require.NoError(t, err)
	require.Len(t, result.Pending, 1, "exactly one hour old is still pending")
	assert.Equal(t, "github", result.Pending[0].ProviderID)
	assert.Equal(t, 1, result.Dropped)
	assert.Len(t, store.items, 1)
}

func TestClaimReward(t *testing.T) {
	history := domain.ThresholdHistory{{EffectiveFrom: 0, ValidityDays: 30}}

	t.Run("verified", func(t *testing.T) {
		reader := &mockReader{history: history, stamps: []domain.Stamp{{ProviderID: "github", VerifiedAt: []uint64{99 * day}}}}
		progress := &recordingProgress{}
		uc := NewClaimReward(reader, &mockWriter{}, &mockWallet{addr: testAccount}, fixedClock{testNow}, progress, NopNotifier{})
		result, err := uc.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "claim reward", result.Label)

		require.Len(t, progress.events, 3)
		assert.True(t, progress.events[0].Spinner)
		assert.False(t, progress.events[2].Spinner)
	})

	t.Run("expired", func(t *testing.T) {
		reader := &mockReader{history: history, stamps: []domain.Stamp{{ProviderID: "github", VerifiedAt: []uint64{1 * day}}}}
		writer := &mockWriter{}
		uc := NewClaimReward(reader, writer, &mockWallet{addr: testAccount}, fixedClock{testNow}, NopProgress{}, NopNotifier{})
		_, err := uc.Run(context.Background())
		assert.Equal(t, domain.KindPrecondition, domain.KindOf(err))
		assert.Empty(t, writer.calls)
	})

	t.Run("send fails", func(t *testing.T) {
		reader := &mockReader{history: history, stamps: []domain.Stamp{{ProviderID: "github", VerifiedAt: []uint64{99 * day}}}}
		notifier := &recordingNotifier{}
		uc := NewClaimReward(reader, &mockWriter{sendErr: errBoom}, &mockWallet{addr: testAccount}, fixedClock{testNow}, NopProgress{}, notifier)
		result, err := uc.Run(context.Background())
		assert.ErrorIs(t, err, errBoom)
		assert.Equal(t, txflow.Failed, result.State)
		assert.Len(t, notifier.errors, 1)
	})
}
