package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/govctl/internal/actions"
	"github.com/trebuchet-org/govctl/internal/domain"
	"github.com/trebuchet-org/govctl/internal/domain/config"
	"github.com/trebuchet-org/govctl/internal/txflow"
)

var (
	testAccount = common.HexToAddress("0x5fbdb2315678afecb367f032d93f642f64180aa3")
	testDAO     = common.HexToAddress("0x1000000000000000000000000000000000000001")
	testToken   = common.HexToAddress("0x2000000000000000000000000000000000000002")
	testTxHash  = common.HexToHash("0xabc")
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.RuntimeConfig {
	return &config.RuntimeConfig{
		DAO: &config.DAOConfig{Address: testDAO, Token: testToken, TreasuryTokens: []common.Address{testToken}},
	}
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// tickingClock advances by step on every read.
type tickingClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now
	c.now = c.now.Add(c.step)
	return now
}

type mockWallet struct {
	addr   common.Address
	noKey  bool
	signed []string
}

func (m *mockWallet) Address() (common.Address, error) {
	if m.noKey {
		return common.Address{}, domain.ErrNoWallet
	}
	return m.addr, nil
}

func (m *mockWallet) SignMessage(msg []byte) ([]byte, error) {
	m.signed = append(m.signed, string(msg))
	return []byte{0x01, 0x02}, nil
}

type mockReader struct {
	stamps     []domain.Stamp
	history    domain.ThresholdHistory
	proposals  map[uint64]*domain.Proposal
	balances   []domain.Balance
	stampsErr  error
	balanceErr error
}

func (m *mockReader) Stamps(context.Context, common.Address) ([]domain.Stamp, error) {
	return m.stamps, m.stampsErr
}

func (m *mockReader) ThresholdHistory(context.Context) (domain.ThresholdHistory, error) {
	return m.history, nil
}

func (m *mockReader) Proposal(_ context.Context, id uint64) (*domain.Proposal, error) {
	p, ok := m.proposals[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (m *mockReader) ProposalCount(context.Context) (uint64, error) {
	return uint64(len(m.proposals)), nil
}

func (m *mockReader) Balances(context.Context, []common.Address) ([]domain.Balance, error) {
	return m.balances, m.balanceErr
}

// mockWriter records which transaction was built and lets tests fail Send.
type mockWriter struct {
	mu      sync.Mutex
	calls   []string
	sendErr error
	draft   *domain.ProposalDraft
	att     domain.Attestation
}

func (m *mockWriter) tx(label string) txflow.Transaction {
	m.mu.Lock()
	m.calls = append(m.calls, label)
	m.mu.Unlock()
	return txflow.Transaction{
		Label: label,
		Send: func(context.Context) (common.Hash, error) {
			if m.sendErr != nil {
				return common.Hash{}, m.sendErr
			}
			return testTxHash, nil
		},
		Wait: func(context.Context, common.Hash) error { return nil },
	}
}

func (m *mockWriter) Verify(att domain.Attestation) txflow.Transaction {
	m.att = att
	return m.tx("verify")
}
func (m *mockWriter) Unverify(string) txflow.Transaction { return m.tx("unverify") }
func (m *mockWriter) SubmitProposal(d *domain.ProposalDraft) txflow.Transaction {
	m.draft = d
	return m.tx("create proposal")
}
func (m *mockWriter) Vote(uint64, domain.VoteOption) txflow.Transaction { return m.tx("vote") }
func (m *mockWriter) ClaimReward() txflow.Transaction                  { return m.tx("claim reward") }

type mockVerifyAPI struct {
	resp *domain.VerifyResponse
	err  error
	got  domain.VerifyRequest
}

func (m *mockVerifyAPI) Verify(_ context.Context, req domain.VerifyRequest) (*domain.VerifyResponse, error) {
	m.got = req
	return m.resp, m.err
}

type memPendingStore struct {
	items []domain.PendingVerification
	saves int
}

func (m *memPendingStore) List(context.Context) ([]domain.PendingVerification, error) {
	return append([]domain.PendingVerification(nil), m.items...), nil
}

func (m *memPendingStore) Save(_ context.Context, p []domain.PendingVerification) error {
	m.saves++
	m.items = append([]domain.PendingVerification(nil), p...)
	return nil
}

type mockConfirmer struct {
	answer  bool
	prompts []string
}

func (m *mockConfirmer) Confirm(_ context.Context, prompt string) (bool, error) {
	m.prompts = append(m.prompts, prompt)
	return m.answer, nil
}

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (r *recordingNotifier) Success(msg string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.successes = append(r.successes, msg)
	return ""
}

func (r *recordingNotifier) Error(msg string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, msg)
	return ""
}

type recordingProgress struct {
	NopProgress
	events []ProgressEvent
}

func (r *recordingProgress) OnProgress(_ context.Context, e ProgressEvent) {
	r.events = append(r.events, e)
}

type mockHistory struct {
	pages map[domain.TransferDirection]*domain.TransferPage
	err   error
}

func (m *mockHistory) Transfers(_ context.Context, q domain.TransferQuery) (*domain.TransferPage, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.pages[q.Direction], nil
}

// Codec fakes

type stubMetadata struct{}

func (stubMetadata) Decimals(context.Context, common.Address) (uint8, error) { return 18, nil }
func (stubMetadata) Symbol(context.Context, common.Address) (string, error)  { return "REP", nil }

type stubResolver struct{ err error }

func (s stubResolver) LatestCommit(context.Context, domain.PullRequest) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "0123456789abcdef0123456789abcdef01234567", nil
}

type stubParams struct{}

func (stubParams) ChangeableParameters(context.Context) ([]domain.Parameter, error) {
	return []domain.Parameter{{
		Plugin: "PartialVotingFacet", Name: "minParticipation", Type: "uint32",
		Interface: "IPartialVotingFacet", Setter: "setMinParticipation",
	}}, nil
}

func newTestCodec(t *testing.T, resolverErr error) *actions.Codec {
	t.Helper()
	registry, err := actions.NewRegistry(
		actions.NewMintKind(testToken, stubMetadata{}),
		actions.NewWithdrawKind(stubMetadata{}, "ETH"),
		actions.NewChangeParamKind(stubParams{}),
		actions.NewMergePRKind(stubResolver{err: resolverErr}),
	)
	require.NoError(t, err)
	return actions.NewCodec(registry, discardLogger())
}

var errBoom = errors.New("boom")
