package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/trebuchet-org/govctl/internal/domain"
	"github.com/trebuchet-org/govctl/internal/verification"
)

// VerifyAccount links an off-chain identity provider account to the wallet
// address. It runs in two halves: Start asks the verifier for a provider
// link, Complete records the verifier's attestation on-chain.
type VerifyAccount struct {
	wallet   Wallet
	api      VerifyAPI
	pending  PendingStore
	writer   GovernanceWriter
	selector ProviderSelector
	clock    Clock
	progress ProgressSink
	notifier Notifier
	log      *slog.Logger
}

// NewVerifyAccount creates a new verify account use case
func NewVerifyAccount(
	wallet Wallet,
	api VerifyAPI,
	pending PendingStore,
	writer GovernanceWriter,
	selector ProviderSelector,
	clock Clock,
	progress ProgressSink,
	notifier Notifier,
	log *slog.Logger,
) *VerifyAccount {
	return &VerifyAccount{
		wallet:   wallet,
		api:      api,
		pending:  pending,
		writer:   writer,
		selector: selector,
		clock:    clock,
		progress: progress,
		notifier: notifier,
		log:      log,
	}
}

// StartVerificationResult contains the verifier's reply
type StartVerificationResult struct {
	Request  domain.VerifyRequest
	URL      string
	Message  string
	Pending  domain.PendingVerification
	Replaced bool // an earlier pending record for the same provider was overwritten
}

// Start signs the verification message and submits it to the verifier.
// An empty provider is chosen interactively.
func (uc *VerifyAccount) Start(ctx context.Context, provider string) (*StartVerificationResult, error) {
	addr, err := walletAddress("start verification", uc.wallet)
	if err != nil {
		return nil, err
	}

	if provider == "" {
		if uc.selector == nil {
			return nil, domain.ValidationError("start verification", errors.New("provider is required"))
		}
		provider, err = uc.selector.SelectProvider(ctx, domain.KnownProviders, "Select a provider to verify with")
		if err != nil {
			return nil, err
		}
	}
	provider = strings.ToLower(provider)
	if !slices.Contains(domain.KnownProviders, provider) {
		return nil, domain.ValidationError("start verification",
			fmt.Errorf("unknown provider %q (known: %s)", provider, strings.Join(domain.KnownProviders, ", ")))
	}

	nonce := uuid.NewString()
	message := domain.VerificationMessage(addr, provider, nonce)
	sig, err := uc.wallet.SignMessage([]byte(message))
	if err != nil {
		return nil, fmt.Errorf("failed to sign verification message: %w", err)
	}

	req := domain.VerifyRequest{
		Address:    addr.Hex(),
		Signature:  hexutil.Encode(sig),
		Nonce:      nonce,
		ProviderID: provider,
	}
	uc.log.Debug("requesting verification", "address", req.Address, "provider", provider, "nonce", nonce)

	resp, err := uc.api.Verify(ctx, req)
	if err != nil {
		return nil, domain.NetworkError("start verification", err)
	}
	if !resp.OK {
		msg := resp.Message
		if msg == "" {
			msg = "verifier rejected the request"
		}
		uc.notifier.Error(msg)
		return nil, domain.PreconditionError("start verification", errors.New(msg))
	}

	record := domain.PendingVerification{
		Address:    addr.Hex(),
		ProviderID: provider,
		RecordedAt: uc.clock.Now().Unix(),
		URL:        resp.URL,
	}
	replaced, err := uc.recordPending(ctx, record)
	if err != nil {
		return nil, err
	}

	return &StartVerificationResult{
		Request:  req,
		URL:      resp.URL,
		Message:  resp.Message,
		Pending:  record,
		Replaced: replaced,
	}, nil
}

// Complete submits the attestation carried by the verifier's callback URL.
func (uc *VerifyAccount) Complete(ctx context.Context, callbackURL string) (*TxResult, error) {
	att, err := domain.ParseAttestationURL(callbackURL)
	if err != nil {
		return nil, err
	}
	addr, err := walletAddress("complete verification", uc.wallet)
	if err != nil {
		return nil, err
	}
	if att.Address != addr {
		return nil, domain.ValidationError("complete verification",
			fmt.Errorf("attestation is for %s but the wallet is %s", att.Address.Hex(), addr.Hex()))
	}

	result, err := runTransaction(ctx, uc.writer.Verify(*att), uc.progress, uc.notifier)
	if err != nil {
		return result, err
	}

	if err := uc.clearPending(ctx, addr, att.ProviderID); err != nil {
		uc.log.Warn("could not clear pending verification", "provider", att.ProviderID, "error", err)
	}
	return result, nil
}

func (uc *VerifyAccount) recordPending(ctx context.Context, record domain.PendingVerification) (bool, error) {
	all, err := uc.pending.List(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load pending verifications: %w", err)
	}
	kept, _ := verification.PrunePending(all, record.RecordedAt)

	replaced := false
	kept = lo.Reject(kept, func(p domain.PendingVerification, _ int) bool {
		same := strings.EqualFold(p.Address, record.Address) && p.ProviderID == record.ProviderID
		replaced = replaced || same
		return same
	})
	kept = append(kept, record)

	if err := uc.pending.Save(ctx, kept); err != nil {
		return false, fmt.Errorf("failed to save pending verification: %w", err)
	}
	return replaced, nil
}

func (uc *VerifyAccount) clearPending(ctx context.Context, addr common.Address, provider string) error {
	all, err := uc.pending.List(ctx)
	if err != nil {
		return err
	}
	kept := lo.Reject(all, func(p domain.PendingVerification, _ int) bool {
		return strings.EqualFold(p.Address, addr.Hex()) && p.ProviderID == provider
	})
	if len(kept) == len(all) {
		return nil
	}
	return uc.pending.Save(ctx, kept)
}
