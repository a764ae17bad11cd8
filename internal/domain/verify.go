package domain

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// VerifyRequest is sent to the off-chain verifier to start linking a provider account.
type VerifyRequest struct {
	Address    string `json:"address"`
	Signature  string `json:"signature"`
	Nonce      string `json:"nonce"`
	ProviderID string `json:"providerId"`
}

// VerifyResponse is the verifier's reply. URL is where the user continues with the provider.
type VerifyResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	URL     string `json:"url"`
}

// VerificationMessage is the text the wallet signs to prove address ownership.
func VerificationMessage(address common.Address, providerID, nonce string) string {
	return fmt.Sprintf("%s|%s|%s", address.Hex(), providerID, nonce)
}

// Attestation is the verifier's signed proof, submitted on-chain to record a stamp.
type Attestation struct {
	Address    common.Address `json:"address"`
	UserHash   common.Hash    `json:"hash"`
	Timestamp  uint64         `json:"timestamp"`
	ProviderID string         `json:"providerId"`
	Signature  hexutil.Bytes  `json:"sig"`
}

// ParseAttestationURL reads an attestation from the verifier's callback URL query.
// Required parameters: address, hash, timestamp, providerId and sig.
func ParseAttestationURL(raw string) (*Attestation, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, ValidationError("parse attestation", err)
	}
	q := u.Query()
	for _, key := range []string{"address", "hash", "timestamp", "providerId", "sig"} {
		if q.Get(key) == "" {
			return nil, ValidationError("parse attestation", fmt.Errorf("missing %q parameter", key))
		}
	}

	if !common.IsHexAddress(q.Get("address")) {
		return nil, ValidationError("parse attestation", ErrInvalidAddress)
	}
	hash, err := hexutil.Decode(q.Get("hash"))
	if err != nil || len(hash) != common.HashLength {
		return nil, ValidationError("parse attestation", fmt.Errorf("invalid user hash"))
	}
	ts, err := strconv.ParseUint(q.Get("timestamp"), 10, 64)
	if err != nil {
		return nil, ValidationError("parse attestation", fmt.Errorf("invalid timestamp: %w", err))
	}
	sig, err := hexutil.Decode(q.Get("sig"))
	if err != nil {
		return nil, ValidationError("parse attestation", fmt.Errorf("invalid signature: %w", err))
	}

	return &Attestation{
		Address:    common.HexToAddress(q.Get("address")),
		UserHash:   common.BytesToHash(hash),
		Timestamp:  ts,
		ProviderID: q.Get("providerId"),
		Signature:  sig,
	}, nil
}
