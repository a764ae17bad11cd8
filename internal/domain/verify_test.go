package domain

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHash = "0x1111111111111111111111111111111111111111111111111111111111111111"

func TestVerificationMessage(t *testing.T) {
	addr := common.HexToAddress("0x5fbdb2315678afecb367f032d93f642f64180aa3")
	assert.Equal(t, "0x5FbDB2315678afecb367f032d93F642f64180aa3|github|abc", VerificationMessage(addr, "github", "abc"))
}

func TestParseAttestationURL(t *testing.T) {
	raw := "https://dao.example.org/verification/finish?address=0x5fbdb2315678afecb367f032d93f642f64180aa3" +
		"&hash=" + testHash + "&timestamp=1700000000&providerId=github&sig=0xdeadbeef"

	att, err := ParseAttestationURL(raw)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x5fbdb2315678afecb367f032d93f642f64180aa3"), att.Address)
	assert.Equal(t, common.HexToHash(testHash), att.UserHash)
	assert.Equal(t, uint64(1700000000), att.Timestamp)
	assert.Equal(t, "github", att.ProviderID)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, []byte(att.Signature))
}

func TestParseAttestationURL_Invalid(t *testing.T) {
	base := "https://x/?address=0x5fbdb2315678afecb367f032d93f642f64180aa3&providerId=github&sig=0x01"
	tests := []struct {
		name string
		url  string
	}{
		{"missing hash", base + "&timestamp=1"},
		{"short hash", base + "&timestamp=1&hash=0x11"},
		{"bad timestamp", base + "&timestamp=soon&hash=" + testHash},
		{"bad address", "https://x/?address=0x12&providerId=g&sig=0x01&timestamp=1&hash=" + testHash},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAttestationURL(tt.url)
			require.Error(t, err)
			assert.Equal(t, KindValidation, KindOf(err))
		})
	}
}
