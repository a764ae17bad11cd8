package explorer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/govctl/internal/domain"
	"github.com/trebuchet-org/govctl/internal/domain/config"
)

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

func newRPCServer(t *testing.T, result string, seen *[]transferParams) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, transfersMethod, req.Method)
		require.Len(t, req.Params, 1)

		var p transferParams
		require.NoError(t, json.Unmarshal(req.Params[0], &p))
		*seen = append(*seen, p)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":` + string(req.ID) + `,"result":` + result + `}`))
	}))
}

func TestClient_Transfers(t *testing.T) {
	var seen []transferParams
	server := newRPCServer(t, `{
		"transfers": [
			{"blockNum":"0x10","hash":"0xaa","from":"0x01","to":"0x02","value":1.5,"asset":"ETH","category":"external",
			 "metadata":{"blockTimestamp":"2024-03-01T12:00:00.000Z"}},
			{"blockNum":"0x11","hash":"0xbb","from":"0x03","to":"0x02","value":null,"asset":"NFT","category":"erc721",
			 "metadata":{"blockTimestamp":""}}
		],
		"pageKey": "next-1"
	}`, &seen)
	defer server.Close()

	c := NewClient(server.URL)
	defer c.Close()

	page, err := c.Transfers(context.Background(), domain.TransferQuery{
		Address:    "0x02",
		Direction:  domain.Deposits,
		Categories: []domain.TransferCategory{domain.CategoryExternal, domain.CategoryERC721},
		PageKey:    "start",
		MaxCount:   20,
	})
	require.NoError(t, err)

	require.Len(t, seen, 1)
	assert.Equal(t, "0x02", seen[0].ToAddress)
	assert.Empty(t, seen[0].FromAddress)
	assert.Equal(t, "0x14", seen[0].MaxCount)
	assert.Equal(t, "start", seen[0].PageKey)
	assert.Equal(t, []string{"external", "erc721"}, seen[0].Category)
	assert.True(t, seen[0].WithMetadata)

	assert.Equal(t, "next-1", page.NextPageKey)
	require.Len(t, page.Transfers, 2)
	first := page.Transfers[0]
	assert.Equal(t, uint64(16), first.BlockNum)
	assert.Equal(t, "1.5", first.Value)
	assert.Equal(t, domain.CategoryExternal, first.Category)
	assert.True(t, first.Timestamp.Equal(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)))
	assert.Empty(t, page.Transfers[1].Value)
	assert.True(t, page.Transfers[1].Timestamp.IsZero())
}

func TestClient_WithdrawalsUseFromAddress(t *testing.T) {
	var seen []transferParams
	server := newRPCServer(t, `{"transfers":[]}`, &seen)
	defer server.Close()

	page, err := NewClient(server.URL).Transfers(context.Background(), domain.TransferQuery{
		Address:   "0x02",
		Direction: domain.Withdrawals,
	})
	require.NoError(t, err)
	assert.Empty(t, page.Transfers)
	assert.Empty(t, page.NextPageKey)
	assert.Equal(t, "0x02", seen[0].FromAddress)
	assert.Len(t, seen[0].Category, len(domain.AllTransferCategories()))
}

func TestClient_NoExplorer(t *testing.T) {
	c := ProvideClient(&config.RuntimeConfig{})
	_, err := c.Transfers(context.Background(), domain.TransferQuery{Address: "0x02"})
	assert.ErrorIs(t, err, ErrNoExplorer)
	assert.Equal(t, domain.KindPrecondition, domain.KindOf(err))
}
