package verifyapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/trebuchet-org/govctl/internal/domain"
	"github.com/trebuchet-org/govctl/internal/domain/config"
	"github.com/trebuchet-org/govctl/internal/usecase"
)

// DefaultURL is used when no verify_api_url is configured
const DefaultURL = "https://verify.secureseco.org"

// Client talks to the off-chain verification service
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for baseURL
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// ProvideClient creates a client from the runtime configuration
func ProvideClient(cfg *config.RuntimeConfig) *Client {
	url := cfg.VerifyAPIURL
	if url == "" {
		url = DefaultURL
	}
	return NewClient(url, nil)
}

// Verify posts a signed verification request
func (c *Client) Verify(ctx context.Context, req domain.VerifyRequest) (*domain.VerifyResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/verify", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	// The verifier answers rejected requests with a 4xx and the usual body.
	if resp.StatusCode >= http.StatusInternalServerError {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(data))
	}

	var out domain.VerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		out.OK = false
	}
	return &out, nil
}

var _ usecase.VerifyAPI = (*Client)(nil)
