package fs

import (
	"context"
	"path/filepath"

	"github.com/trebuchet-org/govctl/internal/domain/config"
	"github.com/trebuchet-org/govctl/internal/usecase"
)

type tokenFile struct {
	GitHub string `json:"github,omitempty"`
}

// TokenStoreAdapter keeps API tokens in a private, owner-only file
type TokenStoreAdapter struct {
	path string
}

// NewTokenStoreAdapter creates a new TokenStoreAdapter
func NewTokenStoreAdapter(cfg *config.RuntimeConfig) *TokenStoreAdapter {
	return &TokenStoreAdapter{path: filepath.Join(cfg.DataDir, "priv", "tokens.json")}
}

// GitHubToken returns the stored token, or "" when none is set
func (s *TokenStoreAdapter) GitHubToken(_ context.Context) (string, error) {
	var f tokenFile
	if _, err := readJSON(s.path, &f); err != nil {
		return "", err
	}
	return f.GitHub, nil
}

// SetGitHubToken stores token. An empty token clears it.
func (s *TokenStoreAdapter) SetGitHubToken(_ context.Context, token string) error {
	var f tokenFile
	if _, err := readJSON(s.path, &f); err != nil {
		return err
	}
	f.GitHub = token
	return writeJSON(s.path, f, 0700, 0600)
}

var _ usecase.TokenStore = (*TokenStoreAdapter)(nil)
