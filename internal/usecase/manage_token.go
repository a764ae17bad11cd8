package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/trebuchet-org/govctl/internal/domain"
)

// SetGitHubToken stores the token used to read pull request heads of
// private repositories
type SetGitHubToken struct {
	store TokenStore
}

// NewSetGitHubToken creates a new SetGitHubToken use case
func NewSetGitHubToken(store TokenStore) *SetGitHubToken {
	return &SetGitHubToken{store: store}
}

// Run saves token. An empty token clears the stored one.
func (uc *SetGitHubToken) Run(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if strings.ContainsAny(token, " \t\n") {
		return domain.ValidationError("set github token", errors.New("token must not contain whitespace"))
	}
	return uc.store.SetGitHubToken(ctx, token)
}
