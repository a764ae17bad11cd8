// Package github resolves pull request heads from the git remote.
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/trebuchet-org/govctl/internal/actions"
	"github.com/trebuchet-org/govctl/internal/domain"
	"github.com/trebuchet-org/govctl/internal/usecase"
)

// ErrPullRequestNotFound is returned when the remote advertises no head for the PR
var ErrPullRequestNotFound = errors.New("pull request not found")

// lister advertises the references of a remote without cloning it
type lister func(ctx context.Context, url string, auth transport.AuthMethod) ([]*plumbing.Reference, error)

func listRemote(ctx context.Context, url string, auth transport.AuthMethod) ([]*plumbing.Reference, error) {
	remote := git.NewRemote(memory.NewStorage(), &gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{url},
	})
	return remote.ListContext(ctx, &git.ListOptions{Auth: auth})
}

// CommitResolver finds the head commit of a pull request by listing
// refs/pull/<n>/head on the repository remote.
type CommitResolver struct {
	tokens usecase.TokenStore
	log    *slog.Logger
	list   lister
}

// NewCommitResolver creates a resolver. Private repositories need a token in tokens.
func NewCommitResolver(tokens usecase.TokenStore, log *slog.Logger) *CommitResolver {
	return &CommitResolver{tokens: tokens, log: log, list: listRemote}
}

// LatestCommit returns the hex SHA of the pull request head
func (r *CommitResolver) LatestCommit(ctx context.Context, pr domain.PullRequest) (string, error) {
	var auth transport.AuthMethod
	if r.tokens != nil {
		token, err := r.tokens.GitHubToken(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to read GitHub token: %w", err)
		}
		if token != "" {
			auth = &http.BasicAuth{Username: "x-access-token", Password: token}
		}
	}

	refs, err := r.list(ctx, pr.CloneURL(), auth)
	if err != nil {
		return "", domain.NetworkError("list remote", err)
	}

	want := plumbing.ReferenceName(fmt.Sprintf("refs/pull/%d/head", pr.Number))
	for _, ref := range refs {
		if ref.Name() == want {
			r.log.Debug("resolved pull request head", "pr", pr.URL(), "sha", ref.Hash().String())
			return ref.Hash().String(), nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrPullRequestNotFound, pr.URL())
}

var _ actions.CommitResolver = (*CommitResolver)(nil)
