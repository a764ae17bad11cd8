package actions

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/trebuchet-org/govctl/internal/domain"
)

const (
	pullRequestInterface = "IGithubPullRequestFacet"
	mergeMethod          = "merge(string,string,string,string)"

	commitFetchFailed = "could not fetch latest commit hash"
)

// MergePRKind merges a GitHub pull request pinned to its current head commit.
type MergePRKind struct {
	resolver CommitResolver
}

// NewMergePRKind creates the merge-PR kind.
func NewMergePRKind(resolver CommitResolver) *MergePRKind {
	return &MergePRKind{resolver: resolver}
}

func (k *MergePRKind) Name() domain.ActionName { return domain.ActionMergePR }

func (k *MergePRKind) Empty() domain.Action { return &domain.MergePR{} }

func (k *MergePRKind) Methods(context.Context) ([]MethodRef, error) {
	return []MethodRef{{Interface: pullRequestInterface, Method: mergeMethod}}, nil
}

func (k *MergePRKind) Encode(ctx context.Context, action domain.Action) (*domain.EncodedAction, error) {
	m, ok := action.(*domain.MergePR)
	if !ok {
		return nil, fmt.Errorf("merge PR kind cannot encode %T", action)
	}
	pr, err := ParsePullRequestURL(m.URL)
	if err != nil {
		return nil, domain.NewFieldError("url", err.Error())
	}

	sha, err := k.resolver.LatestCommit(ctx, pr)
	if err != nil || sha == "" {
		return nil, domain.NewFieldError("url", commitFetchFailed)
	}

	return &domain.EncodedAction{
		Interface: pullRequestInterface,
		Method:    mergeMethod,
		Params:    []any{pr.Owner, pr.Repo, strconv.Itoa(pr.Number), sha},
	}, nil
}

func (k *MergePRKind) Describe(_ context.Context, encoded *domain.EncodedAction) (*Description, error) {
	if len(encoded.Params) != 4 {
		return nil, fmt.Errorf("merge expects 4 params, got %d", len(encoded.Params))
	}
	strs := make([]string, 4)
	for i, p := range encoded.Params {
		s, ok := p.(string)
		if !ok {
			return nil, fmt.Errorf("merge param %d has type %T", i, p)
		}
		strs[i] = s
	}
	owner, repo, number, sha := strs[0], strs[1], strs[2], strs[3]
	short := sha
	if len(short) > 7 {
		short = short[:7]
	}

	return &Description{
		Name:    k.Name(),
		Title:   "Merge pull request",
		Summary: fmt.Sprintf("Merge %s/%s#%s at %s", owner, repo, number, short),
		Fields: []Field{
			{Label: "URL", Value: fmt.Sprintf("https://github.com/%s/%s/pull/%s", owner, repo, number)},
			{Label: "Commit", Value: sha},
		},
	}, nil
}

// ParsePullRequestURL parses https://github.com/<owner>/<repo>/pull/<number>.
func ParsePullRequestURL(raw string) (domain.PullRequest, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host != "github.com" {
		return domain.PullRequest{}, fmt.Errorf("invalid pull request url")
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 4 || parts[2] != "pull" || parts[0] == "" || parts[1] == "" {
		return domain.PullRequest{}, fmt.Errorf("invalid pull request url")
	}
	n, err := strconv.Atoi(parts[3])
	if err != nil || n <= 0 {
		return domain.PullRequest{}, fmt.Errorf("invalid pull request number")
	}
	return domain.PullRequest{Owner: parts[0], Repo: parts[1], Number: n}, nil
}
