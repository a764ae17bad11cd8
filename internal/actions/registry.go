// Package actions converts proposal action forms into contract calls and back.
package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/govctl/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TokenMetadata resolves ERC20 metadata.
type TokenMetadata interface {
	Decimals(ctx context.Context, token common.Address) (uint8, error)
	Symbol(ctx context.Context, token common.Address) (string, error)
}

// CommitResolver finds the head commit of a pull request.
type CommitResolver interface {
	LatestCommit(ctx context.Context, pr domain.PullRequest) (string, error)
}

// ParameterSource lists the plugin parameters governance may change.
type ParameterSource interface {
	ChangeableParameters(ctx context.Context) ([]domain.Parameter, error)
}

// Field is one labelled line of a description.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Description is the human-readable summary of an encoded action.
type Description struct {
	Name    domain.ActionName `json:"name"`
	Title   string            `json:"title"`
	Summary string            `json:"summary"`
	Fields  []Field           `json:"fields"`
}

// MethodRef is a facet method a kind produces. An empty Method is a plain value transfer.
type MethodRef struct {
	Interface string
	Method    string
}

// Kind is the registry entry for one action variant.
type Kind interface {
	Name() domain.ActionName
	// Empty returns the zero form used to start a new action.
	Empty() domain.Action
	// Encode validates the form and produces the contract call.
	Encode(ctx context.Context, action domain.Action) (*domain.EncodedAction, error)
	// Describe is the reverse of Encode, for display.
	Describe(ctx context.Context, encoded *domain.EncodedAction) (*Description, error)
	// Methods lists every call Encode can produce.
	Methods(ctx context.Context) ([]MethodRef, error)
}

// Registry maps action names to kinds.
type Registry struct {
	kinds map[domain.ActionName]Kind
	order []domain.ActionName
}

// NewRegistry builds a registry. Every domain action name must have exactly one kind.
func NewRegistry(kinds ...Kind) (*Registry, error) {
	r := &Registry{kinds: make(map[domain.ActionName]Kind, len(kinds))}
	for _, k := range kinds {
		if _, dup := r.kinds[k.Name()]; dup {
			return nil, fmt.Errorf("action kind %q registered twice", k.Name())
		}
		r.kinds[k.Name()] = k
		r.order = append(r.order, k.Name())
	}
	for _, name := range domain.AllActionNames() {
		if _, ok := r.kinds[name]; !ok {
			return nil, fmt.Errorf("no kind registered for action %q", name)
		}
	}
	return r, nil
}

// Get returns the kind for name.
func (r *Registry) Get(name domain.ActionName) (Kind, error) {
	k, ok := r.kinds[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownAction, name)
	}
	return k, nil
}

// Names returns registered names in registration order.
func (r *Registry) Names() []domain.ActionName {
	return append([]domain.ActionName(nil), r.order...)
}

// Empty returns a fresh empty form for name.
func (r *Registry) Empty(name domain.ActionName) (domain.Action, error) {
	k, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return k.Empty(), nil
}

// KindFor finds the kind that produces encoded.
func (r *Registry) KindFor(ctx context.Context, encoded *domain.EncodedAction) (Kind, error) {
	for _, name := range r.order {
		k := r.kinds[name]
		methods, err := k.Methods(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list methods of %s: %w", name, err)
		}
		for _, m := range methods {
			if m.Method == encoded.Method && (m.Method == "" || m.Interface == encoded.Interface) {
				return k, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s.%s", domain.ErrUnknownAction, encoded.Interface, encoded.Method)
}

// DisplayName turns "mint_tokens" into "Mint Tokens".
func DisplayName(name domain.ActionName) string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(name), "_", " "))
}
