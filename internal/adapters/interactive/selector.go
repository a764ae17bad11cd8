// Package interactive prompts the user on the terminal.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/govctl/internal/domain/config"
	"github.com/trebuchet-org/govctl/internal/usecase"
)

// ErrNonInteractive is returned when a prompt is needed in non-interactive mode
var ErrNonInteractive = errors.New("interactive selection not available in non-interactive mode")

// SelectorAdapter handles interactive selection and confirmation
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// SelectProvider picks one verification provider
func (s *SelectorAdapter) SelectProvider(_ context.Context, providers []string, prompt string) (string, error) {
	if len(providers) == 0 {
		return "", fmt.Errorf("no providers to select from")
	}
	if len(providers) == 1 {
		return providers[0], nil
	}
	if s.config.NonInteractive {
		return "", ErrNonInteractive
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:     prompt,
		Items:     providers,
		Templates: templates,
		Size:      10,
		Searcher:  fuzzySearcher(providers),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return "", fmt.Errorf("selection cancelled: %w", err)
	}
	return providers[index], nil
}

// Confirm asks a yes/no question. Non-interactive mode never confirms.
func (s *SelectorAdapter) Confirm(_ context.Context, prompt string) (bool, error) {
	if s.config.NonInteractive {
		return false, ErrNonInteractive
	}

	p := promptui.Prompt{Label: prompt, IsConfirm: true}
	if _, err := p.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, fmt.Errorf("prompt failed: %w", err)
	}
	return true, nil
}

// fuzzySearcher matches by substring first, then by fuzzy subsequence
func fuzzySearcher(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		if input == "" {
			return true
		}
		input = strings.ToLower(input)
		item := strings.ToLower(items[index])
		if strings.Contains(item, input) {
			return true
		}
		return len(fuzzy.Find(input, []string{item})) > 0
	}
}

var (
	_ usecase.ProviderSelector = (*SelectorAdapter)(nil)
	_ usecase.Confirmer        = (*SelectorAdapter)(nil)
)
