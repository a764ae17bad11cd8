package fs

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/trebuchet-org/govctl/internal/domain"
	"github.com/trebuchet-org/govctl/internal/domain/config"
	"github.com/trebuchet-org/govctl/internal/usecase"
)

// PendingStoreAdapter keeps started verifications in pending.json
type PendingStoreAdapter struct {
	mu   sync.Mutex
	path string
}

// NewPendingStoreAdapter creates a new PendingStoreAdapter
func NewPendingStoreAdapter(cfg *config.RuntimeConfig) *PendingStoreAdapter {
	return &PendingStoreAdapter{path: filepath.Join(cfg.DataDir, "pending.json")}
}

// List returns every stored entry, for all accounts
func (s *PendingStoreAdapter) List(_ context.Context) ([]domain.PendingVerification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pending []domain.PendingVerification
	if _, err := readJSON(s.path, &pending); err != nil {
		return nil, err
	}
	return pending, nil
}

// Save replaces the stored entries
func (s *PendingStoreAdapter) Save(_ context.Context, pending []domain.PendingVerification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pending == nil {
		pending = []domain.PendingVerification{}
	}
	return writeJSON(s.path, pending, 0755, 0644)
}

var _ usecase.PendingStore = (*PendingStoreAdapter)(nil)
