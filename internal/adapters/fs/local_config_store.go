package fs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/trebuchet-org/govctl/internal/domain/config"
	"github.com/trebuchet-org/govctl/internal/usecase"
)

// LocalConfigStoreAdapter implements LocalConfigRepository using the file system
type LocalConfigStoreAdapter struct {
	configPath string
}

// NewLocalConfigStoreAdapter creates a new LocalConfigStoreAdapter
func NewLocalConfigStoreAdapter(cfg *config.RuntimeConfig) *LocalConfigStoreAdapter {
	return &LocalConfigStoreAdapter{
		configPath: filepath.Join(cfg.DataDir, "config.local.json"),
	}
}

// Exists checks if the config file exists
func (s *LocalConfigStoreAdapter) Exists() bool {
	_, err := os.Stat(s.configPath)
	return !os.IsNotExist(err)
}

// Load reads the configuration, or returns the defaults when no file exists
func (s *LocalConfigStoreAdapter) Load(_ context.Context) (*config.LocalConfig, error) {
	local := config.DefaultLocalConfig()
	if _, err := readJSON(s.configPath, local); err != nil {
		return nil, err
	}
	return local, nil
}

// Save writes the configuration to the file
func (s *LocalConfigStoreAdapter) Save(_ context.Context, local *config.LocalConfig) error {
	return writeJSON(s.configPath, local, 0755, 0644)
}

// GetPath returns the path to the config file
func (s *LocalConfigStoreAdapter) GetPath() string {
	return s.configPath
}

var _ usecase.LocalConfigRepository = (*LocalConfigStoreAdapter)(nil)
