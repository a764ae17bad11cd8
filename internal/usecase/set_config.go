package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/govctl/internal/domain"
	"github.com/trebuchet-org/govctl/internal/domain/config"
)

// SetConfigParams contains parameters for setting configuration
type SetConfigParams struct {
	Key   string
	Value string
}

// SetConfigResult contains the result of setting configuration
type SetConfigResult struct {
	UpdatedConfig *config.LocalConfig
	ConfigPath    string
	Key           config.ConfigKey
	Value         string
}

// SetConfig is a use case for setting configuration values
type SetConfig struct {
	store LocalConfigRepository
}

// NewSetConfig creates a new SetConfig use case
func NewSetConfig(store LocalConfigRepository) *SetConfig {
	return &SetConfig{
		store: store,
	}
}

// Run executes the set config use case
func (uc *SetConfig) Run(ctx context.Context, params SetConfigParams) (*SetConfigResult, error) {
	key, err := parseConfigKey(params.Key)
	if err != nil {
		return nil, err
	}

	cfg, err := uc.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	switch key {
	case config.ConfigKeyNetwork:
		cfg.Network = params.Value
	case config.ConfigKeyAccount:
		if !common.IsHexAddress(params.Value) {
			return nil, domain.ValidationError("set config", fmt.Errorf("%w: %s", domain.ErrInvalidAddress, params.Value))
		}
		cfg.Account = common.HexToAddress(params.Value).Hex()
	}

	if err := uc.store.Save(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	return &SetConfigResult{
		UpdatedConfig: cfg,
		ConfigPath:    uc.store.GetPath(),
		Key:           key,
		Value:         params.Value,
	}, nil
}

func parseConfigKey(raw string) (config.ConfigKey, error) {
	key := strings.ToLower(raw)
	if !config.IsValidConfigKey(key) {
		validKeys := []string{}
		for _, k := range config.ValidConfigKeys() {
			if k == config.ConfigKeyNetwork {
				validKeys = append(validKeys, string(k)+" (net)")
			} else {
				validKeys = append(validKeys, string(k))
			}
		}
		return "", domain.ValidationError("config", fmt.Errorf("unknown config key: %s\nAvailable keys: %s", raw, strings.Join(validKeys, ", ")))
	}
	return config.NormalizeConfigKey(key), nil
}
