// Package parameters serves the plugin parameters governance may change.
package parameters

import (
	"context"
	"fmt"
	"slices"

	"github.com/trebuchet-org/govctl/internal/actions"
	"github.com/trebuchet-org/govctl/internal/domain"
	"github.com/trebuchet-org/govctl/internal/domain/config"
)

// ConfigSource lists the parameters declared in govctl.toml
type ConfigSource struct {
	params []domain.Parameter
}

// NewConfigSource creates a source over params
func NewConfigSource(params []domain.Parameter) *ConfigSource {
	return &ConfigSource{params: slices.Clone(params)}
}

// ProvideConfigSource creates a source from the runtime configuration
func ProvideConfigSource(cfg *config.RuntimeConfig) *ConfigSource {
	return NewConfigSource(cfg.Parameters)
}

// ChangeableParameters returns every declared parameter whose type can be validated
func (s *ConfigSource) ChangeableParameters(_ context.Context) ([]domain.Parameter, error) {
	for _, p := range s.params {
		if err := Check(p); err != nil {
			return nil, err
		}
	}
	return slices.Clone(s.params), nil
}

// Check reports whether p is complete and has a supported value type
func Check(p domain.Parameter) error {
	if p.Plugin == "" || p.Name == "" || p.Interface == "" || p.Setter == "" {
		return fmt.Errorf("parameter %s.%s: plugin, name, interface and setter are required", p.Plugin, p.Name)
	}
	switch p.Type {
	case "address", "string", "bool":
		return nil
	}
	if _, _, err := actions.ParseIntType(p.Type); err != nil {
		return fmt.Errorf("parameter %s.%s: %w", p.Plugin, p.Name, err)
	}
	return nil
}

var _ actions.ParameterSource = (*ConfigSource)(nil)
