//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/govctl/internal/adapters"
	"github.com/trebuchet-org/govctl/internal/config"
	"github.com/trebuchet-org/govctl/internal/logging"
	"github.com/trebuchet-org/govctl/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Core services
		CoreSet,

		// Use cases
		UseCaseSet,

		// App
		NewApp,
	)
	return nil, nil
}
