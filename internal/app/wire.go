//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"

	"github.com/upcade/vaultctl/internal/adapters"
	"github.com/upcade/vaultctl/internal/config"
	"github.com/upcade/vaultctl/internal/logging"
	"github.com/upcade/vaultctl/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewDeployVault,
		usecase.NewGrantRole,
		usecase.NewVerifyVault,
		usecase.NewListNetworks,
		usecase.NewListDeployments,
		usecase.NewShowConfig,
		usecase.NewSetConfig,
		usecase.NewRemoveConfig,

		// App
		NewApp,
	)
	return nil, nil
}
