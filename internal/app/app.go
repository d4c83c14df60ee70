package app

import (
	"log/slog"

	"github.com/upcade/vaultctl/internal/domain/config"
	"github.com/upcade/vaultctl/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Use cases
	DeployVault     *usecase.DeployVault
	GrantRole       *usecase.GrantRole
	VerifyVault     *usecase.VerifyVault
	ListNetworks    *usecase.ListNetworks
	ListDeployments *usecase.ListDeployments
	ShowConfig      *usecase.ShowConfig
	SetConfig       *usecase.SetConfig
	RemoveConfig    *usecase.RemoveConfig
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	deployVault *usecase.DeployVault,
	grantRole *usecase.GrantRole,
	verifyVault *usecase.VerifyVault,
	listNetworks *usecase.ListNetworks,
	listDeployments *usecase.ListDeployments,
	showConfig *usecase.ShowConfig,
	setConfig *usecase.SetConfig,
	removeConfig *usecase.RemoveConfig,
) (*App, error) {
	return &App{
		Config:          cfg,
		Log:             log,
		DeployVault:     deployVault,
		GrantRole:       grantRole,
		VerifyVault:     verifyVault,
		ListNetworks:    listNetworks,
		ListDeployments: listDeployments,
		ShowConfig:      showConfig,
		SetConfig:       setConfig,
		RemoveConfig:    removeConfig,
	}, nil
}
