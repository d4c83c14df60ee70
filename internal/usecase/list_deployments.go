package usecase

import (
	"context"
	"sort"

	"github.com/upcade/vaultctl/internal/domain/config"
	"github.com/upcade/vaultctl/internal/domain/models"
)

// ListDeploymentsParams contains parameters for listing deployments
type ListDeploymentsParams struct {
	// AllNetworks disables filtering by the selected network
	AllNetworks bool
}

// DeploymentListResult contains the result of listing deployments
type DeploymentListResult struct {
	Deployments  []*models.DeploymentRecord
	RegistryPath string
	ByNetwork    map[string]int
}

// ListDeployments is the use case for listing recorded deployments
type ListDeployments struct {
	config   *config.RuntimeConfig
	registry DeploymentRegistry
	sink     ProgressSink
}

// NewListDeployments creates a new ListDeployments use case
func NewListDeployments(cfg *config.RuntimeConfig, registry DeploymentRegistry, sink ProgressSink) *ListDeployments {
	return &ListDeployments{
		config:   cfg,
		registry: registry,
		sink:     sink,
	}
}

// Run executes the list deployments use case
func (uc *ListDeployments) Run(ctx context.Context, params ListDeploymentsParams) (result *DeploymentListResult, err error) {
	defer func() { finishProgress(ctx, uc.sink, "", err) }()

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "loading",
		Message: "Loading deployments from registry",
		Spinner: true,
	})

	records, err := uc.registry.List(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]*models.DeploymentRecord, 0, len(records))
	byNetwork := make(map[string]int)
	for _, r := range records {
		if !params.AllNetworks && uc.config.Network != nil && r.Network != uc.config.Network.Name {
			continue
		}
		filtered = append(filtered, r)
		byNetwork[r.Network]++
	}

	// Newest first
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	return &DeploymentListResult{
		Deployments:  filtered,
		RegistryPath: uc.registry.GetPath(),
		ByNetwork:    byNetwork,
	}, nil
}
