package usecase

import (
	"context"
	"fmt"

	"github.com/upcade/vaultctl/internal/domain"
	"github.com/upcade/vaultctl/internal/domain/config"
)

// ListNetworksParams contains parameters for listing networks
type ListNetworksParams struct {
	// Probe asks each RPC endpoint for its chain id
	Probe bool
}

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Networks []NetworkStatus
	Selected string
}

// NetworkStatus represents the status of a network
type NetworkStatus struct {
	Name          string
	Network       *config.Network
	RemoteChainID uint64
	Probed        bool
	Error         error
}

// ListNetworks is a use case for listing available networks
type ListNetworks struct {
	cfg      *config.RuntimeConfig
	resolver NetworkResolver
	prober   ChainProber
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(cfg *config.RuntimeConfig, resolver NetworkResolver, prober ChainProber) *ListNetworks {
	return &ListNetworks{
		cfg:      cfg,
		resolver: resolver,
		prober:   prober,
	}
}

// Run executes the use case
func (uc *ListNetworks) Run(ctx context.Context, params ListNetworksParams) (*ListNetworksResult, error) {
	networkNames := uc.resolver.GetNetworks(ctx)

	networks := make([]NetworkStatus, 0, len(networkNames))
	for _, name := range networkNames {
		status := NetworkStatus{
			Name: name,
		}

		info, err := uc.resolver.ResolveNetwork(ctx, name)
		if err != nil {
			status.Error = err
			networks = append(networks, status)
			continue
		}
		status.Network = info

		if params.Probe {
			status.Probed = true
			chainID, err := uc.prober.ProbeChainID(ctx, info.RPCURL)
			switch {
			case err != nil:
				status.Error = err
			case chainID != info.ChainID:
				status.Error = fmt.Errorf("%w: rpc reports chain %d, expected %d", domain.ErrNetworkMismatch, chainID, info.ChainID)
			}
			status.RemoteChainID = chainID
		}

		networks = append(networks, status)
	}

	result := &ListNetworksResult{
		Networks: networks,
	}
	if uc.cfg.Network != nil {
		result.Selected = uc.cfg.Network.Name
	}
	return result, nil
}
