package config

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	"github.com/upcade/vaultctl/internal/domain"
	"github.com/upcade/vaultctl/internal/domain/config"
)

// DefaultNetworkName is used when neither a flag, VAULTCTL_NETWORK nor the
// local config names a network.
const DefaultNetworkName = "test"

// networkDefaults is one entry of the built-in network table. API keys are
// read from the first non-empty variable in apiKeyEnv.
type networkDefaults struct {
	network   config.Network
	apiKeyEnv []string
}

// DefaultNetworks returns the built-in network table. The returned values are
// fresh copies.
func DefaultNetworks() []config.Network {
	return lo.Map(builtinNetworks(), func(d networkDefaults, _ int) config.Network {
		return d.network
	})
}

func builtinNetworks() []networkDefaults {
	return []networkDefaults{
		{
			network: config.Network{
				Name:           "test",
				Aliases:        []string{"abstractTestnet"},
				RPCURL:         "https://api.testnet.abs.xyz",
				BaseChain:      "sepolia",
				ZkSync:         true,
				ChainID:        11124,
				VerifyURL:      "https://api-explorer-verify.testnet.abs.xyz/contract_verification",
				ExplorerAPIURL: "https://api-sepolia.abscan.org/api",
				BrowserURL:     "https://sepolia.abscan.org/",
				Verifier:       config.VerifierZkSync,
			},
			apiKeyEnv: []string{"ABSCAN_TESTNET_API_KEY", "ABSCAN_API_KEY"},
		},
		{
			network: config.Network{
				Name:           "main",
				Aliases:        []string{"abstractMainnet"},
				RPCURL:         "https://api.mainnet.abs.xyz",
				BaseChain:      "mainnet",
				ZkSync:         true,
				ChainID:        2741,
				VerifyURL:      "https://api.abscan.org/api",
				ExplorerAPIURL: "https://api.abscan.org/api",
				BrowserURL:     "https://abscan.org/",
				Verifier:       config.VerifierEtherscan,
			},
			apiKeyEnv: []string{"ABSCAN_API_KEY"},
		},
	}
}

// NetworkResolver resolves network names to descriptors from the built-in
// table, applying vaultctl.toml overrides.
type NetworkResolver struct {
	project  *config.ProjectFile
	env      *config.Environment
	validate *validator.Validate
}

// NewNetworkResolver creates a new network resolver
func NewNetworkResolver(project *config.ProjectFile, env *config.Environment) *NetworkResolver {
	if project == nil {
		project = config.DefaultProjectFile()
	}
	return &NetworkResolver{
		project:  project,
		env:      env,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Names returns the canonical network names in table order.
func (r *NetworkResolver) Names() []string {
	return lo.Map(builtinNetworks(), func(d networkDefaults, _ int) string {
		return d.network.Name
	})
}

// Resolve looks a network up by name or alias, case-insensitively.
func (r *NetworkResolver) Resolve(name string) (*config.Network, error) {
	entry, ok := lo.Find(builtinNetworks(), func(d networkDefaults) bool {
		return d.network.Matches(name)
	})
	if !ok {
		return nil, &domain.UnknownNetworkError{Name: name, Known: r.Names()}
	}

	network := entry.network
	network.Aliases = append([]string(nil), entry.network.Aliases...)
	for _, key := range entry.apiKeyEnv {
		if v := r.env.Get(key); v != "" {
			network.APIKey = v
			break
		}
	}

	override, ok, err := r.findOverride(&network)
	if err != nil {
		return nil, err
	}
	if ok {
		r.applyOverride(&network, override)
	}

	if err := r.validate.Struct(&network); err != nil {
		return nil, fmt.Errorf("invalid network %s: %w", network.Name, err)
	}
	return &network, nil
}

// GetNetworks returns all network names
func (r *NetworkResolver) GetNetworks(ctx context.Context) []string {
	return r.Names()
}

// ResolveNetwork resolves a network by name
func (r *NetworkResolver) ResolveNetwork(ctx context.Context, networkName string) (*config.Network, error) {
	return r.Resolve(networkName)
}

// DefaultNetwork returns the name used when none is selected.
func (r *NetworkResolver) DefaultNetwork() string {
	return DefaultNetworkName
}

// findOverride returns the vaultctl.toml section for network. A network may be
// configured by at most one section, under its name or any alias.
func (r *NetworkResolver) findOverride(network *config.Network) (config.NetworkOverride, bool, error) {
	keys := lo.Filter(lo.Keys(r.project.Networks), func(key string, _ int) bool {
		return network.Matches(key)
	})
	switch len(keys) {
	case 0:
		return config.NetworkOverride{}, false, nil
	case 1:
		return r.project.Networks[keys[0]], true, nil
	}

	sort.Strings(keys)
	return config.NetworkOverride{}, false, &domain.ConfigurationError{
		Name:   ProjectFileName,
		Reason: fmt.Sprintf("network %s is configured by several sections (%s), keep one", network.Name, strings.Join(keys, ", ")),
	}
}

func (r *NetworkResolver) applyOverride(network *config.Network, o config.NetworkOverride) {
	set := func(dst *string, value string) {
		if value = strings.TrimSpace(r.env.Expand(value)); value != "" {
			*dst = value
		}
	}

	set(&network.RPCURL, o.URL)
	set(&network.VerifyURL, o.VerifyURL)
	set(&network.ExplorerAPIURL, o.APIURL)
	set(&network.BrowserURL, o.BrowserURL)
	set(&network.APIKey, o.APIKey)
	if o.Verifier != "" {
		network.Verifier = config.VerifierKind(strings.ToLower(o.Verifier))
	}
	if o.ChainID != 0 {
		network.ChainID = o.ChainID
	}
}
