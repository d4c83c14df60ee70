package adapters

import (
	"github.com/google/wire"

	"github.com/upcade/vaultctl/internal/adapters/artifacts"
	"github.com/upcade/vaultctl/internal/adapters/blockchain"
	"github.com/upcade/vaultctl/internal/adapters/fs"
	"github.com/upcade/vaultctl/internal/adapters/interactive"
	"github.com/upcade/vaultctl/internal/adapters/verification"
	"github.com/upcade/vaultctl/internal/config"
	"github.com/upcade/vaultctl/internal/usecase"

	domainconfig "github.com/upcade/vaultctl/internal/domain/config"
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewLocalConfigStoreAdapter,
	wire.Bind(new(usecase.LocalConfigRepository), new(*fs.LocalConfigStoreAdapter)),

	fs.NewDeploymentRegistryAdapter,
	wire.Bind(new(usecase.DeploymentRegistry), new(*fs.DeploymentRegistryAdapter)),
)

// ArtifactSet provides the compiled artifact loader
var ArtifactSet = wire.NewSet(
	artifacts.NewLoader,
	wire.Bind(new(usecase.ArtifactLoader), new(*artifacts.Loader)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewConfirmerAdapter,
	wire.Bind(new(usecase.Confirmer), new(*interactive.ConfirmerAdapter)),
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	config.ProvideEnvironment,
	wire.Bind(new(usecase.Environment), new(*domainconfig.Environment)),

	config.ProvideNetworkResolver,
	wire.Bind(new(usecase.NetworkResolver), new(*config.NetworkResolver)),
)

// BlockchainSet provides blockchain-based implementations
var BlockchainSet = wire.NewSet(
	blockchain.NewConnector,
	wire.Bind(new(usecase.ChainConnector), new(*blockchain.Connector)),
	wire.Bind(new(usecase.ChainProber), new(*blockchain.Connector)),
)

// VerificationSet provides explorer verification
var VerificationSet = wire.NewSet(
	verification.NewVerifierAdapter,
	wire.Bind(new(usecase.ContractVerifier), new(*verification.VerifierAdapter)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	ArtifactSet,
	InteractiveSet,
	ConfigSet,
	BlockchainSet,
	VerificationSet,
)
