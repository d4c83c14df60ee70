package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/upcade/vaultctl/internal/domain"
	"github.com/upcade/vaultctl/internal/domain/config"
	"github.com/upcade/vaultctl/internal/domain/models"
)

// initializerMethod is called through the proxy constructor.
const initializerMethod = "initialize"

// DeployVaultParams contains parameters for deploying the Vault
type DeployVaultParams struct {
	// FeeRecipient overrides FEE_RECIPIENT when non-empty
	FeeRecipient string
	// SkipConfirm skips the mainnet confirmation prompt
	SkipConfirm bool
}

// DeployVaultResult contains the deployed implementation and proxy
type DeployVaultResult struct {
	Network         *config.Network
	Deployer        common.Address
	FeeRecipient    common.Address
	InitializerData []byte
	Implementation  *models.DeployedContract
	Proxy           *models.DeployedContract
	RegistryError   error
}

// DeployVault deploys a fresh Vault implementation and an ERC1967 proxy
// initialized with the fee recipient. Every run creates new contracts.
type DeployVault struct {
	cfg       *config.RuntimeConfig
	env       Environment
	artifacts ArtifactLoader
	connector ChainConnector
	registry  DeploymentRegistry
	confirmer Confirmer
	progress  ProgressSink
	log       *slog.Logger
}

// NewDeployVault creates a new DeployVault use case
func NewDeployVault(
	cfg *config.RuntimeConfig,
	env Environment,
	artifacts ArtifactLoader,
	connector ChainConnector,
	registry DeploymentRegistry,
	confirmer Confirmer,
	progress ProgressSink,
	log *slog.Logger,
) *DeployVault {
	return &DeployVault{
		cfg:       cfg,
		env:       env,
		artifacts: artifacts,
		connector: connector,
		registry:  registry,
		confirmer: confirmer,
		progress:  progress,
		log:       log.With("usecase", "deploy"),
	}
}

// Run executes the deployment workflow
func (uc *DeployVault) Run(ctx context.Context, params DeployVaultParams) (result *DeployVaultResult, err error) {
	defer func() { finishProgress(ctx, uc.progress, "Vault deployment completed", err) }()

	network := uc.cfg.Network
	if network == nil {
		return nil, fmt.Errorf("no network selected")
	}

	// Everything local is checked before the first network call.
	wallet, err := loadWallet(uc.env, uc.log)
	if err != nil {
		return nil, err
	}

	rawRecipient := params.FeeRecipient
	if rawRecipient == "" {
		rawRecipient, _ = uc.env.Lookup(config.EnvFeeRecipient)
	}
	feeRecipient, err := parseAddress(config.EnvFeeRecipient, rawRecipient)
	if err != nil {
		return nil, err
	}
	if feeRecipient == zeroAddress {
		uc.log.Warn("FEE_RECIPIENT is empty, initializing with the zero address")
	}

	implArtifact, err := uc.loadDeployable(ctx, uc.cfg.Project.Contracts.Vault, network)
	if err != nil {
		return nil, err
	}
	proxyArtifact, err := uc.loadDeployable(ctx, uc.cfg.Project.Contracts.Proxy, network)
	if err != nil {
		return nil, err
	}

	initData, err := implArtifact.ABI.Pack(initializerMethod, feeRecipient)
	if err != nil {
		return nil, fmt.Errorf("encode %s(%s): %w", initializerMethod, feeRecipient.Hex(), err)
	}

	if err := uc.confirm(ctx, network, wallet, params.SkipConfirm); err != nil {
		return nil, err
	}

	client, err := uc.connector.Connect(ctx, network)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	uc.log.Info("deploying vault", "network", network.Name, "deployer", wallet.Address.Hex(), "feeRecipient", feeRecipient.Hex())

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "implementation",
		Current: 1,
		Total:   2,
		Message: fmt.Sprintf("Deploying %s", implArtifact.ContractName),
		Spinner: true,
	})
	impl, err := uc.deploy(ctx, client, wallet, implArtifact)
	if err != nil {
		return nil, fmt.Errorf("deploy implementation: %w", err)
	}
	uc.progress.Info(fmt.Sprintf("Vault implementation deployed to: %s", impl.Address.Hex()))

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "proxy",
		Current: 2,
		Total:   2,
		Message: fmt.Sprintf("Deploying %s", proxyArtifact.ContractName),
		Spinner: true,
	})
	proxy, err := uc.deploy(ctx, client, wallet, proxyArtifact, impl.Address, initData)
	if err != nil {
		return nil, fmt.Errorf("deploy proxy: %w", err)
	}
	proxy.ABI = &implArtifact.ABI
	uc.progress.Info(fmt.Sprintf("Vault proxy deployed to: %s", proxy.Address.Hex()))

	result = &DeployVaultResult{
		Network:         network,
		Deployer:        wallet.Address,
		FeeRecipient:    feeRecipient,
		InitializerData: initData,
		Implementation:  impl,
		Proxy:           proxy,
	}

	record := &models.DeploymentRecord{
		Network:        network.Name,
		ChainID:        network.ChainID,
		Deployer:       wallet.Address.Hex(),
		Implementation: impl.Address.Hex(),
		Proxy:          proxy.Address.Hex(),
		FeeRecipient:   feeRecipient.Hex(),
		ImplTxHash:     impl.TxHash.Hex(),
		ProxyTxHash:    proxy.TxHash.Hex(),
		CreatedAt:      time.Now().UTC(),
	}
	if err := uc.registry.Record(ctx, record); err != nil {
		// contracts are on chain already; report without failing the run
		uc.log.Warn("failed to record deployment", "error", err)
		result.RegistryError = err
	}

	return result, nil
}

func (uc *DeployVault) loadDeployable(ctx context.Context, name string, network *config.Network) (*models.Artifact, error) {
	artifact, err := uc.artifacts.Load(ctx, name, network.ZkSync)
	if err != nil {
		return nil, err
	}
	if len(artifact.Bytecode) == 0 {
		return nil, fmt.Errorf("%s: %w", artifact.QualifiedName(), domain.ErrEmptyBytecode)
	}
	return artifact, nil
}

// deploy submits a creation transaction and blocks until it is confirmed.
func (uc *DeployVault) deploy(ctx context.Context, client ChainClient, wallet *models.Wallet, artifact *models.Artifact, args ...interface{}) (*models.DeployedContract, error) {
	pending, err := client.Deploy(ctx, wallet, artifact, args...)
	if err != nil {
		return nil, err
	}
	uc.log.Debug("deployment submitted", "contract", artifact.ContractName, "tx", pending.TxHash.Hex())

	deployed, err := client.WaitDeployed(ctx, pending)
	if err != nil {
		return nil, err
	}
	uc.log.Debug("deployment confirmed", "contract", artifact.ContractName, "address", deployed.Address.Hex(), "block", deployed.BlockNumber)

	if deployed.ABI == nil {
		deployed.ABI = &artifact.ABI
	}
	return deployed, nil
}

func (uc *DeployVault) confirm(ctx context.Context, network *config.Network, wallet *models.Wallet, skip bool) error {
	if skip || network.BaseChain != "mainnet" || uc.cfg.NonInteractive {
		return nil
	}
	ok, err := uc.confirmer.Confirm(ctx, fmt.Sprintf("Deploy a new Vault to %s (chain %d) from %s", network.Name, network.ChainID, wallet.Address.Hex()))
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrAborted
	}
	return nil
}
