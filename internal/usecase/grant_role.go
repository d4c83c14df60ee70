package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/upcade/vaultctl/internal/domain"
	"github.com/upcade/vaultctl/internal/domain/config"
	"github.com/upcade/vaultctl/internal/domain/models"
)

const (
	// DefaultRoleGetter is the Vault constant whose value is granted.
	DefaultRoleGetter = "MANAGER_ROLE"
	grantRoleMethod   = "grantRole"
)

// GrantRoleParams contains parameters for granting a role
type GrantRoleParams struct {
	// RoleGetter names the bytes32 constant getter on the Vault
	RoleGetter string
}

// GrantRoleResult contains the confirmed grant
type GrantRoleResult struct {
	Network *config.Network
	// Vault is the lower-cased address as read from VAULT
	Vault      string
	Manager    common.Address
	RoleGetter string
	Role       [32]byte
	TxHash     common.Hash
	Receipt    *models.Receipt
}

// GrantRole grants a role on the deployed Vault to the MANAGER account
type GrantRole struct {
	cfg       *config.RuntimeConfig
	env       Environment
	artifacts ArtifactLoader
	connector ChainConnector
	progress  ProgressSink
	log       *slog.Logger
}

// NewGrantRole creates a new GrantRole use case
func NewGrantRole(
	cfg *config.RuntimeConfig,
	env Environment,
	artifacts ArtifactLoader,
	connector ChainConnector,
	progress ProgressSink,
	log *slog.Logger,
) *GrantRole {
	return &GrantRole{
		cfg:       cfg,
		env:       env,
		artifacts: artifacts,
		connector: connector,
		progress:  progress,
		log:       log.With("usecase", "grant-role"),
	}
}

// Run executes the role-grant workflow
func (uc *GrantRole) Run(ctx context.Context, params GrantRoleParams) (result *GrantRoleResult, err error) {
	defer func() { finishProgress(ctx, uc.progress, "Role granted", err) }()

	network := uc.cfg.Network
	if network == nil {
		return nil, fmt.Errorf("no network selected")
	}
	getter := params.RoleGetter
	if getter == "" {
		getter = DefaultRoleGetter
	}

	vaultAddr, vaultHex, err := requiredAddress(uc.env, config.EnvVault)
	if err != nil {
		return nil, err
	}
	manager, _, err := requiredAddress(uc.env, config.EnvManager)
	if err != nil {
		return nil, err
	}
	wallet, err := loadWallet(uc.env, uc.log)
	if err != nil {
		return nil, err
	}

	artifact, err := uc.artifacts.Load(ctx, uc.cfg.Project.Contracts.Vault, network.ZkSync)
	if err != nil {
		return nil, err
	}
	if _, ok := artifact.ABI.Methods[getter]; !ok {
		return nil, &domain.ConfigurationError{Name: "role", Reason: fmt.Sprintf("%s has no %s() getter", artifact.ContractName, getter)}
	}

	client, err := uc.connector.Connect(ctx, network)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	vault := &models.ContractRef{Address: vaultAddr, ABI: &artifact.ABI}

	// The role id is read from the contract on every run.
	out, err := client.Call(ctx, vault, getter)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", getter, err)
	}
	role, err := roleFromOutput(getter, out)
	if err != nil {
		return nil, err
	}
	uc.log.Debug("resolved role", "getter", getter, "role", hexutil.Encode(role[:]))

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "grant",
		Message: fmt.Sprintf("Granting %s to %s", getter, manager.Hex()),
		Spinner: true,
	})
	pending, err := client.Transact(ctx, wallet, vault, grantRoleMethod, role, manager)
	if err != nil {
		return nil, err
	}
	receipt, err := client.WaitMined(ctx, pending)
	if err != nil {
		return nil, err
	}
	if !receipt.Succeeded() {
		return nil, &domain.TransactionRevertError{Method: grantRoleMethod, TxHash: receipt.TxHash.Hex()}
	}

	uc.progress.Info(fmt.Sprintf("Vault contract : %s", vaultHex))
	uc.progress.Info(fmt.Sprintf("Transaction tx : %s", receipt.TxHash.Hex()))
	uc.log.Info("role granted", "network", network.Name, "vault", vaultHex, "manager", manager.Hex(), "tx", receipt.TxHash.Hex())

	return &GrantRoleResult{
		Network:    network,
		Vault:      vaultHex,
		Manager:    manager,
		RoleGetter: getter,
		Role:       role,
		TxHash:     receipt.TxHash,
		Receipt:    receipt,
	}, nil
}

func roleFromOutput(getter string, out []interface{}) ([32]byte, error) {
	if len(out) != 1 {
		return [32]byte{}, fmt.Errorf("%s returned %d values, expected 1", getter, len(out))
	}
	role, ok := out[0].([32]byte)
	if !ok {
		return [32]byte{}, fmt.Errorf("%s returned %T, expected bytes32", getter, out[0])
	}
	return role, nil
}
