package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"

	"github.com/upcade/vaultctl/internal/domain"
	"github.com/upcade/vaultctl/internal/domain/config"
	"github.com/upcade/vaultctl/internal/domain/models"
)

// Verification targets, in the order they are submitted.
const (
	TargetImplementation = "implementation"
	TargetProxy          = "proxy"
)

// VerifyVaultOptions contains options for verification
type VerifyVaultOptions struct {
	// FailFast stops after the first failed target
	FailFast bool
}

// VerifyVaultResult contains the outcome per target
type VerifyVaultResult struct {
	Network *config.Network
	Targets []*VerifyTargetResult
}

// VerifyTargetResult is the outcome of one verification request
type VerifyTargetResult struct {
	Target  string
	Address common.Address
	Outcome *models.VerificationOutcome
	Error   error
	Skipped bool
}

// Succeeded counts the targets that verified.
func (r *VerifyVaultResult) Succeeded() int {
	n := 0
	for _, t := range r.Targets {
		if t.Error == nil && !t.Skipped {
			n++
		}
	}
	return n
}

// VerifyVault submits the Vault sources for the implementation and proxy
// addresses to the network's block explorer
type VerifyVault struct {
	cfg       *config.RuntimeConfig
	env       Environment
	artifacts ArtifactLoader
	verifier  ContractVerifier
	progress  ProgressSink
	log       *slog.Logger
}

// NewVerifyVault creates a new VerifyVault use case
func NewVerifyVault(
	cfg *config.RuntimeConfig,
	env Environment,
	artifacts ArtifactLoader,
	verifier ContractVerifier,
	progress ProgressSink,
	log *slog.Logger,
) *VerifyVault {
	return &VerifyVault{
		cfg:       cfg,
		env:       env,
		artifacts: artifacts,
		verifier:  verifier,
		progress:  progress,
		log:       log.With("usecase", "verify"),
	}
}

// Run verifies the implementation, then the proxy. Both are attempted unless
// FailFast is set; the returned error aggregates every failure.
func (uc *VerifyVault) Run(ctx context.Context, opts VerifyVaultOptions) (result *VerifyVaultResult, err error) {
	defer func() { finishProgress(ctx, uc.progress, "Verification finished", err) }()

	network := uc.cfg.Network
	if network == nil {
		return nil, fmt.Errorf("no network selected")
	}

	implAddr, _, err := requiredAddress(uc.env, config.EnvVaultImplementationAddress)
	if err != nil {
		return nil, err
	}
	proxyAddr, _, err := requiredAddress(uc.env, config.EnvVaultProxyAddress)
	if err != nil {
		return nil, err
	}

	contractName := uc.cfg.Project.Contracts.Vault
	artifact, err := uc.artifacts.Load(ctx, contractName, network.ZkSync)
	if err != nil {
		return nil, err
	}
	buildInfo, err := uc.artifacts.BuildInfo(ctx, artifact)
	if err != nil {
		return nil, err
	}

	result = &VerifyVaultResult{Network: network}
	failures := make(map[string]error)

	targets := []struct {
		name    string
		address common.Address
	}{
		{TargetImplementation, implAddr},
		{TargetProxy, proxyAddr},
	}

	for i, target := range targets {
		entry := &VerifyTargetResult{Target: target.name, Address: target.address}
		result.Targets = append(result.Targets, entry)

		if opts.FailFast && len(failures) > 0 {
			entry.Skipped = true
			continue
		}

		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   target.name,
			Current: i + 1,
			Total:   len(targets),
			Message: fmt.Sprintf("Verifying %s at %s", target.name, target.address.Hex()),
			Spinner: true,
		})

		// Constructor arguments are always empty, also for the proxy.
		outcome, err := uc.verifier.Verify(ctx, &models.VerificationRequest{
			Network:         network,
			Address:         target.address,
			ContractName:    artifact.QualifiedName(),
			ConstructorArgs: nil,
			BuildInfo:       buildInfo,
			SolcVersion:     uc.cfg.Project.Compiler.Solc,
			ZksolcVersion:   uc.cfg.Project.Compiler.Zksolc,
		})
		entry.Outcome = outcome
		if err != nil {
			entry.Error = err
			failures[target.name] = err
			uc.progress.Error(fmt.Sprintf("Verification of %s failed: %v", target.name, err))
			uc.log.Warn("verification failed", "target", target.name, "address", target.address.Hex(), "error", err)
			continue
		}
		uc.progress.Info(fmt.Sprintf("Verified %s at %s", target.name, target.address.Hex()))
	}

	if len(failures) > 0 {
		return result, &domain.VerificationServiceError{Failures: failures}
	}
	return result, nil
}
