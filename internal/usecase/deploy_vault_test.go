package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upcade/vaultctl/internal/domain"
	"github.com/upcade/vaultctl/internal/domain/config"
)

type deployFixture struct {
	log       *eventLog
	sink      *recordingSink
	artifacts *fakeArtifacts
	client    *fakeClient
	connector *fakeConnector
	registry  *fakeRegistry
	confirmer *fakeConfirmer
	cfg       *config.RuntimeConfig
}

func newDeployFixture(t *testing.T, network *config.Network) *deployFixture {
	log := &eventLog{}
	client := newFakeClient(log)
	return &deployFixture{
		log:       log,
		sink:      &recordingSink{log: log},
		artifacts: newFakeArtifacts(t),
		client:    client,
		connector: &fakeConnector{client: client},
		registry:  &fakeRegistry{},
		confirmer: &fakeConfirmer{answer: true},
		cfg:       testRuntime(network),
	}
}

func (f *deployFixture) useCase(env map[string]string) *DeployVault {
	return NewDeployVault(f.cfg, config.NewEnvironment(env), f.artifacts, f.connector, f.registry, f.confirmer, f.sink, discardLogger())
}

const feeRecipient = "0x00000000000000000000000000000000000000fe"

func TestDeployVault_DeploysImplementationThenProxy(t *testing.T) {
	f := newDeployFixture(t, testNetwork)

	result, err := f.useCase(map[string]string{
		config.EnvPrivateKey:   testKey,
		config.EnvFeeRecipient: feeRecipient,
	}).Run(context.Background(), DeployVaultParams{})
	require.NoError(t, err)

	require.Len(t, f.client.deploys, 2)
	assert.Equal(t, "UpcadeVault", f.client.deploys[0].contract)
	assert.Empty(t, f.client.deploys[0].args)
	assert.Equal(t, "ERC1967Proxy", f.client.deploys[1].contract)

	// proxy constructor receives [implementation, initialize(feeRecipient)]
	require.Len(t, f.client.deploys[1].args, 2)
	assert.Equal(t, result.Implementation.Address, f.client.deploys[1].args[0])
	initData, ok := f.client.deploys[1].args[1].([]byte)
	require.True(t, ok)
	assert.Equal(t, crypto.Keccak256([]byte("initialize(address)"))[:4], initData[:4])
	assert.Equal(t, common.LeftPadBytes(common.HexToAddress(feeRecipient).Bytes(), 32), initData[4:])
	assert.Equal(t, initData, result.InitializerData)

	// each deployment is confirmed before anything is reported
	assert.Equal(t, []string{
		"progress:implementation",
		"deploy:UpcadeVault",
		"confirmed:UpcadeVault",
		"info:Vault implementation deployed to: " + result.Implementation.Address.Hex(),
		"progress:proxy",
		"deploy:ERC1967Proxy",
		"confirmed:ERC1967Proxy",
		"info:Vault proxy deployed to: " + result.Proxy.Address.Hex(),
		"stop",
	}, f.log.events)

	assert.Equal(t, testAddr, result.Deployer.Hex())
	assert.Equal(t, common.HexToAddress(feeRecipient), result.FeeRecipient)
	assert.True(t, f.client.closed)

	require.Len(t, f.registry.records, 1)
	rec := f.registry.records[0]
	assert.Equal(t, "test", rec.Network)
	assert.Equal(t, result.Implementation.Address.Hex(), rec.Implementation)
	assert.Equal(t, result.Proxy.Address.Hex(), rec.Proxy)
	assert.Equal(t, testAddr, rec.Deployer)
}

func TestDeployVault_FailsBeforeNetwork(t *testing.T) {
	tests := []struct {
		name       string
		env        map[string]string
		dropImpl   bool
		dropProxy  bool
		wantConfig string
		wantErr    error
	}{
		{
			name:       "missing private key",
			env:        map[string]string{config.EnvFeeRecipient: feeRecipient},
			wantConfig: "PRIVATE_KEY or WALLET_PRIVATE_KEY",
		},
		{
			name:       "malformed private key",
			env:        map[string]string{config.EnvPrivateKey: "0x1234"},
			wantConfig: config.EnvPrivateKey,
		},
		{
			name:       "malformed fee recipient",
			env:        map[string]string{config.EnvPrivateKey: testKey, config.EnvFeeRecipient: "0xnothex"},
			wantConfig: config.EnvFeeRecipient,
		},
		{
			name:     "missing implementation artifact",
			env:      map[string]string{config.EnvPrivateKey: testKey},
			dropImpl: true,
			wantErr:  domain.ErrContractNotFound,
		},
		{
			name:      "missing proxy artifact",
			env:       map[string]string{config.EnvPrivateKey: testKey},
			dropProxy: true,
			wantErr:   domain.ErrContractNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newDeployFixture(t, testNetwork)
			if tt.dropImpl {
				delete(f.artifacts.artifacts, config.DefaultVaultContract)
			}
			if tt.dropProxy {
				delete(f.artifacts.artifacts, config.DefaultProxyContract)
			}

			_, err := f.useCase(tt.env).Run(context.Background(), DeployVaultParams{})
			require.Error(t, err)

			if tt.wantConfig != "" {
				var cfgErr *domain.ConfigurationError
				require.True(t, errors.As(err, &cfgErr), "got %v", err)
				assert.Equal(t, tt.wantConfig, cfgErr.Name)
				assert.NotContains(t, err.Error(), testKey[2:])
			}
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}

			assert.Zero(t, f.connector.connects)
			assert.Empty(t, f.client.deploys)
			assert.Empty(t, f.registry.records)
		})
	}
}

func TestDeployVault_EmptyFeeRecipientEncodesZeroAddress(t *testing.T) {
	f := newDeployFixture(t, testNetwork)

	result, err := f.useCase(map[string]string{
		config.EnvPrivateKey:   testKey,
		config.EnvFeeRecipient: "",
	}).Run(context.Background(), DeployVaultParams{})
	require.NoError(t, err)

	assert.Equal(t, common.Address{}, result.FeeRecipient)
	assert.Equal(t, make([]byte, 32), result.InitializerData[4:])
}

func TestDeployVault_FeeRecipientFlagOverridesEnv(t *testing.T) {
	f := newDeployFixture(t, testNetwork)
	override := "0x00000000000000000000000000000000000000aa"

	result, err := f.useCase(map[string]string{
		config.EnvPrivateKey:   testKey,
		config.EnvFeeRecipient: feeRecipient,
	}).Run(context.Background(), DeployVaultParams{FeeRecipient: override})
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(override), result.FeeRecipient)
}

func TestDeployVault_LegacyKeyName(t *testing.T) {
	f := newDeployFixture(t, testNetwork)

	result, err := f.useCase(map[string]string{
		config.EnvWalletPrivateKey: testKey,
	}).Run(context.Background(), DeployVaultParams{})
	require.NoError(t, err)
	assert.Equal(t, testAddr, result.Deployer.Hex())
}

func TestDeployVault_RerunCreatesNewContracts(t *testing.T) {
	f := newDeployFixture(t, testNetwork)
	uc := f.useCase(map[string]string{config.EnvPrivateKey: testKey})

	first, err := uc.Run(context.Background(), DeployVaultParams{})
	require.NoError(t, err)
	second, err := uc.Run(context.Background(), DeployVaultParams{})
	require.NoError(t, err)

	assert.NotEqual(t, first.Implementation.Address, second.Implementation.Address)
	assert.NotEqual(t, first.Proxy.Address, second.Proxy.Address)
	assert.Len(t, f.client.deploys, 4)
	assert.Len(t, f.registry.records, 2)
}

func TestDeployVault_ImplementationFailureStopsProxy(t *testing.T) {
	f := newDeployFixture(t, testNetwork)
	f.client.deployErr = map[string]error{"UpcadeVault": &domain.TransactionRevertError{Reason: "out of gas"}}

	_, err := f.useCase(map[string]string{config.EnvPrivateKey: testKey}).Run(context.Background(), DeployVaultParams{})
	require.Error(t, err)

	var revert *domain.TransactionRevertError
	require.True(t, errors.As(err, &revert))
	assert.Equal(t, "out of gas", revert.Reason)
	assert.NotContains(t, f.log.events, "deploy:ERC1967Proxy")
	assert.Empty(t, f.sink.infos)
}

func TestDeployVault_MainnetConfirmation(t *testing.T) {
	env := map[string]string{config.EnvPrivateKey: testKey}

	t.Run("declined", func(t *testing.T) {
		f := newDeployFixture(t, mainNetwork)
		f.confirmer.answer = false

		_, err := f.useCase(env).Run(context.Background(), DeployVaultParams{})
		assert.ErrorIs(t, err, domain.ErrAborted)
		assert.Len(t, f.confirmer.prompts, 1)
		assert.Zero(t, f.connector.connects)
	})

	t.Run("accepted", func(t *testing.T) {
		f := newDeployFixture(t, mainNetwork)

		_, err := f.useCase(env).Run(context.Background(), DeployVaultParams{})
		require.NoError(t, err)
		assert.Len(t, f.confirmer.prompts, 1)
	})

	t.Run("skipped with --yes", func(t *testing.T) {
		f := newDeployFixture(t, mainNetwork)
		f.confirmer.answer = false

		_, err := f.useCase(env).Run(context.Background(), DeployVaultParams{SkipConfirm: true})
		require.NoError(t, err)
		assert.Empty(t, f.confirmer.prompts)
	})

	t.Run("not asked on testnet", func(t *testing.T) {
		f := newDeployFixture(t, testNetwork)
		f.confirmer.answer = false

		_, err := f.useCase(env).Run(context.Background(), DeployVaultParams{})
		require.NoError(t, err)
		assert.Empty(t, f.confirmer.prompts)
	})
}

func TestDeployVault_RegistryFailureIsReported(t *testing.T) {
	f := newDeployFixture(t, testNetwork)
	f.registry.err = errors.New("disk full")

	result, err := f.useCase(map[string]string{config.EnvPrivateKey: testKey}).Run(context.Background(), DeployVaultParams{})
	require.NoError(t, err)
	assert.EqualError(t, result.RegistryError, "disk full")
	assert.NotNil(t, result.Proxy)
}
