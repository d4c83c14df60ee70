package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upcade/vaultctl/internal/domain/config"
)

func TestLoadProjectFile_Defaults(t *testing.T) {
	project, err := LoadProjectFile(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, config.DefaultVaultContract, project.Contracts.Vault)
	assert.Equal(t, config.DefaultProxyContract, project.Contracts.Proxy)
	assert.Equal(t, "artifacts-zk", project.Paths.ZkArtifacts)
	assert.Equal(t, "1.5.7", project.Compiler.Zksolc)
	assert.Empty(t, project.Networks)
}

func TestLoadProjectFile_Overrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ProjectFileName), `
[contracts]
vault = "contracts/VaultV2.sol:VaultV2"

[paths]
zk_artifacts = "out-zk"

[compiler]
zksolc = "1.5.8"

[networks.main]
url = "${MAIN_RPC}"
api_key = "${SCAN_KEY}"
chain_id = 2741
`)

	project, err := LoadProjectFile(dir)
	require.NoError(t, err)

	assert.Equal(t, "contracts/VaultV2.sol:VaultV2", project.Contracts.Vault)
	assert.Equal(t, config.DefaultProxyContract, project.Contracts.Proxy)
	assert.Equal(t, "out-zk", project.Paths.ZkArtifacts)
	assert.Equal(t, "artifacts", project.Paths.Artifacts)
	assert.Equal(t, "1.5.8", project.Compiler.Zksolc)
	assert.Equal(t, "0.8.28", project.Compiler.Solc)

	require.Contains(t, project.Networks, "main")
	assert.Equal(t, "${MAIN_RPC}", project.Networks["main"].URL)
	assert.Equal(t, uint64(2741), project.Networks["main"].ChainID)
}

func TestLoadProjectFile_Invalid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ProjectFileName), "[contracts\nvault=")

	_, err := LoadProjectFile(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ProjectFileName)
}
