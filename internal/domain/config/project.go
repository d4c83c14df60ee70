package config

// Default contract names and compiler versions of the Vault project.
const (
	DefaultVaultContract = "contracts/UpcadeVault.sol:UpcadeVault"
	DefaultProxyContract = "@openzeppelin/contracts/proxy/ERC1967/ERC1967Proxy.sol:ERC1967Proxy"
	DefaultSolcVersion   = "0.8.28"
	DefaultZksolcVersion = "1.5.7"
)

// ProjectFile is the optional vaultctl.toml at the project root.
type ProjectFile struct {
	Contracts ContractsConfig            `toml:"contracts" yaml:"contracts"`
	Paths     PathsConfig                `toml:"paths" yaml:"paths"`
	Compiler  CompilerConfig             `toml:"compiler" yaml:"compiler"`
	Networks  map[string]NetworkOverride `toml:"networks" yaml:"networks,omitempty"`
}

// ContractsConfig names the artifacts the workflows deploy and verify.
type ContractsConfig struct {
	Vault string `toml:"vault" yaml:"vault"`
	Proxy string `toml:"proxy" yaml:"proxy"`
}

// PathsConfig locates the compiler output, relative to the project root.
type PathsConfig struct {
	Artifacts   string `toml:"artifacts" yaml:"artifacts"`
	ZkArtifacts string `toml:"zk_artifacts" yaml:"zk_artifacts"`
}

// CompilerConfig records the compiler versions reported to explorers.
type CompilerConfig struct {
	Solc   string `toml:"solc" yaml:"solc"`
	Zksolc string `toml:"zksolc" yaml:"zksolc"`
}

// NetworkOverride replaces individual fields of a built-in network
// descriptor. String values may reference ${ENV_VAR}.
type NetworkOverride struct {
	URL        string `toml:"url" yaml:"url,omitempty"`
	VerifyURL  string `toml:"verify_url" yaml:"verify_url,omitempty"`
	APIURL     string `toml:"api_url" yaml:"api_url,omitempty"`
	BrowserURL string `toml:"browser_url" yaml:"browser_url,omitempty"`
	APIKey     string `toml:"api_key" yaml:"-"`
	ChainID    uint64 `toml:"chain_id" yaml:"chain_id,omitempty"`
	Verifier   string `toml:"verifier" yaml:"verifier,omitempty"`
}

// DefaultProjectFile returns the settings used when vaultctl.toml is absent.
func DefaultProjectFile() *ProjectFile {
	return &ProjectFile{
		Contracts: ContractsConfig{
			Vault: DefaultVaultContract,
			Proxy: DefaultProxyContract,
		},
		Paths: PathsConfig{
			Artifacts:   "artifacts",
			ZkArtifacts: "artifacts-zk",
		},
		Compiler: CompilerConfig{
			Solc:   DefaultSolcVersion,
			Zksolc: DefaultZksolcVersion,
		},
		Networks: map[string]NetworkOverride{},
	}
}
