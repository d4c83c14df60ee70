package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/upcade/vaultctl/internal/domain/config"
)

// ProjectFileName is the optional per-project settings file.
const ProjectFileName = "vaultctl.toml"

// LoadProjectFile parses vaultctl.toml, filling unset fields with defaults.
// A missing file yields the defaults.
func LoadProjectFile(projectRoot string) (*config.ProjectFile, error) {
	project := config.DefaultProjectFile()

	path := filepath.Join(projectRoot, ProjectFileName)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return project, nil
	}

	var raw config.ProjectFile
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ProjectFileName, err)
	}

	if raw.Contracts.Vault != "" {
		project.Contracts.Vault = raw.Contracts.Vault
	}
	if raw.Contracts.Proxy != "" {
		project.Contracts.Proxy = raw.Contracts.Proxy
	}
	if raw.Paths.Artifacts != "" {
		project.Paths.Artifacts = raw.Paths.Artifacts
	}
	if raw.Paths.ZkArtifacts != "" {
		project.Paths.ZkArtifacts = raw.Paths.ZkArtifacts
	}
	if raw.Compiler.Solc != "" {
		project.Compiler.Solc = raw.Compiler.Solc
	}
	if raw.Compiler.Zksolc != "" {
		project.Compiler.Zksolc = raw.Compiler.Zksolc
	}
	for name, override := range raw.Networks {
		project.Networks[name] = override
	}

	return project, nil
}
