package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Network selected by flag, env, local config or default
	Network *Network

	// Execution settings
	Debug          bool
	NonInteractive bool
	Timeout        time.Duration

	// Resolved configurations
	Env     *Environment
	Project *ProjectFile
}

// ArtifactsDir returns the artifact root used for the selected network.
func (c *RuntimeConfig) ArtifactsDir(zkSync bool) string {
	paths := DefaultProjectFile().Paths
	if c.Project != nil {
		paths = c.Project.Paths
	}
	if zkSync {
		return paths.ZkArtifacts
	}
	return paths.Artifacts
}
