package render

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/upcade/vaultctl/internal/domain/config"
	"github.com/upcade/vaultctl/internal/usecase"
)

// ConfigRenderer renders config-related output
type ConfigRenderer struct {
	out io.Writer
}

// NewConfigRenderer creates a new config renderer
func NewConfigRenderer(out io.Writer) *ConfigRenderer {
	return &ConfigRenderer{
		out: out,
	}
}

// RenderConfig renders the configuration display
func (r *ConfigRenderer) RenderConfig(result *usecase.ShowConfigResult) error {
	if !result.Exists {
		fmt.Fprintf(r.out, "❌ No .vaultctl/config.local.json file found\n")
		if result.Runtime != nil && result.Runtime.Network != nil {
			fmt.Fprintf(r.out, "Network:   %s (default)\n", result.Runtime.Network.Name)
		}
		return nil
	}

	fmt.Fprintln(r.out, "📋 Current config:")

	if result.Config.Network != "" {
		fmt.Fprintf(r.out, "Network:   %s\n", result.Config.Network)
	} else {
		fmt.Fprintf(r.out, "Network:   %s\n", "(not set)")
	}

	fmt.Fprintf(r.out, "📁 config file: %s\n", getRelativePath(result.ConfigPath))

	return nil
}

type resolvedConfig struct {
	ProjectRoot    string              `yaml:"project_root"`
	DataDir        string              `yaml:"data_dir"`
	Debug          bool                `yaml:"debug"`
	NonInteractive bool                `yaml:"non_interactive"`
	Timeout        string              `yaml:"timeout"`
	LocalConfig    *config.LocalConfig `yaml:"local,omitempty"`
	Network        *config.Network     `yaml:"network,omitempty"`
	Project        *config.ProjectFile `yaml:"project,omitempty"`
}

// RenderYAML prints the fully resolved runtime configuration. Secrets are
// omitted by the yaml tags of the domain types.
func (r *ConfigRenderer) RenderYAML(result *usecase.ShowConfigResult) error {
	out := resolvedConfig{}
	if rt := result.Runtime; rt != nil {
		out.ProjectRoot = rt.ProjectRoot
		out.DataDir = rt.DataDir
		out.Debug = rt.Debug
		out.NonInteractive = rt.NonInteractive
		out.Timeout = rt.Timeout.Round(time.Second).String()
		out.Network = rt.Network
		out.Project = rt.Project
	}
	if result.Exists {
		out.LocalConfig = result.Config
	}

	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return enc.Close()
}

// RenderSet renders the result of setting a configuration value
func (r *ConfigRenderer) RenderSet(result *usecase.SetConfigResult) error {
	fmt.Fprintf(r.out, "✅ Set %s to: %s\n", result.Key, result.Value)
	fmt.Fprintf(r.out, "📁 config saved to: %s\n", getRelativePath(result.ConfigPath))
	return nil
}

// RenderRemove renders the result of removing a configuration value
func (r *ConfigRenderer) RenderRemove(result *usecase.RemoveConfigResult) error {
	switch result.Key {
	case config.ConfigKeyNetwork:
		fmt.Fprintf(r.out, "✅ Removed network from config (will default to test)\n")
	default:
		fmt.Fprintf(r.out, "✅ Removed %s from config\n", result.Key)
	}

	fmt.Fprintf(r.out, "📁 config saved to: %s\n", getRelativePath(result.ConfigPath))
	return nil
}
