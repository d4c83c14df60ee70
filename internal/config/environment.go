package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/upcade/vaultctl/internal/domain/config"
)

// envFiles are read in order; later files override earlier ones and the
// process environment overrides them all.
var envFiles = []string{".env", ".env.local"}

// LoadEnvironment takes the environment snapshot for one invocation. Dotenv
// files are read into the snapshot only; the process environment is not
// modified.
func LoadEnvironment(projectRoot string) (*config.Environment, error) {
	values := make(map[string]string)

	for _, name := range envFiles {
		path := filepath.Join(projectRoot, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		fileValues, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", name, err)
		}
		for k, v := range fileValues {
			values[k] = v
		}
	}

	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			values[k] = v
		}
	}

	return config.NewEnvironment(values), nil
}
