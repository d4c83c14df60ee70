package config

import (
	"regexp"
	"sort"
	"strings"

	"github.com/upcade/vaultctl/internal/domain"
)

// Well-known environment variable names read by the workflows.
const (
	EnvPrivateKey                 = "PRIVATE_KEY"
	EnvWalletPrivateKey           = "WALLET_PRIVATE_KEY"
	EnvFeeRecipient               = "FEE_RECIPIENT"
	EnvVault                      = "VAULT"
	EnvManager                    = "MANAGER"
	EnvVaultImplementationAddress = "VAULT_IMPLEMENTATION_ADDRESS"
	EnvVaultProxyAddress          = "VAULT_PROXY_ADDRESS"
)

var envRefRegex = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Environment is an immutable snapshot of environment variables taken once
// at start-up. Workflows read configuration only through it.
type Environment struct {
	values map[string]string
}

// NewEnvironment copies values into a new snapshot.
func NewEnvironment(values map[string]string) *Environment {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return &Environment{values: copied}
}

// Lookup returns the raw value and whether it was set at all.
func (e *Environment) Lookup(name string) (string, bool) {
	if e == nil {
		return "", false
	}
	v, ok := e.values[name]
	return v, ok
}

// Get returns the value or an empty string.
func (e *Environment) Get(name string) string {
	v, _ := e.Lookup(name)
	return v
}

// Required returns the value of name, failing with a ConfigurationError when
// the variable is absent or empty.
func (e *Environment) Required(name string) (string, error) {
	v, ok := e.Lookup(name)
	if !ok || v == "" {
		return "", domain.MissingEnv(name)
	}
	return v, nil
}

// RequiredAny returns the first non-empty value among names together with the
// name it was read from.
func (e *Environment) RequiredAny(names ...string) (string, string, error) {
	for _, name := range names {
		if v, ok := e.Lookup(name); ok && v != "" {
			return v, name, nil
		}
	}
	return "", "", domain.MissingEnv(strings.Join(names, " or "))
}

// Expand replaces ${VAR} references with values from the snapshot. Unknown
// references expand to the empty string.
func (e *Environment) Expand(s string) string {
	return envRefRegex.ReplaceAllStringFunc(s, func(ref string) string {
		name := envRefRegex.FindStringSubmatch(ref)[1]
		return e.Get(name)
	})
}

// Names returns the sorted variable names in the snapshot.
func (e *Environment) Names() []string {
	if e == nil {
		return nil
	}
	names := make([]string, 0, len(e.values))
	for k := range e.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
