package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upcade/vaultctl/internal/domain"
)

func TestEnvironment_Required(t *testing.T) {
	env := NewEnvironment(map[string]string{
		"PRESENT": "value",
		"EMPTY":   "",
	})

	v, err := env.Required("PRESENT")
	require.NoError(t, err)
	assert.Equal(t, "value", v)

	for _, name := range []string{"EMPTY", "ABSENT"} {
		t.Run(name, func(t *testing.T) {
			_, err := env.Required(name)
			require.Error(t, err)

			var cfgErr *domain.ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, name, cfgErr.Name)
			assert.Equal(t, "Missing "+name+" from environment", err.Error())
		})
	}
}

func TestEnvironment_RequiredAny(t *testing.T) {
	env := NewEnvironment(map[string]string{
		EnvWalletPrivateKey: "legacy",
	})

	v, from, err := env.RequiredAny(EnvPrivateKey, EnvWalletPrivateKey)
	require.NoError(t, err)
	assert.Equal(t, "legacy", v)
	assert.Equal(t, EnvWalletPrivateKey, from)

	env = NewEnvironment(map[string]string{
		EnvPrivateKey:       "primary",
		EnvWalletPrivateKey: "legacy",
	})
	v, from, err = env.RequiredAny(EnvPrivateKey, EnvWalletPrivateKey)
	require.NoError(t, err)
	assert.Equal(t, "primary", v)
	assert.Equal(t, EnvPrivateKey, from)

	_, _, err = NewEnvironment(nil).RequiredAny(EnvPrivateKey, EnvWalletPrivateKey)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PRIVATE_KEY or WALLET_PRIVATE_KEY")
}

func TestEnvironment_IsSnapshot(t *testing.T) {
	values := map[string]string{"A": "1"}
	env := NewEnvironment(values)
	values["A"] = "2"

	assert.Equal(t, "1", env.Get("A"))
}

func TestEnvironment_Expand(t *testing.T) {
	env := NewEnvironment(map[string]string{"KEY": "abc"})

	assert.Equal(t, "abc", env.Expand("${KEY}"))
	assert.Equal(t, "https://x/abc?y", env.Expand("https://x/${KEY}?y"))
	assert.Equal(t, "", env.Expand("${MISSING}"))
	assert.Equal(t, "$KEY", env.Expand("$KEY"))
}

func TestNetwork_Matches(t *testing.T) {
	n := &Network{Name: "test", Aliases: []string{"abstractTestnet"}}

	assert.True(t, n.Matches("test"))
	assert.True(t, n.Matches("TEST"))
	assert.True(t, n.Matches("abstracttestnet"))
	assert.False(t, n.Matches("main"))
}

func TestNetwork_URLs(t *testing.T) {
	n := &Network{BrowserURL: "https://abscan.org/", VerifyURL: "https://verify"}

	assert.Equal(t, "https://abscan.org/address/0xabc", n.AddressURL("0xabc"))
	assert.Equal(t, "https://abscan.org/tx/0x01", n.TxURL("0x01"))
	assert.Equal(t, "https://verify", n.ExplorerAPI())

	n.ExplorerAPIURL = "https://api"
	assert.Equal(t, "https://api", n.ExplorerAPI())
	assert.Empty(t, (&Network{}).AddressURL("0xabc"))
}
