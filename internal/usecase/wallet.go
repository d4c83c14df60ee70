package usecase

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/upcade/vaultctl/internal/domain"
	"github.com/upcade/vaultctl/internal/domain/config"
	"github.com/upcade/vaultctl/internal/domain/models"
)

// loadWallet reads the signing key. PRIVATE_KEY wins over the deprecated
// WALLET_PRIVATE_KEY.
func loadWallet(env Environment, log *slog.Logger) (*models.Wallet, error) {
	key, from, err := env.RequiredAny(config.EnvPrivateKey, config.EnvWalletPrivateKey)
	if err != nil {
		return nil, err
	}
	if from == config.EnvWalletPrivateKey {
		log.Warn("WALLET_PRIVATE_KEY is deprecated, set PRIVATE_KEY instead")
	}

	wallet, err := models.NewWalletFromHex(key)
	if err != nil {
		// the parse error is dropped so the key never reaches the output
		return nil, &domain.ConfigurationError{Name: from, Reason: "not a valid secp256k1 private key"}
	}
	return wallet, nil
}

// requiredAddress reads a mandatory address variable, lower-cased.
func requiredAddress(env Environment, name string) (common.Address, string, error) {
	raw, err := env.Required(name)
	if err != nil {
		return common.Address{}, "", err
	}
	raw = strings.ToLower(strings.TrimSpace(raw))
	addr, err := parseAddress(name, raw)
	if err != nil {
		return common.Address{}, "", err
	}
	return addr, raw, nil
}

// parseAddress validates a hex address; an empty value decodes to the zero address.
func parseAddress(name, value string) (common.Address, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return zeroAddress, nil
	}
	if !common.IsHexAddress(value) {
		return common.Address{}, &domain.ConfigurationError{
			Name:   name,
			Reason: fmt.Sprintf("%q is not a 20-byte hex address", value),
		}
	}
	return common.HexToAddress(value), nil
}
