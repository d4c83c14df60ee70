package models

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Wallet is a signing identity derived from a hex private key. The key is
// never rendered; String returns the address.
type Wallet struct {
	key     *ecdsa.PrivateKey
	Address common.Address
}

// NewWalletFromHex parses a secp256k1 private key with or without 0x prefix.
func NewWalletFromHex(hexKey string) (*Wallet, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return &Wallet{
		key:     key,
		Address: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// PrivateKey exposes the key for transaction signing.
func (w *Wallet) PrivateKey() *ecdsa.PrivateKey {
	return w.key
}

func (w *Wallet) String() string {
	return w.Address.Hex()
}
