package config

import (
	"fmt"
	"strings"
)

// VerifierKind selects the explorer API used to verify sources.
type VerifierKind string

const (
	VerifierEtherscan VerifierKind = "etherscan"
	VerifierZkSync    VerifierKind = "zksync"
)

// Network is a network descriptor: everything needed to reach one chain and
// its block explorer. Descriptors are resolved once and never mutated.
type Network struct {
	Name           string       `json:"name" yaml:"name" validate:"required"`
	Aliases        []string     `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	RPCURL         string       `json:"rpcUrl" yaml:"rpc_url" validate:"required,url"`
	BaseChain      string       `json:"baseChain" yaml:"base_chain" validate:"required"`
	ZkSync         bool         `json:"zksync" yaml:"zksync"`
	ChainID        uint64       `json:"chainId" yaml:"chain_id" validate:"required"`
	VerifyURL      string       `json:"verifyUrl" yaml:"verify_url" validate:"required,url"`
	ExplorerAPIURL string       `json:"explorerApiUrl,omitempty" yaml:"explorer_api_url,omitempty" validate:"omitempty,url"`
	BrowserURL     string       `json:"browserUrl,omitempty" yaml:"browser_url,omitempty" validate:"omitempty,url"`
	Verifier       VerifierKind `json:"verifier" yaml:"verifier" validate:"required,oneof=etherscan zksync"`
	APIKey         string       `json:"-" yaml:"-"`
}

// Matches reports whether name refers to this network by name or alias.
func (n *Network) Matches(name string) bool {
	if strings.EqualFold(n.Name, name) {
		return true
	}
	for _, alias := range n.Aliases {
		if strings.EqualFold(alias, name) {
			return true
		}
	}
	return false
}

// AddressURL links to an address page on the block explorer, or returns an
// empty string when the network has no browser configured.
func (n *Network) AddressURL(address string) string {
	if n.BrowserURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/address/%s", strings.TrimSuffix(n.BrowserURL, "/"), address)
}

// TxURL links to a transaction page on the block explorer.
func (n *Network) TxURL(hash string) string {
	if n.BrowserURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/tx/%s", strings.TrimSuffix(n.BrowserURL, "/"), hash)
}

// ExplorerAPI returns the Etherscan-style API base, falling back to the
// verification URL.
func (n *Network) ExplorerAPI() string {
	if n.ExplorerAPIURL != "" {
		return n.ExplorerAPIURL
	}
	return n.VerifyURL
}
