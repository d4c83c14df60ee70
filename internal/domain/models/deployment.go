package models

import (
	"time"
)

// DeploymentRecord is one successful run of the deployment workflow, kept in
// the local registry for reference.
type DeploymentRecord struct {
	Network        string    `json:"network"`
	ChainID        uint64    `json:"chainId"`
	Deployer       string    `json:"deployer"`
	Implementation string    `json:"implementation"`
	Proxy          string    `json:"proxy"`
	FeeRecipient   string    `json:"feeRecipient"`
	ImplTxHash     string    `json:"implementationTx"`
	ProxyTxHash    string    `json:"proxyTx"`
	CreatedAt      time.Time `json:"createdAt"`
}
