package models

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// PendingDeployment is a submitted creation transaction that has not been
// confirmed yet. Address may be zero when it is only known from the receipt.
type PendingDeployment struct {
	ContractName string
	TxHash       common.Hash
	Address      common.Address
	Nonce        uint64
}

// DeployedContract is a handle to a contract whose creation transaction has
// been confirmed.
type DeployedContract struct {
	ContractName string
	Address      common.Address
	TxHash       common.Hash
	BlockNumber  uint64
	ABI          *abi.ABI
}

// ContractRef binds an ABI to an existing address.
type ContractRef struct {
	Address common.Address
	ABI     *abi.ABI
}
