package models

import (
	"github.com/ethereum/go-ethereum/common"
)

// PendingTransaction is a submitted state-changing call.
type PendingTransaction struct {
	Hash   common.Hash
	From   common.Address
	To     common.Address
	Method string
	Nonce  uint64
	Data   []byte
}

// Receipt is the confirmation of a mined transaction.
type Receipt struct {
	TxHash          common.Hash
	BlockNumber     uint64
	Status          uint64
	GasUsed         uint64
	ContractAddress common.Address
}

// Succeeded reports whether the transaction executed without reverting.
func (r *Receipt) Succeeded() bool {
	return r != nil && r.Status == 1
}
