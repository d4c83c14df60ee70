package blockchain

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

const (
	// EIP712TxType is the zkSync transaction type carrying factory deps.
	EIP712TxType = 0x71

	// DefaultGasPerPubdata is the pubdata gas limit zkSync tooling signs with.
	DefaultGasPerPubdata = 50000
)

var eip712Types = apitypes.Types{
	"EIP712Domain": {
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "chainId", Type: "uint256"},
	},
	"Transaction": {
		{Name: "txType", Type: "uint256"},
		{Name: "from", Type: "uint256"},
		{Name: "to", Type: "uint256"},
		{Name: "gasLimit", Type: "uint256"},
		{Name: "gasPerPubdataByteLimit", Type: "uint256"},
		{Name: "maxFeePerGas", Type: "uint256"},
		{Name: "maxPriorityFeePerGas", Type: "uint256"},
		{Name: "paymaster", Type: "uint256"},
		{Name: "nonce", Type: "uint256"},
		{Name: "value", Type: "uint256"},
		{Name: "data", Type: "bytes"},
		{Name: "factoryDeps", Type: "bytes32[]"},
		{Name: "paymasterInput", Type: "bytes"},
	},
}

// Eip712Tx is an unsigned zkSync type 0x71 transaction.
type Eip712Tx struct {
	ChainID       *big.Int
	Nonce         uint64
	GasTipCap     *big.Int
	GasFeeCap     *big.Int
	Gas           uint64
	From          common.Address
	To            common.Address
	Value         *big.Int
	Data          []byte
	GasPerPubdata *big.Int
	FactoryDeps   [][]byte
}

// eip712Envelope is the RLP field order of a signed type 0x71 transaction.
type eip712Envelope struct {
	Nonce           uint64
	GasTipCap       *big.Int
	GasFeeCap       *big.Int
	Gas             uint64
	To              common.Address
	Value           *big.Int
	Data            []byte
	V               uint64
	R               *big.Int
	S               *big.Int
	ChainID         *big.Int
	From            common.Address
	GasPerPubdata   *big.Int
	FactoryDeps     [][]byte
	CustomSignature []byte
	PaymasterParams []interface{}
}

// TypedData returns the EIP-712 structure the sender signs.
func (tx *Eip712Tx) TypedData() (apitypes.TypedData, error) {
	deps := make([]interface{}, 0, len(tx.FactoryDeps))
	for i, dep := range tx.FactoryDeps {
		hash, err := HashBytecode(dep)
		if err != nil {
			return apitypes.TypedData{}, fmt.Errorf("factory dep %d: %w", i, err)
		}
		deps = append(deps, hexutil.Encode(hash[:]))
	}

	return apitypes.TypedData{
		Types:       eip712Types,
		PrimaryType: "Transaction",
		Domain: apitypes.TypedDataDomain{
			Name:    "zkSync",
			Version: "2",
			ChainId: math.NewHexOrDecimal256(tx.ChainID.Int64()),
		},
		Message: apitypes.TypedDataMessage{
			"txType":                 fmt.Sprint(EIP712TxType),
			"from":                   addressAsUint(tx.From),
			"to":                     addressAsUint(tx.To),
			"gasLimit":               new(big.Int).SetUint64(tx.Gas).String(),
			"gasPerPubdataByteLimit": bigOrZero(tx.GasPerPubdata).String(),
			"maxFeePerGas":           bigOrZero(tx.GasFeeCap).String(),
			"maxPriorityFeePerGas":   bigOrZero(tx.GasTipCap).String(),
			"paymaster":              "0",
			"nonce":                  new(big.Int).SetUint64(tx.Nonce).String(),
			"value":                  bigOrZero(tx.Value).String(),
			"data":                   hexutil.Encode(tx.Data),
			"factoryDeps":            deps,
			"paymasterInput":         "0x",
		},
	}, nil
}

// SigningHash is the EIP-712 digest of the transaction.
func (tx *Eip712Tx) SigningHash() (common.Hash, error) {
	typed, err := tx.TypedData()
	if err != nil {
		return common.Hash{}, err
	}
	hash, _, err := apitypes.TypedDataAndHash(typed)
	if err != nil {
		return common.Hash{}, fmt.Errorf("hash typed data: %w", err)
	}
	return common.BytesToHash(hash), nil
}

// Sign returns the raw 0x71-prefixed transaction ready for eth_sendRawTransaction.
func (tx *Eip712Tx) Sign(key *ecdsa.PrivateKey) ([]byte, error) {
	hash, err := tx.SigningHash()
	if err != nil {
		return nil, err
	}
	sig, err := crypto.Sign(hash.Bytes(), key)
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}

	custom := make([]byte, len(sig))
	copy(custom, sig)
	custom[64] += 27

	env := eip712Envelope{
		Nonce:           tx.Nonce,
		GasTipCap:       bigOrZero(tx.GasTipCap),
		GasFeeCap:       bigOrZero(tx.GasFeeCap),
		Gas:             tx.Gas,
		To:              tx.To,
		Value:           bigOrZero(tx.Value),
		Data:            tx.Data,
		V:               uint64(sig[64]),
		R:               new(big.Int).SetBytes(sig[:32]),
		S:               new(big.Int).SetBytes(sig[32:64]),
		ChainID:         tx.ChainID,
		From:            tx.From,
		GasPerPubdata:   bigOrZero(tx.GasPerPubdata),
		FactoryDeps:     tx.FactoryDeps,
		CustomSignature: custom,
		PaymasterParams: []interface{}{},
	}
	if env.FactoryDeps == nil {
		env.FactoryDeps = [][]byte{}
	}

	payload, err := rlp.EncodeToBytes(&env)
	if err != nil {
		return nil, fmt.Errorf("encode transaction: %w", err)
	}
	return append([]byte{EIP712TxType}, payload...), nil
}

func addressAsUint(addr common.Address) string {
	return new(big.Int).SetBytes(addr.Bytes()).String()
}

func bigOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
