package blockchain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/upcade/vaultctl/internal/domain"
	"github.com/upcade/vaultctl/internal/domain/models"
	"github.com/upcade/vaultctl/internal/usecase"
)

// ContractDeployerAddress is the zkSync system contract that creates contracts.
var ContractDeployerAddress = common.HexToAddress("0x0000000000000000000000000000000000008006")

var contractDeployedTopic = crypto.Keccak256Hash([]byte("ContractDeployed(address,bytes32,address)"))

const contractDeployerABIJSON = `[{
	"type": "function",
	"name": "create",
	"stateMutability": "payable",
	"inputs": [
		{"name": "_salt", "type": "bytes32"},
		{"name": "_bytecodeHash", "type": "bytes32"},
		{"name": "_input", "type": "bytes"}
	],
	"outputs": [{"name": "", "type": "address"}]
}]`

var contractDeployerABI = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(contractDeployerABIJSON))
	if err != nil {
		panic(err)
	}
	return parsed
}()

// ZkSyncClient deploys through the ContractDeployer with type 0x71
// transactions. Calls and transactions to existing contracts go through the
// embedded EVM client.
type ZkSyncClient struct {
	*EVMClient
	rpc           *rpc.Client
	gasPerPubdata *big.Int
}

type eip712Meta struct {
	GasPerPubdata *hexutil.Big `json:"gasPerPubdata"`
	FactoryDeps   [][]int      `json:"factoryDeps,omitempty"`
}

type zkCallRequest struct {
	From       common.Address `json:"from"`
	To         common.Address `json:"to"`
	Data       hexutil.Bytes  `json:"data"`
	Value      *hexutil.Big   `json:"value"`
	Type       hexutil.Uint64 `json:"type"`
	EIP712Meta *eip712Meta    `json:"eip712Meta"`
}

// Deploy sends ContractDeployer.create with the artifact bytecode and its
// factory deps attached.
func (c *ZkSyncClient) Deploy(ctx context.Context, wallet *models.Wallet, artifact *models.Artifact, args ...interface{}) (*models.PendingDeployment, error) {
	method := "deploy " + artifact.ContractName
	ctorArgs, err := artifact.ABI.Pack("", args...)
	if err != nil {
		return nil, fmt.Errorf("encode %s constructor: %w", artifact.ContractName, err)
	}
	hash, err := HashBytecode(artifact.Bytecode)
	if err != nil {
		return nil, fmt.Errorf("hash %s bytecode: %w", artifact.ContractName, err)
	}
	calldata, err := contractDeployerABI.Pack("create", [32]byte{}, hash, ctorArgs)
	if err != nil {
		return nil, fmt.Errorf("encode create call: %w", err)
	}
	deps, err := factoryDeps(artifact)
	if err != nil {
		return nil, err
	}

	nonce, err := c.client.PendingNonceAt(ctx, wallet.Address)
	if err != nil {
		return nil, fmt.Errorf("get nonce: %w", err)
	}
	gasPrice, err := c.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("suggest gas price: %w", err)
	}
	gas, err := c.estimateGas(ctx, wallet.Address, calldata, deps)
	if err != nil {
		return nil, wrapRevert(method, err, &artifact.ABI)
	}

	tx := &Eip712Tx{
		ChainID:       c.chainID,
		Nonce:         nonce,
		GasTipCap:     new(big.Int),
		GasFeeCap:     gasPrice,
		Gas:           gas,
		From:          wallet.Address,
		To:            ContractDeployerAddress,
		Value:         new(big.Int),
		Data:          calldata,
		GasPerPubdata: c.gasPerPubdata,
		FactoryDeps:   deps,
	}
	raw, err := tx.Sign(wallet.PrivateKey())
	if err != nil {
		return nil, err
	}

	var txHash common.Hash
	if err := c.rpc.CallContext(ctx, &txHash, "eth_sendRawTransaction", hexutil.Encode(raw)); err != nil {
		return nil, wrapRevert(method, err, &artifact.ABI)
	}

	c.log.Debug("eip712 creation transaction sent",
		"contract", artifact.ContractName, "tx", txHash.Hex(), "nonce", nonce, "factory_deps", len(deps))
	return &models.PendingDeployment{
		ContractName: artifact.ContractName,
		TxHash:       txHash,
		Nonce:        nonce,
	}, nil
}

// WaitDeployed reads the new address from the ContractDeployed event.
func (c *ZkSyncClient) WaitDeployed(ctx context.Context, pending *models.PendingDeployment) (*models.DeployedContract, error) {
	receipt, err := c.waitReceipt(ctx, pending.TxHash)
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, &domain.TransactionRevertError{
			Method: "deploy " + pending.ContractName,
			TxHash: pending.TxHash.Hex(),
			Reason: "creation transaction failed",
		}
	}

	address, ok := deployedAddress(receipt.Logs)
	if !ok {
		return nil, fmt.Errorf("no ContractDeployed event in receipt of %s", pending.TxHash.Hex())
	}
	return &models.DeployedContract{
		ContractName: pending.ContractName,
		Address:      address,
		TxHash:       pending.TxHash,
		BlockNumber:  toReceipt(receipt).BlockNumber,
	}, nil
}

func (c *ZkSyncClient) estimateGas(ctx context.Context, from common.Address, data []byte, deps [][]byte) (uint64, error) {
	req := zkCallRequest{
		From:  from,
		To:    ContractDeployerAddress,
		Data:  data,
		Value: (*hexutil.Big)(new(big.Int)),
		Type:  EIP712TxType,
		EIP712Meta: &eip712Meta{
			GasPerPubdata: (*hexutil.Big)(c.gasPerPubdata),
			FactoryDeps:   make([][]int, len(deps)),
		},
	}
	for i, dep := range deps {
		ints := make([]int, len(dep))
		for j, b := range dep {
			ints[j] = int(b)
		}
		req.EIP712Meta.FactoryDeps[i] = ints
	}

	var gas hexutil.Uint64
	if err := c.rpc.CallContext(ctx, &gas, "eth_estimateGas", req); err != nil {
		return 0, err
	}
	return uint64(gas), nil
}

// factoryDeps lists the artifact's own bytecode followed by its
// dependencies, each once.
func factoryDeps(artifact *models.Artifact) ([][]byte, error) {
	seen := make(map[[32]byte]bool)
	deps := make([][]byte, 0, len(artifact.FactoryDeps)+1)
	for i, code := range append([][]byte{artifact.Bytecode}, artifact.FactoryDeps...) {
		hash, err := HashBytecode(code)
		if err != nil {
			return nil, fmt.Errorf("factory dep %d of %s: %w", i, artifact.ContractName, err)
		}
		if seen[hash] {
			continue
		}
		seen[hash] = true
		deps = append(deps, code)
	}
	return deps, nil
}

// deployedAddress returns the address of the last ContractDeployed event
// emitted by the ContractDeployer.
func deployedAddress(logs []*types.Log) (common.Address, bool) {
	for i := len(logs) - 1; i >= 0; i-- {
		l := logs[i]
		if l.Address != ContractDeployerAddress || len(l.Topics) < 4 || l.Topics[0] != contractDeployedTopic {
			continue
		}
		return common.BytesToAddress(l.Topics[3].Bytes()), true
	}
	return common.Address{}, false
}

var _ usecase.ChainClient = (*ZkSyncClient)(nil)
