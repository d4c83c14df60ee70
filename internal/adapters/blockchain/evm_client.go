package blockchain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/upcade/vaultctl/internal/domain"
	"github.com/upcade/vaultctl/internal/domain/models"
	"github.com/upcade/vaultctl/internal/usecase"
)

// EVMClient talks to a standard EVM chain through ethclient and abigen's
// BoundContract.
type EVMClient struct {
	client       *ethclient.Client
	chainID      *big.Int
	pollInterval time.Duration
	legacyGas    bool
	log          *slog.Logger
}

func (c *EVMClient) ChainID() uint64 {
	return c.chainID.Uint64()
}

func (c *EVMClient) Close() {
	c.client.Close()
}

// Deploy submits a creation transaction for the artifact.
func (c *EVMClient) Deploy(ctx context.Context, wallet *models.Wallet, artifact *models.Artifact, args ...interface{}) (*models.PendingDeployment, error) {
	method := "deploy " + artifact.ContractName
	ctorArgs, err := artifact.ABI.Pack("", args...)
	if err != nil {
		return nil, fmt.Errorf("encode %s constructor: %w", artifact.ContractName, err)
	}

	input := append(append([]byte{}, artifact.Bytecode...), ctorArgs...)
	gas, err := c.client.EstimateGas(ctx, ethereum.CallMsg{From: wallet.Address, Data: input})
	if err != nil {
		return nil, wrapRevert(method, err, &artifact.ABI)
	}

	opts, err := c.transactOpts(ctx, wallet, gas)
	if err != nil {
		return nil, err
	}
	address, tx, _, err := bind.DeployContract(opts, artifact.ABI, artifact.Bytecode, c.client, args...)
	if err != nil {
		return nil, wrapRevert(method, err, &artifact.ABI)
	}

	c.log.Debug("creation transaction sent", "contract", artifact.ContractName, "tx", tx.Hash().Hex(), "nonce", tx.Nonce())
	return &models.PendingDeployment{
		ContractName: artifact.ContractName,
		TxHash:       tx.Hash(),
		Address:      address,
		Nonce:        tx.Nonce(),
	}, nil
}

// WaitDeployed blocks until the creation transaction is mined and code exists
// at the new address.
func (c *EVMClient) WaitDeployed(ctx context.Context, pending *models.PendingDeployment) (*models.DeployedContract, error) {
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

	address := receipt.ContractAddress
	if address == (common.Address{}) {
		address = pending.Address
	}
	code, err := c.client.CodeAt(ctx, address, receipt.BlockNumber)
	if err != nil {
		return nil, fmt.Errorf("read code at %s: %w", address.Hex(), err)
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("%w: %s", bind.ErrNoCodeAfterDeploy, address.Hex())
	}

	return &models.DeployedContract{
		ContractName: pending.ContractName,
		Address:      address,
		TxHash:       pending.TxHash,
		BlockNumber:  receipt.BlockNumber.Uint64(),
	}, nil
}

// Call executes a read-only method against the latest block.
func (c *EVMClient) Call(ctx context.Context, contract *models.ContractRef, method string, args ...interface{}) ([]interface{}, error) {
	bound := bind.NewBoundContract(contract.Address, *contract.ABI, c.client, c.client, c.client)
	var out []interface{}
	if err := bound.Call(&bind.CallOpts{Context: ctx}, &out, method, args...); err != nil {
		return nil, wrapRevert(method, err, contract.ABI)
	}
	return out, nil
}

// Transact sends a state-changing call. Gas is estimated up front so revert
// data from the node survives.
func (c *EVMClient) Transact(ctx context.Context, wallet *models.Wallet, contract *models.ContractRef, method string, args ...interface{}) (*models.PendingTransaction, error) {
	data, err := contract.ABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", method, err)
	}

	to := contract.Address
	gas, err := c.client.EstimateGas(ctx, ethereum.CallMsg{From: wallet.Address, To: &to, Data: data})
	if err != nil {
		return nil, wrapRevert(method, err, contract.ABI)
	}

	opts, err := c.transactOpts(ctx, wallet, gas)
	if err != nil {
		return nil, err
	}
	bound := bind.NewBoundContract(contract.Address, *contract.ABI, c.client, c.client, c.client)
	tx, err := bound.RawTransact(opts, data)
	if err != nil {
		return nil, wrapRevert(method, err, contract.ABI)
	}

	c.log.Debug("transaction sent", "method", method, "tx", tx.Hash().Hex(), "nonce", tx.Nonce())
	return &models.PendingTransaction{
		Hash:   tx.Hash(),
		From:   wallet.Address,
		To:     contract.Address,
		Method: method,
		Nonce:  tx.Nonce(),
		Data:   data,
	}, nil
}

// WaitMined blocks until the transaction is mined. A failed status is
// replayed with eth_call to recover the revert reason.
func (c *EVMClient) WaitMined(ctx context.Context, pending *models.PendingTransaction) (*models.Receipt, error) {
	receipt, err := c.waitReceipt(ctx, pending.Hash)
	if err != nil {
		return nil, err
	}
	out := toReceipt(receipt)
	if receipt.Status == types.ReceiptStatusSuccessful {
		return out, nil
	}

	revert := &domain.TransactionRevertError{Method: pending.Method, TxHash: pending.Hash.Hex()}
	to := pending.To
	_, callErr := c.client.CallContract(ctx, ethereum.CallMsg{From: pending.From, To: &to, Data: pending.Data}, receipt.BlockNumber)
	if callErr != nil {
		var decoded *domain.TransactionRevertError
		if errors.As(wrapRevert(pending.Method, callErr, nil), &decoded) {
			revert.Reason = decoded.Reason
		}
		revert.Err = callErr
	}
	return out, revert
}

func (c *EVMClient) transactOpts(ctx context.Context, wallet *models.Wallet, gasLimit uint64) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(wallet.PrivateKey(), c.chainID)
	if err != nil {
		return nil, fmt.Errorf("create transactor: %w", err)
	}
	opts.Context = ctx
	opts.GasLimit = gasLimit
	if c.legacyGas {
		price, err := c.client.SuggestGasPrice(ctx)
		if err != nil {
			return nil, fmt.Errorf("suggest gas price: %w", err)
		}
		opts.GasPrice = price
	}
	return opts, nil
}

// waitReceipt polls for the receipt until it exists or ctx ends.
func (c *EVMClient) waitReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	logger := c.log.With("tx", hash.Hex())
	for {
		receipt, err := c.client.TransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}

		if errors.Is(err, ethereum.NotFound) {
			logger.Debug("transaction not yet mined")
		} else {
			logger.Debug("receipt retrieval failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for %s: %w", hash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}

func toReceipt(r *types.Receipt) *models.Receipt {
	out := &models.Receipt{
		TxHash:          r.TxHash,
		Status:          r.Status,
		GasUsed:         r.GasUsed,
		ContractAddress: r.ContractAddress,
	}
	if r.BlockNumber != nil {
		out.BlockNumber = r.BlockNumber.Uint64()
	}
	return out
}

var _ usecase.ChainClient = (*EVMClient)(nil)
