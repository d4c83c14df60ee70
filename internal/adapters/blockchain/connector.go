package blockchain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/upcade/vaultctl/internal/domain"
	"github.com/upcade/vaultctl/internal/domain/config"
	"github.com/upcade/vaultctl/internal/usecase"
)

const defaultPollInterval = 2 * time.Second

// Connector dials RPC endpoints and hands out chain clients
type Connector struct {
	log          *slog.Logger
	pollInterval time.Duration
}

// NewConnector creates a new connector
func NewConnector(log *slog.Logger) *Connector {
	return &Connector{
		log:          log.With("component", "blockchain"),
		pollInterval: defaultPollInterval,
	}
}

// Connect dials the network and checks it reports the configured chain id.
// Rollup-mode networks get a zkSync client.
func (c *Connector) Connect(ctx context.Context, network *config.Network) (usecase.ChainClient, error) {
	rpcClient, err := rpc.DialContext(ctx, network.RPCURL)
	if err != nil {
		return nil, &domain.NetworkError{Op: "dial", URL: network.RPCURL, Err: err}
	}
	client := ethclient.NewClient(rpcClient)

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, &domain.NetworkError{Op: "eth_chainId", URL: network.RPCURL, Err: err}
	}
	if chainID.Uint64() != network.ChainID {
		client.Close()
		return nil, fmt.Errorf("%w: %s reports chain id %d, expected %d for %s",
			domain.ErrNetworkMismatch, network.RPCURL, chainID.Uint64(), network.ChainID, network.Name)
	}

	c.log.Debug("connected", "network", network.Name, "chain_id", chainID.Uint64(), "zksync", network.ZkSync)
	evm := &EVMClient{
		client:       client,
		chainID:      chainID,
		pollInterval: c.pollInterval,
		log:          c.log.With("network", network.Name),
	}
	if !network.ZkSync {
		return evm, nil
	}
	evm.legacyGas = true
	return &ZkSyncClient{
		EVMClient:     evm,
		rpc:           rpcClient,
		gasPerPubdata: big.NewInt(DefaultGasPerPubdata),
	}, nil
}

// ProbeChainID asks an endpoint for its chain id without validating it.
func (c *Connector) ProbeChainID(ctx context.Context, rpcURL string) (uint64, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return 0, &domain.NetworkError{Op: "dial", URL: rpcURL, Err: err}
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return 0, &domain.NetworkError{Op: "eth_chainId", URL: rpcURL, Err: err}
	}
	return chainID.Uint64(), nil
}

var (
	_ usecase.ChainConnector = (*Connector)(nil)
	_ usecase.ChainProber    = (*Connector)(nil)
)
