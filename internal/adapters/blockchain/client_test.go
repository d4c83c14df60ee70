package blockchain

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upcade/vaultctl/internal/domain"
	"github.com/upcade/vaultctl/internal/domain/config"
	"github.com/upcade/vaultctl/internal/domain/models"
)

type rpcError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type rpcHandler func(params []json.RawMessage) (interface{}, *rpcError)

// fakeNode is a minimal JSON-RPC endpoint answering from per-method handlers.
type fakeNode struct {
	mu       sync.Mutex
	handlers map[string]rpcHandler
	calls    map[string][][]json.RawMessage
}

func newFakeNode(t *testing.T, chainID uint64) (*fakeNode, string) {
	t.Helper()
	node := &fakeNode{
		handlers: map[string]rpcHandler{
			"eth_chainId": func([]json.RawMessage) (interface{}, *rpcError) {
				return hexutil.EncodeUint64(chainID), nil
			},
		},
		calls: make(map[string][][]json.RawMessage),
	}
	srv := httptest.NewServer(node)
	t.Cleanup(srv.Close)
	return node, srv.URL
}

func (n *fakeNode) handle(method string, h rpcHandler) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handlers[method] = h
}

func (n *fakeNode) result(method string, v interface{}) {
	n.handle(method, func([]json.RawMessage) (interface{}, *rpcError) { return v, nil })
}

func (n *fakeNode) callsTo(method string) [][]json.RawMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls[method]
}

func (n *fakeNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	var req struct {
		ID     json.RawMessage   `json:"id"`
		Method string            `json:"method"`
		Params []json.RawMessage `json:"params"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	n.mu.Lock()
	n.calls[req.Method] = append(n.calls[req.Method], req.Params)
	h, ok := n.handlers[req.Method]
	n.mu.Unlock()

	resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
	if !ok {
		resp["error"] = &rpcError{Code: -32601, Message: "method not found: " + req.Method}
	} else if result, rpcErr := h(req.Params); rpcErr != nil {
		resp["error"] = rpcErr
	} else {
		resp["result"] = result
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func receiptJSON(txHash, status string, logs []map[string]interface{}) map[string]interface{} {
	if logs == nil {
		logs = []map[string]interface{}{}
	}
	return map[string]interface{}{
		"transactionHash":   txHash,
		"transactionIndex":  "0x0",
		"blockHash":         hexutil.Encode(bytes.Repeat([]byte{0x0b}, 32)),
		"blockNumber":       "0x10",
		"status":            status,
		"cumulativeGasUsed": "0x5208",
		"gasUsed":           "0x5208",
		"effectiveGasPrice": "0x1",
		"type":              "0x0",
		"logsBloom":         "0x" + strings.Repeat("00", 256),
		"logs":              logs,
	}
}

func logJSON(txHash string, address common.Address, topics ...common.Hash) map[string]interface{} {
	hexTopics := make([]string, len(topics))
	for i, topic := range topics {
		hexTopics[i] = topic.Hex()
	}
	return map[string]interface{}{
		"address":          address.Hex(),
		"topics":           hexTopics,
		"data":             "0x",
		"transactionHash":  txHash,
		"transactionIndex": "0x0",
		"blockHash":        hexutil.Encode(bytes.Repeat([]byte{0x0b}, 32)),
		"blockNumber":      "0x10",
		"logIndex":         "0x0",
		"removed":          false,
	}
}

func testConnector() *Connector {
	c := NewConnector(slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.pollInterval = 10 * time.Millisecond
	return c
}

func network(url string, chainID uint64, zk bool) *config.Network {
	return &config.Network{Name: "test", RPCURL: url, ChainID: chainID, ZkSync: zk}
}

func TestConnector_Connect(t *testing.T) {
	_, url := newFakeNode(t, 11124)
	ctx := context.Background()

	zk, err := testConnector().Connect(ctx, network(url, 11124, true))
	require.NoError(t, err)
	defer zk.Close()
	assert.IsType(t, &ZkSyncClient{}, zk)
	assert.Equal(t, uint64(11124), zk.ChainID())

	evm, err := testConnector().Connect(ctx, network(url, 11124, false))
	require.NoError(t, err)
	defer evm.Close()
	assert.IsType(t, &EVMClient{}, evm)
}

func TestConnector_ChainIDMismatch(t *testing.T) {
	_, url := newFakeNode(t, 1)

	_, err := testConnector().Connect(context.Background(), network(url, 11124, true))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNetworkMismatch)
	assert.Contains(t, err.Error(), "expected 11124")
}

func TestConnector_ProbeChainID(t *testing.T) {
	node, url := newFakeNode(t, 2741)

	id, err := testConnector().ProbeChainID(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, uint64(2741), id)

	node.handle("eth_chainId", func([]json.RawMessage) (interface{}, *rpcError) {
		return nil, &rpcError{Code: -32000, Message: "unavailable"}
	})
	_, err = testConnector().ProbeChainID(context.Background(), url)
	var netErr *domain.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, "eth_chainId", netErr.Op)
}

func TestZkSyncClient_DeployThroughContractDeployer(t *testing.T) {
	node, url := newFakeNode(t, 11124)
	wallet := testWallet(t)
	txHash := hexutil.Encode(bytes.Repeat([]byte{0xab}, 32))
	child := common.HexToAddress("0x00000000000000000000000000000000000000c1")
	deployed := common.HexToAddress("0x1111111111111111111111111111111111111111")

	node.result("eth_getTransactionCount", "0x3")
	node.result("eth_gasPrice", "0x17d7840")
	node.result("eth_estimateGas", "0x1000")
	node.result("eth_sendRawTransaction", txHash)
	node.result("eth_getTransactionReceipt", receiptJSON(txHash, "0x1", []map[string]interface{}{
		logJSON(txHash, ContractDeployerAddress, contractDeployedTopic, common.BytesToHash(wallet.Address.Bytes()), common.Hash{}, common.BytesToHash(child.Bytes())),
		logJSON(txHash, common.HexToAddress("0x800a")),
		logJSON(txHash, ContractDeployerAddress, contractDeployedTopic, common.BytesToHash(wallet.Address.Bytes()), common.Hash{}, common.BytesToHash(deployed.Bytes())),
	}))

	contractABI := parseABI(t, `[{"type":"constructor","inputs":[{"name":"owner","type":"address"}]}]`)
	bytecode := bytes.Repeat([]byte{0x01}, 32)
	dep := bytes.Repeat([]byte{0x02}, 96)
	artifact := &models.Artifact{
		ContractName: "UpcadeVault",
		ABI:          *contractABI,
		Bytecode:     bytecode,
		FactoryDeps:  [][]byte{dep, bytecode},
		ZkSync:       true,
	}

	ctx := context.Background()
	client, err := testConnector().Connect(ctx, network(url, 11124, true))
	require.NoError(t, err)
	defer client.Close()

	pending, err := client.Deploy(ctx, wallet, artifact, wallet.Address)
	require.NoError(t, err)
	assert.Equal(t, common.HexToHash(txHash), pending.TxHash)
	assert.Equal(t, uint64(3), pending.Nonce)

	// gas estimate carries the eip712 metadata
	estimates := node.callsTo("eth_estimateGas")
	require.Len(t, estimates, 1)
	var estimateReq map[string]interface{}
	require.NoError(t, json.Unmarshal(estimates[0][0], &estimateReq))
	assert.Equal(t, "0x71", estimateReq["type"])
	assert.Equal(t, strings.ToLower(ContractDeployerAddress.Hex()), strings.ToLower(estimateReq["to"].(string)))
	meta := estimateReq["eip712Meta"].(map[string]interface{})
	assert.Equal(t, "0xc350", meta["gasPerPubdata"])
	assert.Len(t, meta["factoryDeps"], 2)

	// the raw transaction is a signed 0x71 envelope
	sends := node.callsTo("eth_sendRawTransaction")
	require.Len(t, sends, 1)
	var rawHex string
	require.NoError(t, json.Unmarshal(sends[0][0], &rawHex))
	raw, err := hexutil.Decode(rawHex)
	require.NoError(t, err)
	require.Equal(t, byte(EIP712TxType), raw[0])

	var env eip712Envelope
	require.NoError(t, rlp.DecodeBytes(raw[1:], &env))
	assert.Equal(t, ContractDeployerAddress, env.To)
	assert.Equal(t, wallet.Address, env.From)
	assert.Equal(t, uint64(3), env.Nonce)
	assert.Equal(t, uint64(0x1000), env.Gas)
	assert.Equal(t, int64(0x17d7840), env.GasFeeCap.Int64())
	assert.Equal(t, [][]byte{bytecode, dep}, env.FactoryDeps)

	args, err := contractDeployerABI.Methods["create"].Inputs.Unpack(env.Data[4:])
	require.NoError(t, err)
	wantHash, err := HashBytecode(bytecode)
	require.NoError(t, err)
	assert.Equal(t, [32]byte{}, args[0])
	assert.Equal(t, wantHash, args[1])
	ctorArgs, err := contractABI.Pack("", wallet.Address)
	require.NoError(t, err)
	assert.Equal(t, ctorArgs, args[2])

	handle, err := client.WaitDeployed(ctx, pending)
	require.NoError(t, err)
	assert.Equal(t, deployed, handle.Address)
	assert.Equal(t, uint64(0x10), handle.BlockNumber)
}

func TestZkSyncClient_DeployFailedStatus(t *testing.T) {
	node, url := newFakeNode(t, 11124)
	txHash := hexutil.Encode(bytes.Repeat([]byte{0xcd}, 32))
	node.result("eth_getTransactionReceipt", receiptJSON(txHash, "0x0", nil))

	ctx := context.Background()
	client, err := testConnector().Connect(ctx, network(url, 11124, true))
	require.NoError(t, err)
	defer client.Close()

	_, err = client.WaitDeployed(ctx, &models.PendingDeployment{ContractName: "ERC1967Proxy", TxHash: common.HexToHash(txHash)})
	var revert *domain.TransactionRevertError
	require.ErrorAs(t, err, &revert)
	assert.Equal(t, "deploy ERC1967Proxy", revert.Method)
}

func TestClient_TransactRevertSurfacesReason(t *testing.T) {
	node, url := newFakeNode(t, 2741)
	contractABI := parseABI(t, accessControlABI)
	wallet := testWallet(t)
	role := [32]byte{0x01}

	node.handle("eth_estimateGas", func([]json.RawMessage) (interface{}, *rpcError) {
		return nil, &rpcError{Code: 3, Message: "execution reverted", Data: unauthorizedData(t, contractABI, wallet.Address, role)}
	})

	ctx := context.Background()
	client, err := testConnector().Connect(ctx, network(url, 2741, false))
	require.NoError(t, err)
	defer client.Close()

	vault := &models.ContractRef{Address: common.HexToAddress("0x1111111111111111111111111111111111111111"), ABI: contractABI}
	_, err = client.Transact(ctx, wallet, vault, "grantRole", role, wallet.Address)

	var revert *domain.TransactionRevertError
	require.ErrorAs(t, err, &revert)
	assert.Equal(t, "grantRole", revert.Method)
	assert.True(t, strings.HasPrefix(revert.Reason, "AccessControlUnauthorizedAccount("))
	assert.Empty(t, node.callsTo("eth_sendRawTransaction"))
}

func TestClient_TransactAndWaitMined(t *testing.T) {
	node, url := newFakeNode(t, 11124)
	contractABI := parseABI(t, accessControlABI)
	wallet := testWallet(t)

	node.result("eth_estimateGas", "0x5208")
	node.result("eth_gasPrice", "0x3b9aca00")
	node.result("eth_getTransactionCount", "0x7")
	node.result("eth_sendRawTransaction", hexutil.Encode(make([]byte, 32)))
	node.handle("eth_getTransactionReceipt", func(params []json.RawMessage) (interface{}, *rpcError) {
		var hash string
		_ = json.Unmarshal(params[0], &hash)
		return receiptJSON(hash, "0x0", nil), nil
	})
	node.handle("eth_call", func([]json.RawMessage) (interface{}, *rpcError) {
		return nil, &rpcError{Code: 3, Message: "execution reverted", Data: errorStringData(t, "not allowed")}
	})

	ctx := context.Background()
	client, err := testConnector().Connect(ctx, network(url, 11124, true))
	require.NoError(t, err)
	defer client.Close()

	vault := &models.ContractRef{Address: common.HexToAddress("0x1111111111111111111111111111111111111111"), ABI: contractABI}
	pending, err := client.Transact(ctx, wallet, vault, "grantRole", [32]byte{0x01}, wallet.Address)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), pending.Nonce)
	assert.Equal(t, "grantRole", pending.Method)
	assert.NotEmpty(t, pending.Data)

	receipt, err := client.WaitMined(ctx, pending)
	require.NotNil(t, receipt)
	assert.False(t, receipt.Succeeded())
	assert.Equal(t, pending.Hash, receipt.TxHash)

	var revert *domain.TransactionRevertError
	require.ErrorAs(t, err, &revert)
	assert.Equal(t, "not allowed", revert.Reason)
	assert.Equal(t, pending.Hash.Hex(), revert.TxHash)
}

func TestClient_WaitMinedHonoursContext(t *testing.T) {
	node, url := newFakeNode(t, 11124)
	node.result("eth_getTransactionReceipt", nil)

	client, err := testConnector().Connect(context.Background(), network(url, 11124, true))
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = client.WaitMined(ctx, &models.PendingTransaction{Hash: common.HexToHash("0x01")})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDeployedAddress_NoEvent(t *testing.T) {
	other := &types.Log{Address: common.HexToAddress("0x800a"), Topics: []common.Hash{contractDeployedTopic, {}, {}, {}}}
	_, ok := deployedAddress([]*types.Log{other})
	assert.False(t, ok)
}
