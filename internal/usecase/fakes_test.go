package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/upcade/vaultctl/internal/domain"
	"github.com/upcade/vaultctl/internal/domain/config"
	"github.com/upcade/vaultctl/internal/domain/models"
)

const (
	testKey  = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testAddr = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

const vaultABI = `[
	{"type":"function","name":"initialize","stateMutability":"nonpayable","inputs":[{"name":"feeRecipient","type":"address"}],"outputs":[]},
	{"type":"function","name":"MANAGER_ROLE","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"bytes32"}]},
	{"type":"function","name":"grantRole","stateMutability":"nonpayable","inputs":[{"name":"role","type":"bytes32"},{"name":"account","type":"address"}],"outputs":[]}
]`

const proxyABI = `[
	{"type":"constructor","stateMutability":"payable","inputs":[{"name":"implementation","type":"address"},{"name":"_data","type":"bytes"}]}
]`

var (
	testNetwork = &config.Network{
		Name:      "test",
		RPCURL:    "https://api.testnet.abs.xyz",
		BaseChain: "sepolia",
		ZkSync:    true,
		ChainID:   11124,
		VerifyURL: "https://verify.example/contract_verification",
		Verifier:  config.VerifierZkSync,
	}
	mainNetwork = &config.Network{
		Name:      "main",
		RPCURL:    "https://api.mainnet.abs.xyz",
		BaseChain: "mainnet",
		ZkSync:    true,
		ChainID:   2741,
		VerifyURL: "https://api.abscan.org/api",
		Verifier:  config.VerifierEtherscan,
	}
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRuntime(network *config.Network) *config.RuntimeConfig {
	return &config.RuntimeConfig{
		ProjectRoot: "/project",
		DataDir:     "/project/.vaultctl",
		Network:     network,
		Project:     config.DefaultProjectFile(),
	}
}

func mustABI(t *testing.T, raw string) abi.ABI {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(raw))
	require.NoError(t, err)
	return parsed
}

// eventLog records the order in which fakes are touched.
type eventLog struct {
	events []string
}

func (l *eventLog) add(format string, args ...interface{}) {
	l.events = append(l.events, fmt.Sprintf(format, args...))
}

type recordingSink struct {
	log      *eventLog
	infos    []string
	errors   []string
	events   int
	spinning bool
}

func (s *recordingSink) OnProgress(_ context.Context, event ProgressEvent) {
	s.events++
	s.spinning = event.Spinner
	if event.Spinner {
		s.log.add("progress:%s", event.Stage)
		return
	}
	s.log.add("stop")
}

func (s *recordingSink) Info(message string) {
	s.infos = append(s.infos, message)
	s.log.add("info:%s", message)
}

func (s *recordingSink) Error(message string) {
	s.errors = append(s.errors, message)
	s.log.add("error:%s", message)
}

type fakeArtifacts struct {
	artifacts map[string]*models.Artifact
	buildInfo *models.BuildInfo
	loads     []string
}

func newFakeArtifacts(t *testing.T) *fakeArtifacts {
	vault := &models.Artifact{
		ContractName: "UpcadeVault",
		SourceName:   "contracts/UpcadeVault.sol",
		ABI:          mustABI(t, vaultABI),
		Bytecode:     []byte{0x01, 0x02},
		ZkSync:       true,
	}
	proxy := &models.Artifact{
		ContractName: "ERC1967Proxy",
		SourceName:   "@openzeppelin/contracts/proxy/ERC1967/ERC1967Proxy.sol",
		ABI:          mustABI(t, proxyABI),
		Bytecode:     []byte{0x03, 0x04},
		ZkSync:       true,
	}
	return &fakeArtifacts{
		artifacts: map[string]*models.Artifact{
			config.DefaultVaultContract: vault,
			config.DefaultProxyContract: proxy,
		},
		buildInfo: &models.BuildInfo{SolcVersion: "0.8.28", SolcLongVersion: "0.8.28+commit.7893614a"},
	}
}

func (f *fakeArtifacts) Load(_ context.Context, name string, _ bool) (*models.Artifact, error) {
	f.loads = append(f.loads, name)
	if a, ok := f.artifacts[name]; ok {
		return a, nil
	}
	return nil, &domain.ArtifactNotFoundError{Name: name, Root: "artifacts-zk"}
}

func (f *fakeArtifacts) BuildInfo(_ context.Context, artifact *models.Artifact) (*models.BuildInfo, error) {
	if f.buildInfo == nil {
		return nil, fmt.Errorf("no build info for %s", artifact.QualifiedName())
	}
	return f.buildInfo, nil
}

type fakeConnector struct {
	client   *fakeClient
	connects int
	err      error
}

func (f *fakeConnector) Connect(context.Context, *config.Network) (ChainClient, error) {
	f.connects++
	if f.err != nil {
		return nil, f.err
	}
	return f.client, nil
}

type deployCall struct {
	contract string
	args     []interface{}
}

type transactCall struct {
	to     common.Address
	method string
	args   []interface{}
}

type fakeClient struct {
	log       *eventLog
	counter   int64
	deploys   []deployCall
	transacts []transactCall
	calls     int
	closed    bool

	role          [32]byte
	deployErr     map[string]error
	transactErr   error
	receiptStatus uint64
}

func newFakeClient(log *eventLog) *fakeClient {
	return &fakeClient{
		log:           log,
		role:          common.HexToHash("0x241ecf16d79d0f8dbfb92cbc07fe17840425976cf0667f022fe9877caa831b08"),
		receiptStatus: 1,
	}
}

func (f *fakeClient) ChainID() uint64 { return 11124 }

func (f *fakeClient) Deploy(_ context.Context, _ *models.Wallet, artifact *models.Artifact, args ...interface{}) (*models.PendingDeployment, error) {
	f.log.add("deploy:%s", artifact.ContractName)
	if err := f.deployErr[artifact.ContractName]; err != nil {
		return nil, err
	}
	f.deploys = append(f.deploys, deployCall{contract: artifact.ContractName, args: args})
	f.counter++
	return &models.PendingDeployment{
		ContractName: artifact.ContractName,
		TxHash:       common.BigToHash(big.NewInt(0x1000 + f.counter)),
		Address:      common.BigToAddress(big.NewInt(0xA000 + f.counter)),
	}, nil
}

func (f *fakeClient) WaitDeployed(_ context.Context, pending *models.PendingDeployment) (*models.DeployedContract, error) {
	f.log.add("confirmed:%s", pending.ContractName)
	return &models.DeployedContract{
		ContractName: pending.ContractName,
		Address:      pending.Address,
		TxHash:       pending.TxHash,
		BlockNumber:  uint64(f.counter),
	}, nil
}

func (f *fakeClient) Call(_ context.Context, _ *models.ContractRef, method string, _ ...interface{}) ([]interface{}, error) {
	f.calls++
	f.log.add("call:%s", method)
	return []interface{}{f.role}, nil
}

func (f *fakeClient) Transact(_ context.Context, _ *models.Wallet, contract *models.ContractRef, method string, args ...interface{}) (*models.PendingTransaction, error) {
	f.log.add("transact:%s", method)
	if f.transactErr != nil {
		return nil, f.transactErr
	}
	f.transacts = append(f.transacts, transactCall{to: contract.Address, method: method, args: args})
	f.counter++
	return &models.PendingTransaction{
		Hash:   common.BigToHash(big.NewInt(0x2000 + f.counter)),
		To:     contract.Address,
		Method: method,
	}, nil
}

func (f *fakeClient) WaitMined(_ context.Context, pending *models.PendingTransaction) (*models.Receipt, error) {
	f.log.add("mined:%s", pending.Method)
	return &models.Receipt{TxHash: pending.Hash, Status: f.receiptStatus, BlockNumber: 7}, nil
}

func (f *fakeClient) Close() { f.closed = true }

type fakeRegistry struct {
	records []*models.DeploymentRecord
	err     error
}

func (f *fakeRegistry) Record(_ context.Context, record *models.DeploymentRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, record)
	return nil
}

func (f *fakeRegistry) List(context.Context) ([]*models.DeploymentRecord, error) {
	return f.records, f.err
}

func (f *fakeRegistry) GetPath() string { return "/project/.vaultctl/deployments.json" }

type fakeConfirmer struct {
	answer  bool
	prompts []string
}

func (f *fakeConfirmer) Confirm(_ context.Context, prompt string) (bool, error) {
	f.prompts = append(f.prompts, prompt)
	return f.answer, nil
}

type fakeVerifier struct {
	requests []*models.VerificationRequest
	fail     map[common.Address]error
}

func (f *fakeVerifier) Verify(_ context.Context, req *models.VerificationRequest) (*models.VerificationOutcome, error) {
	f.requests = append(f.requests, req)
	if err := f.fail[req.Address]; err != nil {
		return &models.VerificationOutcome{Verifier: string(req.Network.Verifier), Status: models.VerificationStatusFailed, Message: err.Error()}, err
	}
	return &models.VerificationOutcome{Verifier: string(req.Network.Verifier), Status: models.VerificationStatusVerified}, nil
}

type fakeResolver struct {
	networks []*config.Network
}

func (f *fakeResolver) GetNetworks(context.Context) []string {
	names := make([]string, 0, len(f.networks))
	for _, n := range f.networks {
		names = append(names, n.Name)
	}
	return names
}

func (f *fakeResolver) ResolveNetwork(_ context.Context, name string) (*config.Network, error) {
	for _, n := range f.networks {
		if n.Matches(name) {
			return n, nil
		}
	}
	return nil, &domain.UnknownNetworkError{Name: name, Known: f.GetNetworks(context.Background())}
}

type fakeProber struct {
	chainIDs map[string]uint64
	err      map[string]error
}

func (f *fakeProber) ProbeChainID(_ context.Context, rpcURL string) (uint64, error) {
	if err := f.err[rpcURL]; err != nil {
		return 0, err
	}
	return f.chainIDs[rpcURL], nil
}

type fakeConfigStore struct {
	exists bool
	cfg    *config.LocalConfig
	saved  *config.LocalConfig
}

func (f *fakeConfigStore) Exists() bool { return f.exists }

func (f *fakeConfigStore) Load(context.Context) (*config.LocalConfig, error) {
	if f.cfg == nil {
		return config.DefaultLocalConfig(), nil
	}
	copied := *f.cfg
	return &copied, nil
}

func (f *fakeConfigStore) Save(_ context.Context, cfg *config.LocalConfig) error {
	f.saved = cfg
	f.exists = true
	return nil
}

func (f *fakeConfigStore) GetPath() string { return "/project/.vaultctl/config.local.json" }
