package usecase

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/upcade/vaultctl/internal/domain/config"
	"github.com/upcade/vaultctl/internal/domain/models"
)

// Environment is the read-only configuration snapshot of the invocation
type Environment interface {
	Lookup(name string) (string, bool)
	Required(name string) (string, error)
	RequiredAny(names ...string) (value string, from string, err error)
}

// ArtifactLoader reads compiled contract artifacts from the local build output
type ArtifactLoader interface {
	Load(ctx context.Context, name string, zkSync bool) (*models.Artifact, error)
	BuildInfo(ctx context.Context, artifact *models.Artifact) (*models.BuildInfo, error)
}

// ChainConnector opens a client for a network
type ChainConnector interface {
	Connect(ctx context.Context, network *config.Network) (ChainClient, error)
}

// ChainProber fetches the chain id an RPC endpoint reports
type ChainProber interface {
	ProbeChainID(ctx context.Context, rpcURL string) (uint64, error)
}

// ChainClient submits and awaits transactions on one chain. Deploy and
// Transact return as soon as the node accepted the transaction; the Wait
// methods block until it is confirmed.
type ChainClient interface {
	ChainID() uint64
	Deploy(ctx context.Context, wallet *models.Wallet, artifact *models.Artifact, args ...interface{}) (*models.PendingDeployment, error)
	WaitDeployed(ctx context.Context, pending *models.PendingDeployment) (*models.DeployedContract, error)
	Call(ctx context.Context, contract *models.ContractRef, method string, args ...interface{}) ([]interface{}, error)
	Transact(ctx context.Context, wallet *models.Wallet, contract *models.ContractRef, method string, args ...interface{}) (*models.PendingTransaction, error)
	WaitMined(ctx context.Context, pending *models.PendingTransaction) (*models.Receipt, error)
	Close()
}

// ContractVerifier handles contract verification
type ContractVerifier interface {
	Verify(ctx context.Context, req *models.VerificationRequest) (*models.VerificationOutcome, error)
}

// DeploymentRegistry records finished deployments locally
type DeploymentRegistry interface {
	Record(ctx context.Context, record *models.DeploymentRecord) error
	List(ctx context.Context) ([]*models.DeploymentRecord, error)
	GetPath() string
}

// NetworkResolver handles network configuration resolution
type NetworkResolver interface {
	GetNetworks(ctx context.Context) []string
	ResolveNetwork(ctx context.Context, networkName string) (*config.Network, error)
}

// LocalConfigRepository manages local configuration persistence
type LocalConfigRepository interface {
	Exists() bool
	Load(ctx context.Context) (*config.LocalConfig, error)
	Save(ctx context.Context, config *config.LocalConfig) error
	GetPath() string
}

// Confirmer asks the operator before irreversible actions
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// finishProgress stops any running spinner before the caller renders the
// result. Failures are printed by the caller, so only success carries a message.
func finishProgress(ctx context.Context, sink ProgressSink, message string, err error) {
	if err != nil {
		message = ""
	}
	sink.OnProgress(ctx, ProgressEvent{Message: message, Spinner: false})
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}

// zeroAddress is encoded when no fee recipient is configured
var zeroAddress = common.Address{}
