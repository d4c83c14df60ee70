package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/upcade/vaultctl/internal/domain/config"
	"github.com/upcade/vaultctl/internal/domain/models"
	"github.com/upcade/vaultctl/internal/usecase"
)

// DeploymentRegistryAdapter keeps an append-only JSON list of deployments
type DeploymentRegistryAdapter struct {
	path string
	mu   sync.Mutex
}

// NewDeploymentRegistryAdapter creates a registry under the data directory
func NewDeploymentRegistryAdapter(cfg *config.RuntimeConfig) *DeploymentRegistryAdapter {
	return &DeploymentRegistryAdapter{
		path: filepath.Join(cfg.DataDir, "deployments.json"),
	}
}

// Record appends a deployment to the registry file
func (r *DeploymentRegistryAdapter) Record(ctx context.Context, record *models.DeploymentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.read()
	if err != nil {
		return err
	}
	records = append(records, record)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	return writeFileAtomic(r.path, data)
}

// List returns all recorded deployments in insertion order
func (r *DeploymentRegistryAdapter) List(ctx context.Context) ([]*models.DeploymentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.read()
}

// GetPath returns the registry file path
func (r *DeploymentRegistryAdapter) GetPath() string {
	return r.path
}

func (r *DeploymentRegistryAdapter) read() ([]*models.DeploymentRecord, error) {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read registry: %w", err)
	}

	var records []*models.DeploymentRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse registry %s: %w", r.path, err)
	}
	return records, nil
}

var _ usecase.DeploymentRegistry = (*DeploymentRegistryAdapter)(nil)
