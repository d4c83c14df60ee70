package artifacts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"

	"github.com/upcade/vaultctl/internal/domain"
	"github.com/upcade/vaultctl/internal/domain/config"
	"github.com/upcade/vaultctl/internal/domain/models"
	"github.com/upcade/vaultctl/internal/usecase"
)

const maxSuggestions = 3

// hardhatArtifact is the JSON layout written by hardhat and hardhat-zksync.
type hardhatArtifact struct {
	Format           string            `json:"_format"`
	ContractName     string            `json:"contractName"`
	SourceName       string            `json:"sourceName"`
	ABI              json.RawMessage   `json:"abi"`
	Bytecode         string            `json:"bytecode"`
	DeployedBytecode string            `json:"deployedBytecode"`
	FactoryDeps      map[string]string `json:"factoryDeps,omitempty"`
}

// debugFile is the <Name>.dbg.json pointer next to each artifact.
type debugFile struct {
	Format    string `json:"_format"`
	BuildInfo string `json:"buildInfo"`
}

// Loader reads compiled artifacts from the hardhat output directories
type Loader struct {
	projectRoot string
	paths       config.PathsConfig
	log         *slog.Logger

	mu      sync.Mutex
	indexes map[string]map[string][]string // root -> contract name -> qualified names
}

// NewLoader creates a loader rooted at the project directory
func NewLoader(cfg *config.RuntimeConfig, log *slog.Logger) *Loader {
	paths := config.DefaultProjectFile().Paths
	if cfg.Project != nil {
		paths = cfg.Project.Paths
	}
	return &Loader{
		projectRoot: cfg.ProjectRoot,
		paths:       paths,
		log:         log,
		indexes:     make(map[string]map[string][]string),
	}
}

// Load resolves name ("path:Name" or a bare "Name") to a parsed artifact.
// Rollup artifacts come with their factory dependencies attached.
func (l *Loader) Load(ctx context.Context, name string, zkSync bool) (*models.Artifact, error) {
	root := l.root(zkSync)
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, &domain.ArtifactNotFoundError{
			Name:   name,
			Root:   root,
			Reason: "artifacts directory does not exist, compile the contracts first",
		}
	}

	qualified, err := l.qualify(ctx, root, name)
	if err != nil {
		return nil, err
	}
	return l.load(ctx, root, qualified, zkSync, make(map[string]bool))
}

// BuildInfo reads the compiler input referenced by the artifact's debug file
func (l *Loader) BuildInfo(ctx context.Context, artifact *models.Artifact) (*models.BuildInfo, error) {
	dbgPath := strings.TrimSuffix(artifact.Path, ".json") + ".dbg.json"
	data, err := os.ReadFile(dbgPath)
	if err != nil {
		return nil, fmt.Errorf("read debug file for %s: %w", artifact.QualifiedName(), err)
	}

	var dbg debugFile
	if err := json.Unmarshal(data, &dbg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", dbgPath, err)
	}
	if dbg.BuildInfo == "" {
		return nil, fmt.Errorf("%s does not reference a build-info file", dbgPath)
	}

	buildInfoPath := filepath.Join(filepath.Dir(dbgPath), filepath.FromSlash(dbg.BuildInfo))
	data, err = os.ReadFile(buildInfoPath)
	if err != nil {
		return nil, fmt.Errorf("read build info: %w", err)
	}

	var info models.BuildInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("parse build info %s: %w", buildInfoPath, err)
	}
	if len(info.Input) == 0 || string(info.Input) == "null" {
		return nil, fmt.Errorf("build info %s has no compiler input", buildInfoPath)
	}

	l.log.Debug("loaded build info", "contract", artifact.QualifiedName(), "solc", info.SolcLongVersion)
	return &info, nil
}

func (l *Loader) root(zkSync bool) string {
	dir := l.paths.Artifacts
	if zkSync {
		dir = l.paths.ZkArtifacts
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(l.projectRoot, dir)
}

// qualify turns a bare contract name into its single "path:Name" match.
func (l *Loader) qualify(ctx context.Context, root, name string) (string, error) {
	source, contract := models.SplitQualifiedName(name)
	if source != "" {
		return name, nil
	}

	index, err := l.index(ctx, root)
	if err != nil {
		return "", err
	}

	matches := index[contract]
	switch len(matches) {
	case 0:
		return "", &domain.ArtifactNotFoundError{Name: name, Root: root, Suggestions: suggest(index, contract)}
	case 1:
		return matches[0], nil
	default:
		return "", &domain.AmbiguousArtifactError{Name: name, Matches: matches}
	}
}

func (l *Loader) load(ctx context.Context, root, qualified string, zkSync bool, seen map[string]bool) (*models.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	source, contract := models.SplitQualifiedName(qualified)
	path := filepath.Join(root, filepath.FromSlash(source), contract+".json")

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		notFound := &domain.ArtifactNotFoundError{Name: qualified, Root: root}
		if index, indexErr := l.index(ctx, root); indexErr == nil {
			notFound.Suggestions = suggest(index, contract)
		}
		return nil, notFound
	}
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", qualified, err)
	}

	var raw hardhatArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse artifact %s: %w", path, err)
	}

	parsedABI, err := abi.JSON(bytes.NewReader(raw.ABI))
	if err != nil {
		return nil, fmt.Errorf("parse ABI of %s: %w", qualified, err)
	}
	bytecode, err := decodeHex(raw.Bytecode)
	if err != nil {
		return nil, fmt.Errorf("decode bytecode of %s: %w", qualified, err)
	}
	deployed, err := decodeHex(raw.DeployedBytecode)
	if err != nil {
		return nil, fmt.Errorf("decode deployed bytecode of %s: %w", qualified, err)
	}

	artifact := &models.Artifact{
		ContractName:     lo.Ternary(raw.ContractName != "", raw.ContractName, contract),
		SourceName:       lo.Ternary(raw.SourceName != "", raw.SourceName, source),
		ABI:              parsedABI,
		RawABI:           raw.ABI,
		Bytecode:         bytecode,
		DeployedBytecode: deployed,
		Path:             path,
		ZkSync:           zkSync,
	}

	if zkSync && len(raw.FactoryDeps) > 0 {
		seen[qualified] = true
		deps := lo.Uniq(lo.Values(raw.FactoryDeps))
		sort.Strings(deps)
		for _, dep := range deps {
			if seen[dep] {
				continue
			}
			depArtifact, err := l.load(ctx, root, dep, zkSync, seen)
			if err != nil {
				return nil, fmt.Errorf("factory dependency of %s: %w", qualified, err)
			}
			artifact.FactoryDeps = append(artifact.FactoryDeps, depArtifact.Bytecode)
			artifact.FactoryDeps = append(artifact.FactoryDeps, depArtifact.FactoryDeps...)
		}
	}

	l.log.Debug("loaded artifact", "contract", qualified, "bytes", len(bytecode), "factoryDeps", len(artifact.FactoryDeps))
	return artifact, nil
}

// index maps contract names to qualified names for one artifact root.
func (l *Loader) index(ctx context.Context, root string) (map[string][]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if index, ok := l.indexes[root]; ok {
		return index, nil
	}

	index := make(map[string][]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}
		name := d.Name()
		if filepath.Ext(name) != ".json" || strings.HasSuffix(name, ".dbg.json") {
			return nil
		}

		rel, err := filepath.Rel(root, filepath.Dir(path))
		if err != nil || rel == "." {
			return nil
		}
		contract := strings.TrimSuffix(name, ".json")
		index[contract] = append(index[contract], filepath.ToSlash(rel)+":"+contract)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("index artifacts in %s: %w", root, err)
	}

	for _, matches := range index {
		sort.Strings(matches)
	}
	l.indexes[root] = index
	return index, nil
}

// suggest returns the qualified names whose contract name is closest to name.
func suggest(index map[string][]string, name string) []string {
	names := lo.Keys(index)
	sort.Strings(names)

	var suggestions []string
	for _, match := range fuzzy.Find(name, names) {
		suggestions = append(suggestions, index[match.Str]...)
		if len(suggestions) >= maxSuggestions {
			return suggestions[:maxSuggestions]
		}
	}
	return suggestions
}

func decodeHex(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	if !strings.HasPrefix(s, "0x") {
		s = "0x" + s
	}
	return hexutil.Decode(s)
}

var _ usecase.ArtifactLoader = (*Loader)(nil)
