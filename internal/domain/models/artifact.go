package models

import (
	"encoding/json"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Artifact is a compiled contract: its interface plus creation bytecode.
type Artifact struct {
	ContractName string
	SourceName   string
	ABI          abi.ABI
	RawABI       json.RawMessage

	Bytecode         []byte
	DeployedBytecode []byte

	// FactoryDeps holds the bytecodes a rollup-mode deployment must publish
	// alongside Bytecode. Empty for plain EVM artifacts.
	FactoryDeps [][]byte

	Path   string
	ZkSync bool
}

// QualifiedName returns the "path:Name" form.
func (a *Artifact) QualifiedName() string {
	return a.SourceName + ":" + a.ContractName
}

// SplitQualifiedName splits "path:Name" into its parts. A bare name returns
// an empty path.
func SplitQualifiedName(name string) (string, string) {
	if idx := strings.LastIndex(name, ":"); idx >= 0 {
		return name[:idx], name[idx+1:]
	}
	return "", name
}

// BuildInfo is the compiler input and version that produced an artifact.
type BuildInfo struct {
	SolcVersion     string          `json:"solcVersion"`
	SolcLongVersion string          `json:"solcLongVersion"`
	Input           json.RawMessage `json:"input"`
	ZksolcVersion   string          `json:"zksolcVersion,omitempty"`
}
