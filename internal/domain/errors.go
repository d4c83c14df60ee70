package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidAddress is returned when an address is not 20 bytes of hex
	ErrInvalidAddress = errors.New("invalid address")

	// ErrNetworkMismatch is returned when the RPC endpoint reports a different chain
	ErrNetworkMismatch = errors.New("network mismatch")

	// ErrContractNotFound is returned when a compiled artifact can't be found
	ErrContractNotFound = errors.New("contract not found")

	// ErrEmptyBytecode is returned when an artifact cannot be deployed
	ErrEmptyBytecode = errors.New("artifact has no deployable bytecode")

	// ErrVerificationFailed is returned when contract verification fails
	ErrVerificationFailed = errors.New("verification failed")

	// ErrAborted is returned when the user declines a confirmation prompt
	ErrAborted = errors.New("aborted by user")
)

// ConfigurationError reports a missing or malformed configuration value.
type ConfigurationError struct {
	Name   string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("Missing %s from environment", e.Name)
	}
	return fmt.Sprintf("invalid %s: %s", e.Name, e.Reason)
}

// MissingEnv builds the error used when a required variable is absent.
func MissingEnv(name string) error {
	return &ConfigurationError{Name: name}
}

// UnknownNetworkError is returned when a network name has no descriptor.
type UnknownNetworkError struct {
	Name  string
	Known []string
}

func (e *UnknownNetworkError) Error() string {
	return fmt.Sprintf("unknown network %q (available: %s)", e.Name, strings.Join(e.Known, ", "))
}

// NetworkError wraps a transport failure talking to an RPC endpoint.
type NetworkError struct {
	Op  string
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// TransactionRevertError carries the revert reason reported by the node.
type TransactionRevertError struct {
	Method string
	TxHash string
	Reason string
	Err    error
}

func (e *TransactionRevertError) Error() string {
	var b strings.Builder
	b.WriteString("transaction reverted")
	if e.Method != "" {
		fmt.Fprintf(&b, " in %s", e.Method)
	}
	if e.TxHash != "" {
		fmt.Fprintf(&b, " (tx %s)", e.TxHash)
	}
	if e.Reason != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	}
	return b.String()
}

func (e *TransactionRevertError) Unwrap() error { return e.Err }

// ArtifactNotFoundError is returned when a contract artifact is missing.
// Suggestions holds close matches from the artifacts directory.
type ArtifactNotFoundError struct {
	Name        string
	Root        string
	Reason      string
	Suggestions []string
}

func (e *ArtifactNotFoundError) Error() string {
	msg := fmt.Sprintf("artifact %s not found in %s", e.Name, e.Root)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if len(e.Suggestions) > 0 {
		msg += "\ndid you mean:\n  - " + strings.Join(e.Suggestions, "\n  - ")
	}
	return msg
}

func (e *ArtifactNotFoundError) Is(target error) bool {
	return target == ErrContractNotFound
}

// AmbiguousArtifactError is returned when a bare contract name matches several sources.
type AmbiguousArtifactError struct {
	Name    string
	Matches []string
}

func (e *AmbiguousArtifactError) Error() string {
	return fmt.Sprintf("multiple artifacts named %s - use the fully qualified path:Name form:\n  - %s",
		e.Name, strings.Join(e.Matches, "\n  - "))
}

// VerificationServiceError aggregates the failures of a verification run.
type VerificationServiceError struct {
	Failures map[string]error
}

func (e *VerificationServiceError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, target := range []string{"implementation", "proxy"} {
		if err, ok := e.Failures[target]; ok {
			parts = append(parts, fmt.Sprintf("%s: %v", target, err))
		}
	}
	for target, err := range e.Failures {
		if target != "implementation" && target != "proxy" {
			parts = append(parts, fmt.Sprintf("%s: %v", target, err))
		}
	}
	return fmt.Sprintf("%d verification(s) failed: %s", len(e.Failures), strings.Join(parts, "; "))
}

func (e *VerificationServiceError) Is(target error) bool {
	return target == ErrVerificationFailed
}
