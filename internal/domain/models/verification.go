package models

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/upcade/vaultctl/internal/domain/config"
)

// VerificationStatus represents the verification status
type VerificationStatus string

const (
	VerificationStatusVerified VerificationStatus = "VERIFIED"
	VerificationStatusAlready  VerificationStatus = "ALREADY_VERIFIED"
	VerificationStatusFailed   VerificationStatus = "FAILED"
)

// VerificationRequest asks an explorer to match deployed code with sources.
type VerificationRequest struct {
	Network         *config.Network
	Address         common.Address
	ContractName    string
	ConstructorArgs []byte
	BuildInfo       *BuildInfo
	ZksolcVersion   string
	SolcVersion     string
}

// VerificationOutcome is the explorer's answer for one request.
type VerificationOutcome struct {
	Verifier string
	Status   VerificationStatus
	GUID     string
	Message  string
	URL      string
}
