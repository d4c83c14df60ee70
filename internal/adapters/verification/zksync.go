package verification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/upcade/vaultctl/internal/domain/models"
)

type zkVerifyRequest struct {
	ContractAddress       string          `json:"contractAddress"`
	SourceCode            json.RawMessage `json:"sourceCode"`
	CodeFormat            string          `json:"codeFormat"`
	ContractName          string          `json:"contractName"`
	CompilerSolcVersion   string          `json:"compilerSolcVersion"`
	CompilerZksolcVersion string          `json:"compilerZksolcVersion"`
	ConstructorArguments  string          `json:"constructorArguments"`
	OptimizationUsed      bool            `json:"optimizationUsed"`
}

type zkVerifyStatus struct {
	Status            string   `json:"status"`
	Error             string   `json:"error,omitempty"`
	CompilationErrors []string `json:"compilationErrors,omitempty"`
}

// verifyZkSync uses the zkSync explorer API: POST the request, then poll
// GET {verify_url}/{id}.
func (v *VerifierAdapter) verifyZkSync(ctx context.Context, req *models.VerificationRequest) (*models.VerificationOutcome, error) {
	verifyURL := strings.TrimSuffix(req.Network.VerifyURL, "/")
	payload := zkVerifyRequest{
		ContractAddress:       req.Address.Hex(),
		SourceCode:            req.BuildInfo.Input,
		CodeFormat:            codeFormatStandardJSON,
		ContractName:          req.ContractName,
		CompilerSolcVersion:   solcShortVersion(req),
		CompilerZksolcVersion: "v" + strings.TrimPrefix(zksolcVersion(req), "v"),
		ConstructorArguments:  hexutil.Encode(req.ConstructorArgs),
		OptimizationUsed:      optimizerEnabled(req.BuildInfo.Input),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, verifyURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var id json.Number
	if err := v.do(httpReq, &id); err != nil {
		var statusErr *httpStatusError
		if errors.As(err, &statusErr) {
			if isAlreadyVerified(statusErr.Body) {
				return &models.VerificationOutcome{Status: models.VerificationStatusAlready, Message: statusErr.Body}, nil
			}
			return nil, verificationFailed("%s", statusErr.Body)
		}
		return nil, err
	}
	v.log.Debug("verification submitted", "id", id.String(), "address", req.Address.Hex())

	outcome := &models.VerificationOutcome{GUID: id.String()}
	err = v.poll(ctx, func() (bool, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, verifyURL+"/"+id.String(), nil)
		if err != nil {
			return false, fmt.Errorf("failed to create request: %w", err)
		}
		var status zkVerifyStatus
		if err := v.do(httpReq, &status); err != nil {
			return false, err
		}

		switch status.Status {
		case "successful":
			outcome.Status = models.VerificationStatusVerified
			outcome.Message = "Pass - Verified"
			return true, nil
		case "failed":
			if isAlreadyVerified(status.Error) {
				outcome.Status = models.VerificationStatusAlready
				outcome.Message = status.Error
				return true, nil
			}
			msg := status.Error
			if len(status.CompilationErrors) > 0 {
				msg += ": " + strings.Join(status.CompilationErrors, "; ")
			}
			return false, verificationFailed("%s", msg)
		default:
			return false, nil
		}
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

func solcShortVersion(req *models.VerificationRequest) string {
	if req.BuildInfo.SolcVersion != "" {
		return req.BuildInfo.SolcVersion
	}
	return req.SolcVersion
}

// optimizerEnabled reads settings.optimizer.enabled from the standard-JSON input.
func optimizerEnabled(input json.RawMessage) bool {
	var parsed struct {
		Settings struct {
			Optimizer struct {
				Enabled bool `json:"enabled"`
			} `json:"optimizer"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(input, &parsed); err != nil {
		return false
	}
	return parsed.Settings.Optimizer.Enabled
}
