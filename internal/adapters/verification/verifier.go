package verification

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/upcade/vaultctl/internal/domain"
	"github.com/upcade/vaultctl/internal/domain/config"
	"github.com/upcade/vaultctl/internal/domain/models"
	"github.com/upcade/vaultctl/internal/usecase"
)

const (
	defaultPollInterval    = 3 * time.Second
	codeFormatStandardJSON = "solidity-standard-json-input"
)

// VerifierAdapter submits sources to the explorer configured for the network
type VerifierAdapter struct {
	httpClient   *http.Client
	pollInterval time.Duration
	log          *slog.Logger
}

// NewVerifierAdapter creates a new verifier
func NewVerifierAdapter(log *slog.Logger) *VerifierAdapter {
	return &VerifierAdapter{
		httpClient:   &http.Client{Timeout: 60 * time.Second},
		pollInterval: defaultPollInterval,
		log:          log.With("component", "verification"),
	}
}

// Verify dispatches on the network's verifier kind. A rejected submission is
// not retried; only the status check is polled.
func (v *VerifierAdapter) Verify(ctx context.Context, req *models.VerificationRequest) (*models.VerificationOutcome, error) {
	if req.Network == nil {
		return nil, fmt.Errorf("verification request has no network")
	}
	if req.BuildInfo == nil || len(req.BuildInfo.Input) == 0 {
		return nil, fmt.Errorf("no compiler input for %s", req.ContractName)
	}

	v.log.Debug("verifying", "contract", req.ContractName, "address", req.Address.Hex(), "verifier", req.Network.Verifier)

	var (
		outcome *models.VerificationOutcome
		err     error
	)
	switch req.Network.Verifier {
	case config.VerifierEtherscan:
		outcome, err = v.verifyEtherscan(ctx, req)
	case config.VerifierZkSync:
		outcome, err = v.verifyZkSync(ctx, req)
	default:
		return nil, fmt.Errorf("unsupported verifier %q for network %s", req.Network.Verifier, req.Network.Name)
	}
	if err != nil {
		return nil, err
	}

	outcome.Verifier = string(req.Network.Verifier)
	if link := req.Network.AddressURL(req.Address.Hex()); link != "" {
		outcome.URL = link + "#code"
	}
	return outcome, nil
}

// poll calls check on a ticker until it reports done or ctx ends.
func (v *VerifierAdapter) poll(ctx context.Context, check func() (bool, error)) error {
	ticker := time.NewTicker(v.pollInterval)
	defer ticker.Stop()

	for {
		done, err := check()
		if err != nil || done {
			return err
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for verification: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// do executes the request and decodes a JSON body into out. Non-2xx replies
// return their body in the error.
func (v *VerifierAdapter) do(req *http.Request, out interface{}) error {
	req.Header.Set("Accept", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return &domain.NetworkError{Op: req.Method, URL: req.URL.Redacted(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &httpStatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d, body: %s", e.Code, e.Body)
}

func isAlreadyVerified(msg string) bool {
	return strings.Contains(strings.ToLower(msg), "already verified")
}

func verificationFailed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", domain.ErrVerificationFailed, fmt.Sprintf(format, args...))
}

// Ensure the adapter implements the interface
var _ usecase.ContractVerifier = (*VerifierAdapter)(nil)
