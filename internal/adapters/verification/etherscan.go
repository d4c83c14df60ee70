package verification

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/upcade/vaultctl/internal/domain"
	"github.com/upcade/vaultctl/internal/domain/models"
)

type etherscanResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  string `json:"result"`
}

func (v *VerifierAdapter) verifyEtherscan(ctx context.Context, req *models.VerificationRequest) (*models.VerificationOutcome, error) {
	network := req.Network
	if network.APIKey == "" {
		return nil, &domain.ConfigurationError{Name: "explorer API key", Reason: "not configured for network " + network.Name}
	}
	endpoint, err := url.Parse(network.ExplorerAPI())
	if err != nil {
		return nil, fmt.Errorf("invalid explorer API URL: %w", err)
	}
	query := endpoint.Query()
	query.Set("chainid", strconv.FormatUint(network.ChainID, 10))
	endpoint.RawQuery = query.Encode()

	form := url.Values{}
	form.Set("apikey", network.APIKey)
	form.Set("module", "contract")
	form.Set("action", "verifysourcecode")
	form.Set("contractaddress", req.Address.Hex())
	form.Set("sourceCode", string(req.BuildInfo.Input))
	form.Set("codeformat", codeFormatStandardJSON)
	form.Set("contractname", req.ContractName)
	form.Set("compilerversion", "v"+strings.TrimPrefix(solcLongVersion(req), "v"))
	form.Set("constructorArguements", hex.EncodeToString(req.ConstructorArgs))
	if network.ZkSync {
		form.Set("zksolcVersion", "v"+strings.TrimPrefix(zksolcVersion(req), "v"))
		form.Set("compilermode", "zksync")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var submitted etherscanResponse
	if err := v.do(httpReq, &submitted); err != nil {
		return nil, err
	}
	if submitted.Status != "1" {
		if isAlreadyVerified(submitted.Result) {
			return &models.VerificationOutcome{Status: models.VerificationStatusAlready, Message: submitted.Result}, nil
		}
		return nil, verificationFailed("%s", submitted.Result)
	}

	guid := submitted.Result
	v.log.Debug("verification submitted", "guid", guid, "address", req.Address.Hex())

	outcome := &models.VerificationOutcome{GUID: guid}
	err = v.poll(ctx, func() (bool, error) {
		status, err := v.etherscanStatus(ctx, endpoint, network.APIKey, guid)
		if err != nil {
			return false, err
		}
		switch {
		case strings.Contains(status.Result, "Pending"):
			return false, nil
		case isAlreadyVerified(status.Result):
			outcome.Status = models.VerificationStatusAlready
		case status.Status == "1" || strings.Contains(status.Result, "Pass"):
			outcome.Status = models.VerificationStatusVerified
		default:
			return false, verificationFailed("%s", status.Result)
		}
		outcome.Message = status.Result
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

func (v *VerifierAdapter) etherscanStatus(ctx context.Context, endpoint *url.URL, apiKey, guid string) (*etherscanResponse, error) {
	statusURL := *endpoint
	query := statusURL.Query()
	query.Set("apikey", apiKey)
	query.Set("module", "contract")
	query.Set("action", "checkverifystatus")
	query.Set("guid", guid)
	statusURL.RawQuery = query.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, statusURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	var status etherscanResponse
	if err := v.do(httpReq, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func solcLongVersion(req *models.VerificationRequest) string {
	if req.BuildInfo.SolcLongVersion != "" {
		return req.BuildInfo.SolcLongVersion
	}
	if req.BuildInfo.SolcVersion != "" {
		return req.BuildInfo.SolcVersion
	}
	return req.SolcVersion
}

func zksolcVersion(req *models.VerificationRequest) string {
	if req.BuildInfo.ZksolcVersion != "" {
		return req.BuildInfo.ZksolcVersion
	}
	return req.ZksolcVersion
}
