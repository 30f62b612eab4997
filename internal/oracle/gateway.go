package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// countColumn is the column name the gateway returns for the templated count
// query. The response is an array of rows; eligibility is row one's count.
const countColumn = "COUNT(1)"

// QueryParams are the deployment's eligibility policy inputs baked into every
// gateway query.
type QueryParams struct {
	SnapshotBlock  uint64
	MinimumBalance string
}

// GatewayClient checks eligibility against an external SQL gateway. One POST
// per claim; the caller's bearer credential authorizes the request.
type GatewayClient struct {
	url        string
	params     QueryParams
	httpClient *http.Client
	logger     *slog.Logger
}

// NewGatewayClient builds a client for the given gateway endpoint.
func NewGatewayClient(url string, timeout time.Duration, params QueryParams, logger *slog.Logger) *GatewayClient {
	if params.MinimumBalance == "" {
		params.MinimumBalance = "0"
	}
	return &GatewayClient{
		url:        url,
		params:     params,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// CheckEligibility asks the gateway whether the address qualifies for the
// drop. A (false, nil) return is a definitive negative verdict; a non-nil
// error is always an *OracleError and means the claim was not judged.
func (c *GatewayClient) CheckEligibility(ctx context.Context, address, credential string) (bool, error) {
	body, err := json.Marshal(map[string]string{"sqlText": c.buildQuery(address)})
	if err != nil {
		return false, NewOracleError(ErrorBadData, "encode query", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return false, NewOracleError(ErrorTransport, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+credential)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, NewOracleError(ErrorTransport, "gateway request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return false, NewOracleError(ErrorTransport, "read gateway response", err)
	}

	count, err := parseCountResponse(resp.StatusCode, raw)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// buildQuery renders the templated existence query for an address. The
// snapshot block is included only when the deployment pins one.
func (c *GatewayClient) buildQuery(address string) string {
	snapshot := ""
	if c.params.SnapshotBlock > 0 {
		snapshot = fmt.Sprintf(" AND BLOCK_NUMBER <= %d", c.params.SnapshotBlock)
	}
	return fmt.Sprintf(
		"SELECT COUNT(*) FROM (SELECT * FROM ETHEREUM.NATIVE_WALLETS"+
			" WHERE WALLET_ADDRESS = '%s' AND BALANCE > %s%s LIMIT 1);",
		address, c.params.MinimumBalance, snapshot,
	)
}

// parseCountResponse extracts the count from a gateway response. Non-2xx
// statuses and unexpected shapes are oracle errors, never verdicts.
func parseCountResponse(status int, body []byte) (int64, error) {
	if status < 200 || status > 299 {
		return 0, NewOracleError(ErrorStatus, fmt.Sprintf("gateway returned status %d", status), nil)
	}

	var rows []map[string]json.Number
	if err := json.Unmarshal(body, &rows); err != nil {
		return 0, NewOracleError(ErrorBadData, "response is not a row array", err)
	}
	if len(rows) == 0 {
		return 0, NewOracleError(ErrorBadData, "response contains no rows", nil)
	}
	count, ok := rows[0][countColumn]
	if !ok {
		return 0, NewOracleError(ErrorBadData, fmt.Sprintf("first row has no %q column", countColumn), nil)
	}
	n, err := count.Int64()
	if err != nil {
		return 0, NewOracleError(ErrorBadData, "count is not an integer", err)
	}
	return n, nil
}
