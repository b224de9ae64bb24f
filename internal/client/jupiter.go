package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// JupiterClient is a client for the Jupiter v6 swap-aggregator API.
type JupiterClient struct {
	baseURL string
	client  *http.Client
}

// NewJupiterClient creates a new Jupiter client against baseURL
// (e.g. https://quote-api.jup.ag/v6).
func NewJupiterClient(baseURL string) *JupiterClient {
	return &JupiterClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// GetRoute fetches a quote for swapping atomicAmount of inputMint into
// outputMint at the given slippage tolerance. The quote is returned verbatim
// so it can be passed back to the swap endpoint unchanged.
func (c *JupiterClient) GetRoute(ctx context.Context, inputMint, outputMint string, atomicAmount uint64, slippageBps int) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("inputMint", inputMint)
	query.Set("outputMint", outputMint)
	query.Set("amount", strconv.FormatUint(atomicAmount, 10))
	query.Set("slippageBps", strconv.Itoa(slippageBps))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/quote?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build quote request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read quote response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch quote: status %d: %s", resp.StatusCode, body)
	}

	return json.RawMessage(body), nil
}

// swapRequest is the body of the Jupiter /swap call.
type swapRequest struct {
	QuoteResponse             json.RawMessage `json:"quoteResponse"`
	UserPublicKey             string          `json:"userPublicKey"`
	WrapAndUnwrapSol          bool            `json:"wrapAndUnwrapSol"`
	UseSharedAccounts         bool            `json:"useSharedAccounts"`
	DynamicComputeUnitLimit   bool            `json:"dynamicComputeUnitLimit"`
	PrioritizationFeeLamports uint64          `json:"prioritizationFeeLamports"`
	AsLegacyTransaction       bool            `json:"asLegacyTransaction"`
	UseTokenLedger            bool            `json:"useTokenLedger"`
}

// swapResponse is the body of the Jupiter /swap reply.
type swapResponse struct {
	SwapTransaction string `json:"swapTransaction"`
}

// BuildSwapTransaction asks the aggregator for a prebuilt, serialized swap
// transaction for the given route, addressed to userPublicKey. The result is
// a base64-encoded unsigned transaction.
func (c *JupiterClient) BuildSwapTransaction(ctx context.Context, route json.RawMessage, userPublicKey string) (string, error) {
	payload, err := json.Marshal(swapRequest{
		QuoteResponse:           route,
		UserPublicKey:           userPublicKey,
		WrapAndUnwrapSol:        true,
		UseSharedAccounts:       true,
		DynamicComputeUnitLimit: true,
		UseTokenLedger:          true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal swap request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/swap", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build swap request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to build swap transaction: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read swap response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to build swap transaction: status %d: %s", resp.StatusCode, body)
	}

	var swapResp swapResponse
	if err := json.Unmarshal(body, &swapResp); err != nil {
		return "", fmt.Errorf("failed to decode swap response: %w", err)
	}
	if swapResp.SwapTransaction == "" {
		return "", fmt.Errorf("swap response contained no transaction")
	}
	return swapResp.SwapTransaction, nil
}
