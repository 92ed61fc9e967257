package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"sumaichat/internal/config"
	"sumaichat/internal/model"
)

// CountClient talks to the external inventory count service. The contract
// is idempotent for identical filter input, so a failed call is simply
// dropped: no retry, no partial state.
type CountClient struct {
	config     *config.CountConfig
	httpClient *http.Client
}

// NewCountClient creates a new count service client
func NewCountClient(cfg *config.CountConfig) *CountClient {
	return &CountClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

// Count requests the number of listings matching the given filter state.
func (c *CountClient) Count(ctx context.Context, req model.CountRequest) (*model.CountResponse, error) {
	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal count request: %w", err)
	}

	url := fmt.Sprintf("%s/count", c.config.BaseURL)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("count request failed with status %d: %s", resp.StatusCode, string(body))
	}

	// Decode through pointers so a missing field is distinguishable from a
	// zero value and fails fast instead of producing a bogus count.
	var raw struct {
		Count   *int               `json:"count"`
		Filters *model.FilterState `json:"filters"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal count response: %w", err)
	}
	if raw.Count == nil {
		return nil, &MalformedResponseError{Service: "count service", Field: "count"}
	}
	if raw.Filters == nil {
		return nil, &MalformedResponseError{Service: "count service", Field: "filters"}
	}

	return &model.CountResponse{Count: *raw.Count, Filters: *raw.Filters}, nil
}
