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

// AssistantClient talks to the external conversational service that
// produces the actual reply text (and, for search-style turns, a property
// table). Location extraction never depends on it.
type AssistantClient struct {
	config     *config.AssistantConfig
	httpClient *http.Client
}

// NewAssistantClient creates a new conversational service client
func NewAssistantClient(cfg *config.AssistantConfig) *AssistantClient {
	return &AssistantClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

// Chat forwards a raw user message (and the prior remote session id, if
// any) and returns the assistant's reply.
func (c *AssistantClient) Chat(ctx context.Context, req model.AssistantRequest) (*model.AssistantResponse, error) {
	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	url := fmt.Sprintf("%s/chat", c.config.BaseURL)
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
		return nil, fmt.Errorf("chat request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var raw struct {
		SessionID     *string                 `json:"session_id"`
		MessageID     *string                 `json:"message_id"`
		ResponseText  *string                 `json:"response_text"`
		AgentUsed     string                  `json:"agent_used"`
		PropertyTable []model.PropertySummary `json:"property_table"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chat response: %w", err)
	}
	if raw.SessionID == nil {
		return nil, &MalformedResponseError{Service: "assistant service", Field: "session_id"}
	}
	if raw.MessageID == nil {
		return nil, &MalformedResponseError{Service: "assistant service", Field: "message_id"}
	}
	if raw.ResponseText == nil {
		return nil, &MalformedResponseError{Service: "assistant service", Field: "response_text"}
	}

	return &model.AssistantResponse{
		SessionID:     *raw.SessionID,
		MessageID:     *raw.MessageID,
		ResponseText:  *raw.ResponseText,
		AgentUsed:     raw.AgentUsed,
		PropertyTable: raw.PropertyTable,
	}, nil
}
