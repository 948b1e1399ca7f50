package dify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/BeenaAbe/dify-mental-health/internal/domain/providers"
	"github.com/BeenaAbe/dify-mental-health/pkg/config"
	apperrors "github.com/BeenaAbe/dify-mental-health/pkg/errors"
)

const defaultBaseURL = "https://api.dify.ai/v1"

// Client implements the Dify conversational assessment provider.
// Responses are passed through unmodified; the caller owns interpretation
// of the conversational payload.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Dify client.
func NewClient(cfg *config.DifyConfig) (*Client, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("dify api key is required")
	}

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// SendMessage posts a chat message to the Dify chat-messages endpoint and
// returns the raw response body. Upstream failures are reported as external
// errors and never retried.
func (c *Client) SendMessage(ctx context.Context, convReq *providers.ConversationRequest) ([]byte, error) {
	if convReq == nil {
		return nil, apperrors.NewValidationError("conversation request is required")
	}
	if convReq.Query == "" {
		return nil, apperrors.NewFieldValidationError("query is required", map[string]string{"query": "required"})
	}

	if convReq.Inputs == nil {
		convReq.Inputs = map[string]string{}
	}
	if convReq.ResponseMode == "" {
		convReq.ResponseMode = providers.ResponseModeBlocking
	}

	body, err := json.Marshal(convReq)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode conversation request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat-messages", bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build conversation request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewExternalError("dify request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to read dify response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.NewExternalError(
			fmt.Sprintf("dify request failed with status %d", resp.StatusCode),
			fmt.Errorf("upstream response: %s", strings.TrimSpace(string(respBody))),
		)
	}

	return respBody, nil
}
