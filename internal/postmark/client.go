// Package postmark is a minimal client for the Postmark server API, covering
// only the operations the inbound pipeline's tooling needs: reading server
// configuration, pointing the inbound webhook at this service, fetching
// inbound message details, and blocking abusive senders.
package postmark

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.postmarkapp.com"

// ServerInfo is the subset of the Postmark server configuration the tooling
// cares about.
type ServerInfo struct {
	ID             int    `json:"ID"`
	Name           string `json:"Name"`
	InboundAddress string `json:"InboundAddress"`
	InboundHookURL string `json:"InboundHookUrl"`
}

// InboundRule is a sender blocking rule.
type InboundRule struct {
	ID   int    `json:"ID"`
	Rule string `json:"Rule"`
}

// APIError is a structured error response from the Postmark API.
type APIError struct {
	ErrorCode int    `json:"ErrorCode"`
	Message   string `json:"Message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("postmark API error %d: %s", e.ErrorCode, e.Message)
}

// Client talks to the Postmark server API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	serverToken string
	logger      *zap.Logger
}

// NewClient creates a Postmark API client. baseURL may be empty to use the
// production endpoint.
func NewClient(serverToken, baseURL string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		baseURL:     baseURL,
		serverToken: serverToken,
		logger:      logger,
	}
}

// GetServer returns the server configuration, used to verify setup.
func (c *Client) GetServer(ctx context.Context) (*ServerInfo, error) {
	var info ServerInfo
	if err := c.do(ctx, http.MethodGet, "/server", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// UpdateInboundWebhookURL points the server's inbound webhook at url.
func (c *Client) UpdateInboundWebhookURL(ctx context.Context, url string) (*ServerInfo, error) {
	body := map[string]string{"InboundHookUrl": url}
	var info ServerInfo
	if err := c.do(ctx, http.MethodPut, "/server", body, &info); err != nil {
		return nil, err
	}
	c.logger.Info("updated inbound webhook URL", zap.String("url", url))
	return &info, nil
}

// GetInboundMessage fetches full details for an inbound message, used when
// the verification workflow needs the original delivery.
func (c *Client) GetInboundMessage(ctx context.Context, messageID string) (map[string]any, error) {
	var details map[string]any
	path := fmt.Sprintf("/messages/inbound/%s/details", messageID)
	if err := c.do(ctx, http.MethodGet, path, nil, &details); err != nil {
		return nil, err
	}
	return details, nil
}

// BlockSender creates an inbound rule rejecting future mail from the given
// address or domain.
func (c *Client) BlockSender(ctx context.Context, emailOrDomain string) (*InboundRule, error) {
	body := map[string]string{"Rule": emailOrDomain}
	var rule InboundRule
	if err := c.do(ctx, http.MethodPost, "/triggers/inboundrules", body, &rule); err != nil {
		return nil, err
	}
	c.logger.Info("created sender blocking rule", zap.String("rule", emailOrDomain))
	return &rule, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Postmark-Server-Token", c.serverToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr APIError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Message != "" {
			return &apiErr
		}
		return fmt.Errorf("request to %s failed with status %d", path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response from %s: %w", path, err)
		}
	}
	return nil
}
