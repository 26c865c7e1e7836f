// Package chatrelay forwards chat prompts to an Azure-style chat-completions
// endpoint and returns the first reply.
package chatrelay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrNotConfigured is returned when no endpoint was supplied.
var ErrNotConfigured = errors.New("chatrelay: endpoint not configured")

const maxResponseBytes = 1 << 20

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer returns the model's reply to a conversation. An empty reply with
// a nil error means the model produced no choices.
type Completer interface {
	Complete(ctx context.Context, msgs []Message) (string, error)
}

// Config configures a Client.
type Config struct {
	Endpoint   string // e.g. https://<resource>.openai.azure.com/openai
	APIKey     string
	Model      string // deployment name
	APIVersion string
	Timeout    time.Duration
}

// Client is a Completer over HTTP.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

// New creates a Client.
func New(cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}
}

type completionRequest struct {
	Messages []Message `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

func (c *Client) completionsURL() string {
	base := strings.TrimRight(c.cfg.Endpoint, "/")
	u := fmt.Sprintf("%s/deployments/%s/chat/completions", base, url.PathEscape(c.cfg.Model))
	if c.cfg.APIVersion != "" {
		u += "?api-version=" + url.QueryEscape(c.cfg.APIVersion)
	}
	return u
}

// Complete implements Completer.
func (c *Client) Complete(ctx context.Context, msgs []Message) (string, error) {
	if c == nil || c.cfg.Endpoint == "" {
		return "", ErrNotConfigured
	}

	reqBody, err := json.Marshal(completionRequest{Messages: msgs})
	if err != nil {
		return "", errors.Wrapf(err, "Complete: request JSON marshalling error, messages: %d", len(msgs))
	}

	endpoint := c.completionsURL()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return "", errors.Wrapf(err, "Complete: error creating HTTP request for %s", endpoint)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errors.Wrapf(err, "Complete: error doing request to %s", endpoint)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("chat relay: error closing response body", zap.Error(err))
		}
	}()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", errors.Wrapf(err, "Complete: error reading response body from %s", endpoint)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", errors.Errorf("Complete: %s returned status %d, body: %s", endpoint, resp.StatusCode, respBody)
	}

	var out completionResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", errors.Wrapf(err, "Complete: error unmarshalling response body: %s", respBody)
	}
	if len(out.Choices) == 0 {
		return "", nil
	}
	return out.Choices[0].Message.Content, nil
}
