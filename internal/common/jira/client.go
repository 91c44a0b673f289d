// Package jira is the transport to the Jira Cloud REST and Agile APIs.
package jira

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	commonhttp "jira-assistant/internal/common/http"
	"jira-assistant/internal/common/logger"
	"jira-assistant/internal/common/metrics"
)

var (
	ErrTransportFailed = errors.New("TRANSPORT_ERROR")
	ErrNotConfigured   = errors.New("jira client not configured")
)

// Category buckets a response the way callers act on it.
type Category string

const (
	CategorySuccess      Category = "success"
	CategoryClientError  Category = "client_error"
	CategoryServerError  Category = "server_error"
	CategoryNetworkError Category = "network_error"
)

// maxErrorBody bounds how much of an error body is echoed into RawError.
const maxErrorBody = 300

type Response struct {
	Category   Category
	StatusCode int
	Body       json.RawMessage
	RawError   string
}

func (r Response) OK() bool {
	return r.Category == CategorySuccess
}

// Err returns nil on success and a wrapped ErrTransportFailed otherwise.
func (r Response) Err() error {
	if r.OK() {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrTransportFailed, r.RawError)
}

type Config struct {
	BaseURL  string
	Email    string
	APIToken string
	Timeout  time.Duration
}

func (c *Config) configured() bool {
	return c.BaseURL != "" && c.Email != "" && c.APIToken != ""
}

type Client struct {
	config *Config
	http   *commonhttp.Client
	auth   string
	logger logger.Logger
}

func NewClient(config *Config, log logger.Logger) *Client {
	creds := base64.StdEncoding.EncodeToString([]byte(config.Email + ":" + config.APIToken))
	return &Client{
		config: config,
		http:   commonhttp.NewClient(config.Timeout),
		auth:   "Basic " + creds,
		logger: logger.ForComponent(log, "jira-client"),
	}
}

// Request performs a single attempt. It never returns an error: every failure,
// including timeouts, comes back as a non-success Category.
func (c *Client) Request(ctx context.Context, method, path string, body interface{}) Response {
	start := time.Now()
	resp := c.do(ctx, method, path, body)
	metrics.TransportDuration.WithLabelValues(method, string(resp.Category)).Observe(time.Since(start).Seconds())

	if !resp.OK() {
		c.logger.Warn("jira request failed", map[string]interface{}{
			"method":   method,
			"path":     path,
			"category": string(resp.Category),
			"status":   resp.StatusCode,
			"error":    resp.RawError,
		})
	}
	return resp
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) Response {
	if !c.config.configured() {
		return Response{Category: CategoryNetworkError, RawError: ErrNotConfigured.Error()}
	}

	url := strings.TrimRight(c.config.BaseURL, "/") + path
	headers := map[string]string{"Authorization": c.auth}

	raw, err := c.http.DoJSON(ctx, method, url, headers, body)
	if err != nil {
		if ctx.Err() != nil {
			return Response{Category: CategoryNetworkError, RawError: fmt.Sprintf("request timed out: %v", ctx.Err())}
		}
		return Response{Category: CategoryNetworkError, RawError: err.Error()}
	}

	switch {
	case raw.IsSuccess():
		return Response{Category: CategorySuccess, StatusCode: raw.StatusCode, Body: json.RawMessage(raw.Body)}
	case raw.StatusCode >= 500:
		return Response{Category: CategoryServerError, StatusCode: raw.StatusCode, RawError: httpError(raw)}
	default:
		return Response{Category: CategoryClientError, StatusCode: raw.StatusCode, RawError: httpError(raw)}
	}
}

func httpError(raw *commonhttp.Response) string {
	text := strings.TrimSpace(string(raw.Body))
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody]
	}
	return fmt.Sprintf("HTTP %d: %s", raw.StatusCode, text)
}
