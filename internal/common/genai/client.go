// Package genai calls an Ollama-compatible text generation endpoint.
package genai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	apperrors "jira-assistant/internal/common/errors"
	commonhttp "jira-assistant/internal/common/http"
	"jira-assistant/internal/common/logger"
)

type Config struct {
	BaseURL     string
	Model       string
	Temperature float64
	TopP        float64
	MaxTokens   int
	Timeout     time.Duration
}

type Client struct {
	config *Config
	http   *commonhttp.Client
	logger logger.Logger
}

func NewClient(config *Config, log logger.Logger) *Client {
	return &Client{
		config: config,
		http:   commonhttp.NewClient(config.Timeout),
		logger: logger.ForComponent(log, "genai-client"),
	}
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	NumPredict  int     `json:"num_predict"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Generate returns the model's completion for prompt, trimmed of surrounding whitespace.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	req := generateRequest{
		Model:  c.config.Model,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: c.config.Temperature,
			TopP:        c.config.TopP,
			NumPredict:  c.config.MaxTokens,
		},
	}

	resp, err := c.http.DoJSON(ctx, http.MethodPost, c.url("/api/generate"), nil, req)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
			return "", apperrors.NewGenerationTimeoutError(err)
		}
		return "", apperrors.NewGenerationFailedError(err)
	}
	if !resp.IsSuccess() {
		return "", apperrors.NewGenerationFailedError(fmt.Errorf("status %d", resp.StatusCode))
	}

	var out generateResponse
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return "", apperrors.NewGenerationFailedError(fmt.Errorf("decode error: %w", err))
	}

	text := strings.TrimSpace(out.Response)
	c.logger.Debug("generation completed", map[string]interface{}{
		"model":       c.config.Model,
		"promptChars": len(prompt),
		"replyChars":  len(text),
	})
	return text, nil
}

// Available reports whether the model server answers its tag listing.
func (c *Client) Available(ctx context.Context) bool {
	resp, err := c.http.DoJSON(ctx, http.MethodGet, c.url("/api/tags"), nil, nil)
	return err == nil && resp.IsSuccess()
}

func (c *Client) url(path string) string {
	return strings.TrimRight(c.config.BaseURL, "/") + path
}
