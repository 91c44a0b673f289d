// internal/server/models.go
package server

import (
	"context"

	conversationstore "jira-assistant/internal/assistant/conversation-store"
	"jira-assistant/internal/models"
)

// QueryProcessor answers one user query against a session.
type QueryProcessor interface {
	ProcessQuery(ctx context.Context, session *conversationstore.Session, userText string, externalContext *string) models.ResponseEnvelope
}

type Dispatcher interface {
	Dispatch(ctx context.Context, entity models.EntityKind, query string) models.ActionResult
}

// GeneratorProbe reports whether the text generator answers. A nil probe means
// the service runs in fallback mode.
type GeneratorProbe interface {
	Available(ctx context.Context) bool
}

// ReadinessCheck pings one backing store.
type ReadinessCheck func(ctx context.Context) error

const (
	statusHealthy  = "healthy"
	statusReady    = "ready"
	statusNotReady = "not_ready"
	modeFallback   = "fallback_mode"
	modeConfigured = "configured"
	modeMissing    = "not_configured"
)

// headerRequestID carries the request id in and out.
const headerRequestID = "X-Request-ID"

type ChatRequest struct {
	Message   string  `json:"message"`
	SessionID string  `json:"session_id,omitempty"`
	Context   *string `json:"context,omitempty"`
}

type ChatResponse struct {
	models.ResponseEnvelope
	SessionID string `json:"session_id"`
}

type SessionRequest struct {
	SessionID string `json:"session_id"`
}

type SummaryResponse struct {
	SessionID string `json:"session_id"`
	conversationstore.Summary
}

type MessageResponse struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type HealthResponse struct {
	Status     string            `json:"status"`
	Timestamp  string            `json:"timestamp"`
	Components map[string]string `json:"components"`
}

type ReadyResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Failures  map[string]string `json:"failures,omitempty"`
}
