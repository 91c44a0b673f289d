package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	classifyintent "jira-assistant/internal/assistant/classify-intent"
	conversationstore "jira-assistant/internal/assistant/conversation-store"
	apperrors "jira-assistant/internal/common/errors"
	"jira-assistant/internal/common/logger"
	"jira-assistant/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ==========================
// Test Helper Functions
// ==========================

// echoProcessor appends the turn pair the way the query router does and echoes the text.
type echoProcessor struct {
	mu       sync.Mutex
	contexts []*string
}

func (e *echoProcessor) ProcessQuery(_ context.Context, session *conversationstore.Session, userText string, externalContext *string) models.ResponseEnvelope {
	e.mu.Lock()
	e.contexts = append(e.contexts, externalContext)
	e.mu.Unlock()

	session.Store.Append(models.RoleUser, userText, nil)
	env := models.NewResponseEnvelope("echo: "+userText, 0.8, []string{"intent_epic"}, nil, time.Unix(0, 0).UTC())
	session.Store.Append(models.RoleAssistant, env.Message, env.Metadata)
	return env
}

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, entity models.EntityKind, query string) models.ActionResult {
	args := m.Called(ctx, entity, query)
	return args.Get(0).(models.ActionResult)
}

type fakeProbe struct{ ok bool }

func (f fakeProbe) Available(context.Context) bool { return f.ok }

func createTestServer(t *testing.T, snapshotter conversationstore.Snapshotter, opts ...Option) (*Server, *echoProcessor, *conversationstore.SessionManager) {
	t.Helper()
	log := logger.NewTestLogger(t)
	sessions := conversationstore.NewSessionManager(conversationstore.LoadConfig(), classifyintent.NewClassifier(nil), snapshotter, log)
	processor := &echoProcessor{}
	return New(LoadConfig(), processor, sessions, log, opts...), processor, sessions
}

func doRequest(t *testing.T, s *Server, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apperrors.StandardError {
	t.Helper()
	var body struct {
		Error apperrors.StandardError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

// ==========================
// Chat
// ==========================

func TestChat_AssignsSessionID(t *testing.T) {
	s, _, sessions := createTestServer(t, nil)

	w := doRequest(t, s, http.MethodPost, "/chat", map[string]string{"message": "create an epic"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "echo: create an epic", resp.Message)
	assert.Equal(t, 0.8, resp.Confidence)
	assert.Equal(t, []string{"intent_epic"}, resp.Sources)
	require.NotEmpty(t, resp.SessionID)

	session, ok := sessions.Get(context.Background(), resp.SessionID)
	require.True(t, ok)
	assert.Equal(t, 2, session.Store.Len())
	assert.NotEmpty(t, w.Header().Get(headerRequestID))
}

func TestChat_ReusesSession(t *testing.T) {
	s, _, sessions := createTestServer(t, nil)

	for _, msg := range []string{"first", "second"} {
		w := doRequest(t, s, http.MethodPost, "/chat", map[string]string{"message": msg, "session_id": "abc"})
		require.Equal(t, http.StatusOK, w.Code)
	}

	session, ok := sessions.Get(context.Background(), "abc")
	require.True(t, ok)
	assert.Equal(t, 4, session.Store.Len())
}

func TestChat_PassesCallerContext(t *testing.T) {
	s, processor, _ := createTestServer(t, nil)

	w := doRequest(t, s, http.MethodPost, "/chat", map[string]interface{}{"message": "hi", "context": "customer is on cloud"})
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, processor.contexts, 1)
	require.NotNil(t, processor.contexts[0])
	assert.Equal(t, "customer is on cloud", *processor.contexts[0])
}

func TestChat_InvalidBodies(t *testing.T) {
	s, _, _ := createTestServer(t, nil)

	tests := []struct {
		name     string
		body     interface{}
		contains string
	}{
		{name: "missing message", body: map[string]string{"session_id": "x"}, contains: "message"},
		{name: "empty message", body: map[string]string{"message": ""}, contains: "message"},
		{name: "blank message", body: map[string]string{"message": "   "}, contains: "blank"},
		{name: "wrong type", body: map[string]interface{}{"message": 42}, contains: "message"},
		{name: "extra field", body: map[string]string{"message": "hi", "user": "bob"}, contains: "user"},
		{name: "not json", body: "{not json", contains: "JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, s, http.MethodPost, "/chat", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			stdErr := decodeError(t, w)
			assert.Equal(t, apperrors.ErrCodeInvalidRequest, stdErr.Code)
			assert.Contains(t, stdErr.Details, tt.contains)
		})
	}
}

func TestChat_PersistsToRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	s, _, _ := createTestServer(t, conversationstore.NewRedisSnapshotter(rdb, time.Hour))

	w := doRequest(t, s, http.MethodPost, "/chat", map[string]string{"message": "hello", "session_id": "persisted"})
	require.Equal(t, http.StatusOK, w.Code)

	raw, err := mr.Get(conversationstore.SessionKey("persisted"))
	require.NoError(t, err)
	var snap models.SessionSnapshot
	require.NoError(t, json.Unmarshal([]byte(raw), &snap))
	assert.Len(t, snap.Turns, 2)
}

// ==========================
// Conversation endpoints
// ==========================

func TestSummary(t *testing.T) {
	s, _, _ := createTestServer(t, nil)
	doRequest(t, s, http.MethodPost, "/chat", map[string]string{"message": "list sprints", "session_id": "sum"})

	w := doRequest(t, s, http.MethodGet, "/conversation/summary?session_id=sum", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp SummaryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "sum", resp.SessionID)
	assert.Equal(t, 2, resp.MessageCount)
	assert.Equal(t, 1, resp.UserMessages)
	assert.Equal(t, 1, resp.AssistantMessages)
	assert.Contains(t, resp.RecentTopics, "sprint")
}

func TestSummary_Errors(t *testing.T) {
	s, _, _ := createTestServer(t, nil)

	w := doRequest(t, s, http.MethodGet, "/conversation/summary", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, s, http.MethodGet, "/conversation/summary?session_id=nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.ErrCodeSessionNotFound, decodeError(t, w).Code)
}

func TestReset(t *testing.T) {
	s, _, sessions := createTestServer(t, nil)
	doRequest(t, s, http.MethodPost, "/chat", map[string]string{"message": "hello", "session_id": "r1"})

	w := doRequest(t, s, http.MethodPost, "/conversation/reset", map[string]string{"session_id": "r1"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp MessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Conversation reset successfully", resp.Message)

	session, ok := sessions.Get(context.Background(), "r1")
	require.True(t, ok)
	assert.Zero(t, session.Store.Len())
}

func TestReset_QueryParamAndErrors(t *testing.T) {
	s, _, _ := createTestServer(t, nil)
	doRequest(t, s, http.MethodPost, "/chat", map[string]string{"message": "hello", "session_id": "r2"})

	w := doRequest(t, s, http.MethodPost, "/conversation/reset?session_id=r2", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, s, http.MethodPost, "/conversation/reset", map[string]string{"session_id": "unknown"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, s, http.MethodPost, "/conversation/reset", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Details, "session_id")
}

func TestRemove(t *testing.T) {
	s, _, sessions := createTestServer(t, nil)
	doRequest(t, s, http.MethodPost, "/chat", map[string]string{"message": "hello", "session_id": "gone"})

	w := doRequest(t, s, http.MethodDelete, "/conversation?session_id=gone", nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, ok := sessions.Get(context.Background(), "gone")
	assert.False(t, ok)

	w = doRequest(t, s, http.MethodDelete, "/conversation?session_id=gone", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ==========================
// Jira listing endpoints
// ==========================

func TestList_Success(t *testing.T) {
	dispatcher := new(MockDispatcher)
	dispatcher.On("Dispatch", mock.Anything, models.EntityEpic, "list all epics").
		Return(models.Success(models.EntityEpic, models.VerbList, models.ActionList, []interface{}{}, "Found 0 epics"))
	s, _, _ := createTestServer(t, nil, WithDispatcher(dispatcher))

	w := doRequest(t, s, http.MethodGet, "/jira/epics", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var result models.ActionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, models.EntityEpic, result.Entity)
	assert.Equal(t, "Found 0 epics", result.HumanMessage)
	dispatcher.AssertExpectations(t)
}

func TestList_TransportFailure(t *testing.T) {
	dispatcher := new(MockDispatcher)
	dispatcher.On("Dispatch", mock.Anything, models.EntitySprint, "list all sprints").
		Return(models.Failure(models.EntitySprint, models.VerbList, apperrors.ErrCodeTransportError, "HTTP 503", "Failed to retrieve sprints"))
	s, _, _ := createTestServer(t, nil, WithDispatcher(dispatcher))

	w := doRequest(t, s, http.MethodGet, "/jira/sprints", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	stdErr := decodeError(t, w)
	assert.Equal(t, apperrors.ErrCodeTransportError, stdErr.Code)
	assert.Equal(t, "Failed to retrieve sprints", stdErr.Message)
	assert.True(t, stdErr.Retryable)
	dispatcher.AssertExpectations(t)
}

func TestList_DisabledWithoutDispatcher(t *testing.T) {
	s, _, _ := createTestServer(t, nil)
	w := doRequest(t, s, http.MethodGet, "/jira/boards", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ==========================
// Health, readiness, metrics
// ==========================

func TestHealth_ReportsGeneratorMode(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		llm  string
		jira string
	}{
		{name: "no generator", llm: modeFallback, jira: modeMissing},
		{name: "generator down", opts: []Option{WithGeneratorProbe(fakeProbe{ok: false})}, llm: modeFallback, jira: modeMissing},
		{name: "generator up", opts: []Option{WithGeneratorProbe(fakeProbe{ok: true}), WithJiraConfigured(true)}, llm: statusHealthy, jira: modeConfigured},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := createTestServer(t, nil, tt.opts...)
			w := doRequest(t, s, http.MethodGet, "/health", nil)
			require.Equal(t, http.StatusOK, w.Code)

			var resp HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, statusHealthy, resp.Status)
			assert.Equal(t, tt.llm, resp.Components["llm"])
			assert.Equal(t, tt.jira, resp.Components["jira"])
		})
	}
}

func TestReady(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	s, _, _ := createTestServer(t, nil, WithReadinessCheck("redis", ok))
	w := doRequest(t, s, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	s, _, _ = createTestServer(t, nil, WithReadinessCheck("redis", ok), WithReadinessCheck("postgres", down))
	w = doRequest(t, s, http.MethodGet, "/ready", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp ReadyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, statusNotReady, resp.Status)
	assert.Equal(t, map[string]string{"postgres": "connection refused"}, resp.Failures)
}

func TestMetricsEndpoint(t *testing.T) {
	s, _, _ := createTestServer(t, nil)
	doRequest(t, s, http.MethodPost, "/chat", map[string]string{"message": "hello"})

	w := doRequest(t, s, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "assistant_active_sessions"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	s, _, _ := createTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(headerRequestID, "req-123")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get(headerRequestID))
}
