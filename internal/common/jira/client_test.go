package jira

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jira-assistant/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestClient(t *testing.T, baseURL string) *Client {
	return NewClient(&Config{
		BaseURL:  baseURL,
		Email:    "bot@example.com",
		APIToken: "secret",
		Timeout:  5 * time.Second,
	}, logger.NewTestLogger(t))
}

// ==========================
// Request Tests
// ==========================

func TestClient_Request_Success(t *testing.T) {
	wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("bot@example.com:secret"))
	var body map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathSearch, r.URL.Path)
		assert.Equal(t, wantAuth, r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`{"issues":[{"key":"DEMO-1"}]}`))
	}))
	defer server.Close()

	resp := createTestClient(t, server.URL+"/").Request(context.Background(), http.MethodPost, PathSearch, EpicSearchRequest(""))

	require.True(t, resp.OK())
	assert.NoError(t, resp.Err())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"issues":[{"key":"DEMO-1"}]}`, string(resp.Body))
	assert.Equal(t, "issuetype = Epic", body["jql"])
	assert.EqualValues(t, 100, body["maxResults"])
}

func TestClient_Request_StatusCategories(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		category Category
	}{
		{name: "created counts as success", status: http.StatusCreated, category: CategorySuccess},
		{name: "no content counts as success", status: http.StatusNoContent, category: CategorySuccess},
		{name: "not found", status: http.StatusNotFound, category: CategoryClientError},
		{name: "unauthorized", status: http.StatusUnauthorized, category: CategoryClientError},
		{name: "server error", status: http.StatusBadGateway, category: CategoryServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				if tt.status != http.StatusNoContent {
					_, _ = w.Write([]byte(`{"errorMessages":["nope"]}`))
				}
			}))
			defer server.Close()

			resp := createTestClient(t, server.URL).Request(context.Background(), http.MethodGet, IssuePath("DEMO-9"), nil)
			assert.Equal(t, tt.category, resp.Category)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.category != CategorySuccess {
				assert.Contains(t, resp.RawError, "HTTP ")
				assert.True(t, errors.Is(resp.Err(), ErrTransportFailed))
			}
		})
	}
}

func TestClient_Request_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	resp := createTestClient(t, url).Request(context.Background(), http.MethodGet, PathBoards, nil)
	assert.Equal(t, CategoryNetworkError, resp.Category)
	assert.NotEmpty(t, resp.RawError)
}

func TestClient_Request_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	resp := createTestClient(t, server.URL).Request(ctx, http.MethodGet, PathSprint, nil)
	assert.Equal(t, CategoryNetworkError, resp.Category)
	assert.Contains(t, resp.RawError, "timed out")
}

func TestClient_Request_NotConfigured(t *testing.T) {
	client := NewClient(&Config{Timeout: time.Second}, logger.NewNoOpLogger())
	resp := client.Request(context.Background(), http.MethodGet, PathBoards, nil)
	assert.Equal(t, CategoryNetworkError, resp.Category)
	assert.Equal(t, ErrNotConfigured.Error(), resp.RawError)
}

// ==========================
// Payload Tests
// ==========================

func TestCreateEpicRequest(t *testing.T) {
	plain := CreateEpicRequest("DEMO", "Test Epic", "")
	fields := plain["fields"].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{"key": "DEMO"}, fields["project"])
	assert.Equal(t, "Test Epic", fields["summary"])
	assert.Equal(t, map[string]interface{}{"name": "Epic"}, fields["issuetype"])
	assert.NotContains(t, fields, "description")

	withDesc := CreateEpicRequest("DEMO", "Test Epic", "Users sign in")
	data, err := json.Marshal(withDesc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"doc"`)
	assert.Contains(t, string(data), `"text":"Users sign in"`)
}

func TestEpicSearchRequest_ProjectScope(t *testing.T) {
	assert.Equal(t, "project = DEMO AND issuetype = Epic", EpicSearchRequest("DEMO")["jql"])
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "/rest/api/3/issue/DEMO-1", IssuePath("DEMO-1"))
	assert.Equal(t, "/rest/api/3/issue/EPIC-1%2F..%2Fmyself", IssuePath("EPIC-1/../myself"))
	assert.Equal(t, "/rest/api/3/issue/PROJ-X%3FJQL=1", IssuePath("PROJ-X?JQL=1"))
	assert.Equal(t, "/rest/agile/1.0/board/12", BoardPath(12))
	assert.Equal(t, "/rest/agile/1.0/sprint/7", SprintPath(7))
	assert.Equal(t, map[string]interface{}{"name": "Sprint 1", "originBoardId": 5}, CreateSprintRequest("Sprint 1", 5))
}
