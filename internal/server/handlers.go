// internal/server/handlers.go
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	apperrors "jira-assistant/internal/common/errors"
	"jira-assistant/internal/common/validation"
	"jira-assistant/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// listQueries are the canned queries behind the /jira listing endpoints.
var listQueries = map[models.EntityKind]string{
	models.EntityEpic:   "list all epics",
	models.EntitySprint: "list all sprints",
	models.EntityBoard:  "list all boards",
}

func (s *Server) handleChat(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		s.fail(c, apperrors.NewInvalidRequestError("unreadable body"))
		return
	}
	if err := validateBody(chatValidator, body); err != nil {
		s.fail(c, err)
		return
	}

	var req ChatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.fail(c, apperrors.NewInvalidRequestError(err.Error()))
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.fail(c, apperrors.NewInvalidRequestError("message: must not be blank"))
		return
	}

	ctx := c.Request.Context()
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	session := s.sessions.GetOrCreate(ctx, sessionID)

	envelope := s.processor.ProcessQuery(ctx, session, req.Message, req.Context)

	// persistence failures are logged by the manager and never fail the answer
	_ = s.sessions.Save(context.WithoutCancel(ctx), session)

	c.JSON(http.StatusOK, ChatResponse{ResponseEnvelope: envelope, SessionID: session.ID})
}

func (s *Server) handleSummary(c *gin.Context) {
	id, err := sessionFromQuery(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	session, ok := s.sessions.Get(c.Request.Context(), id)
	if !ok {
		s.fail(c, apperrors.NewSessionNotFoundError(id))
		return
	}
	c.JSON(http.StatusOK, SummaryResponse{SessionID: id, Summary: session.Store.Summary()})
}

func (s *Server) handleReset(c *gin.Context) {
	id, err := sessionFromBody(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := s.sessions.Reset(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Conversation reset successfully", SessionID: id})
}

func (s *Server) handleRemove(c *gin.Context) {
	id, err := sessionFromQuery(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := s.sessions.Remove(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Conversation removed", SessionID: id})
}

func (s *Server) handleList(entity models.EntityKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := s.dispatcher.Dispatch(c.Request.Context(), entity, listQueries[entity])
		if !result.Succeeded() {
			s.fail(c, &apperrors.StandardError{
				Code:      result.Reason,
				Message:   result.HumanMessage,
				Details:   result.Detail,
				Retryable: apperrors.IsRetryableErrorCode(result.Reason),
				Timestamp: s.now().UTC(),
			})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	components := map[string]string{
		"query_router":       statusHealthy,
		"conversation_store": statusHealthy,
		"jira":               modeMissing,
		"llm":                modeFallback,
	}
	if s.jiraReady {
		components["jira"] = modeConfigured
	}
	if s.generator != nil && s.generator.Available(c.Request.Context()) {
		components["llm"] = statusHealthy
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:     statusHealthy,
		Timestamp:  s.now().Format(time.RFC3339),
		Components: components,
	})
}

func (s *Server) handleReady(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.config.ReadyTimeout)
	defer cancel()

	failures := make(map[string]string)
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			failures[name] = err.Error()
		}
	}

	resp := ReadyResponse{Status: statusReady, Timestamp: s.now().Format(time.RFC3339)}
	if len(failures) > 0 {
		resp.Status = statusNotReady
		resp.Failures = failures
		s.logger.Warn("readiness check failed", map[string]interface{}{"failures": failures})
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) fail(c *gin.Context, err error) {
	s.errors.HandleHTTPError(c.Writer, c.Request, err)
	c.Abort()
}

func validateBody(v *validation.Validator, body []byte) error {
	result, err := v.ValidateJSON(body)
	if err != nil {
		return apperrors.NewInvalidRequestError("body is not valid JSON")
	}
	if !result.Valid {
		return apperrors.NewInvalidRequestError(strings.Join(result.GetErrorMessages(), "; "))
	}
	return nil
}

func validateSessionID(id string) error {
	result, err := sessionValidator.ValidateInput(map[string]interface{}{"session_id": id})
	if err != nil {
		return apperrors.NewInvalidRequestError(err.Error())
	}
	if !result.Valid {
		return apperrors.NewInvalidRequestError(strings.Join(result.GetErrorMessages(), "; "))
	}
	return nil
}

func sessionFromQuery(c *gin.Context) (string, error) {
	id := c.Query("session_id")
	if err := validateSessionID(id); err != nil {
		return "", err
	}
	return id, nil
}

// sessionFromBody reads {"session_id": ...} and falls back to the query string
// when the body is empty.
func sessionFromBody(c *gin.Context) (string, error) {
	body, err := c.GetRawData()
	if err != nil {
		return "", apperrors.NewInvalidRequestError("unreadable body")
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return sessionFromQuery(c)
	}
	if err := validateBody(sessionValidator, body); err != nil {
		return "", err
	}
	var req SessionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return "", apperrors.NewInvalidRequestError(err.Error())
	}
	return req.SessionID, nil
}
