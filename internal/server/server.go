// Package server exposes the assistant over HTTP.
package server

import (
	"context"
	"time"

	conversationstore "jira-assistant/internal/assistant/conversation-store"
	apperrors "jira-assistant/internal/common/errors"
	"jira-assistant/internal/common/logger"
	"jira-assistant/internal/common/validation"
	"jira-assistant/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

var (
	chatValidator    = validation.MustValidator(validation.ChatRequestSchema)
	sessionValidator = validation.MustValidator(validation.SessionRequestSchema)
)

type Server struct {
	config     *Config
	processor  QueryProcessor
	sessions   *conversationstore.SessionManager
	dispatcher Dispatcher
	generator  GeneratorProbe
	jiraReady  bool
	checks     map[string]ReadinessCheck
	errors     *apperrors.ErrorHandler
	logger     logger.Logger
	now        func() time.Time
}

type Option func(*Server)

// WithDispatcher enables the direct listing endpoints under /jira.
func WithDispatcher(d Dispatcher) Option { return func(s *Server) { s.dispatcher = d } }

func WithGeneratorProbe(p GeneratorProbe) Option { return func(s *Server) { s.generator = p } }

// WithJiraConfigured marks the tracking API credentials as present for /health.
func WithJiraConfigured(ok bool) Option { return func(s *Server) { s.jiraReady = ok } }

// WithReadinessCheck adds a named check run by /ready.
func WithReadinessCheck(name string, check ReadinessCheck) Option {
	return func(s *Server) { s.checks[name] = check }
}

func New(config *Config, processor QueryProcessor, sessions *conversationstore.SessionManager, log logger.Logger, opts ...Option) *Server {
	log = logger.ForComponent(log, "http-server")
	s := &Server{
		config:    config,
		processor: processor,
		sessions:  sessions,
		checks:    make(map[string]ReadinessCheck),
		errors:    apperrors.NewErrorHandler(log),
		logger:    log,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	if s.config.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(s.config.ServiceName))
	router.Use(s.requestContext())

	router.POST("/chat", s.handleChat)

	conversation := router.Group("/conversation")
	conversation.GET("/summary", s.handleSummary)
	conversation.POST("/reset", s.handleReset)
	conversation.DELETE("", s.handleRemove)

	if s.dispatcher != nil {
		jira := router.Group("/jira")
		jira.GET("/epics", s.handleList(models.EntityEpic))
		jira.GET("/sprints", s.handleList(models.EntitySprint))
		jira.GET("/boards", s.handleList(models.EntityBoard))
	}

	router.GET("/health", s.handleHealth)
	router.GET("/ready", s.handleReady)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

// requestContext tags each request with an id, bounds it with the request
// timeout and logs its outcome.
func (s *Server) requestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := s.now()
		requestID := c.GetHeader(headerRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(headerRequestID, requestID)

		if s.config.RequestTimeout > 0 {
			ctx, cancel := context.WithTimeout(c.Request.Context(), s.config.RequestTimeout)
			defer cancel()
			c.Request = c.Request.WithContext(ctx)
		}

		c.Next()

		fields := map[string]interface{}{
			"requestId":  requestID,
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"status":     c.Writer.Status(),
			"durationMs": s.now().Sub(start).Milliseconds(),
		}
		if c.FullPath() == "/health" || c.FullPath() == "/metrics" {
			s.logger.Debug("request served", fields)
			return
		}
		s.logger.Info("request served", fields)
	}
}
