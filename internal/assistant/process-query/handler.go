// Package processquery is the single entry point that turns a user query into
// a response envelope. Direct tracking API results win over generated text, and
// generated text always carries whatever action or search context was obtained.
package processquery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	classifyintent "jira-assistant/internal/assistant/classify-intent"
	conversationstore "jira-assistant/internal/assistant/conversation-store"
	"jira-assistant/internal/common/audit"
	apperrors "jira-assistant/internal/common/errors"
	"jira-assistant/internal/common/logger"
	"jira-assistant/internal/common/metrics"
	"jira-assistant/internal/common/observability"
	"jira-assistant/internal/models"
)

type Handler struct {
	config     *Config
	classifier IntentClassifier
	dispatcher Dispatcher
	searcher   Searcher
	generator  Generator
	recorder   Recorder
	obs        *observability.Observability
	logger     logger.Logger
	now        func() time.Time
}

// Option wires an optional collaborator.
type Option func(*Handler)

func WithSearcher(s Searcher) Option { return func(h *Handler) { h.searcher = s } }

func WithGenerator(g Generator) Option { return func(h *Handler) { h.generator = g } }

func WithRecorder(r Recorder) Option { return func(h *Handler) { h.recorder = r } }

func WithObservability(o *observability.Observability) Option {
	return func(h *Handler) { h.obs = o }
}

func NewHandler(config *Config, classifier IntentClassifier, dispatcher Dispatcher, log logger.Logger, opts ...Option) *Handler {
	h := &Handler{
		config:     config,
		classifier: classifier,
		dispatcher: dispatcher,
		logger:     logger.ForComponent(log, "process-query"),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ProcessQuery always returns an envelope. Collaborator failures degrade to
// fallback text and a panic anywhere below is recovered here.
func (h *Handler) ProcessQuery(ctx context.Context, session *conversationstore.Session, userText string, externalContext *string) (envelope models.ResponseEnvelope) {
	start := h.now()
	answer := answerGenerated
	if session == nil || session.Store == nil {
		id := ""
		if session != nil {
			id = session.ID
		}
		session = &conversationstore.Session{ID: id, Store: conversationstore.NewStore(conversationstore.LoadConfig(), nil)}
	}

	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("query processing panicked", map[string]interface{}{
				"sessionId": session.ID,
				"panic":     fmt.Sprint(r),
			})
			answer = answerFallback
			metadata := map[string]interface{}{MetaHasExternalContext: false}
			markNoMatch(metadata, []string{NoMatchGenerator})
			envelope = models.NewResponseEnvelope(FallbackResponse(userText), 0.5, nil, metadata, h.now().UTC())
			session.Store.Append(models.RoleAssistant, envelope.Message, envelope.Metadata)
		}
		metrics.QueriesTotal.WithLabelValues(answer).Inc()
		h.obs.RecordQuery(ctx, h.now().Sub(start), answer)
	}()

	store := session.Store
	session.Touch(start.UTC())
	store.Append(models.RoleUser, userText, nil)

	scores := h.classifier.Classify(userText)

	var external []string
	if externalContext != nil && strings.TrimSpace(*externalContext) != "" {
		external = append(external, strings.TrimSpace(*externalContext))
	}

	var action *models.ActionResult
	var noMatch []string
	if entity, ok := h.classifier.TopEntity(scores); ok && h.dispatcher.Supports(entity) {
		result := h.dispatcher.Dispatch(ctx, entity, userText)
		action = &result

		if result.Terminal() {
			answer = answerAction
			envelope = h.shortCircuit(scores, result)
			store.Append(models.RoleAssistant, envelope.Message, envelope.Metadata)
			h.record(ctx, session.ID, userText, envelope, action)
			return envelope
		}

		external = append(external, h.actionContext(result))
		if !result.Succeeded() {
			doc, miss := h.entityDocumentation(ctx, entity)
			if miss != nil {
				noMatch = append(noMatch, NoMatchSearch)
			} else if doc != "" {
				external = append(external, doc)
			}
		}
	} else {
		doc, miss := h.searchDocumentation(ctx, userText)
		if miss != nil {
			noMatch = append(noMatch, NoMatchSearch)
		} else if doc != "" {
			external = append(external, doc)
		}
	}

	extra := strings.Join(external, "\n\n")
	fullContext := store.RecentContext(h.config.ContextWindow)
	if extra != "" {
		fullContext += "\n\nAdditional Context: " + extra
	}

	message, generated, miss := h.generate(ctx, userText, fullContext)
	answer = generated
	if miss != nil {
		noMatch = append(noMatch, NoMatchGenerator)
	}

	confidence := 0.5
	if len(scores) > 0 {
		confidence = scores.Max()
	}

	var sources []string
	if extra != "" {
		sources = append(sources, SourceExternalData)
	}
	for _, label := range h.classifier.Labels(scores) {
		sources = append(sources, intentSourcePrefix+label)
	}

	metadata := map[string]interface{}{
		MetaIntents:            scores,
		MetaHasExternalContext: extra != "",
	}
	if action != nil {
		metadata[MetaActionResult] = *action
	}
	markNoMatch(metadata, noMatch)

	envelope = models.NewResponseEnvelope(message, confidence, sources, metadata, h.now().UTC())
	store.Append(models.RoleAssistant, envelope.Message, envelope.Metadata)
	h.record(ctx, session.ID, userText, envelope, action)
	return envelope
}

func (h *Handler) shortCircuit(scores classifyintent.Scores, result models.ActionResult) models.ResponseEnvelope {
	source := terminalSources[result.Entity][result.ActionType]
	var sources []string
	if source != "" {
		sources = []string{source}
	}
	metadata := map[string]interface{}{
		MetaIntents:            scores,
		MetaHasExternalContext: false,
		MetaActionResult:       result,
	}
	return models.NewResponseEnvelope(h.formatTerminal(result), 1.0, sources, metadata, h.now().UTC())
}

// generate asks the model for an answer. When it cannot produce one the canned
// fallback is returned together with the reason the model answer was unusable.
func (h *Handler) generate(ctx context.Context, userText, fullContext string) (string, string, *apperrors.StandardError) {
	if h.generator == nil {
		metrics.GeneratorFallbacks.WithLabelValues("unavailable").Inc()
		return FallbackResponse(userText), answerFallback, apperrors.NewNoMatchError(NoMatchGenerator)
	}

	if h.config.GenerateTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.GenerateTimeout)
		defer cancel()
	}

	text, err := h.generator.Generate(ctx, FormatPrompt(userText, fullContext))
	if err != nil {
		stdErr := apperrors.AsStandardError(err)
		reason := "error"
		if stdErr.Code == apperrors.ErrCodeGenerationTimeout || errors.Is(err, context.DeadlineExceeded) {
			reason = "timeout"
		}
		h.logger.Warn("generation failed, using fallback", map[string]interface{}{
			"reason":    reason,
			"errorCode": string(stdErr.Code),
			"error":     err.Error(),
		})
		metrics.GeneratorFallbacks.WithLabelValues(reason).Inc()
		return FallbackResponse(userText), answerFallback, apperrors.NewNoMatchError(NoMatchGenerator)
	}

	cleaned := CleanResponse(text)
	if cleaned == "" {
		metrics.GeneratorFallbacks.WithLabelValues("empty").Inc()
		return FallbackResponse(userText), answerFallback, apperrors.NewNoMatchError(NoMatchGenerator)
	}
	return cleaned, answerGenerated, nil
}

// entityDocumentation looks up background docs for an entity whose action failed.
func (h *Handler) entityDocumentation(ctx context.Context, entity models.EntityKind) (string, *apperrors.StandardError) {
	if entity == models.EntityBoard {
		return boardDocumentation, nil
	}
	query, ok := entityDocQueries[entity]
	if !ok {
		return "", nil
	}
	return h.searchDocumentation(ctx, query)
}

// searchDocumentation returns formatted snippets, or a NO_MATCH error when the
// search failed or found nothing with content. Without a searcher it returns "", nil.
func (h *Handler) searchDocumentation(ctx context.Context, query string) (string, *apperrors.StandardError) {
	if h.searcher == nil {
		return "", nil
	}

	if h.config.SearchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.SearchTimeout)
		defer cancel()
	}

	snippets, err := h.searcher.Search(ctx, query)
	if err != nil {
		h.logger.Warn("documentation search failed", map[string]interface{}{
			"query":     query,
			"errorCode": string(apperrors.AsStandardError(err).Code),
			"error":     err.Error(),
		})
		return "", apperrors.NewNoMatchError(NoMatchSearch)
	}
	doc := formatDocumentation(snippets)
	if doc == "" {
		return "", apperrors.NewNoMatchError(NoMatchSearch)
	}
	return doc, nil
}

// markNoMatch records which collaborators came back empty.
func markNoMatch(metadata map[string]interface{}, sources []string) {
	if len(sources) == 0 {
		return
	}
	metadata[MetaReason] = string(apperrors.ErrCodeNoMatch)
	metadata[MetaNoMatch] = sources
}

func (h *Handler) record(ctx context.Context, sessionID, userText string, envelope models.ResponseEnvelope, action *models.ActionResult) {
	if h.recorder == nil {
		return
	}
	entry := audit.Entry{
		SessionID:  sessionID,
		Query:      userText,
		Response:   envelope.Message,
		Confidence: envelope.Confidence,
		Sources:    envelope.Sources,
		CreatedAt:  envelope.Timestamp,
	}
	if action != nil {
		entry.ActionReason = string(action.Reason)
	}
	if err := h.recorder.Record(ctx, entry); err != nil {
		h.logger.Warn("failed to record query audit", map[string]interface{}{
			"sessionId": sessionID,
			"error":     err.Error(),
		})
	}
}
