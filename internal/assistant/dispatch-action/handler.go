// Package dispatchaction maps an entity kind and the verb found in a query onto
// one handler, calls the tracking API and normalizes every outcome into an
// ActionResult.
package dispatchaction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	apperrors "jira-assistant/internal/common/errors"
	"jira-assistant/internal/common/jira"
	"jira-assistant/internal/common/logger"
	"jira-assistant/internal/common/metrics"
	"jira-assistant/internal/models"
)

type Handler struct {
	config    *Config
	transport Transport
	routes    map[route]action
	logger    logger.Logger
}

func NewHandler(config *Config, transport Transport, log logger.Logger) *Handler {
	h := &Handler{
		config:    config,
		transport: transport,
		logger:    logger.ForComponent(log, "dispatch-action"),
	}
	h.routes = map[route]action{
		{models.EntityEpic, models.VerbList}:     h.listEpics,
		{models.EntityEpic, models.VerbGet}:      h.getEpic,
		{models.EntityEpic, models.VerbCreate}:   h.createEpic,
		{models.EntityEpic, models.VerbUpdate}:   h.updateEpic,
		{models.EntitySprint, models.VerbList}:   h.listSprints,
		{models.EntitySprint, models.VerbGet}:    h.getSprint,
		{models.EntitySprint, models.VerbCreate}: h.createSprint,
		{models.EntitySprint, models.VerbUpdate}: h.updateSprint,
		{models.EntityBoard, models.VerbList}:    h.listBoards,
		{models.EntityBoard, models.VerbGet}:     h.getBoard,
	}
	return h
}

// Supports reports whether any handler is registered for the entity kind.
func (h *Handler) Supports(entity models.EntityKind) bool {
	for r := range h.routes {
		if r.Entity == entity {
			return true
		}
	}
	return false
}

// ClassifyVerb returns the first verb whose keywords occur in the query.
func ClassifyVerb(query string) models.Verb {
	lower := strings.ToLower(query)
	for _, rule := range verbRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Verb
			}
		}
	}
	return models.VerbGet
}

// Dispatch never fails: every outcome, including a panicking transport, comes
// back as an ActionResult.
func (h *Handler) Dispatch(ctx context.Context, entity models.EntityKind, query string) models.ActionResult {
	verb := ClassifyVerb(query)

	var result models.ActionResult
	if act, ok := h.routes[route{Entity: entity, Verb: verb}]; ok {
		result = act(ctx, query)
	} else {
		result = failure(entity, verb,
			apperrors.NewNotImplementedError(string(entity), string(verb)),
			fmt.Sprintf("Sorry, I can't %s %ss yet. Try listing them instead, e.g. 'List all %ss'", verb, entity, entity))
	}

	outcome := "success"
	if !result.Succeeded() {
		outcome = strings.ToLower(string(result.Reason))
	}
	metrics.ActionsTotal.WithLabelValues(string(entity), string(verb), outcome).Inc()

	h.logger.Info("action dispatched", map[string]interface{}{
		"entity":  string(entity),
		"verb":    string(verb),
		"outcome": outcome,
		"source":  string(result.Source),
	})
	return result
}

// callTransport bounds the call with the configured timeout and turns a panic
// inside the transport into a network error.
func (h *Handler) callTransport(ctx context.Context, method, path string, body interface{}) (resp jira.Response) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("transport panicked", map[string]interface{}{
				"method": method,
				"path":   path,
				"panic":  fmt.Sprint(r),
			})
			resp = jira.Response{
				Category: jira.CategoryNetworkError,
				RawError: fmt.Sprintf("unexpected transport failure: %v", r),
			}
		}
	}()

	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}
	return h.transport.Request(ctx, method, path, body)
}

// fetch performs one call and decodes a successful body into out.
func (h *Handler) fetch(ctx context.Context, method, path string, body, out interface{}) error {
	resp := h.callTransport(ctx, method, path, body)
	if err := resp.Err(); err != nil {
		return err
	}
	if out == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", jira.ErrTransportFailed, err)
	}
	return nil
}

func failure(entity models.EntityKind, verb models.Verb, stdErr *apperrors.StandardError, message string) models.ActionResult {
	return models.Failure(entity, verb, stdErr.Code, stdErr.Details, message)
}

func transportFailure(entity models.EntityKind, verb models.Verb, operation string, err error, message string) models.ActionResult {
	return failure(entity, verb, apperrors.NewTransportError(operation, err), message)
}
