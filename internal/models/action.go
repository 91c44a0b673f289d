package models

import (
	apperrors "jira-assistant/internal/common/errors"
)

type ActionType string

const (
	ActionList    ActionType = "list"
	ActionDetail  ActionType = "detail"
	ActionCreated ActionType = "created"
)

// IsTerminal reports whether a successful result of this type is answered directly.
func (a ActionType) IsTerminal() bool {
	return a == ActionList || a == ActionCreated
}

// ResultSource tags where an ActionResult came from.
type ResultSource string

const (
	SourceTransport       ResultSource = "transport"
	SourceTransportError  ResultSource = "transport_error"
	SourceFallbackContext ResultSource = "fallback_context"
)

// ActionResult is the single shape every dispatch path produces.
// A result is a failure exactly when Reason is set.
type ActionResult struct {
	Source       ResultSource        `json:"source"`
	Entity       EntityKind          `json:"entity"`
	Verb         Verb                `json:"verb"`
	ActionType   ActionType          `json:"actionType,omitempty"`
	Payload      interface{}         `json:"payload,omitempty"`
	Reason       apperrors.ErrorCode `json:"reason,omitempty"`
	Detail       string              `json:"detail,omitempty"`
	HumanMessage string              `json:"humanMessage"`
}

func Success(entity EntityKind, verb Verb, actionType ActionType, payload interface{}, message string) ActionResult {
	return ActionResult{
		Source:       SourceTransport,
		Entity:       entity,
		Verb:         verb,
		ActionType:   actionType,
		Payload:      payload,
		HumanMessage: message,
	}
}

// Failure derives the source from the reason: transport errors keep their own tag,
// everything else is answered from fallback context.
func Failure(entity EntityKind, verb Verb, reason apperrors.ErrorCode, detail, message string) ActionResult {
	source := SourceFallbackContext
	if reason == apperrors.ErrCodeTransportError {
		source = SourceTransportError
	}
	return ActionResult{
		Source:       source,
		Entity:       entity,
		Verb:         verb,
		Reason:       reason,
		Detail:       detail,
		HumanMessage: message,
	}
}

func (r ActionResult) Succeeded() bool {
	return r.Reason == ""
}

// Terminal reports whether the result short-circuits response generation.
func (r ActionResult) Terminal() bool {
	return r.Succeeded() && r.ActionType.IsTerminal()
}
