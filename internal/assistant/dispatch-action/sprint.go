package dispatchaction

import (
	"context"
	"fmt"
	"net/http"

	extractparameters "jira-assistant/internal/assistant/extract-parameters"
	apperrors "jira-assistant/internal/common/errors"
	"jira-assistant/internal/common/jira"
	"jira-assistant/internal/models"
)

func (h *Handler) listSprints(ctx context.Context, _ string) models.ActionResult {
	var out pagedValues[map[string]interface{}]
	if err := h.fetch(ctx, http.MethodGet, jira.PathSprint, nil, &out); err != nil {
		return transportFailure(models.EntitySprint, models.VerbList, "list sprints", err, "Failed to retrieve sprints")
	}
	sprints := out.Values
	if sprints == nil {
		sprints = []map[string]interface{}{}
	}
	return models.Success(models.EntitySprint, models.VerbList, models.ActionList, sprints,
		fmt.Sprintf("Found %d sprints", len(sprints)))
}

func (h *Handler) getSprint(ctx context.Context, query string) models.ActionResult {
	params := extractparameters.SprintGet(query)
	if params.SprintID == nil {
		return failure(models.EntitySprint, models.VerbGet,
			apperrors.NewMissingIdentifierError(string(models.EntitySprint)),
			"Please specify a sprint ID")
	}

	id := *params.SprintID
	var sprint map[string]interface{}
	if err := h.fetch(ctx, http.MethodGet, jira.SprintPath(id), nil, &sprint); err != nil {
		return transportFailure(models.EntitySprint, models.VerbGet, "get sprint", err,
			fmt.Sprintf("Failed to retrieve sprint %d", id))
	}
	return models.Success(models.EntitySprint, models.VerbGet, models.ActionDetail, sprint,
		fmt.Sprintf("Retrieved sprint %d", id))
}

func (h *Handler) createSprint(ctx context.Context, query string) models.ActionResult {
	params := extractparameters.SprintCreate(query)
	if params.Name == nil {
		return failure(models.EntitySprint, models.VerbCreate,
			apperrors.NewMissingRequiredFieldError(string(models.EntitySprint), "sprint name"),
			"To create a sprint, please provide a name. Example: 'Create sprint named Sprint 1'")
	}
	if params.BoardID == nil {
		return failure(models.EntitySprint, models.VerbCreate,
			apperrors.NewMissingRequiredFieldError(string(models.EntitySprint), "board ID"),
			"To create a sprint, please provide a board ID. Example: 'Create sprint in board 123 named Sprint 1'")
	}

	name, boardID := *params.Name, *params.BoardID
	var created map[string]interface{}
	if err := h.fetch(ctx, http.MethodPost, jira.PathSprint, jira.CreateSprintRequest(name, boardID), &created); err != nil {
		return transportFailure(models.EntitySprint, models.VerbCreate, "create sprint", err,
			fmt.Sprintf("Failed to create sprint: %v", err))
	}
	return models.Success(models.EntitySprint, models.VerbCreate, models.ActionCreated, created,
		fmt.Sprintf("Successfully created sprint '%s' in board %d", name, boardID))
}

func (h *Handler) updateSprint(_ context.Context, _ string) models.ActionResult {
	return failure(models.EntitySprint, models.VerbUpdate,
		apperrors.NewNotImplementedError(string(models.EntitySprint), string(models.VerbUpdate)),
		"To update a sprint, please provide: sprint ID and fields to update")
}
