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

const epicExample = "Example: 'Create epic in PROJECT-123 with title My Epic'"

func (h *Handler) listEpics(ctx context.Context, _ string) models.ActionResult {
	var out issueSearchResult
	if err := h.fetch(ctx, http.MethodPost, jira.PathSearch, jira.EpicSearchRequest(""), &out); err != nil {
		return transportFailure(models.EntityEpic, models.VerbList, "list epics", err, "Failed to retrieve epics")
	}
	epics := out.Issues
	if epics == nil {
		epics = []map[string]interface{}{}
	}
	return models.Success(models.EntityEpic, models.VerbList, models.ActionList, epics,
		fmt.Sprintf("Found %d epics", len(epics)))
}

func (h *Handler) getEpic(ctx context.Context, query string) models.ActionResult {
	params := extractparameters.EpicGet(query)
	if params.IssueKey == nil {
		return failure(models.EntityEpic, models.VerbGet,
			apperrors.NewMissingIdentifierError(string(models.EntityEpic)),
			"Please specify an epic key (e.g., EPIC-123)")
	}

	key := *params.IssueKey
	var epic map[string]interface{}
	if err := h.fetch(ctx, http.MethodGet, jira.IssuePath(key), nil, &epic); err != nil {
		return transportFailure(models.EntityEpic, models.VerbGet, "get epic", err,
			fmt.Sprintf("Failed to retrieve epic %s", key))
	}
	return models.Success(models.EntityEpic, models.VerbGet, models.ActionDetail, epic,
		fmt.Sprintf("Retrieved epic %s", key))
}

// createEpic validates the project key before the summary, so a query missing
// both reports the project key.
func (h *Handler) createEpic(ctx context.Context, query string) models.ActionResult {
	params := extractparameters.EpicCreate(query)
	if params.ProjectKey == nil {
		return failure(models.EntityEpic, models.VerbCreate,
			apperrors.NewMissingRequiredFieldError(string(models.EntityEpic), "project key"),
			"To create an epic, please specify a project key. "+epicExample)
	}
	if params.Summary == nil {
		return failure(models.EntityEpic, models.VerbCreate,
			apperrors.NewMissingRequiredFieldError(string(models.EntityEpic), "summary"),
			"To create an epic, please provide a summary/title. "+epicExample)
	}

	description := ""
	if params.Description != nil {
		description = *params.Description
	}

	var created map[string]interface{}
	body := jira.CreateEpicRequest(*params.ProjectKey, *params.Summary, description)
	if err := h.fetch(ctx, http.MethodPost, jira.PathIssue, body, &created); err != nil {
		return transportFailure(models.EntityEpic, models.VerbCreate, "create epic", err,
			fmt.Sprintf("Failed to create epic: %v", err))
	}
	return models.Success(models.EntityEpic, models.VerbCreate, models.ActionCreated, created,
		fmt.Sprintf("Successfully created epic in project %s", *params.ProjectKey))
}

func (h *Handler) updateEpic(_ context.Context, _ string) models.ActionResult {
	return failure(models.EntityEpic, models.VerbUpdate,
		apperrors.NewNotImplementedError(string(models.EntityEpic), string(models.VerbUpdate)),
		"To update an epic, please provide: epic key and fields to update")
}
