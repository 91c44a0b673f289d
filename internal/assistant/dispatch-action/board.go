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

func (h *Handler) listBoards(ctx context.Context, _ string) models.ActionResult {
	var out pagedValues[rawBoard]
	if err := h.fetch(ctx, http.MethodGet, jira.PathBoards, nil, &out); err != nil {
		return transportFailure(models.EntityBoard, models.VerbList, "list boards", err,
			fmt.Sprintf("Failed to retrieve boards: %v", err))
	}

	boards := make([]models.BoardSummary, 0, len(out.Values))
	for _, b := range out.Values {
		boards = append(boards, normalizeBoard(b))
	}
	return models.Success(models.EntityBoard, models.VerbList, models.ActionList, boards,
		fmt.Sprintf("Found %d boards", len(boards)))
}

func (h *Handler) getBoard(ctx context.Context, query string) models.ActionResult {
	params := extractparameters.BoardGet(query)
	if params.BoardID == nil {
		return failure(models.EntityBoard, models.VerbGet,
			apperrors.NewMissingIdentifierError(string(models.EntityBoard)),
			"To get board details, please specify a board ID. Example: 'Get board 123'")
	}

	id := *params.BoardID
	var board map[string]interface{}
	if err := h.fetch(ctx, http.MethodGet, jira.BoardPath(id), nil, &board); err != nil {
		return transportFailure(models.EntityBoard, models.VerbGet, "get board", err,
			fmt.Sprintf("Failed to retrieve board %d: %v", id, err))
	}
	return models.Success(models.EntityBoard, models.VerbGet, models.ActionDetail, board,
		fmt.Sprintf("Board details for board %d", id))
}

func normalizeBoard(b rawBoard) models.BoardSummary {
	location := "Unknown"
	if b.Location != nil && b.Location.ProjectKey != "" {
		location = b.Location.ProjectKey
	}
	return models.BoardSummary{ID: b.ID, Name: b.Name, Type: b.Type, Location: location}
}
