// internal/assistant/dispatch-action/models.go
package dispatchaction

import (
	"context"

	"jira-assistant/internal/common/jira"
	"jira-assistant/internal/models"
)

// Transport is the tracking API. Implementations make a single attempt and
// report every failure through the response category.
type Transport interface {
	Request(ctx context.Context, method, path string, body interface{}) jira.Response
}

type verbRule struct {
	Verb     models.Verb
	Keywords []string
}

// verbRules are checked in order; a query matching none of them is a get.
var verbRules = []verbRule{
	{Verb: models.VerbList, Keywords: []string{"list", "show", "get all"}},
	{Verb: models.VerbCreate, Keywords: []string{"create", "add", "new"}},
	{Verb: models.VerbUpdate, Keywords: []string{"update", "modify", "change"}},
}

type route struct {
	Entity models.EntityKind
	Verb   models.Verb
}

type action func(ctx context.Context, query string) models.ActionResult

type rawBoard struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Location *struct {
		ProjectKey string `json:"projectKey"`
	} `json:"location"`
}

type issueSearchResult struct {
	Issues []map[string]interface{} `json:"issues"`
}

type pagedValues[T any] struct {
	Values []T `json:"values"`
}
