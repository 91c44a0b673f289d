// internal/assistant/process-query/models.go
package processquery

import (
	"context"

	classifyintent "jira-assistant/internal/assistant/classify-intent"
	"jira-assistant/internal/common/audit"
	"jira-assistant/internal/models"
)

type IntentClassifier interface {
	Classify(query string) classifyintent.Scores
	Labels(scores classifyintent.Scores) []string
	TopEntity(scores classifyintent.Scores) (models.EntityKind, bool)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, entity models.EntityKind, query string) models.ActionResult
	Supports(entity models.EntityKind) bool
}

// Searcher returns documentation snippets. An empty result is not an error.
type Searcher interface {
	Search(ctx context.Context, query string) ([]models.Snippet, error)
}

type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Recorder keeps an audit trail of answered queries.
type Recorder interface {
	Record(ctx context.Context, entry audit.Entry) error
}

// How a query was answered. Used as a metrics label.
const (
	answerAction    = "action"
	answerGenerated = "generated"
	answerFallback  = "fallback"
)

const (
	SourceExternalData = "external_data"
	intentSourcePrefix = "intent_"
)

// Metadata keys carried on every envelope.
const (
	MetaIntents            = "intents"
	MetaHasExternalContext = "has_external_context"
	MetaActionResult       = "action_result"
	MetaReason             = "reason"
	MetaNoMatch            = "no_match"
)

// Collaborators that can come back with nothing usable, listed under MetaNoMatch.
const (
	NoMatchSearch    = "search"
	NoMatchGenerator = "generator"
)

// Terminal results answered without generation, keyed by entity and action type.
var terminalSources = map[models.EntityKind]map[models.ActionType]string{
	models.EntityEpic: {
		models.ActionCreated: "mcp_epic_creation",
		models.ActionList:    "mcp_epic_list",
	},
	models.EntitySprint: {
		models.ActionCreated: "mcp_sprint_creation",
		models.ActionList:    "mcp_sprint_list",
	},
	models.EntityBoard: {
		models.ActionList: "mcp_boards_list",
	},
}

// Documentation queries used when an entity action could not answer.
var entityDocQueries = map[models.EntityKind]string{
	models.EntityEpic:   "epic create manage track issues",
	models.EntitySprint: "sprint create manage track agile scrum",
}

const boardDocumentation = "Board documentation: Jira boards help you visualize and manage your work. " +
	"You can create different types of boards like Scrum boards, Kanban boards, etc."
