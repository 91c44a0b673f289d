// internal/assistant/classify-intent/models.go
package classifyintent

import "jira-assistant/internal/models"

// Rule maps one intent label onto the keywords that signal it.
type Rule struct {
	Label    string
	Keywords []string
}

// Scores maps each matched label to matches/len(keywords). Unmatched labels are absent.
type Scores map[string]float64

// Max returns the highest score, or 0 for an empty map.
func (s Scores) Max() float64 {
	max := 0.0
	for _, v := range s {
		if v > max {
			max = v
		}
	}
	return max
}

func (s Scores) Has(label string) bool {
	_, ok := s[label]
	return ok
}

// Label names used across routing.
const (
	LabelEpic   = "epic"
	LabelSprint = "sprint"
	LabelIssue  = "issue"
	LabelBoard  = "board"
	LabelCreate = "create"
	LabelList   = "list"
	LabelGet    = "get"
	LabelUpdate = "update"
	LabelDelete = "delete"
	LabelHelp   = "help"
)

// EntityPriority is the order in which entity kinds claim a query.
var EntityPriority = []models.EntityKind{
	models.EntityEpic,
	models.EntitySprint,
	models.EntityBoard,
	models.EntityIssue,
}

// DefaultRules returns a fresh copy of the built-in label table.
func DefaultRules() []Rule {
	return []Rule{
		{Label: LabelEpic, Keywords: []string{"epic", "epics", "epic-", "large story", "feature"}},
		{Label: LabelSprint, Keywords: []string{"sprint", "sprints", "iteration", "sprint planning", "agile"}},
		{Label: LabelIssue, Keywords: []string{"issue", "issues", "task", "story", "bug", "ticket"}},
		{Label: LabelBoard, Keywords: []string{"board", "boards", "kanban", "scrum board"}},
		{Label: LabelCreate, Keywords: []string{"create", "add", "new", "make", "generate"}},
		{Label: LabelList, Keywords: []string{"list", "show", "display", "get all", "find all"}},
		{Label: LabelGet, Keywords: []string{"get", "find", "search", "retrieve", "fetch"}},
		{Label: LabelUpdate, Keywords: []string{"update", "modify", "change", "edit", "alter"}},
		{Label: LabelDelete, Keywords: []string{"delete", "remove", "cancel", "archive"}},
		{Label: LabelHelp, Keywords: []string{"help", "how", "what", "explain", "guide", "tutorial"}},
	}
}
