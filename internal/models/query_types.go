// internal/models/query_types.go
package models

// EntityKind is the category of tracked item a query targets.
type EntityKind string

const (
	EntityEpic   EntityKind = "epic"
	EntitySprint EntityKind = "sprint"
	EntityBoard  EntityKind = "board"
	EntityIssue  EntityKind = "issue"
)

// Verb is the action a query asks for against an entity kind.
type Verb string

const (
	VerbList   Verb = "list"
	VerbGet    Verb = "get"
	VerbCreate Verb = "create"
	VerbUpdate Verb = "update"
)
