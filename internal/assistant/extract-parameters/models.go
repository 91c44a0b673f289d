// internal/assistant/extract-parameters/models.go
package extractparameters

import "strings"

// Query is a raw user query pre-split into whitespace tokens.
type Query struct {
	Raw        string
	Lower      string
	Words      []string
	lowerWords []string
}

func NewQuery(raw string) Query {
	words := strings.Fields(raw)
	lower := make([]string, len(words))
	for i, w := range words {
		lower[i] = strings.ToLower(w)
	}
	return Query{
		Raw:        raw,
		Lower:      strings.ToLower(raw),
		Words:      words,
		lowerWords: lower,
	}
}

// Every field is optional. A nil field means no strategy produced a value.

type EpicCreateParams struct {
	ProjectKey  *string
	Summary     *string
	Description *string
}

type EpicGetParams struct {
	IssueKey *string
}

type SprintCreateParams struct {
	Name    *string
	BoardID *int
}

type SprintGetParams struct {
	SprintID *int
}

type BoardGetParams struct {
	BoardID *int
}
