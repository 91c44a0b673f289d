// internal/assistant/extract-parameters/strategies.go
package extractparameters

import (
	"regexp"
	"strconv"
	"strings"

	classifyintent "jira-assistant/internal/assistant/classify-intent"
)

// Strategy is one named way of pulling a field out of a query.
type Strategy[T any] struct {
	Name  string
	Apply func(q Query) (T, bool)
}

// Resolve runs strategies in order and stops at the first that yields a value.
// It returns the value and the name of the strategy that produced it.
func Resolve[T any](q Query, strategies []Strategy[T]) (T, string, bool) {
	for _, s := range strategies {
		if v, ok := s.Apply(q); ok {
			return v, s.Name, true
		}
	}
	var zero T
	return zero, "", false
}

const (
	phraseCreateEpic   = "create epic"
	phraseCreateSprint = "create sprint"
	tokenCutset        = ".,?!;:\"'()"
	maxProjectKeyLen   = 10
)

var (
	projectKeyShape = regexp.MustCompile(`^[A-Z][A-Z0-9]{1,9}$`)
	issueKeyShape   = regexp.MustCompile(`^[A-Z][A-Z0-9]+-[0-9]+$`)
	issueKeyPrefix  = []string{"EPIC-", "PROJ-"}
	summaryMarkers  = map[string]bool{"title": true, "summary": true, "name": true}
	reservedWords   = keywordSet()
)

// Field chains. Order is part of the contract and covered by tests.
var (
	EpicProjectKeyStrategies = []Strategy[string]{
		{Name: "marker project", Apply: markerProject},
		{Name: "marker in", Apply: markerIn},
		{Name: "positional project key", Apply: positionalProjectKey},
		{Name: "split create epic", Apply: splitEpicProjectKey},
	}

	EpicSummaryStrategies = []Strategy[string]{
		{Name: "marker title/summary/name", Apply: markerSummary},
		{Name: "split create epic", Apply: splitEpicSummary},
	}

	EpicDescriptionStrategies = []Strategy[string]{
		{Name: "marker description", Apply: markerDescription},
	}

	EpicIssueKeyStrategies = []Strategy[string]{
		{Name: "prefix EPIC-/PROJ-", Apply: prefixedIssueKey},
		{Name: "issue key shape", Apply: shapedIssueKey},
	}

	SprintNameStrategies = []Strategy[string]{
		{Name: "marker named", Apply: markerNamed},
		{Name: "split create sprint", Apply: splitSprintName},
	}

	SprintBoardIDStrategies = []Strategy[int]{
		{Name: "marker board", Apply: markerBoardID},
		{Name: "marker in board", Apply: markerInBoardID},
		{Name: "split create sprint", Apply: splitSprintBoardID},
	}

	SprintIDStrategies = []Strategy[int]{
		{Name: "first digit token", Apply: firstDigitToken},
	}

	BoardIDStrategies = []Strategy[int]{
		{Name: "marker board", Apply: markerBoardID},
		{Name: "first digit token", Apply: firstDigitToken},
	}
)

// ==========================
// Epic strategies
// ==========================

func markerProject(q Query) (string, bool) {
	for i, w := range q.lowerWords {
		if w == "project" && i+1 < len(q.Words) {
			if cand := cleanToken(q.Words[i+1]); cand != "" {
				return strings.ToUpper(cand), true
			}
		}
	}
	return "", false
}

func markerIn(q Query) (string, bool) {
	for i, w := range q.lowerWords {
		if w != "in" || i+1 >= len(q.Words) {
			continue
		}
		cand := strings.ToUpper(cleanToken(q.Words[i+1]))
		if hasLetter(cand) && len(cand) <= maxProjectKeyLen {
			return cand, true
		}
	}
	return "", false
}

// positionalProjectKey only looks ahead of any summary or description text.
func positionalProjectKey(q Query) (string, bool) {
	for i, w := range q.Words {
		if summaryMarkers[q.lowerWords[i]] || q.lowerWords[i] == "description" {
			break
		}
		cand := cleanToken(w)
		if reservedWords[strings.ToLower(cand)] {
			continue
		}
		if projectKeyShape.MatchString(cand) {
			return cand, true
		}
	}
	return "", false
}

// markerSummary takes everything after the marker, up to an optional "description".
func markerSummary(q Query) (string, bool) {
	for i, w := range q.lowerWords {
		if !summaryMarkers[w] || i+1 >= len(q.Words) {
			continue
		}
		rest := q.Words[i+1:]
		for j, lw := range q.lowerWords[i+1:] {
			if lw == "description" {
				rest = rest[:j]
				break
			}
		}
		if summary := strings.Join(rest, " "); summary != "" {
			return summary, true
		}
	}
	return "", false
}

func markerDescription(q Query) (string, bool) {
	for i, w := range q.lowerWords {
		if w == "description" && i+1 < len(q.Words) {
			return strings.Join(q.Words[i+1:], " "), true
		}
	}
	return "", false
}

// epicMarkersMatched gates the split fallback: it only applies when no explicit
// marker produced either the project key or the summary.
func epicMarkersMatched(q Query) bool {
	if _, ok := markerProject(q); ok {
		return true
	}
	if _, ok := markerIn(q); ok {
		return true
	}
	_, ok := markerSummary(q)
	return ok
}

func splitEpicProjectKey(q Query) (string, bool) {
	if epicMarkersMatched(q) {
		return "", false
	}
	parts := q.splitAfter(phraseCreateEpic)
	if len(parts) < 2 {
		return "", false
	}
	if key := strings.ToUpper(cleanToken(parts[0])); key != "" {
		return key, true
	}
	return "", false
}

func splitEpicSummary(q Query) (string, bool) {
	if epicMarkersMatched(q) {
		return "", false
	}
	parts := q.splitAfter(phraseCreateEpic)
	if len(parts) < 2 {
		return "", false
	}
	return strings.Join(parts[1:], " "), true
}

func prefixedIssueKey(q Query) (string, bool) {
	for _, w := range q.Words {
		cand := strings.ToUpper(cleanToken(w))
		for _, prefix := range issueKeyPrefix {
			if strings.HasPrefix(cand, prefix) && issueKeyShape.MatchString(cand) {
				return cand, true
			}
		}
	}
	return "", false
}

func shapedIssueKey(q Query) (string, bool) {
	for _, w := range q.Words {
		cand := strings.ToUpper(cleanToken(w))
		if issueKeyShape.MatchString(cand) {
			return cand, true
		}
	}
	return "", false
}

// ==========================
// Sprint and board strategies
// ==========================

// markerNamed takes the words after "named", stopping before "in board".
func markerNamed(q Query) (string, bool) {
	for i, w := range q.lowerWords {
		if w != "named" || i+1 >= len(q.Words) {
			continue
		}
		var nameWords []string
		for j := i + 1; j < len(q.Words); j++ {
			if q.lowerWords[j] == "in" && j+1 < len(q.Words) && q.lowerWords[j+1] == "board" {
				break
			}
			nameWords = append(nameWords, q.Words[j])
		}
		if name := strings.Join(nameWords, " "); name != "" {
			return name, true
		}
		return "", false
	}
	return "", false
}

func markerBoardID(q Query) (int, bool) {
	for i, w := range q.lowerWords {
		if w == "board" && i+1 < len(q.Words) {
			if id, ok := parseID(q.Words[i+1]); ok {
				return id, true
			}
		}
	}
	return 0, false
}

func markerInBoardID(q Query) (int, bool) {
	for i, w := range q.lowerWords {
		if w == "in" && i+2 < len(q.Words) && q.lowerWords[i+1] == "board" {
			if id, ok := parseID(q.Words[i+2]); ok {
				return id, true
			}
		}
	}
	return 0, false
}

func sprintMarkersMatched(q Query) bool {
	if _, ok := markerNamed(q); ok {
		return true
	}
	if _, ok := markerBoardID(q); ok {
		return true
	}
	_, ok := markerInBoardID(q)
	return ok
}

// splitSprint reads "create sprint <board> <name...>" or "create sprint <name...>".
func splitSprint(q Query) (name string, boardID int, hasBoard bool) {
	if sprintMarkersMatched(q) {
		return "", 0, false
	}
	parts := q.splitAfter(phraseCreateSprint)
	if len(parts) < 2 {
		return "", 0, false
	}
	if id, ok := parseID(parts[0]); ok {
		return strings.Join(parts[1:], " "), id, true
	}
	return strings.Join(parts, " "), 0, false
}

func splitSprintName(q Query) (string, bool) {
	name, _, _ := splitSprint(q)
	return name, name != ""
}

func splitSprintBoardID(q Query) (int, bool) {
	_, id, ok := splitSprint(q)
	return id, ok
}

func firstDigitToken(q Query) (int, bool) {
	for _, w := range q.Words {
		cand := cleanToken(w)
		if !isDigits(cand) {
			continue
		}
		if id, ok := parseID(cand); ok {
			return id, true
		}
	}
	return 0, false
}

// ==========================
// Helpers
// ==========================

// splitAfter returns the tokens following phrase. The phrase must end on a word boundary.
func (q Query) splitAfter(phrase string) []string {
	source := q.Raw
	if len(source) != len(q.Lower) {
		source = q.Lower
	}
	idx := strings.Index(q.Lower, phrase)
	if idx < 0 {
		return nil
	}
	rest := source[idx+len(phrase):]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return nil
	}
	return strings.Fields(rest)
}

func cleanToken(tok string) string {
	return strings.Trim(tok, tokenCutset)
}

// parseID accepts positive integers only. Anything else is skipped, not rejected.
func parseID(tok string) (int, bool) {
	id, err := strconv.Atoi(cleanToken(tok))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func hasLetter(s string) bool {
	for _, r := range s {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
			return true
		}
	}
	return false
}

// keywordSet collects the single-word intent keywords so positional matching
// does not mistake "CREATE" or "EPIC" for a project key.
func keywordSet() map[string]bool {
	set := map[string]bool{}
	for _, rule := range classifyintent.DefaultRules() {
		for _, kw := range rule.Keywords {
			if !strings.ContainsAny(kw, " -") {
				set[kw] = true
			}
		}
	}
	return set
}
