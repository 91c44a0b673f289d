// internal/assistant/extract-parameters/handler_test.go
package extractparameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func strategyNames[T any](strategies []Strategy[T]) []string {
	names := make([]string, 0, len(strategies))
	for _, s := range strategies {
		names = append(names, s.Name)
	}
	return names
}

// ==========================
// Epic Extraction Tests
// ==========================

func TestEpicCreate(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		projectKey  *string
		summary     *string
		description *string
	}{
		{
			name:       "in marker and title marker",
			query:      "Create epic in DEMO with title Test Epic",
			projectKey: strPtr("DEMO"),
			summary:    strPtr("Test Epic"),
		},
		{
			name:  "nothing to extract",
			query: "Create epic",
		},
		{
			name:       "project marker is uppercased",
			query:      "create epic in project ops title Fix login",
			projectKey: strPtr("OPS"),
			summary:    strPtr("Fix login"),
		},
		{
			name:       "positional key with split summary",
			query:      "create epic DEMO Payment revamp",
			projectKey: strPtr("DEMO"),
			summary:    strPtr("Payment revamp"),
		},
		{
			name:       "split fallback for lowercase key",
			query:      "create epic ops Payment revamp",
			projectKey: strPtr("OPS"),
			summary:    strPtr("Payment revamp"),
		},
		{
			name:       "marker blocks split so summary stays absent",
			query:      "Create epic in DEMO",
			projectKey: strPtr("DEMO"),
		},
		{
			name:    "numeric in candidate is skipped",
			query:   "create epic in 12345678901 title Launch",
			summary: strPtr("Launch"),
		},
		{
			name:        "description splits off the summary",
			query:       "Create epic in DEMO title Login page description Users sign in with SSO",
			projectKey:  strPtr("DEMO"),
			summary:     strPtr("Login page"),
			description: strPtr("Users sign in with SSO"),
		},
		{
			name:       "positional ignores title words",
			query:      "please create an epic with title API Revamp",
			summary:    strPtr("API Revamp"),
			projectKey: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EpicCreate(tt.query)
			assert.Equal(t, tt.projectKey, got.ProjectKey)
			assert.Equal(t, tt.summary, got.Summary)
			assert.Equal(t, tt.description, got.Description)
		})
	}
}

func TestEpicGet(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected *string
	}{
		{name: "project key shape", query: "show epic DEMO-42", expected: strPtr("DEMO-42")},
		{name: "prefix is uppercased and trimmed", query: "get epic-7?", expected: strPtr("EPIC-7")},
		{name: "prefix strategy outranks shape", query: "compare DEMO-1 with proj-12", expected: strPtr("PROJ-12")},
		{name: "bare prefix is not a key", query: "what is an epic- thing", expected: nil},
		{name: "no key", query: "show the epic", expected: nil},
		{name: "prefix with path segments", query: "get epic EPIC-1/../../../rest/api/3/myself", expected: nil},
		{name: "prefix with query string", query: "get epic PROJ-x?jql=project=SECRET", expected: nil},
		{name: "prefix with trailing path", query: "get epic EPIC-1/../x", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EpicGet(tt.query).IssueKey)
		})
	}
}

// ==========================
// Sprint and Board Extraction Tests
// ==========================

func TestSprintCreate(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		sprint  *string
		boardID *int
	}{
		{name: "named stops before in board", query: "Create sprint named Sprint 1 in board 5", sprint: strPtr("Sprint 1"), boardID: intPtr(5)},
		{name: "board before name", query: "Create sprint in board 123 named Sprint 1", sprint: strPtr("Sprint 1"), boardID: intPtr(123)},
		{name: "split with leading board id", query: "create sprint 7 Release train", sprint: strPtr("Release train"), boardID: intPtr(7)},
		{name: "split without board id", query: "create sprint Release train", sprint: strPtr("Release train")},
		{name: "named only", query: "Create sprint named Alpha", sprint: strPtr("Alpha")},
		{name: "non numeric board skipped", query: "Create sprint in board abc named Beta", sprint: strPtr("Beta")},
		{name: "nothing", query: "create sprint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SprintCreate(tt.query)
			assert.Equal(t, tt.sprint, got.Name)
			assert.Equal(t, tt.boardID, got.BoardID)
		})
	}
}

func TestSprintGet(t *testing.T) {
	assert.Equal(t, intPtr(42), SprintGet("show sprint 42").SprintID)
	assert.Equal(t, intPtr(42), SprintGet("show sprint 42?").SprintID)
	assert.Equal(t, intPtr(15), SprintGet("sprint 0 or 15").SprintID)
	assert.Nil(t, SprintGet("show sprint abc").SprintID)
	assert.Nil(t, SprintGet("show sprint -3").SprintID)
}

func TestBoardGet(t *testing.T) {
	assert.Equal(t, intPtr(123), BoardGet("Show board 123").BoardID)
	assert.Equal(t, intPtr(9), BoardGet("board details for 9").BoardID)
	assert.Equal(t, intPtr(3), BoardGet("show board 3 and 4").BoardID)
	assert.Equal(t, intPtr(4), BoardGet("compare 4 with board 8x").BoardID)
	assert.Nil(t, BoardGet("show board").BoardID)
}

// ==========================
// Strategy Order Tests
// ==========================

func TestStrategyChains_DocumentedOrder(t *testing.T) {
	assert.Equal(t, []string{"marker project", "marker in", "positional project key", "split create epic"},
		strategyNames(EpicProjectKeyStrategies))
	assert.Equal(t, []string{"marker title/summary/name", "split create epic"},
		strategyNames(EpicSummaryStrategies))
	assert.Equal(t, []string{"prefix EPIC-/PROJ-", "issue key shape"},
		strategyNames(EpicIssueKeyStrategies))
	assert.Equal(t, []string{"marker named", "split create sprint"},
		strategyNames(SprintNameStrategies))
	assert.Equal(t, []string{"marker board", "marker in board", "split create sprint"},
		strategyNames(SprintBoardIDStrategies))
	assert.Equal(t, []string{"first digit token"}, strategyNames(SprintIDStrategies))
	assert.Equal(t, []string{"marker board", "first digit token"}, strategyNames(BoardIDStrategies))
}

func TestResolve_FirstSuccessWins(t *testing.T) {
	q := NewQuery("Create epic for project OPS in DEMO")

	value, name, ok := Resolve(q, EpicProjectKeyStrategies)
	require.True(t, ok)
	assert.Equal(t, "OPS", value)
	assert.Equal(t, "marker project", name)
}

func TestResolve_ReportsWinningStrategy(t *testing.T) {
	tests := []struct {
		query    string
		strategy string
	}{
		{query: "Create epic in DEMO with title Test Epic", strategy: "marker in"},
		{query: "create epic DEMO Payment revamp", strategy: "positional project key"},
		{query: "create epic ops Payment revamp", strategy: "split create epic"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			_, name, ok := Resolve(NewQuery(tt.query), EpicProjectKeyStrategies)
			require.True(t, ok)
			assert.Equal(t, tt.strategy, name)
		})
	}
}

func TestResolve_NoStrategies(t *testing.T) {
	v, name, ok := Resolve[int](NewQuery("anything"), nil)
	assert.False(t, ok)
	assert.Empty(t, name)
	assert.Zero(t, v)
}

func TestExtraction_NeverPanicsOnOddInput(t *testing.T) {
	inputs := []string{"", "   ", "create epic   ", "named", "board", "in", "create sprintX 5 y", "ÄÖÜ create epic ÖÖ x"}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			EpicCreate(in)
			EpicGet(in)
			SprintCreate(in)
			SprintGet(in)
			BoardGet(in)
		}, in)
	}
}
