package processquery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrompt(t *testing.T) {
	assert.Equal(t,
		"You are a helpful Jira customer support chatbot. Use the following context to answer the user's question:\n\nContext: user: hi\n\nUser: hi\n\nAssistant:",
		FormatPrompt("hi", "user: hi"))

	assert.Equal(t,
		"You are a helpful Jira customer support chatbot. Answer the user's question about Jira Software Cloud:\n\nUser: hi\n\nAssistant:",
		FormatPrompt("hi", "  "))
}

func TestCleanResponse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "complete sentences kept", in: "Epics hold stories. They span sprints.", want: "Epics hold stories. They span sprints."},
		{name: "trailing fragment dropped", in: "Epics hold stories. They span sprints and", want: "Epics hold stories."},
		{name: "single fragment kept and closed", in: "Epics hold stories", want: "Epics hold stories."},
		{name: "question kept", in: "Want to create one?", want: "Want to create one?"},
		{name: "whitespace collapsed", in: "  Boards\n\nshow   work.  ", want: "Boards show work."},
		{name: "empty", in: " \n\t ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanResponse(tt.in))
		})
	}
}

func TestFallbackResponse(t *testing.T) {
	tests := []struct {
		query    string
		contains string
	}{
		{"Tell me about epics", "Epic-related questions"},
		{"sprint length?", "Sprint-related questions"},
		{"add something", "create new items"},
		{"why is this slow", "understand how to use Jira"},
		{"hello", "What would you like to know?"},
		// epic wins over sprint when both appear
		{"epic or sprint", "Epic-related questions"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Contains(t, FallbackResponse(tt.query), tt.contains)
		})
	}
}
