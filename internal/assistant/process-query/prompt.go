package processquery

import (
	"regexp"
	"strings"
)

var whitespace = regexp.MustCompile(`\s+`)

// FormatPrompt builds the generator prompt, grounding it in context when present.
func FormatPrompt(userText, context string) string {
	if strings.TrimSpace(context) == "" {
		return "You are a helpful Jira customer support chatbot. Answer the user's question about Jira Software Cloud:\n\n" +
			"User: " + userText + "\n\nAssistant:"
	}
	return "You are a helpful Jira customer support chatbot. Use the following context to answer the user's question:\n\n" +
		"Context: " + context + "\n\nUser: " + userText + "\n\nAssistant:"
}

// CleanResponse drops a trailing unfinished sentence and collapses whitespace.
// A lone sentence is kept even without final punctuation.
func CleanResponse(text string) string {
	text = strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
	if text == "" {
		return ""
	}

	sentences := strings.Split(text, ". ")
	if len(sentences) > 1 && !endsSentence(sentences[len(sentences)-1]) {
		sentences = sentences[:len(sentences)-1]
	}
	cleaned := strings.TrimSpace(strings.Join(sentences, ". "))
	if cleaned != "" && !endsSentence(cleaned) {
		cleaned += "."
	}
	return cleaned
}

func endsSentence(s string) bool {
	return strings.HasSuffix(s, ".") || strings.HasSuffix(s, "!") || strings.HasSuffix(s, "?")
}

type fallbackRule struct {
	words    []string
	response string
}

// fallbackRules are checked in order against the lowercased query.
var fallbackRules = []fallbackRule{
	{
		words:    []string{"epic", "epics"},
		response: "I can help you with Epic-related questions. Epics are large pieces of work that can be broken down into smaller tasks. You can create, view, and manage epics in Jira Software Cloud.",
	},
	{
		words:    []string{"sprint", "sprints"},
		response: "I can help you with Sprint-related questions. Sprints are time-boxed iterations in Agile development, typically lasting 1-4 weeks. You can create, manage, and track sprints in Jira Software Cloud.",
	},
	{
		words:    []string{"create", "add", "new"},
		response: "I can help you create new items in Jira. Whether you need to create epics, sprints, or issues, I can guide you through the process.",
	},
	{
		words:    []string{"how", "what", "where", "when", "why"},
		response: "I can help you understand how to use Jira Software Cloud. Please ask me a specific question about epics, sprints, or any other Jira features.",
	},
}

const defaultFallback = "I'm here to help you with Jira Software Cloud. I can assist with questions about epics, sprints, issues, and other Jira features. What would you like to know?"

// FallbackResponse is the canned answer used when generation is unavailable or empty.
func FallbackResponse(userText string) string {
	lower := strings.ToLower(userText)
	for _, rule := range fallbackRules {
		for _, w := range rule.words {
			if strings.Contains(lower, w) {
				return rule.response
			}
		}
	}
	return defaultFallback
}
