package processquery

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"jira-assistant/internal/models"
)

// formatTerminal renders a created or list result as the final answer.
func (h *Handler) formatTerminal(result models.ActionResult) string {
	switch result.ActionType {
	case models.ActionCreated:
		return formatCreated(result)
	case models.ActionList:
		return h.formatList(result)
	default:
		return result.HumanMessage
	}
}

func formatCreated(result models.ActionResult) string {
	payload, _ := result.Payload.(map[string]interface{})
	switch result.Entity {
	case models.EntityEpic:
		return fmt.Sprintf("✅ %s (Epic: %s)", result.HumanMessage, field(payload, "key"))
	case models.EntitySprint:
		return fmt.Sprintf("✅ %s (Sprint ID: %s, Board: %s)",
			result.HumanMessage, field(payload, "id"), field(payload, "originBoardId"))
	default:
		return "✅ " + result.HumanMessage
	}
}

func (h *Handler) formatList(result models.ActionResult) string {
	if boards, ok := result.Payload.([]models.BoardSummary); ok {
		lines := make([]string, 0, len(boards))
		for _, b := range boards {
			lines = append(lines, fmt.Sprintf("📋 **%s** (ID: %d, Type: %s, Project: %s)", b.Name, b.ID, b.Type, b.Location))
		}
		return fmt.Sprintf("📋 **Available Boards:**\n\n%s\n\nTotal: %d boards", strings.Join(lines, "\n"), len(boards))
	}

	items, _ := result.Payload.([]map[string]interface{})
	if len(items) == 0 {
		return result.HumanMessage
	}

	limit := len(items)
	if h.config.MaxListItems > 0 && limit > h.config.MaxListItems {
		limit = h.config.MaxListItems
	}
	lines := make([]string, 0, limit+1)
	for _, item := range items[:limit] {
		switch result.Entity {
		case models.EntityEpic:
			lines = append(lines, formatEpicLine(item))
		case models.EntitySprint:
			lines = append(lines, fmt.Sprintf("• %s (ID: %s, State: %s)", field(item, "name"), field(item, "id"), field(item, "state")))
		}
	}
	if rest := len(items) - limit; rest > 0 {
		lines = append(lines, fmt.Sprintf("... and %d more", rest))
	}
	return result.HumanMessage + ":\n\n" + strings.Join(lines, "\n")
}

func formatEpicLine(issue map[string]interface{}) string {
	fields, _ := issue["fields"].(map[string]interface{})
	line := fmt.Sprintf("• %s: %s", field(issue, "key"), field(fields, "summary"))
	if status, ok := fields["status"].(map[string]interface{}); ok {
		line += fmt.Sprintf(" [%s]", field(status, "name"))
	}
	return line
}

// actionContext folds a non-terminal result into text for the generator.
func (h *Handler) actionContext(result models.ActionResult) string {
	text := fmt.Sprintf("Jira %s Data: %s", titleCase(string(result.Entity)), result.HumanMessage)
	if result.Payload == nil {
		return text
	}
	data, err := json.Marshal(result.Payload)
	if err != nil || len(data) == 0 {
		return text
	}
	if h.config.PayloadLimit > 0 && len(data) > h.config.PayloadLimit {
		data = truncateUTF8(data, h.config.PayloadLimit)
	}
	return text + " Data: " + string(data) + "..."
}

// truncateUTF8 cuts data to at most limit bytes without splitting a rune.
func truncateUTF8(data []byte, limit int) []byte {
	cut := limit
	for cut > 0 && !utf8.RuneStart(data[cut]) {
		cut--
	}
	return data[:cut]
}

func formatDocumentation(snippets []models.Snippet) string {
	parts := make([]string, 0, len(snippets))
	for _, s := range snippets {
		if content := strings.TrimSpace(s.Content); content != "" {
			parts = append(parts, content)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "Documentation: " + strings.Join(parts, "\n")
}

// field renders a JSON value for display. Whole numbers print without exponent.
func field(m map[string]interface{}, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return "Unknown"
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		if val == math.Trunc(val) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
