package models

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single message in a conversation. Turns are never mutated once appended.
type Turn struct {
	Role      Role                   `json:"role"`
	Text      string                 `json:"text"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewTurn builds a turn holding its own copy of metadata.
func NewTurn(role Role, text string, metadata map[string]interface{}, at time.Time) Turn {
	return Turn{
		Role:      role,
		Text:      text,
		Timestamp: at,
		Metadata:  CopyMetadata(metadata),
	}
}

// Line renders the turn the way it appears in a context window.
func (t Turn) Line() string {
	return fmt.Sprintf("%s: %s", t.Role, t.Text)
}

// CopyMetadata returns a shallow copy, or nil for an empty map.
func CopyMetadata(in map[string]interface{}) map[string]interface{} {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
