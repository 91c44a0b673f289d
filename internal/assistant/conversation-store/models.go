// internal/assistant/conversation-store/models.go
package conversationstore

import (
	"context"

	classifyintent "jira-assistant/internal/assistant/classify-intent"
	"jira-assistant/internal/models"
)

// Tagger labels past turns. The intent classifier satisfies it.
type Tagger interface {
	Classify(query string) classifyintent.Scores
	Labels(scores classifyintent.Scores) []string
}

// Snapshotter persists sessions outside the process. Load returns nil, nil for
// an unknown session.
type Snapshotter interface {
	Load(ctx context.Context, id string) (*models.SessionSnapshot, error)
	Save(ctx context.Context, snapshot models.SessionSnapshot) error
	Delete(ctx context.Context, id string) error
}

type Summary struct {
	MessageCount      int      `json:"message_count"`
	UserMessages      int      `json:"user_messages"`
	AssistantMessages int      `json:"assistant_messages"`
	RecentTopics      []string `json:"recent_topics"`
}
