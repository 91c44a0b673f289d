// internal/assistant/conversation-store/config.go
package conversationstore

import "time"

type Config struct {
	MaxTurns      int
	ContextWindow int
	TopicWindow   int
	SessionTTL    time.Duration
}

func LoadConfig() *Config {
	return &Config{
		MaxTurns:      10,
		ContextWindow: 5,
		TopicWindow:   5,
		SessionTTL:    24 * time.Hour,
	}
}
