// internal/assistant/process-query/config.go
package processquery

import "time"

type Config struct {
	ContextWindow   int
	PayloadLimit    int
	MaxListItems    int
	SearchTimeout   time.Duration
	GenerateTimeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		ContextWindow:   5,
		PayloadLimit:    500,
		MaxListItems:    25,
		SearchTimeout:   5 * time.Second,
		GenerateTimeout: 60 * time.Second,
	}
}
