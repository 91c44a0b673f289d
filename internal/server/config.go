// internal/server/config.go
package server

import "time"

type Config struct {
	ServiceName string
	Debug       bool
	// RequestTimeout bounds one inbound request, query processing included.
	RequestTimeout time.Duration
	ReadyTimeout   time.Duration
}

func LoadConfig() *Config {
	return &Config{
		ServiceName:    "jira-assistant",
		RequestTimeout: 90 * time.Second,
		ReadyTimeout:   2 * time.Second,
	}
}
