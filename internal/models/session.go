package models

import "time"

// SessionSnapshot is the persisted form of a conversation session.
type SessionSnapshot struct {
	ID           string    `json:"id"`
	Turns        []Turn    `json:"turns"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActivity time.Time `json:"lastActivity"`
}

// IsExpired reports whether the session has been idle longer than ttl.
func (s *SessionSnapshot) IsExpired(now time.Time, ttl time.Duration) bool {
	if ttl <= 0 {
		return false
	}
	return now.Sub(s.LastActivity) > ttl
}
