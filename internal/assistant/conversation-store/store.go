// Package conversationstore keeps the bounded turn log of each chat session and
// the registry of live sessions.
package conversationstore

import (
	"strings"
	"sync"
	"time"

	"jira-assistant/internal/models"
)

// Store is an ordered log holding at most Config.MaxTurns turns. Appending to a
// full log drops the oldest turn.
type Store struct {
	mu       sync.Mutex
	turns    []models.Turn
	capacity int
	topics   int
	tagger   Tagger
	now      func() time.Time
}

func NewStore(config *Config, tagger Tagger) *Store {
	capacity := config.MaxTurns
	if capacity < 1 {
		capacity = 1
	}
	topics := config.TopicWindow
	if topics < 1 {
		topics = 5
	}
	return &Store{
		turns:    make([]models.Turn, 0, capacity),
		capacity: capacity,
		topics:   topics,
		tagger:   tagger,
		now:      time.Now,
	}
}

func (s *Store) Append(role models.Role, text string, metadata map[string]interface{}) models.Turn {
	turn := models.NewTurn(role, text, metadata, s.now().UTC())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, turn)
	if over := len(s.turns) - s.capacity; over > 0 {
		s.turns = append(s.turns[:0:0], s.turns[over:]...)
	}
	return turn
}

// RecentContext renders the last window turns as "role: text" lines.
func (s *Store) RecentContext(window int) string {
	if window <= 0 {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	start := len(s.turns) - window
	if start < 0 {
		start = 0
	}
	lines := make([]string, 0, len(s.turns)-start)
	for _, t := range s.turns[start:] {
		lines = append(lines, t.Line())
	}
	return strings.Join(lines, "\n")
}

func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = make([]models.Turn, 0, s.capacity)
}

func (s *Store) Summary() Summary {
	turns := s.Turns()

	summary := Summary{MessageCount: len(turns), RecentTopics: []string{}}
	for _, t := range turns {
		switch t.Role {
		case models.RoleUser:
			summary.UserMessages++
		case models.RoleAssistant:
			summary.AssistantMessages++
		}
	}

	if s.tagger == nil {
		return summary
	}
	start := len(turns) - s.topics
	if start < 0 {
		start = 0
	}
	seen := map[string]bool{}
	for _, t := range turns[start:] {
		for _, label := range s.tagger.Labels(s.tagger.Classify(t.Text)) {
			if !seen[label] {
				seen[label] = true
				summary.RecentTopics = append(summary.RecentTopics, label)
			}
		}
	}
	return summary
}

// Turns returns a copy of the log, oldest first.
func (s *Store) Turns() []models.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns)
}

// Restore replaces the log with persisted turns, keeping only the newest that fit.
func (s *Store) Restore(turns []models.Turn) {
	if over := len(turns) - s.capacity; over > 0 {
		turns = turns[over:]
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = make([]models.Turn, len(turns), s.capacity)
	copy(s.turns, turns)
}
