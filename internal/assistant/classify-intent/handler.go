// Package classifyintent scores free-text queries against a fixed label table
// using case-insensitive substring matching.
package classifyintent

import (
	"strings"

	"jira-assistant/internal/models"
)

// Classifier is pure and safe for concurrent use.
type Classifier struct {
	rules []Rule
}

func NewClassifier(config *Config) *Classifier {
	rules := DefaultRules()
	if config != nil && len(config.Rules) > 0 {
		rules = make([]Rule, 0, len(config.Rules))
		for _, r := range config.Rules {
			kw := make([]string, 0, len(r.Keywords))
			for _, k := range r.Keywords {
				kw = append(kw, strings.ToLower(k))
			}
			rules = append(rules, Rule{Label: r.Label, Keywords: kw})
		}
	}
	return &Classifier{rules: rules}
}

// Classify counts keyword substrings per label. No tokenization is applied, so
// "sprints" also counts as "sprint".
func (c *Classifier) Classify(query string) Scores {
	scores := Scores{}
	lower := strings.ToLower(query)
	if strings.TrimSpace(lower) == "" {
		return scores
	}

	for _, rule := range c.rules {
		if len(rule.Keywords) == 0 {
			continue
		}
		matches := 0
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				matches++
			}
		}
		if matches > 0 {
			scores[rule.Label] = float64(matches) / float64(len(rule.Keywords))
		}
	}
	return scores
}

// Labels returns the matched labels in table order.
func (c *Classifier) Labels(scores Scores) []string {
	out := make([]string, 0, len(scores))
	for _, rule := range c.rules {
		if scores.Has(rule.Label) {
			out = append(out, rule.Label)
		}
	}
	return out
}

// TopEntity picks the entity kind that claims the query, following EntityPriority.
func (c *Classifier) TopEntity(scores Scores) (models.EntityKind, bool) {
	for _, kind := range EntityPriority {
		if scores.Has(string(kind)) {
			return kind, true
		}
	}
	return "", false
}

// IsEntityKind reports whether label names an entity kind rather than an action or topic.
func IsEntityKind(label string) bool {
	for _, kind := range EntityPriority {
		if string(kind) == label {
			return true
		}
	}
	return false
}
