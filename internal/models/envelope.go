package models

import "time"

// ResponseEnvelope is the answer to one query.
type ResponseEnvelope struct {
	Message    string                 `json:"response"`
	Confidence float64                `json:"confidence"`
	Sources    []string               `json:"sources"`
	Metadata   map[string]interface{} `json:"metadata"`
	Timestamp  time.Time              `json:"timestamp"`
}

// NewResponseEnvelope clamps confidence into [0,1], deduplicates sources keeping
// first occurrence order and takes its own copy of metadata.
func NewResponseEnvelope(message string, confidence float64, sources []string, metadata map[string]interface{}, at time.Time) ResponseEnvelope {
	switch {
	case confidence < 0:
		confidence = 0
	case confidence > 1:
		confidence = 1
	}

	seen := make(map[string]struct{}, len(sources))
	ordered := make([]string, 0, len(sources))
	for _, s := range sources {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		ordered = append(ordered, s)
	}

	meta := CopyMetadata(metadata)
	if meta == nil {
		meta = map[string]interface{}{}
	}

	return ResponseEnvelope{
		Message:    message,
		Confidence: confidence,
		Sources:    ordered,
		Metadata:   meta,
		Timestamp:  at,
	}
}
