package models

// Snippet is one documentation search hit.
type Snippet struct {
	Content string  `json:"content"`
	Score   float64 `json:"score"`
	Title   string  `json:"title,omitempty"`
	URL     string  `json:"url,omitempty"`
}
