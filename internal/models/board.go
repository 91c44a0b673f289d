package models

// BoardSummary is the normalized shape of a listed board.
type BoardSummary struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Location string `json:"location"`
}
