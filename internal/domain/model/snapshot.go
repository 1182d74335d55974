package model

// Snapshot is a dated capture of all five dimension scores.
type Snapshot struct {
	Date   string   `json:"date"`
	Scores ScoreSet `json:"scores"`
}
