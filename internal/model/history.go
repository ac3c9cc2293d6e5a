package model

import "time"

// HistoryRecord is one persisted question/answer interaction.
// Records are append-only: the identifier and timestamp are assigned at
// write time and never change afterwards.
// This is a pure domain model with no database-specific dependencies or tags.
type HistoryRecord struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}
