package repository

import (
	"context"
	"errors"

	"studyassist/internal/model"
)

// ErrStorageUnavailable is returned when the backing store is unreachable
// or misconfigured. Callers must degrade gracefully: a history outage never
// blocks generation.
var ErrStorageUnavailable = errors.New("history store unavailable")

// HistoryRepository defines data access for the question/answer history.
// No business logic here; strictly persistence operations.
type HistoryRepository interface {
	// Record appends a new history record, assigning its identifier and
	// timestamp at write time. Records are never updated afterwards.
	// The disabled implementation returns (nil, nil).
	Record(ctx context.Context, question, answer string) (*model.HistoryRecord, error)

	// Search returns records whose question or answer approximately matches
	// query, most similar first, capped at limit. An empty result is a
	// normal outcome, not an error.
	Search(ctx context.Context, query string, limit int) ([]model.HistoryRecord, error)
}
