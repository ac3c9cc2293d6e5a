package repository

import (
	"context"

	"studyassist/internal/model"
)

// disabledHistory is the HistoryRepository used when no DATABASE_URL is
// configured. Record stores nothing and Search matches nothing, so the rest
// of the system never branches on whether persistence is enabled.
type disabledHistory struct{}

// NewDisabledHistory returns the no-op history repository.
func NewDisabledHistory() HistoryRepository {
	return disabledHistory{}
}

func (disabledHistory) Record(ctx context.Context, question, answer string) (*model.HistoryRecord, error) {
	return nil, nil
}

func (disabledHistory) Search(ctx context.Context, query string, limit int) ([]model.HistoryRecord, error) {
	return []model.HistoryRecord{}, nil
}
