package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"studyassist/internal/model"
)

type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Record(ctx context.Context, question, answer string) (*model.HistoryRecord, error) {
	args := m.Called(ctx, question, answer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.HistoryRecord), args.Error(1)
}

func (m *MockHistoryRepository) Search(ctx context.Context, query string, limit int) ([]model.HistoryRecord, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.HistoryRecord), args.Error(1)
}
