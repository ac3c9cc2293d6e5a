package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"studyassist/internal/model"
	"studyassist/internal/prompt"
	"studyassist/internal/service"
)

type MockStudyService struct {
	mock.Mock
}

func (m *MockStudyService) Upload(ctx context.Context, data []byte, filename string, sessionID string) (*service.UploadResult, error) {
	args := m.Called(ctx, data, filename, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadResult), args.Error(1)
}

func (m *MockStudyService) Generate(ctx context.Context, sessionID string, mode prompt.Mode, question string) (*service.GenerationResult, error) {
	args := m.Called(ctx, sessionID, mode, question)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GenerationResult), args.Error(1)
}

func (m *MockStudyService) SearchHistory(ctx context.Context, query string, limit int) ([]model.HistoryRecord, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.HistoryRecord), args.Error(1)
}
