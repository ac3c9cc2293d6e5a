package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"studyassist/internal/extract"
)

type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context, data []byte) (*extract.Result, error) {
	args := m.Called(ctx, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*extract.Result), args.Error(1)
}
