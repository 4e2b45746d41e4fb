package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MetadataService implements a mock metadata service
type MetadataService struct {
	mock.Mock
}

func (m *MetadataService) RecordingTitle(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MetadataService) RecordingImage(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MetadataService) ListingTitle(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}
