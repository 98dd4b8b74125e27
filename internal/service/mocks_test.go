package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

type mockTranscripts struct {
	mock.Mock
}

func (m *mockTranscripts) PutTranscript(ctx context.Context, ownerID, generationID, text string) error {
	return m.Called(ctx, ownerID, generationID, text).Error(0)
}

func (m *mockTranscripts) TranscriptURL(ctx context.Context, ownerID, generationID string, expires time.Duration) (string, error) {
	args := m.Called(ctx, ownerID, generationID, expires)
	return args.String(0), args.Error(1)
}
