package storage

import (
	"context"
	"errors"
	"path"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

var ErrStorageDisabled = errors.New("transcript storage is not configured")

// TranscriptStore archives the raw model output of a generation so a failed
// recovery can be inspected later.
type TranscriptStore interface {
	// PutTranscript stores the raw text under the generation's key.
	PutTranscript(ctx context.Context, ownerID, generationID, text string) error

	// TranscriptURL creates a temporary URL that allows GET requests for
	// downloading a stored transcript directly from the storage provider.
	TranscriptURL(ctx context.Context, ownerID, generationID string, expires time.Duration) (string, error)
}

// TranscriptKey is the object key of a generation's transcript.
func TranscriptKey(ownerID, generationID string) string {
	return path.Join("transcripts", ownerID, generationID+".txt")
}

// noopStore is used when no bucket is configured.
type noopStore struct{}

// NewNoopStore returns a store that discards transcripts.
func NewNoopStore() TranscriptStore { return noopStore{} }

func (noopStore) PutTranscript(context.Context, string, string, string) error { return nil }

func (noopStore) TranscriptURL(context.Context, string, string, time.Duration) (string, error) {
	return "", ErrStorageDisabled
}
