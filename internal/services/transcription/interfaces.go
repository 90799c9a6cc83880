package transcription

import (
	"context"

	"github.com/clipforge/clipforge-api/internal/models"
)

// JobHandle identifies a submitted transcription job at the provider
type JobHandle string

// PollStatus is the provider-side state of a transcription job
type PollStatus string

const (
	StatusPending PollStatus = "pending"
	StatusDone    PollStatus = "done"
	StatusFailed  PollStatus = "failed"
)

// PollResult is the provider's answer to a status poll. Segments and
// Language are populated only when Status is done.
type PollResult struct {
	Status   PollStatus
	Segments []models.TranscriptSegment
	Language string
	Duration float64
	Error    string
}

// Client is the external transcription provider
type Client interface {
	Submit(ctx context.Context, storageKey string) (JobHandle, error)
	Poll(ctx context.Context, handle JobHandle) (*PollResult, error)
}

// Repository persists completed transcripts
type Repository interface {
	Save(ctx context.Context, transcript *models.Transcript) error
	GetByVideoID(ctx context.Context, videoID string) (*models.Transcript, error)
	DeleteByVideoID(ctx context.Context, videoID string) error
}
