package videos

import (
	"context"
	"io"
	"time"

	"github.com/clipforge/clipforge-api/internal/models"
)

// Repository persists video assets and their suggestions
type Repository interface {
	Create(ctx context.Context, video *models.Video) error
	GetByVideoID(ctx context.Context, videoID string) (*models.Video, error)
	GetByStorageKey(ctx context.Context, storageKey string) (*models.Video, error)
	ListByProject(ctx context.Context, projectID string) ([]*models.Video, error)

	// ConditionalUpdateState transitions the video's state only if it is
	// still in the expected state, applying extra column updates
	// atomically with the transition. Returns ErrStateConflict when the
	// precondition fails; a missing row also reports conflict so writes
	// for deleted videos degrade to no-ops.
	ConditionalUpdateState(ctx context.Context, videoID string, expected, next models.ProcessingState, updates map[string]interface{}) error

	// CompleteWithSuggestions atomically moves the video from scoring to
	// completed and replaces its suggestion set in one transaction
	CompleteWithSuggestions(ctx context.Context, videoID string, suggestions []models.ClipSuggestion) error

	ListSuggestions(ctx context.Context, videoID string) ([]models.ClipSuggestion, error)

	// Delete removes the video row and its suggestions
	Delete(ctx context.Context, videoID string) error
}

// SubmitRequest describes an upload before any bytes are transferred
type SubmitRequest struct {
	Filename    string
	ContentType string
	SizeBytes   int64
}

// SubmitResult is the accepted-upload response: the created asset and a
// time-limited URL the client uploads to
type SubmitResult struct {
	Video     *models.Video
	UploadURL string
	ExpiresAt time.Time
}

// StatusResult reports where a video is in the pipeline
type StatusResult struct {
	VideoID        string
	Status         models.ProcessingState
	FailureCode    string
	FailureMessage string
	ProcessedAt    *time.Time
}

// Service is the video asset surface exposed to the API layer
type Service interface {
	Submit(ctx context.Context, projectID string, req SubmitRequest) (*SubmitResult, error)
	CompleteUpload(ctx context.Context, storageKey string, reader io.Reader) (*models.Video, error)
	GetVideo(ctx context.Context, videoID string) (*models.Video, error)
	GetProcessingStatus(ctx context.Context, videoID string) (*StatusResult, error)
	GetSuggestions(ctx context.Context, videoID string) ([]models.ClipSuggestion, error)
	ListByProject(ctx context.Context, projectID string) ([]*models.Video, error)
	RequestReprocess(ctx context.Context, videoID string) (*models.Job, error)
	PresignDownload(ctx context.Context, videoID string) (string, time.Time, error)
	Delete(ctx context.Context, videoID string) error
}
