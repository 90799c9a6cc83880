package transcription

import (
	"context"
	"errors"
	"fmt"

	"github.com/clipforge/clipforge-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrTranscriptNotFound is returned when no transcript exists for a video
var ErrTranscriptNotFound = errors.New("transcript not found")

type repository struct {
	db *gorm.DB
}

// NewRepository creates a gorm-backed transcript repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Save upserts the transcript for a video. Reprocessing overwrites the
// previous transcript in place.
func (r *repository) Save(ctx context.Context, transcript *models.Transcript) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "video_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"segments", "language", "duration", "updated_at"}),
		}).
		Create(transcript).Error
	if err != nil {
		return fmt.Errorf("saving transcript: %w", err)
	}
	return nil
}

func (r *repository) GetByVideoID(ctx context.Context, videoID string) (*models.Transcript, error) {
	var transcript models.Transcript
	err := r.db.WithContext(ctx).Where("video_id = ?", videoID).First(&transcript).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTranscriptNotFound
		}
		return nil, fmt.Errorf("getting transcript: %w", err)
	}
	return &transcript, nil
}

func (r *repository) DeleteByVideoID(ctx context.Context, videoID string) error {
	err := r.db.WithContext(ctx).
		Unscoped().
		Where("video_id = ?", videoID).
		Delete(&models.Transcript{}).Error
	if err != nil {
		return fmt.Errorf("deleting transcript: %w", err)
	}
	return nil
}
