package videos

import (
	"context"
	"errors"
	"fmt"

	"github.com/clipforge/clipforge-api/internal/models"
	"gorm.io/gorm"
)

// Repository errors
var (
	ErrVideoNotFound = errors.New("video not found")

	// ErrStateConflict means a conditional update's precondition failed:
	// the video changed state under us or no longer exists
	ErrStateConflict = errors.New("video state conflict")
)

type repository struct {
	db *gorm.DB
}

// NewRepository creates a gorm-backed video repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, video *models.Video) error {
	if err := r.db.WithContext(ctx).Create(video).Error; err != nil {
		return fmt.Errorf("creating video: %w", err)
	}
	return nil
}

func (r *repository) GetByVideoID(ctx context.Context, videoID string) (*models.Video, error) {
	var video models.Video
	err := r.db.WithContext(ctx).Where("video_id = ?", videoID).First(&video).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, fmt.Errorf("getting video: %w", err)
	}
	return &video, nil
}

func (r *repository) GetByStorageKey(ctx context.Context, storageKey string) (*models.Video, error) {
	var video models.Video
	err := r.db.WithContext(ctx).Where("storage_key = ?", storageKey).First(&video).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, fmt.Errorf("getting video by storage key: %w", err)
	}
	return &video, nil
}

func (r *repository) ListByProject(ctx context.Context, projectID string) ([]*models.Video, error) {
	var list []*models.Video
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("uploaded_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("listing videos for project %s: %w", projectID, err)
	}
	return list, nil
}

// ConditionalUpdateState is the compare-and-swap primitive the pipeline
// uses for every state transition. The WHERE clause carries the expected
// state so concurrent writers cannot produce lost updates; zero rows
// affected reports conflict, including the deleted-video case.
func (r *repository) ConditionalUpdateState(ctx context.Context, videoID string, expected, next models.ProcessingState, updates map[string]interface{}) error {
	if !expected.CanTransitionTo(next) {
		return fmt.Errorf("illegal transition %s -> %s", expected, next)
	}

	values := map[string]interface{}{"status": next}
	for k, v := range updates {
		values[k] = v
	}

	result := r.db.WithContext(ctx).
		Model(&models.Video{}).
		Where("video_id = ? AND status = ?", videoID, expected).
		Updates(values)

	if result.Error != nil {
		return fmt.Errorf("updating video state: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrStateConflict
	}
	return nil
}

// CompleteWithSuggestions finishes a pipeline run: the scoring->completed
// transition and the suggestion replacement commit or fail together, so a
// prior run's suggestions stay visible until the new set is fully written.
func (r *repository) CompleteWithSuggestions(ctx context.Context, videoID string, suggestions []models.ClipSuggestion) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Video{}).
			Where("video_id = ? AND status = ?", videoID, models.StateScoring).
			Updates(map[string]interface{}{
				"status":          models.StateCompleted,
				"processed_at":    gorm.Expr("CURRENT_TIMESTAMP"),
				"failure_code":    "",
				"failure_message": "",
			})
		if result.Error != nil {
			return fmt.Errorf("completing video: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrStateConflict
		}

		if err := tx.Where("video_id = ?", videoID).Delete(&models.ClipSuggestion{}).Error; err != nil {
			return fmt.Errorf("clearing prior suggestions: %w", err)
		}

		if len(suggestions) > 0 {
			if err := tx.Create(&suggestions).Error; err != nil {
				return fmt.Errorf("persisting suggestions: %w", err)
			}
		}

		return nil
	})
}

func (r *repository) ListSuggestions(ctx context.Context, videoID string) ([]models.ClipSuggestion, error) {
	var suggestions []models.ClipSuggestion
	err := r.db.WithContext(ctx).
		Where("video_id = ?", videoID).
		Order("rank ASC").
		Find(&suggestions).Error
	if err != nil {
		return nil, fmt.Errorf("listing suggestions: %w", err)
	}
	return suggestions, nil
}

// Delete removes the video row and its suggestions in one transaction
func (r *repository) Delete(ctx context.Context, videoID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("video_id = ?", videoID).Delete(&models.ClipSuggestion{}).Error; err != nil {
			return fmt.Errorf("deleting suggestions: %w", err)
		}

		result := tx.Where("video_id = ?", videoID).Delete(&models.Video{})
		if result.Error != nil {
			return fmt.Errorf("deleting video: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrVideoNotFound
		}
		return nil
	})
}
