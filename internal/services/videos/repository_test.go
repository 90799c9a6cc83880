package videos

import (
	"context"
	"testing"

	"github.com/clipforge/clipforge-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRepo(t *testing.T) Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Video{}, &models.ClipSuggestion{}))
	return NewRepository(db)
}

func newVideo(key string) *models.Video {
	return &models.Video{
		ProjectID:   "proj-1",
		Filename:    "talk.mp4",
		StorageKey:  key,
		ContentType: "video/mp4",
		SizeBytes:   2048,
		Status:      models.StateUploaded,
	}
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	video := newVideo("k1")
	require.NoError(t, repo.Create(ctx, video))
	assert.NotEmpty(t, video.VideoID)
	assert.False(t, video.UploadedAt.IsZero())

	got, err := repo.GetByVideoID(ctx, video.VideoID)
	require.NoError(t, err)
	assert.Equal(t, models.StateUploaded, got.Status)

	byKey, err := repo.GetByStorageKey(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, video.VideoID, byKey.VideoID)

	_, err = repo.GetByVideoID(ctx, "nope")
	assert.ErrorIs(t, err, ErrVideoNotFound)
}

func TestRepository_ConditionalUpdateState(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	video := newVideo("k1")
	require.NoError(t, repo.Create(ctx, video))

	err := repo.ConditionalUpdateState(ctx, video.VideoID, models.StateUploaded, models.StateTranscribing, nil)
	require.NoError(t, err)

	got, err := repo.GetByVideoID(ctx, video.VideoID)
	require.NoError(t, err)
	assert.Equal(t, models.StateTranscribing, got.Status)

	// stale expectation reports conflict, state unchanged
	err = repo.ConditionalUpdateState(ctx, video.VideoID, models.StateUploaded, models.StateTranscribing, nil)
	assert.ErrorIs(t, err, ErrStateConflict)

	// missing video also reports conflict so deleted-video writes no-op
	err = repo.ConditionalUpdateState(ctx, "gone", models.StateTranscribing, models.StateSegmenting, nil)
	assert.ErrorIs(t, err, ErrStateConflict)

	// illegal transitions are rejected before touching the database
	err = repo.ConditionalUpdateState(ctx, video.VideoID, models.StateTranscribing, models.StateCompleted, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "illegal transition")
}

func TestRepository_ConditionalUpdateState_AppliesExtraColumns(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	video := newVideo("k1")
	require.NoError(t, repo.Create(ctx, video))

	require.NoError(t, repo.ConditionalUpdateState(ctx, video.VideoID, models.StateUploaded, models.StateTranscribing, nil))
	require.NoError(t, repo.ConditionalUpdateState(ctx, video.VideoID, models.StateTranscribing, models.StateSegmenting, map[string]interface{}{
		"duration": 42.0,
	}))

	got, err := repo.GetByVideoID(ctx, video.VideoID)
	require.NoError(t, err)
	require.NotNil(t, got.Duration)
	assert.Equal(t, 42.0, *got.Duration)
}

func advanceToScoring(t *testing.T, repo Repository, videoID string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, repo.ConditionalUpdateState(ctx, videoID, models.StateUploaded, models.StateTranscribing, nil))
	require.NoError(t, repo.ConditionalUpdateState(ctx, videoID, models.StateTranscribing, models.StateSegmenting, nil))
	require.NoError(t, repo.ConditionalUpdateState(ctx, videoID, models.StateSegmenting, models.StateScoring, nil))
}

func TestRepository_CompleteWithSuggestions(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	video := newVideo("k1")
	require.NoError(t, repo.Create(ctx, video))
	advanceToScoring(t, repo, video.VideoID)

	suggestions := []models.ClipSuggestion{
		{VideoID: video.VideoID, RunID: "run-1", StartTime: 0, EndTime: 30, Duration: 30, Confidence: 80, ImpactType: models.ImpactHook, Rationale: "r", Rank: 1},
		{VideoID: video.VideoID, RunID: "run-1", StartTime: 40, EndTime: 60, Duration: 20, Confidence: 60, ImpactType: models.ImpactInsight, Rationale: "r", Rank: 2},
	}

	require.NoError(t, repo.CompleteWithSuggestions(ctx, video.VideoID, suggestions))

	got, err := repo.GetByVideoID(ctx, video.VideoID)
	require.NoError(t, err)
	assert.Equal(t, models.StateCompleted, got.Status)
	assert.NotNil(t, got.ProcessedAt)

	listed, err := repo.ListSuggestions(ctx, video.VideoID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, 1, listed[0].Rank)
	assert.NotEmpty(t, listed[0].ClipID)
}

func TestRepository_CompleteWithSuggestions_ConflictLeavesPriorResults(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	video := newVideo("k1")
	require.NoError(t, repo.Create(ctx, video))
	advanceToScoring(t, repo, video.VideoID)

	first := []models.ClipSuggestion{
		{VideoID: video.VideoID, RunID: "run-1", StartTime: 0, EndTime: 30, Duration: 30, Confidence: 80, ImpactType: models.ImpactHook, Rationale: "r", Rank: 1},
	}
	require.NoError(t, repo.CompleteWithSuggestions(ctx, video.VideoID, first))

	// the video is no longer in scoring, so a late run's write conflicts
	// and the stored suggestions stay untouched
	late := []models.ClipSuggestion{
		{VideoID: video.VideoID, RunID: "run-2", StartTime: 5, EndTime: 25, Duration: 20, Confidence: 90, ImpactType: models.ImpactHook, Rationale: "r", Rank: 1},
	}
	err := repo.CompleteWithSuggestions(ctx, video.VideoID, late)
	assert.ErrorIs(t, err, ErrStateConflict)

	listed, err := repo.ListSuggestions(ctx, video.VideoID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "run-1", listed[0].RunID)
}

func TestRepository_Delete(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	video := newVideo("k1")
	require.NoError(t, repo.Create(ctx, video))
	advanceToScoring(t, repo, video.VideoID)
	require.NoError(t, repo.CompleteWithSuggestions(ctx, video.VideoID, []models.ClipSuggestion{
		{VideoID: video.VideoID, RunID: "run-1", StartTime: 0, EndTime: 30, Duration: 30, Confidence: 80, ImpactType: models.ImpactHook, Rationale: "r", Rank: 1},
	}))

	require.NoError(t, repo.Delete(ctx, video.VideoID))

	_, err := repo.GetByVideoID(ctx, video.VideoID)
	assert.ErrorIs(t, err, ErrVideoNotFound)

	listed, err := repo.ListSuggestions(ctx, video.VideoID)
	require.NoError(t, err)
	assert.Empty(t, listed)

	assert.ErrorIs(t, repo.Delete(ctx, video.VideoID), ErrVideoNotFound)
}

func TestRepository_ListByProject(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newVideo("k1")))
	require.NoError(t, repo.Create(ctx, newVideo("k2")))
	other := newVideo("k3")
	other.ProjectID = "proj-2"
	require.NoError(t, repo.Create(ctx, other))

	listed, err := repo.ListByProject(ctx, "proj-1")
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}
