package workers

import (
	"context"
	"errors"
	"testing"

	"github.com/clipforge/clipforge-api/internal/models"
	"github.com/clipforge/clipforge-api/internal/services/jobs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type runnerFunc func(ctx context.Context, videoID string) error

func (f runnerFunc) Process(ctx context.Context, videoID string) error {
	return f(ctx, videoID)
}

func setupJobService(t *testing.T) jobs.Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Job{}))
	return jobs.NewService(jobs.NewRepository(db))
}

func TestPipelineProcessor_CanProcess(t *testing.T) {
	p := NewPipelineProcessor(runnerFunc(func(ctx context.Context, videoID string) error { return nil }), nil)
	assert.True(t, p.CanProcess(models.JobTypeVideoPipeline))
	assert.False(t, p.CanProcess(models.JobTypeAssetCleanup))
}

func TestPipelineProcessor_ProcessJob_Success(t *testing.T) {
	jobService := setupJobService(t)
	ctx := context.Background()

	job, err := jobService.EnqueueJob(ctx, models.JobTypeVideoPipeline, models.JobPayload{"video_id": "vid-1"})
	require.NoError(t, err)

	var processed string
	p := NewPipelineProcessor(runnerFunc(func(ctx context.Context, videoID string) error {
		processed = videoID
		return nil
	}), jobService)

	require.NoError(t, p.ProcessJob(ctx, job))
	assert.Equal(t, "vid-1", processed)

	updated, err := jobService.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, updated.Status)
}

func TestPipelineProcessor_ProcessJob_PropagatesRunError(t *testing.T) {
	jobService := setupJobService(t)
	ctx := context.Background()

	job, err := jobService.EnqueueJob(ctx, models.JobTypeVideoPipeline, models.JobPayload{"video_id": "vid-1"})
	require.NoError(t, err)

	runErr := models.NewDeterministicError("EmptyTranscript", "video vid-1: transcript has no segments", "", errors.New("empty"))
	p := NewPipelineProcessor(runnerFunc(func(ctx context.Context, videoID string) error {
		return runErr
	}), jobService)

	err = p.ProcessJob(ctx, job)
	var structured *models.StructuredJobError
	require.ErrorAs(t, err, &structured)
	assert.Equal(t, models.ErrorTypeDeterministic, structured.Type)
}

func TestPipelineProcessor_ProcessJob_MissingPayload(t *testing.T) {
	jobService := setupJobService(t)
	ctx := context.Background()

	job, err := jobService.EnqueueJob(ctx, models.JobTypeVideoPipeline, models.JobPayload{"unrelated": "x"})
	require.NoError(t, err)

	p := NewPipelineProcessor(runnerFunc(func(ctx context.Context, videoID string) error {
		t.Fatal("runner should not be called")
		return nil
	}), jobService)

	err = p.ProcessJob(ctx, job)
	var structured *models.StructuredJobError
	require.ErrorAs(t, err, &structured)
	assert.Equal(t, models.ErrorTypeDeterministic, structured.Type)
	assert.Equal(t, "BAD_PAYLOAD", structured.Code)
}
