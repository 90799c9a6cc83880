package videos

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/clipforge/clipforge-api/internal/models"
	"github.com/clipforge/clipforge-api/internal/services/jobs"
	"github.com/clipforge/clipforge-api/internal/services/storage"
	apperrors "github.com/clipforge/clipforge-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupService(t *testing.T) (Service, Repository, jobs.Service) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Video{}, &models.ClipSuggestion{}, &models.Job{}))

	repo := NewRepository(db)
	jobService := jobs.NewService(jobs.NewRepository(db))

	store, err := storage.NewFilesystemStore(t.TempDir())
	require.NoError(t, err)
	presigner, err := storage.NewHMACPresigner("http://localhost:8080", "test-secret")
	require.NoError(t, err)

	svc := NewService(repo, store, presigner, jobService, Config{
		MaxUploadBytes:      1 << 20,
		AllowedContentTypes: []string{"video/mp4", "audio/mpeg"},
		PresignTTL:          time.Hour,
	})
	return svc, repo, jobService
}

func TestService_Submit(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	result, err := svc.Submit(ctx, "proj-1", SubmitRequest{
		Filename:    "talk.mp4",
		ContentType: "video/mp4",
		SizeBytes:   1024,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.Video.VideoID)
	assert.Equal(t, models.StateUploaded, result.Video.Status)
	assert.Contains(t, result.Video.StorageKey, "videos/proj-1/")
	assert.Contains(t, result.UploadURL, "signature=")
	assert.True(t, result.ExpiresAt.After(time.Now()))
}

func TestService_Submit_Rejections(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  SubmitRequest
		code apperrors.ErrorCode
	}{
		{
			name: "oversized upload",
			req:  SubmitRequest{Filename: "big.mp4", ContentType: "video/mp4", SizeBytes: 2 << 20},
			code: apperrors.ErrCodePayloadTooLarge,
		},
		{
			name: "unsupported container",
			req:  SubmitRequest{Filename: "doc.pdf", ContentType: "application/pdf", SizeBytes: 100},
			code: apperrors.ErrCodeUnsupportedMediaType,
		},
		{
			name: "missing filename",
			req:  SubmitRequest{Filename: "  ", ContentType: "video/mp4", SizeBytes: 100},
			code: apperrors.ErrCodeValidation,
		},
		{
			name: "zero size",
			req:  SubmitRequest{Filename: "talk.mp4", ContentType: "video/mp4", SizeBytes: 0},
			code: apperrors.ErrCodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(ctx, "proj-1", tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.code, apperrors.GetCode(err))
		})
	}
}

func TestService_CompleteUpload_EnqueuesPipeline(t *testing.T) {
	svc, _, jobService := setupService(t)
	ctx := context.Background()

	result, err := svc.Submit(ctx, "proj-1", SubmitRequest{
		Filename: "talk.mp4", ContentType: "video/mp4", SizeBytes: 11,
	})
	require.NoError(t, err)

	video, err := svc.CompleteUpload(ctx, result.Video.StorageKey, strings.NewReader("video bytes"))
	require.NoError(t, err)
	assert.Equal(t, result.Video.VideoID, video.VideoID)

	job, err := jobService.GetJobForVideo(ctx, video.VideoID)
	require.NoError(t, err)
	assert.Equal(t, models.JobTypeVideoPipeline, job.Type)
	assert.Equal(t, models.JobStatusPending, job.Status)
}

func TestService_CompleteUpload_EnforcesStreamLimit(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	result, err := svc.Submit(ctx, "proj-1", SubmitRequest{
		Filename: "talk.mp4", ContentType: "video/mp4", SizeBytes: 1024,
	})
	require.NoError(t, err)

	// declared size lied; the stream itself exceeds the limit
	oversized := strings.NewReader(strings.Repeat("x", (1<<20)+1))
	_, err = svc.CompleteUpload(ctx, result.Video.StorageKey, oversized)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodePayloadTooLarge, apperrors.GetCode(err))
}

func TestService_CompleteUpload_UnknownKey(t *testing.T) {
	svc, _, _ := setupService(t)

	_, err := svc.CompleteUpload(context.Background(), "videos/x/y/z.mp4", strings.NewReader("data"))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.GetCode(err))
}

func TestService_GetProcessingStatus(t *testing.T) {
	svc, repo, _ := setupService(t)
	ctx := context.Background()

	result, err := svc.Submit(ctx, "proj-1", SubmitRequest{
		Filename: "talk.mp4", ContentType: "video/mp4", SizeBytes: 100,
	})
	require.NoError(t, err)
	videoID := result.Video.VideoID

	status, err := svc.GetProcessingStatus(ctx, videoID)
	require.NoError(t, err)
	assert.Equal(t, models.StateUploaded, status.Status)

	require.NoError(t, repo.ConditionalUpdateState(ctx, videoID, models.StateUploaded, models.StateTranscribing, nil))
	require.NoError(t, repo.ConditionalUpdateState(ctx, videoID, models.StateTranscribing, models.StateFailed, map[string]interface{}{
		"failure_code":    string(models.ReasonTranscriptionFailed),
		"failure_message": "provider unavailable",
	}))

	status, err = svc.GetProcessingStatus(ctx, videoID)
	require.NoError(t, err)
	assert.Equal(t, models.StateFailed, status.Status)
	assert.Equal(t, string(models.ReasonTranscriptionFailed), status.FailureCode)
	assert.Equal(t, "provider unavailable", status.FailureMessage)
}

func TestService_GetSuggestions_EmptyUntilCompleted(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	result, err := svc.Submit(ctx, "proj-1", SubmitRequest{
		Filename: "talk.mp4", ContentType: "video/mp4", SizeBytes: 100,
	})
	require.NoError(t, err)

	suggestions, err := svc.GetSuggestions(ctx, result.Video.VideoID)
	require.NoError(t, err)
	assert.Empty(t, suggestions)

	_, err = svc.GetSuggestions(ctx, "missing")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.GetCode(err))
}

func TestService_RequestReprocess(t *testing.T) {
	svc, repo, _ := setupService(t)
	ctx := context.Background()

	result, err := svc.Submit(ctx, "proj-1", SubmitRequest{
		Filename: "talk.mp4", ContentType: "video/mp4", SizeBytes: 11,
	})
	require.NoError(t, err)
	videoID := result.Video.VideoID

	_, err = svc.CompleteUpload(ctx, result.Video.StorageKey, strings.NewReader("video bytes"))
	require.NoError(t, err)

	// still uploaded: processing has not finished, reprocess is refused
	_, err = svc.RequestReprocess(ctx, videoID)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeConflict, apperrors.GetCode(err))

	// drive to a terminal state
	require.NoError(t, repo.ConditionalUpdateState(ctx, videoID, models.StateUploaded, models.StateTranscribing, nil))
	require.NoError(t, repo.ConditionalUpdateState(ctx, videoID, models.StateTranscribing, models.StateFailed, nil))

	// the original pipeline job is still pending, so reprocess conflicts
	_, err = svc.RequestReprocess(ctx, videoID)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeConflict, apperrors.GetCode(err))
}

func TestService_Delete_EnqueuesCleanup(t *testing.T) {
	svc, _, jobService := setupService(t)
	ctx := context.Background()

	result, err := svc.Submit(ctx, "proj-1", SubmitRequest{
		Filename: "talk.mp4", ContentType: "video/mp4", SizeBytes: 11,
	})
	require.NoError(t, err)
	videoID := result.Video.VideoID

	require.NoError(t, svc.Delete(ctx, videoID))

	_, err = svc.GetVideo(ctx, videoID)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.GetCode(err))

	claimed, err := jobService.ClaimNextJob(ctx, "test-worker", []models.JobType{models.JobTypeAssetCleanup})
	require.NoError(t, err)
	assert.Equal(t, models.JobTypeAssetCleanup, claimed.Type)
	assert.Equal(t, videoID, claimed.Payload["video_id"])
}

func TestService_PresignDownload(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	result, err := svc.Submit(ctx, "proj-1", SubmitRequest{
		Filename: "talk.mp4", ContentType: "video/mp4", SizeBytes: 11,
	})
	require.NoError(t, err)

	// no blob yet
	_, _, err = svc.PresignDownload(ctx, result.Video.VideoID)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.GetCode(err))

	_, err = svc.CompleteUpload(ctx, result.Video.StorageKey, strings.NewReader("video bytes"))
	require.NoError(t, err)

	url, expires, err := svc.PresignDownload(ctx, result.Video.VideoID)
	require.NoError(t, err)
	assert.Contains(t, url, "signature=")
	assert.True(t, expires.After(time.Now()))
}
