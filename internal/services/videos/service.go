package videos

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/clipforge/clipforge-api/internal/models"
	"github.com/clipforge/clipforge-api/internal/services/jobs"
	"github.com/clipforge/clipforge-api/internal/services/storage"
	apperrors "github.com/clipforge/clipforge-api/pkg/errors"
	"github.com/google/uuid"
)

// Config carries the upload acceptance limits
type Config struct {
	MaxUploadBytes      int64
	AllowedContentTypes []string
	PresignTTL          time.Duration
}

type service struct {
	repo       Repository
	store      storage.Adapter
	presigner  storage.Presigner
	jobService jobs.Service
	cfg        Config
}

// NewService creates the video asset service
func NewService(repo Repository, store storage.Adapter, presigner storage.Presigner, jobService jobs.Service, cfg Config) Service {
	if cfg.PresignTTL <= 0 {
		cfg.PresignTTL = time.Hour
	}
	return &service{
		repo:       repo,
		store:      store,
		presigner:  presigner,
		jobService: jobService,
		cfg:        cfg,
	}
}

// Submit validates an upload request and registers the asset. The returned
// upload URL is where the client sends the actual bytes; the pipeline
// starts once that transfer completes.
func (s *service) Submit(ctx context.Context, projectID string, req SubmitRequest) (*SubmitResult, error) {
	if projectID == "" {
		return nil, apperrors.ValidationError("project_id", "must not be empty")
	}
	if strings.TrimSpace(req.Filename) == "" {
		return nil, apperrors.ValidationError("filename", "must not be empty")
	}
	if req.SizeBytes <= 0 {
		return nil, apperrors.ValidationError("size_bytes", "must be positive")
	}
	if req.SizeBytes > s.cfg.MaxUploadBytes {
		return nil, apperrors.PayloadTooLarge(req.SizeBytes, s.cfg.MaxUploadBytes)
	}
	if !s.contentTypeAllowed(req.ContentType) {
		return nil, apperrors.UnsupportedMediaType(req.ContentType)
	}

	videoID := uuid.New().String()
	video := &models.Video{
		VideoID:     videoID,
		ProjectID:   projectID,
		Filename:    req.Filename,
		StorageKey:  storage.ObjectKey(projectID, videoID, req.Filename),
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
		Status:      models.StateUploaded,
		UploadedAt:  time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, video); err != nil {
		return nil, fmt.Errorf("registering video: %w", err)
	}

	uploadURL, expiresAt, err := s.presigner.PresignUpload(video.StorageKey, s.cfg.PresignTTL)
	if err != nil {
		return nil, fmt.Errorf("presigning upload: %w", err)
	}

	log.Printf("[INFO] Accepted video %s for project %s (%s, %d bytes)", videoID, projectID, req.ContentType, req.SizeBytes)

	return &SubmitResult{
		Video:     video,
		UploadURL: uploadURL,
		ExpiresAt: expiresAt,
	}, nil
}

// CompleteUpload receives the asset bytes for a registered video and
// enqueues the processing pipeline. The size limit is enforced on the
// actual stream, not just the declared size.
func (s *service) CompleteUpload(ctx context.Context, storageKey string, reader io.Reader) (*models.Video, error) {
	video, err := s.repo.GetByStorageKey(ctx, storageKey)
	if err != nil {
		if errors.Is(err, ErrVideoNotFound) {
			return nil, apperrors.NotFound("video", storageKey)
		}
		return nil, err
	}

	if video.Status != models.StateUploaded {
		return nil, apperrors.Conflict("video", "upload already completed")
	}

	limited := io.LimitReader(reader, s.cfg.MaxUploadBytes+1)
	written, err := s.store.Put(ctx, storageKey, limited)
	if err != nil {
		return nil, fmt.Errorf("storing upload: %w", err)
	}

	if written > s.cfg.MaxUploadBytes {
		if delErr := s.store.Delete(ctx, storageKey); delErr != nil {
			log.Printf("[WARN] Removing oversized upload %s: %v", storageKey, delErr)
		}
		return nil, apperrors.PayloadTooLarge(written, s.cfg.MaxUploadBytes)
	}

	if written != video.SizeBytes {
		log.Printf("[WARN] Video %s: declared %d bytes, received %d", video.VideoID, video.SizeBytes, written)
	}

	if _, err := s.enqueuePipeline(ctx, video.VideoID); err != nil {
		return nil, err
	}

	log.Printf("[INFO] Upload completed for video %s (%d bytes), pipeline enqueued", video.VideoID, written)

	return video, nil
}

func (s *service) GetVideo(ctx context.Context, videoID string) (*models.Video, error) {
	video, err := s.repo.GetByVideoID(ctx, videoID)
	if err != nil {
		if errors.Is(err, ErrVideoNotFound) {
			return nil, apperrors.NotFound("video", videoID)
		}
		return nil, err
	}
	return video, nil
}

func (s *service) GetProcessingStatus(ctx context.Context, videoID string) (*StatusResult, error) {
	video, err := s.GetVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}

	return &StatusResult{
		VideoID:        video.VideoID,
		Status:         video.Status,
		FailureCode:    video.FailureCode,
		FailureMessage: video.FailureMessage,
		ProcessedAt:    video.ProcessedAt,
	}, nil
}

// GetSuggestions returns the video's ranked suggestions. The set is empty
// until a pipeline run completes; a run in progress leaves the prior run's
// results visible.
func (s *service) GetSuggestions(ctx context.Context, videoID string) ([]models.ClipSuggestion, error) {
	if _, err := s.GetVideo(ctx, videoID); err != nil {
		return nil, err
	}
	return s.repo.ListSuggestions(ctx, videoID)
}

func (s *service) ListByProject(ctx context.Context, projectID string) ([]*models.Video, error) {
	return s.repo.ListByProject(ctx, projectID)
}

// RequestReprocess restarts the pipeline for a terminal-state video. A
// video with a run in flight is rejected, not queued.
func (s *service) RequestReprocess(ctx context.Context, videoID string) (*models.Job, error) {
	video, err := s.GetVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}

	if !video.Status.IsTerminal() {
		return nil, apperrors.Conflict("video", fmt.Sprintf("processing is active (status %s)", video.Status))
	}

	exists, err := s.store.Exists(ctx, video.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("checking stored asset: %w", err)
	}
	if !exists {
		return nil, apperrors.Conflict("video", "stored asset is missing")
	}

	if job, err := s.jobService.GetJobForVideo(ctx, videoID); err == nil && job != nil && !job.IsTerminal() {
		return nil, apperrors.Conflict("video", "a processing job is already queued")
	}

	job, err := s.enqueuePipeline(ctx, videoID)
	if err != nil {
		return nil, err
	}

	log.Printf("[INFO] Reprocessing requested for video %s (job %d)", videoID, job.ID)
	return job, nil
}

func (s *service) PresignDownload(ctx context.Context, videoID string) (string, time.Time, error) {
	video, err := s.GetVideo(ctx, videoID)
	if err != nil {
		return "", time.Time{}, err
	}

	exists, err := s.store.Exists(ctx, video.StorageKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("checking stored asset: %w", err)
	}
	if !exists {
		return "", time.Time{}, apperrors.NotFound("stored asset", videoID)
	}

	return s.presigner.PresignDownload(video.StorageKey, s.cfg.PresignTTL)
}

// Delete removes the asset record and its suggestions synchronously and
// hands blob and transcript removal to a cleanup job. A pipeline run
// still in flight will find its terminal write reports conflict and
// discard its results.
func (s *service) Delete(ctx context.Context, videoID string) error {
	video, err := s.GetVideo(ctx, videoID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, videoID); err != nil {
		return fmt.Errorf("deleting video record: %w", err)
	}

	if _, err := s.jobService.EnqueueJob(ctx, models.JobTypeAssetCleanup, models.JobPayload{
		"video_id":    videoID,
		"storage_key": video.StorageKey,
	}); err != nil {
		log.Printf("[WARN] Enqueueing cleanup for video %s: %v", videoID, err)
	}

	log.Printf("[INFO] Deleted video %s, cleanup enqueued", videoID)
	return nil
}

func (s *service) enqueuePipeline(ctx context.Context, videoID string) (*models.Job, error) {
	job, err := s.jobService.EnqueueUniqueJob(ctx, models.JobTypeVideoPipeline,
		models.JobPayload{"video_id": videoID}, "video_id")
	if err != nil {
		return nil, fmt.Errorf("enqueueing pipeline job: %w", err)
	}
	return job, nil
}

func (s *service) contentTypeAllowed(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if ct == "" {
		return false
	}
	for _, allowed := range s.cfg.AllowedContentTypes {
		if ct == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}
