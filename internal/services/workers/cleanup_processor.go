package workers

import (
	"context"
	"fmt"
	"log"

	"github.com/clipforge/clipforge-api/internal/models"
	"github.com/clipforge/clipforge-api/internal/services/jobs"
	"github.com/clipforge/clipforge-api/internal/services/storage"
	"github.com/clipforge/clipforge-api/internal/services/transcription"
)

// CleanupProcessor removes a deleted video's blob and transcript
type CleanupProcessor struct {
	store       storage.Adapter
	transcripts transcription.Repository
	jobService  jobs.Service
}

// NewCleanupProcessor creates the processor
func NewCleanupProcessor(store storage.Adapter, transcripts transcription.Repository, jobService jobs.Service) *CleanupProcessor {
	return &CleanupProcessor{
		store:       store,
		transcripts: transcripts,
		jobService:  jobService,
	}
}

// CanProcess implements JobProcessor
func (p *CleanupProcessor) CanProcess(jobType models.JobType) bool {
	return jobType == models.JobTypeAssetCleanup
}

// ProcessJob implements JobProcessor
func (p *CleanupProcessor) ProcessJob(ctx context.Context, job *models.Job) error {
	videoID, ok := job.GetPayloadString("video_id")
	if !ok {
		return models.NewDeterministicError("BAD_PAYLOAD", "job payload is missing video_id", "", nil)
	}

	storageKey, ok := job.GetPayloadString("storage_key")
	if !ok {
		return models.NewDeterministicError("BAD_PAYLOAD", "job payload is missing storage_key", "", nil)
	}

	if err := p.transcripts.DeleteByVideoID(ctx, videoID); err != nil {
		return models.NewSystemError("TRANSCRIPT_DELETE", fmt.Sprintf("deleting transcript for video %s", videoID), err.Error(), err)
	}

	if err := p.store.Delete(ctx, storageKey); err != nil {
		return models.NewSystemError("BLOB_DELETE", fmt.Sprintf("deleting blob %s", storageKey), err.Error(), err)
	}

	log.Printf("[INFO] Job %d: cleaned up assets for deleted video %s", job.ID, videoID)

	if err := p.jobService.CompleteJob(ctx, job.ID, models.JobResult{
		"video_id": videoID,
	}); err != nil {
		return fmt.Errorf("marking job complete: %w", err)
	}

	return nil
}
