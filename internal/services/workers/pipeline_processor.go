package workers

import (
	"context"
	"fmt"
	"log"

	"github.com/clipforge/clipforge-api/internal/models"
	"github.com/clipforge/clipforge-api/internal/services/jobs"
)

// PipelineRunner executes one processing run for a video
type PipelineRunner interface {
	Process(ctx context.Context, videoID string) error
}

// PipelineProcessor runs the suggestion pipeline for video_pipeline jobs
type PipelineProcessor struct {
	orchestrator PipelineRunner
	jobService   jobs.Service
}

// NewPipelineProcessor creates the processor
func NewPipelineProcessor(orchestrator PipelineRunner, jobService jobs.Service) *PipelineProcessor {
	return &PipelineProcessor{
		orchestrator: orchestrator,
		jobService:   jobService,
	}
}

// CanProcess implements JobProcessor
func (p *PipelineProcessor) CanProcess(jobType models.JobType) bool {
	return jobType == models.JobTypeVideoPipeline
}

// ProcessJob implements JobProcessor
func (p *PipelineProcessor) ProcessJob(ctx context.Context, job *models.Job) error {
	videoID, ok := job.GetPayloadString("video_id")
	if !ok {
		return models.NewDeterministicError("BAD_PAYLOAD", "job payload is missing video_id", "", nil)
	}

	log.Printf("[INFO] Job %d: running pipeline for video %s", job.ID, videoID)

	if err := p.orchestrator.Process(ctx, videoID); err != nil {
		return err
	}

	if err := p.jobService.CompleteJob(ctx, job.ID, models.JobResult{
		"video_id": videoID,
	}); err != nil {
		return fmt.Errorf("marking job complete: %w", err)
	}

	return nil
}
