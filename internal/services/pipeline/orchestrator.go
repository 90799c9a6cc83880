package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/clipforge/clipforge-api/internal/models"
	"github.com/clipforge/clipforge-api/internal/services/ranker"
	"github.com/clipforge/clipforge-api/internal/services/scoring"
	"github.com/clipforge/clipforge-api/internal/services/segmenter"
	"github.com/clipforge/clipforge-api/internal/services/transcription"
	"github.com/clipforge/clipforge-api/internal/services/videos"
	"github.com/google/uuid"
)

// ErrRunActive means another run already holds the video in this process
var ErrRunActive = errors.New("a processing run is already active for this video")

// Transcriber drives a transcription job to completion
type Transcriber interface {
	Transcribe(ctx context.Context, storageKey string) (*transcription.PollResult, error)
}

// CandidateScorer scores clip candidates
type CandidateScorer interface {
	ScoreAll(ctx context.Context, candidates []segmenter.Candidate) ([]scoring.ScoredCandidate, error)
}

// Config tunes the pipeline stages
type Config struct {
	Segmenter      segmenter.Config
	MaxSuggestions int
}

// Orchestrator drives a video through the suggestion pipeline. It is the
// sole writer of ProcessingState: every transition goes through the
// repository's conditional update, so a run racing a deletion or a second
// run simply observes a conflict and discards its results.
type Orchestrator struct {
	repo        videos.Repository
	transcripts transcription.Repository
	transcriber Transcriber
	scorer      CandidateScorer
	registry    *RunRegistry
	cfg         Config
}

// NewOrchestrator creates the pipeline orchestrator
func NewOrchestrator(repo videos.Repository, transcripts transcription.Repository, transcriber Transcriber, scorer CandidateScorer, registry *RunRegistry, cfg Config) *Orchestrator {
	if cfg.MaxSuggestions <= 0 {
		cfg.MaxSuggestions = ranker.DefaultMaxSuggestions
	}
	if cfg.Segmenter.MaxClipSeconds <= 0 {
		cfg.Segmenter = segmenter.DefaultConfig()
	}
	return &Orchestrator{
		repo:        repo,
		transcripts: transcripts,
		transcriber: transcriber,
		scorer:      scorer,
		registry:    registry,
		cfg:         cfg,
	}
}

// Process runs the pipeline for one video. The returned error carries a
// retry classification for the job queue: transient errors requeue the
// job, deterministic errors end it.
func (o *Orchestrator) Process(ctx context.Context, videoID string) error {
	video, err := o.repo.GetByVideoID(ctx, videoID)
	if err != nil {
		if errors.Is(err, videos.ErrVideoNotFound) {
			// deleted before the run started; nothing to do
			log.Printf("[INFO] Skipping pipeline for deleted video %s", videoID)
			return nil
		}
		return models.NewSystemError("VIDEO_LOOKUP", fmt.Sprintf("loading video %s", videoID), err.Error(), err)
	}

	runID := uuid.New().String()
	if !o.registry.Acquire(videoID, runID) {
		return models.NewTransientError("RUN_ACTIVE", ErrRunActive.Error(), videoID, ErrRunActive)
	}
	defer o.registry.Release(videoID, runID)

	log.Printf("[INFO] Pipeline run %s starting for video %s (status %s)", runID, videoID, video.Status)

	if err := o.begin(ctx, video); err != nil {
		return err
	}

	// transcribing
	result, err := o.transcriber.Transcribe(ctx, video.StorageKey)
	if err != nil {
		return o.fail(ctx, videoID, models.StateTranscribing, models.ReasonTranscriptionFailed, err)
	}

	transcript := transcription.BuildTranscript(videoID, result)
	if err := o.transcripts.Save(ctx, transcript); err != nil {
		return o.fail(ctx, videoID, models.StateTranscribing, models.ReasonTranscriptionFailed,
			fmt.Errorf("persisting transcript: %w", err))
	}

	if err := o.advance(ctx, videoID, models.StateTranscribing, models.StateSegmenting, map[string]interface{}{
		"duration": transcript.Duration,
	}); err != nil {
		return err
	}

	// segmenting: deterministic, local, no retries
	candidates, err := segmenter.Segment(transcript.Segments, o.cfg.Segmenter)
	if err != nil {
		return o.fail(ctx, videoID, models.StateSegmenting, models.ReasonEmptyTranscript, err)
	}

	if err := o.advance(ctx, videoID, models.StateSegmenting, models.StateScoring, nil); err != nil {
		return err
	}

	// scoring
	scored, err := o.scorer.ScoreAll(ctx, candidates)
	if err != nil {
		return o.fail(ctx, videoID, models.StateScoring, models.ReasonScoringFailed, err)
	}

	// ranking and the terminal write
	suggestions := ranker.Rank(videoID, runID, scored, o.cfg.MaxSuggestions)

	if err := o.repo.CompleteWithSuggestions(ctx, videoID, suggestions); err != nil {
		if errors.Is(err, videos.ErrStateConflict) {
			log.Printf("[WARN] Run %s for video %s: terminal write conflicted, results discarded", runID, videoID)
			return nil
		}
		return models.NewSystemError("SUGGESTION_WRITE", fmt.Sprintf("persisting suggestions for video %s", videoID), err.Error(), err)
	}

	log.Printf("[INFO] Pipeline run %s completed for video %s with %d suggestions", runID, videoID, len(suggestions))
	return nil
}

// begin moves the video into transcribing. Terminal states restart
// directly; a video stranded in a middle state by an interrupted run is
// folded into failed first, then restarted.
func (o *Orchestrator) begin(ctx context.Context, video *models.Video) error {
	state := video.Status

	clear := map[string]interface{}{
		"failure_code":    "",
		"failure_message": "",
		"processed_at":    nil,
	}

	if state == models.StateUploaded || state.IsTerminal() {
		return o.advance(ctx, video.VideoID, state, models.StateTranscribing, clear)
	}

	// interrupted run recovery
	if err := o.advance(ctx, video.VideoID, state, models.StateFailed, map[string]interface{}{
		"failure_code":    string(models.ReasonTranscriptionFailed),
		"failure_message": "previous run interrupted",
	}); err != nil {
		return err
	}
	return o.advance(ctx, video.VideoID, models.StateFailed, models.StateTranscribing, clear)
}

// advance performs one conditional state transition. A conflict means the
// video was deleted or another writer got there first; either way this
// run's work is discarded without being treated as a job failure.
func (o *Orchestrator) advance(ctx context.Context, videoID string, from, to models.ProcessingState, updates map[string]interface{}) error {
	err := o.repo.ConditionalUpdateState(ctx, videoID, from, to, updates)
	if err == nil {
		return nil
	}
	if errors.Is(err, videos.ErrStateConflict) {
		log.Printf("[WARN] Video %s: transition %s -> %s conflicted, discarding run", videoID, from, to)
		return models.NewDeterministicError("STATE_CONFLICT",
			fmt.Sprintf("video %s left state %s during processing", videoID, from), err.Error(), err)
	}
	return models.NewSystemError("STATE_UPDATE", fmt.Sprintf("transitioning video %s to %s", videoID, to), err.Error(), err)
}

// fail records a stage failure on the video, then reports a deterministic
// job error so the queue does not retry a run the video already absorbed
func (o *Orchestrator) fail(ctx context.Context, videoID string, from models.ProcessingState, reason models.FailureReason, cause error) error {
	now := time.Now().UTC()
	err := o.repo.ConditionalUpdateState(ctx, videoID, from, models.StateFailed, map[string]interface{}{
		"failure_code":    string(reason),
		"failure_message": truncate(cause.Error(), 500),
		"processed_at":    &now,
	})
	if err != nil {
		if errors.Is(err, videos.ErrStateConflict) {
			log.Printf("[WARN] Video %s: failure write conflicted, run discarded", videoID)
			return nil
		}
		return models.NewSystemError("STATE_UPDATE", fmt.Sprintf("failing video %s", videoID), err.Error(), err)
	}

	log.Printf("[ERROR] Video %s failed in %s: %s (%v)", videoID, from, reason, cause)
	return models.NewDeterministicError(string(reason), fmt.Sprintf("video %s: %v", videoID, cause), cause.Error(), cause)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
