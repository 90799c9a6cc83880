package transcription

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/clipforge/clipforge-api/internal/models"
	"github.com/clipforge/clipforge-api/pkg/retry"
)

// Poller drives a transcription job from submission to completion.
// Submission is retried with backoff; polling runs on a fixed cadence
// under an overall deadline.
type Poller struct {
	client       Client
	submitPolicy retry.Policy
	pollInterval time.Duration
	timeout      time.Duration
}

// NewPoller creates a poller. timeout bounds the whole job including
// submission; pollInterval is the wait between status checks.
func NewPoller(client Client, submitPolicy retry.Policy, pollInterval, timeout time.Duration) *Poller {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &Poller{
		client:       client,
		submitPolicy: submitPolicy,
		pollInterval: pollInterval,
		timeout:      timeout,
	}
}

// Transcribe submits the asset and polls until the provider reports a
// terminal state. A provider-side failure is permanent: repeating the
// same input will not change the outcome.
func (p *Poller) Transcribe(ctx context.Context, storageKey string) (*PollResult, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var handle JobHandle
	err := retry.Do(ctx, p.submitPolicy, func(ctx context.Context) error {
		h, err := p.client.Submit(ctx, storageKey)
		if err != nil {
			return err
		}
		handle = h
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("submitting transcription for %s: %w", storageKey, err)
	}

	log.Printf("[DEBUG] Transcription job %s submitted for %s", handle, storageKey)

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("transcription job %s: %w", handle, ctx.Err())
		case <-ticker.C:
			result, err := p.client.Poll(ctx, handle)
			if err != nil {
				// transient poll errors are absorbed by the next tick
				log.Printf("[WARN] Polling transcription job %s: %v", handle, err)
				continue
			}

			switch result.Status {
			case StatusDone:
				log.Printf("[DEBUG] Transcription job %s completed with %d segments", handle, len(result.Segments))
				return result, nil
			case StatusFailed:
				return nil, retry.Permanent(fmt.Errorf("transcription job %s failed: %s", handle, result.Error))
			}
		}
	}
}

// BuildTranscript converts a completed poll result into the persisted model
func BuildTranscript(videoID string, result *PollResult) *models.Transcript {
	duration := result.Duration
	if duration == 0 {
		duration = models.SegmentList(result.Segments).TotalSpan()
	}

	return &models.Transcript{
		VideoID:  videoID,
		Segments: models.SegmentList(result.Segments),
		Language: result.Language,
		Duration: duration,
	}
}
