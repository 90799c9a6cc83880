package scoring

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/clipforge/clipforge-api/internal/services/segmenter"
	"github.com/clipforge/clipforge-api/pkg/retry"
)

// ErrAllCandidatesFailed is returned when every candidate exhausted its
// scoring retries
var ErrAllCandidatesFailed = errors.New("no candidate scored successfully")

// Scorer runs impact assessments across candidates with bounded
// concurrency and per-candidate retries
type Scorer struct {
	client        Client
	policy        retry.Policy
	maxConcurrent int
	perCallBudget time.Duration
}

// NewScorer creates a scorer. maxConcurrent bounds in-flight scoring calls
// for one video; perCallBudget bounds a single attempt.
func NewScorer(client Client, policy retry.Policy, maxConcurrent int, perCallBudget time.Duration) *Scorer {
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	return &Scorer{
		client:        client,
		policy:        policy,
		maxConcurrent: maxConcurrent,
		perCallBudget: perCallBudget,
	}
}

// ScoreAll scores every candidate concurrently. Candidates that exhaust
// their retries are dropped; the run fails only when nothing scored.
// Result order matches input order so downstream ranking stays
// deterministic regardless of completion order.
func (s *Scorer) ScoreAll(ctx context.Context, candidates []segmenter.Candidate) ([]ScoredCandidate, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	results := make([]*ScoredCandidate, len(candidates))
	sem := make(chan struct{}, s.maxConcurrent)
	var wg sync.WaitGroup

	for i, candidate := range candidates {
		wg.Add(1)
		go func(idx int, c segmenter.Candidate) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			assessment, err := s.scoreOne(ctx, c)
			if err != nil {
				log.Printf("[WARN] Dropping candidate %.1fs-%.1fs after scoring failure: %v", c.Start, c.End, err)
				return
			}

			results[idx] = &ScoredCandidate{Candidate: c, Assessment: *assessment}
		}(i, candidate)
	}

	wg.Wait()

	scored := make([]ScoredCandidate, 0, len(candidates))
	for _, r := range results {
		if r != nil {
			scored = append(scored, *r)
		}
	}

	if len(scored) == 0 {
		return nil, ErrAllCandidatesFailed
	}

	return scored, nil
}

func (s *Scorer) scoreOne(ctx context.Context, c segmenter.Candidate) (*Assessment, error) {
	var assessment *Assessment

	err := retry.Do(ctx, s.policy, func(ctx context.Context) error {
		callCtx := ctx
		if s.perCallBudget > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, s.perCallBudget)
			defer cancel()
		}

		a, err := s.client.Score(callCtx, c.Text, c.Duration())
		if err != nil {
			return err
		}
		assessment = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	return assessment, nil
}
