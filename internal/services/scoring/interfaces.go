package scoring

import (
	"context"

	"github.com/clipforge/clipforge-api/internal/models"
	"github.com/clipforge/clipforge-api/internal/services/segmenter"
)

// Assessment is a validated impact judgement for one clip candidate
type Assessment struct {
	ImpactType models.ImpactType
	Confidence int
	Rationale  string
}

// ScoredCandidate pairs a candidate window with its assessment
type ScoredCandidate struct {
	Candidate  segmenter.Candidate
	Assessment Assessment
}

// Client scores a span of transcript text for short-form impact
type Client interface {
	Score(ctx context.Context, text string, durationSeconds float64) (*Assessment, error)
}
