package ranker

import (
	"sort"

	"github.com/clipforge/clipforge-api/internal/models"
	"github.com/clipforge/clipforge-api/internal/services/scoring"
	"github.com/google/uuid"
)

// DefaultMaxSuggestions caps the number of suggestions retained per run
const DefaultMaxSuggestions = 10

// Rank orders scored candidates and materializes them as clip suggestions.
//
// Ordering: confidence descending, then duration ascending (prefer tighter
// clips), then start time ascending. The result is capped at limit entries
// and carries fresh clip ids for this run.
func Rank(videoID, runID string, scored []scoring.ScoredCandidate, limit int) []models.ClipSuggestion {
	if limit <= 0 {
		limit = DefaultMaxSuggestions
	}

	ordered := make([]scoring.ScoredCandidate, len(scored))
	copy(ordered, scored)

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Assessment.Confidence != b.Assessment.Confidence {
			return a.Assessment.Confidence > b.Assessment.Confidence
		}
		da, db := a.Candidate.Duration(), b.Candidate.Duration()
		if da != db {
			return da < db
		}
		return a.Candidate.Start < b.Candidate.Start
	})

	if len(ordered) > limit {
		ordered = ordered[:limit]
	}

	suggestions := make([]models.ClipSuggestion, 0, len(ordered))
	for rank, sc := range ordered {
		suggestions = append(suggestions, models.ClipSuggestion{
			ClipID:     uuid.New().String(),
			VideoID:    videoID,
			RunID:      runID,
			StartTime:  sc.Candidate.Start,
			EndTime:    sc.Candidate.End,
			Duration:   sc.Candidate.Duration(),
			Confidence: sc.Assessment.Confidence,
			ImpactType: sc.Assessment.ImpactType,
			Rationale:  sc.Assessment.Rationale,
			Excerpt:    sc.Candidate.Text,
			Rank:       rank + 1,
		})
	}

	return suggestions
}
