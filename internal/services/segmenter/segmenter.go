package segmenter

import (
	"errors"
	"strings"

	"github.com/clipforge/clipforge-api/internal/models"
)

// ErrEmptyTranscript is returned when the transcript has no segments.
// Retrying cannot change a deterministic input, so callers should treat
// this as a permanent failure.
var ErrEmptyTranscript = errors.New("transcript has no segments")

// Config controls the windowing behavior
type Config struct {
	MinClipSeconds   float64
	MaxClipSeconds   float64
	SilenceThreshold float64
}

// DefaultConfig returns the standard clip window settings
func DefaultConfig() Config {
	return Config{
		MinClipSeconds:   15,
		MaxClipSeconds:   60,
		SilenceThreshold: 1.5,
	}
}

// Candidate is a contiguous window of transcript segments considered for
// scoring. Candidates are ephemeral: they exist only within a single
// pipeline run and are never persisted directly.
type Candidate struct {
	Start float64
	End   float64
	Text  string
}

// Duration returns the candidate length in seconds
func (c Candidate) Duration() float64 {
	return c.End - c.Start
}

// Segment splits an ordered transcript into non-overlapping clip candidates.
//
// Windows grow greedily from consecutive segments: a window closes when
// absorbing the next segment would exceed the maximum duration, or when the
// window has reached the minimum duration and the next segment starts after
// a pause of at least the silence threshold. Candidates partition the
// transcript; windows shorter than the minimum are discarded.
//
// The algorithm is deterministic and side-effect-free: identical transcripts
// always yield identical candidates.
func Segment(segments []models.TranscriptSegment, cfg Config) ([]Candidate, error) {
	if len(segments) == 0 {
		return nil, ErrEmptyTranscript
	}

	var candidates []Candidate

	i := 0
	for i < len(segments) {
		start := segments[i].Start
		end := segments[i].End
		var texts []string
		texts = append(texts, strings.TrimSpace(segments[i].Text))

		j := i + 1
		for j < len(segments) {
			next := segments[j]

			if next.End-start > cfg.MaxClipSeconds {
				break
			}

			gap := next.Start - end
			if end-start >= cfg.MinClipSeconds && gap >= cfg.SilenceThreshold {
				break
			}

			end = next.End
			texts = append(texts, strings.TrimSpace(next.Text))
			j++
		}

		duration := end - start
		if duration >= cfg.MinClipSeconds && duration <= cfg.MaxClipSeconds {
			candidates = append(candidates, Candidate{
				Start: start,
				End:   end,
				Text:  strings.Join(texts, " "),
			})
		}

		i = j
	}

	return candidates, nil
}
