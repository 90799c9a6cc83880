package types

import (
	"github.com/clipforge/clipforge-api/internal/models"
)

// Transformers convert internal models into API DTOs

// FromVideo converts a video model to its API shape
func FromVideo(v *models.Video) *Video {
	if v == nil {
		return nil
	}

	dto := &Video{
		VideoID:        v.VideoID,
		ProjectID:      v.ProjectID,
		Filename:       v.Filename,
		ContentType:    v.ContentType,
		SizeBytes:      v.SizeBytes,
		Status:         string(v.Status),
		Duration:       v.Duration,
		FailureCode:    v.FailureCode,
		FailureMessage: v.FailureMessage,
		UploadedAt:     v.UploadedAt.Unix(),
	}
	if v.ProcessedAt != nil {
		dto.ProcessedAt = v.ProcessedAt.Unix()
	}
	return dto
}

// FromVideos converts a list of video models
func FromVideos(videos []*models.Video) []Video {
	out := make([]Video, 0, len(videos))
	for _, v := range videos {
		if dto := FromVideo(v); dto != nil {
			out = append(out, *dto)
		}
	}
	return out
}

// FromSuggestion converts a clip suggestion model to its API shape
func FromSuggestion(s models.ClipSuggestion) Suggestion {
	return Suggestion{
		ClipID:     s.ClipID,
		VideoID:    s.VideoID,
		StartTime:  s.StartTime,
		EndTime:    s.EndTime,
		Duration:   s.Duration,
		Confidence: s.Confidence,
		ImpactType: string(s.ImpactType),
		Rationale:  s.Rationale,
		Excerpt:    s.Excerpt,
		Rank:       s.Rank,
	}
}

// FromSuggestions converts a list of suggestion models
func FromSuggestions(suggestions []models.ClipSuggestion) []Suggestion {
	out := make([]Suggestion, 0, len(suggestions))
	for _, s := range suggestions {
		out = append(out, FromSuggestion(s))
	}
	return out
}

// FromJob converts a job model to its API shape
func FromJob(j *models.Job) *Job {
	if j == nil {
		return nil
	}

	dto := &Job{
		ID:         j.ID,
		Type:       string(j.Type),
		Status:     string(j.Status),
		Progress:   j.Progress,
		RetryCount: j.RetryCount,
		MaxRetries: j.MaxRetries,
		Error:      j.Error,
		ErrorType:  j.ErrorType,
		CreatedAt:  j.CreatedAt.Unix(),
	}
	if j.StartedAt != nil {
		dto.StartedAt = j.StartedAt.Unix()
	}
	if j.CompletedAt != nil {
		dto.FinishedAt = j.CompletedAt.Unix()
	}
	return dto
}
