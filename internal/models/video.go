package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProcessingState represents where a video is in the suggestion pipeline
type ProcessingState string

const (
	StateUploaded     ProcessingState = "uploaded"
	StateTranscribing ProcessingState = "transcribing"
	StateSegmenting   ProcessingState = "segmenting"
	StateScoring      ProcessingState = "scoring"
	StateCompleted    ProcessingState = "completed"
	StateFailed       ProcessingState = "failed"
)

// IsTerminal returns true if no further transitions are allowed out of this
// state except a reprocessing restart
func (s ProcessingState) IsTerminal() bool {
	return s == StateCompleted || s == StateFailed
}

// CanTransitionTo reports whether the forward transition s -> next is legal.
// Transitions are monotonic; failed is reachable from any non-terminal
// in-flight state; terminal states restart only into transcribing.
func (s ProcessingState) CanTransitionTo(next ProcessingState) bool {
	switch s {
	case StateUploaded:
		return next == StateTranscribing
	case StateTranscribing:
		return next == StateSegmenting || next == StateFailed
	case StateSegmenting:
		return next == StateScoring || next == StateFailed
	case StateScoring:
		return next == StateCompleted || next == StateFailed
	case StateCompleted, StateFailed:
		return next == StateTranscribing
	default:
		return false
	}
}

// FailureReason is the machine-readable code attached to a failed video
type FailureReason string

const (
	ReasonTranscriptionFailed FailureReason = "TranscriptionFailed"
	ReasonEmptyTranscript     FailureReason = "EmptyTranscript"
	ReasonScoringFailed       FailureReason = "ScoringFailed"
)

// Video represents an uploaded video asset and its pipeline status
type Video struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	VideoID   string    `json:"video_id" gorm:"uniqueIndex;not null;size:36"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	ProjectID   string `json:"project_id" gorm:"not null;index;size:36"`
	Filename    string `json:"filename" gorm:"not null;size:255"`
	StorageKey  string `json:"storage_key" gorm:"uniqueIndex;not null;size:500"`
	ContentType string `json:"content_type" gorm:"not null;size:100"`
	SizeBytes   int64  `json:"size" gorm:"not null"`

	Status ProcessingState `json:"status" gorm:"not null;default:'uploaded';size:20;index"`

	// Populated once transcription completes
	Duration *float64 `json:"duration,omitempty"`

	// Failure diagnostics; empty unless Status is failed
	FailureCode    string `json:"failure_code,omitempty" gorm:"size:50"`
	FailureMessage string `json:"failure_message,omitempty" gorm:"size:500"`

	UploadedAt  time.Time  `json:"uploaded_at" gorm:"not null"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`

	Suggestions []ClipSuggestion `json:"suggestions,omitempty" gorm:"foreignKey:VideoID;references:VideoID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate assigns the external video id
func (v *Video) BeforeCreate(tx *gorm.DB) error {
	if v.VideoID == "" {
		v.VideoID = uuid.New().String()
	}
	if v.UploadedAt.IsZero() {
		v.UploadedAt = time.Now().UTC()
	}
	return nil
}

// TableName specifies the table name for GORM
func (Video) TableName() string {
	return "videos"
}

// IsFailed returns true if the pipeline failed for this video
func (v *Video) IsFailed() bool {
	return v.Status == StateFailed
}

// IsCompleted returns true if suggestions are ready
func (v *Video) IsCompleted() bool {
	return v.Status == StateCompleted
}
