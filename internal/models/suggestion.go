package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ImpactType categorizes why a clip is expected to perform as short-form content
type ImpactType string

const (
	ImpactHook       ImpactType = "hook"
	ImpactInsight    ImpactType = "insight"
	ImpactEmotional  ImpactType = "emotional"
	ImpactActionable ImpactType = "actionable"
	ImpactSurprising ImpactType = "surprising"
)

// Valid reports whether t is one of the five recognized impact types
func (t ImpactType) Valid() bool {
	switch t {
	case ImpactHook, ImpactInsight, ImpactEmotional, ImpactActionable, ImpactSurprising:
		return true
	}
	return false
}

// ClipSuggestion is a ranked, scored clip span persisted for a video.
// A new pipeline run replaces the video's entire suggestion set.
type ClipSuggestion struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	ClipID    string    `json:"clip_id" gorm:"uniqueIndex;not null;size:36"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`

	VideoID string `json:"video_id" gorm:"not null;index;size:36"`
	RunID   string `json:"-" gorm:"not null;index;size:36"`

	StartTime float64 `json:"start_time" gorm:"not null"`
	EndTime   float64 `json:"end_time" gorm:"not null"`
	Duration  float64 `json:"duration" gorm:"not null"`

	Confidence int        `json:"confidence" gorm:"not null"`
	ImpactType ImpactType `json:"impact_type" gorm:"not null;size:20"`
	Rationale  string     `json:"rationale" gorm:"not null;size:500"`
	Excerpt    string     `json:"excerpt" gorm:"type:text"`

	// Rank within the run's suggestion set, 1-based
	Rank int `json:"rank" gorm:"not null"`
}

// BeforeCreate generates a fresh clip id per run
func (s *ClipSuggestion) BeforeCreate(tx *gorm.DB) error {
	if s.ClipID == "" {
		s.ClipID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for GORM
func (ClipSuggestion) TableName() string {
	return "clip_suggestions"
}
