package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// TranscriptSegment is one time-aligned unit of transcription output.
// Segments for a video are ordered by start time and never overlap.
type TranscriptSegment struct {
	Start      float64  `json:"start"`
	End        float64  `json:"end"`
	Text       string   `json:"text"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// Duration returns the segment's span in seconds
func (s TranscriptSegment) Duration() float64 {
	return s.End - s.Start
}

// SegmentList is a JSON column holding the ordered transcript segments
type SegmentList []TranscriptSegment

// Value implements driver.Valuer for SegmentList
func (l SegmentList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for SegmentList
func (l *SegmentList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, l)
}

// TotalSpan returns the distance between the first segment's start and the
// last segment's end, in seconds
func (l SegmentList) TotalSpan() float64 {
	if len(l) == 0 {
		return 0
	}
	return l[len(l)-1].End - l[0].Start
}

// Transcript stores the time-aligned transcription for a video
type Transcript struct {
	ID        uint           `json:"-" gorm:"primaryKey"`
	VideoID   string         `json:"video_id" gorm:"uniqueIndex;not null;size:36"`
	Segments  SegmentList    `json:"segments" gorm:"type:json"`
	Language  string         `json:"language" gorm:"size:10"`
	Duration  float64        `json:"duration"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name for GORM
func (Transcript) TableName() string {
	return "transcripts"
}
