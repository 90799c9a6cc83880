package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestProcessingState_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from ProcessingState
		to   ProcessingState
		want bool
	}{
		{"uploaded starts transcribing", StateUploaded, StateTranscribing, true},
		{"uploaded cannot skip to segmenting", StateUploaded, StateSegmenting, false},
		{"uploaded cannot fail before a run", StateUploaded, StateFailed, false},
		{"transcribing advances", StateTranscribing, StateSegmenting, true},
		{"transcribing can fail", StateTranscribing, StateFailed, true},
		{"transcribing cannot skip to scoring", StateTranscribing, StateScoring, false},
		{"segmenting advances", StateSegmenting, StateScoring, true},
		{"segmenting can fail", StateSegmenting, StateFailed, true},
		{"scoring completes", StateScoring, StateCompleted, true},
		{"scoring can fail", StateScoring, StateFailed, true},
		{"scoring cannot regress", StateScoring, StateSegmenting, false},
		{"completed restarts into transcribing", StateCompleted, StateTranscribing, true},
		{"failed restarts into transcribing", StateFailed, StateTranscribing, true},
		{"completed cannot jump to scoring", StateCompleted, StateScoring, false},
		{"no self transition", StateTranscribing, StateTranscribing, false},
		{"unknown state transitions nowhere", ProcessingState("bogus"), StateTranscribing, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestProcessingState_IsTerminal(t *testing.T) {
	assert.True(t, StateCompleted.IsTerminal())
	assert.True(t, StateFailed.IsTerminal())
	assert.False(t, StateUploaded.IsTerminal())
	assert.False(t, StateTranscribing.IsTerminal())
	assert.False(t, StateSegmenting.IsTerminal())
	assert.False(t, StateScoring.IsTerminal())
}

func TestVideo_BeforeCreate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	video := Video{}
	require.NoError(t, video.BeforeCreate(db))
	assert.NotEmpty(t, video.VideoID, "video id should be generated")

	existing := Video{VideoID: "keep-me"}
	require.NoError(t, existing.BeforeCreate(db))
	assert.Equal(t, "keep-me", existing.VideoID)
}

func TestClipSuggestion_BeforeCreate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	a := ClipSuggestion{}
	b := ClipSuggestion{}
	require.NoError(t, a.BeforeCreate(db))
	require.NoError(t, b.BeforeCreate(db))
	assert.NotEmpty(t, a.ClipID)
	assert.NotEqual(t, a.ClipID, b.ClipID, "clip ids are unique per suggestion")
}
