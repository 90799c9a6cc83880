package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Environment   string              `mapstructure:"environment"`
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Upload        UploadConfig        `mapstructure:"upload"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Transcription TranscriptionConfig `mapstructure:"transcription"`
	Scoring       ScoringConfig       `mapstructure:"scoring"`
	Pipeline      PipelineConfig      `mapstructure:"pipeline"`
	RateLimiting  RateLimitConfig     `mapstructure:"rate_limiting"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	Verbose bool   `mapstructure:"verbose"`
}

// UploadConfig contains upload acceptance limits
type UploadConfig struct {
	MaxSizeBytes        int64    `mapstructure:"max_size_bytes"`
	AllowedContentTypes []string `mapstructure:"allowed_content_types"`
}

// StorageConfig contains blob storage settings
type StorageConfig struct {
	RootDir       string        `mapstructure:"root_dir"`
	BaseURL       string        `mapstructure:"base_url"`
	PresignSecret string        `mapstructure:"presign_secret"`
	PresignTTL    time.Duration `mapstructure:"presign_ttl"`
}

// TranscriptionConfig contains transcription service settings
type TranscriptionConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	APIKey        string        `mapstructure:"api_key"`
	Timeout       time.Duration `mapstructure:"timeout"`
	PollInterval  time.Duration `mapstructure:"poll_interval"`
	RetryAttempts int           `mapstructure:"retry_attempts"`
	RetryDelay    time.Duration `mapstructure:"retry_delay"`
}

// ScoringConfig contains impact scoring service settings
type ScoringConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	APIKey         string        `mapstructure:"api_key"`
	Timeout        time.Duration `mapstructure:"timeout"`
	RetryAttempts  int           `mapstructure:"retry_attempts"`
	RetryBaseDelay time.Duration `mapstructure:"retry_base_delay"`
	RetryMaxDelay  time.Duration `mapstructure:"retry_max_delay"`
	MaxConcurrent  int           `mapstructure:"max_concurrent"`
}

// PipelineConfig contains clip pipeline tuning
type PipelineConfig struct {
	Workers          int           `mapstructure:"workers"`
	PollInterval     time.Duration `mapstructure:"poll_interval"`
	MinClipSeconds   float64       `mapstructure:"min_clip_seconds"`
	MaxClipSeconds   float64       `mapstructure:"max_clip_seconds"`
	SilenceThreshold float64       `mapstructure:"silence_threshold"`
	MaxSuggestions   int           `mapstructure:"max_suggestions"`
}

// RateLimitConfig contains rate limiting settings
type RateLimitConfig struct {
	Enabled bool `mapstructure:"enabled"`
}
