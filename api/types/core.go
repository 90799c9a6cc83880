package types

// Core data types used across API responses

// Video represents a video asset and its pipeline status
type Video struct {
	VideoID        string   `json:"videoId"`
	ProjectID      string   `json:"projectId"`
	Filename       string   `json:"filename"`
	ContentType    string   `json:"contentType"`
	SizeBytes      int64    `json:"sizeBytes"`
	Status         string   `json:"status"`
	Duration       *float64 `json:"duration,omitempty"` // Seconds, set once transcribed
	FailureCode    string   `json:"failureCode,omitempty"`
	FailureMessage string   `json:"failureMessage,omitempty"`
	UploadedAt     int64    `json:"uploadedAt"`            // Unix timestamp
	ProcessedAt    int64    `json:"processedAt,omitempty"` // Unix timestamp
}

// Suggestion represents one ranked clip suggestion
type Suggestion struct {
	ClipID     string  `json:"clipId"`
	VideoID    string  `json:"videoId"`
	StartTime  float64 `json:"startTime"` // Seconds
	EndTime    float64 `json:"endTime"`   // Seconds
	Duration   float64 `json:"duration"`  // Seconds
	Confidence int     `json:"confidence"`
	ImpactType string  `json:"impactType"`
	Rationale  string  `json:"rationale"`
	Excerpt    string  `json:"excerpt,omitempty"`
	Rank       int     `json:"rank"`
}

// Job represents a queued background job
type Job struct {
	ID         uint    `json:"id"`
	Type       string  `json:"type"`
	Status     string  `json:"status"`
	Progress   int     `json:"progress"`
	RetryCount int     `json:"retryCount"`
	MaxRetries int     `json:"maxRetries"`
	Error      string  `json:"error,omitempty"`
	ErrorType  string  `json:"errorType,omitempty"`
	CreatedAt  int64   `json:"createdAt"` // Unix timestamp
	StartedAt  int64   `json:"startedAt,omitempty"`
	FinishedAt int64   `json:"finishedAt,omitempty"`
}
