package types

// Status constants for API responses
const (
	StatusOK     = "ok"
	StatusError  = "error"
	StatusQueued = "queued"
)

// BaseResponse contains fields common to all API responses
type BaseResponse struct {
	Status  string `json:"status"`            // One of the Status constants above
	Message string `json:"message,omitempty"` // Human-readable message
}

// UploadResponse for accepted uploads: the registered asset plus the
// presigned URL the client uploads the bytes to
type UploadResponse struct {
	BaseResponse
	Video            *Video `json:"video"`
	UploadURL        string `json:"uploadUrl"`
	UploadExpiresAt  int64  `json:"uploadExpiresAt"` // Unix timestamp
}

// SingleVideoResponse for getting one video
type SingleVideoResponse struct {
	BaseResponse
	Video *Video `json:"video"`
}

// VideosResponse for video lists
type VideosResponse struct {
	BaseResponse
	Videos []Video `json:"videos"`
	Count  int     `json:"count"`
}

// ProcessingStatusResponse for the status endpoint
type ProcessingStatusResponse struct {
	BaseResponse
	VideoID        string `json:"videoId"`
	State          string `json:"state"`
	FailureCode    string `json:"failureCode,omitempty"`
	FailureMessage string `json:"failureMessage,omitempty"`
	ProcessedAt    int64  `json:"processedAt,omitempty"` // Unix timestamp
}

// SuggestionsResponse for a video's ranked suggestions
type SuggestionsResponse struct {
	BaseResponse
	VideoID     string       `json:"videoId"`
	Suggestions []Suggestion `json:"suggestions"`
	Count       int          `json:"count"`
}

// DownloadResponse carries a presigned download link
type DownloadResponse struct {
	BaseResponse
	DownloadURL string `json:"downloadUrl"`
	ExpiresAt   int64  `json:"expiresAt"` // Unix timestamp
}

// JobResponse for job introspection
type JobResponse struct {
	BaseResponse
	Job *Job `json:"job"`
}

// ErrorResponse for detailed error information
type ErrorResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`   // Error code/type
	Details interface{} `json:"details,omitempty"` // Additional error details
}

// HealthResponse for health check endpoint
type HealthResponse struct {
	BaseResponse
	Version  string                 `json:"version,omitempty"`
	Services map[string]interface{} `json:"services,omitempty"`
}
