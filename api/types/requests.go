package types

// SubmitVideoRequest registers an upload before any bytes are transferred
type SubmitVideoRequest struct {
	ProjectID   string `json:"projectId" binding:"required"`
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	SizeBytes   int64  `json:"sizeBytes" binding:"required"`
}
