package videos

import (
	"log"

	"github.com/clipforge/clipforge-api/api/types"
	videoservice "github.com/clipforge/clipforge-api/internal/services/videos"
	"github.com/gin-gonic/gin"
)

// Submit registers a new video upload
// @Summary      Register a video upload
// @Description  Validates the declared size and content type, registers the asset,
// @Description  and returns a time-limited URL to upload the bytes to. Processing
// @Description  starts automatically once the upload completes.
// @Tags         videos
// @Accept       json
// @Produce      json
// @Param        request body types.SubmitVideoRequest true "Upload descriptor"
// @Success      201 {object} types.UploadResponse "Registered video with presigned upload URL"
// @Failure      400 {object} types.ErrorResponse "Invalid request body"
// @Failure      413 {object} types.ErrorResponse "Declared size exceeds the upload limit"
// @Failure      415 {object} types.ErrorResponse "Unsupported video or audio container"
// @Router       /api/v1/videos [post]
func Submit(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.SubmitVideoRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		result, err := deps.VideoService.Submit(c.Request.Context(), req.ProjectID, videoservice.SubmitRequest{
			Filename:    req.Filename,
			ContentType: req.ContentType,
			SizeBytes:   req.SizeBytes,
		})
		if err != nil {
			log.Printf("[WARN] Rejected upload for project %s: %v", req.ProjectID, err)
			types.SendAppError(c, err)
			return
		}

		types.SendCreated(c, types.UploadResponse{
			BaseResponse: types.BaseResponse{
				Status:  types.StatusOK,
				Message: "Video registered, upload the file to the returned URL",
			},
			Video:           types.FromVideo(result.Video),
			UploadURL:       result.UploadURL,
			UploadExpiresAt: result.ExpiresAt.Unix(),
		})
	}
}
