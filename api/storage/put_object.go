package storage

import (
	"log"
	"net/http"
	"strings"

	"github.com/clipforge/clipforge-api/api/types"
	"github.com/gin-gonic/gin"
)

// PutObject receives the bytes for a presigned upload
// @Summary      Upload a registered asset
// @Description  Accepts the file bytes for a presigned upload URL. The upload
// @Description  completes the registration and enqueues the suggestion pipeline.
// @Tags         storage
// @Accept       octet-stream
// @Produce      json
// @Param        key path string true "Storage key"
// @Param        expires query int true "Expiry timestamp"
// @Param        signature query string true "Request signature"
// @Success      200 {object} types.SingleVideoResponse "Upload stored, pipeline enqueued"
// @Failure      403 {object} types.ErrorResponse "Invalid or expired signature"
// @Failure      413 {object} types.ErrorResponse "Stream exceeds the upload limit"
// @Router       /storage/{key} [put]
func PutObject(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimPrefix(c.Param("key"), "/")

		if err := deps.Presigner.Verify(http.MethodPut, key, c.Request.URL.Query()); err != nil {
			log.Printf("[WARN] Rejected presigned upload for %s: %v", key, err)
			c.JSON(http.StatusForbidden, types.ErrorResponse{
				Status: types.StatusError,
				Error:  "Invalid or expired upload URL",
			})
			return
		}

		video, err := deps.VideoService.CompleteUpload(c.Request.Context(), key, c.Request.Body)
		if err != nil {
			types.SendAppError(c, err)
			return
		}

		types.SendSuccess(c, types.SingleVideoResponse{
			BaseResponse: types.BaseResponse{
				Status:  types.StatusOK,
				Message: "Upload stored, processing enqueued",
			},
			Video: types.FromVideo(video),
		})
	}
}
