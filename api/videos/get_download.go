package videos

import (
	"github.com/clipforge/clipforge-api/api/types"
	"github.com/gin-gonic/gin"
)

// GetDownload returns a presigned download URL for the stored asset
// @Summary      Get a download link
// @Tags         videos
// @Produce      json
// @Param        id path string true "Video ID"
// @Success      200 {object} types.DownloadResponse
// @Failure      404 {object} types.ErrorResponse "Video or stored asset not found"
// @Router       /api/v1/videos/{id}/download [get]
func GetDownload(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		url, expires, err := deps.VideoService.PresignDownload(c.Request.Context(), c.Param("id"))
		if err != nil {
			types.SendAppError(c, err)
			return
		}

		types.SendSuccess(c, types.DownloadResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			DownloadURL:  url,
			ExpiresAt:    expires.Unix(),
		})
	}
}
