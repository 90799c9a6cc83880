package videos

import (
	"github.com/clipforge/clipforge-api/api/types"
	"github.com/gin-gonic/gin"
)

// GetVideo returns one video asset
// @Summary      Get video details
// @Tags         videos
// @Produce      json
// @Param        id path string true "Video ID"
// @Success      200 {object} types.SingleVideoResponse
// @Failure      404 {object} types.ErrorResponse "Video not found"
// @Router       /api/v1/videos/{id} [get]
func GetVideo(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		video, err := deps.VideoService.GetVideo(c.Request.Context(), c.Param("id"))
		if err != nil {
			types.SendAppError(c, err)
			return
		}

		types.SendSuccess(c, types.SingleVideoResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Video:        types.FromVideo(video),
		})
	}
}
