package videos

import (
	"net/http"

	"github.com/clipforge/clipforge-api/api/types"
	"github.com/gin-gonic/gin"
)

// Delete removes a video and everything derived from it
// @Summary      Delete a video
// @Description  Removes the asset record and its suggestions immediately; the
// @Description  stored file and transcript are cleaned up asynchronously.
// @Tags         videos
// @Produce      json
// @Param        id path string true "Video ID"
// @Success      200 {object} types.BaseResponse
// @Failure      404 {object} types.ErrorResponse "Video not found"
// @Router       /api/v1/videos/{id} [delete]
func Delete(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := deps.VideoService.Delete(c.Request.Context(), c.Param("id")); err != nil {
			types.SendAppError(c, err)
			return
		}

		invalidateVideoCache(c, deps, c.Param("id"))

		c.JSON(http.StatusOK, types.BaseResponse{
			Status:  types.StatusOK,
			Message: "Video deleted",
		})
	}
}
