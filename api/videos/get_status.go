package videos

import (
	"github.com/clipforge/clipforge-api/api/types"
	"github.com/gin-gonic/gin"
)

// GetStatus returns the pipeline state for a video
// @Summary      Get processing status
// @Description  Reports where the video is in the suggestion pipeline, including
// @Description  failure diagnostics for failed runs.
// @Tags         videos
// @Produce      json
// @Param        id path string true "Video ID"
// @Success      200 {object} types.ProcessingStatusResponse
// @Failure      404 {object} types.ErrorResponse "Video not found"
// @Router       /api/v1/videos/{id}/status [get]
func GetStatus(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, err := deps.VideoService.GetProcessingStatus(c.Request.Context(), c.Param("id"))
		if err != nil {
			types.SendAppError(c, err)
			return
		}

		resp := types.ProcessingStatusResponse{
			BaseResponse:   types.BaseResponse{Status: types.StatusOK},
			VideoID:        status.VideoID,
			State:          string(status.Status),
			FailureCode:    status.FailureCode,
			FailureMessage: status.FailureMessage,
		}
		if status.ProcessedAt != nil {
			resp.ProcessedAt = status.ProcessedAt.Unix()
		}

		types.SendSuccess(c, resp)
	}
}
