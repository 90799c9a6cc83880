package videos

import (
	"log"

	"github.com/clipforge/clipforge-api/api/types"
	"github.com/gin-gonic/gin"
)

// Reprocess restarts the suggestion pipeline for a finished video
// @Summary      Reprocess a video
// @Description  Re-enqueues the pipeline for a video in a terminal state. Prior
// @Description  suggestions remain visible until the new run completes.
// @Tags         videos
// @Produce      json
// @Param        id path string true "Video ID"
// @Success      202 {object} types.JobResponse "Queued pipeline job"
// @Failure      404 {object} types.ErrorResponse "Video not found"
// @Failure      409 {object} types.ErrorResponse "A run is already active for this video"
// @Router       /api/v1/videos/{id}/reprocess [post]
func Reprocess(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		videoID := c.Param("id")

		job, err := deps.VideoService.RequestReprocess(c.Request.Context(), videoID)
		if err != nil {
			log.Printf("[WARN] Reprocess refused for video %s: %v", videoID, err)
			types.SendAppError(c, err)
			return
		}

		invalidateVideoCache(c, deps, videoID)

		c.JSON(202, types.JobResponse{
			BaseResponse: types.BaseResponse{
				Status:  types.StatusQueued,
				Message: "Reprocessing enqueued",
			},
			Job: types.FromJob(job),
		})
	}
}
