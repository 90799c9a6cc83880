package jobs

import (
	"errors"

	"github.com/clipforge/clipforge-api/api/types"
	jobservice "github.com/clipforge/clipforge-api/internal/services/jobs"
	"github.com/gin-gonic/gin"
)

// GetJob returns one background job's queue row
// @Summary      Get job status
// @Tags         jobs
// @Produce      json
// @Param        id path int true "Job ID"
// @Success      200 {object} types.JobResponse
// @Failure      400 {object} types.ErrorResponse "Invalid job ID"
// @Failure      404 {object} types.ErrorResponse "Job not found"
// @Router       /api/v1/jobs/{id} [get]
func GetJob(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID, ok := types.ParseUintParam(c, "id")
		if !ok {
			return
		}

		job, err := deps.JobService.GetJob(c.Request.Context(), jobID)
		if err != nil {
			if errors.Is(err, jobservice.ErrJobNotFound) {
				types.SendNotFound(c, "Job not found")
				return
			}
			types.SendInternalError(c, "Failed to load job")
			return
		}

		types.SendSuccess(c, types.JobResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Job:          types.FromJob(job),
		})
	}
}
