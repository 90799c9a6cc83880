package projects

import (
	"github.com/clipforge/clipforge-api/api/types"
	"github.com/gin-gonic/gin"
)

// GetVideos lists a project's videos, newest first
// @Summary      List a project's videos
// @Tags         projects
// @Produce      json
// @Param        projectId path string true "Project ID"
// @Success      200 {object} types.VideosResponse
// @Router       /api/v1/projects/{projectId}/videos [get]
func GetVideos(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := deps.VideoService.ListByProject(c.Request.Context(), c.Param("projectId"))
		if err != nil {
			types.SendAppError(c, err)
			return
		}

		dtos := types.FromVideos(list)
		types.SendSuccess(c, types.VideosResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Videos:       dtos,
			Count:        len(dtos),
		})
	}
}
