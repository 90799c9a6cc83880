package videos

import (
	"github.com/clipforge/clipforge-api/api/types"
	"github.com/gin-gonic/gin"
)

// GetSuggestions returns the video's ranked clip suggestions
// @Summary      List clip suggestions
// @Description  Returns the ranked suggestions from the last completed pipeline
// @Description  run. The list is empty until a run completes.
// @Tags         videos
// @Produce      json
// @Param        id path string true "Video ID"
// @Success      200 {object} types.SuggestionsResponse
// @Failure      404 {object} types.ErrorResponse "Video not found"
// @Router       /api/v1/videos/{id}/suggestions [get]
func GetSuggestions(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		videoID := c.Param("id")

		suggestions, err := deps.VideoService.GetSuggestions(c.Request.Context(), videoID)
		if err != nil {
			types.SendAppError(c, err)
			return
		}

		dtos := types.FromSuggestions(suggestions)
		types.SendSuccess(c, types.SuggestionsResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			VideoID:      videoID,
			Suggestions:  dtos,
			Count:        len(dtos),
		})
	}
}
