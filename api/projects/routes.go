package projects

import (
	"github.com/clipforge/clipforge-api/api/types"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers project routes on the given router group
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	router.GET("/:projectId/videos", GetVideos(deps))
}
