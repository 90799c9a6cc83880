package jobs

import (
	"github.com/clipforge/clipforge-api/api/types"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers job introspection routes on the given router group
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	router.GET("/:id", GetJob(deps))
}
