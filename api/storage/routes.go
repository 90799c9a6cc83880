package storage

import (
	"github.com/clipforge/clipforge-api/api/types"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the presigned object routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies) {
	engine.PUT("/storage/*key", PutObject(deps))
	engine.GET("/storage/*key", GetObject(deps))
}
