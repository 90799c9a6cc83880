package videos

import (
	"time"

	"github.com/clipforge/clipforge-api/api/middleware"
	"github.com/clipforge/clipforge-api/api/types"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers video routes on the given router group
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	router.POST("", Submit(deps))
	router.GET("/:id", GetVideo(deps))
	router.DELETE("/:id", Delete(deps))
	router.GET("/:id/status", GetStatus(deps))
	// Suggestions only change when a run completes, so short-TTL response
	// caching is safe; reprocess and delete invalidate eagerly.
	router.GET("/:id/suggestions",
		middleware.ResponseCache(deps.ResponseCache, 30*time.Second),
		GetSuggestions(deps))
	router.GET("/:id/download", GetDownload(deps))
	router.POST("/:id/reprocess", Reprocess(deps))
}

// invalidateVideoCache drops cached responses for a video after a mutation
func invalidateVideoCache(c *gin.Context, deps *types.Dependencies, videoID string) {
	if deps.ResponseCache == nil {
		return
	}
	prefix := middleware.CacheKeyPrefix("/api/v1/videos/" + videoID)
	_ = deps.ResponseCache.DeletePrefix(c.Request.Context(), prefix)
}
