package api

import (
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/clipforge/clipforge-api/api/health"
	"github.com/clipforge/clipforge-api/api/jobs"
	"github.com/clipforge/clipforge-api/api/projects"
	"github.com/clipforge/clipforge-api/api/storage"
	"github.com/clipforge/clipforge-api/api/types"
	"github.com/clipforge/clipforge-api/api/version"
	"github.com/clipforge/clipforge-api/api/videos"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once) error {
	if deps == nil {
		deps = &types.Dependencies{}
	}

	// Register public routes (no rate limiting)
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine, deps)

	// Presigned object routes authenticate with the URL signature, not per-client limits
	storage.RegisterRoutes(engine, deps)

	// Setup 404 handler
	engine.NoRoute(NotFoundHandler())

	// API v1 routes
	v1 := engine.Group("/api/v1")

	// Register video routes with general rate limiting (10 req/s, burst of 20)
	videoGroup := v1.Group("/videos")
	videoGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, 10, 20))
	videos.RegisterRoutes(videoGroup, deps)

	// Register project routes with general rate limiting (10 req/s, burst of 20)
	projectGroup := v1.Group("/projects")
	projectGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, 10, 20))
	projects.RegisterRoutes(projectGroup, deps)

	// Register job routes with general rate limiting (10 req/s, burst of 20)
	jobGroup := v1.Group("/jobs")
	jobGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, 10, 20))
	jobs.RegisterRoutes(jobGroup, deps)

	return nil
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(404, gin.H{
			"status":  "error",
			"message": "The requested endpoint was not found",
			"path":    c.Request.URL.Path,
		})
	}
}
