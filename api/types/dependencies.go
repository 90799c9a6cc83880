package types

import (
	"github.com/clipforge/clipforge-api/internal/database"
	"github.com/clipforge/clipforge-api/internal/services/cache"
	"github.com/clipforge/clipforge-api/internal/services/jobs"
	"github.com/clipforge/clipforge-api/internal/services/storage"
	"github.com/clipforge/clipforge-api/internal/services/videos"
	"github.com/clipforge/clipforge-api/internal/services/workers"
)

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB            *database.DB
	VideoService  videos.Service
	JobService    jobs.Service
	WorkerPool    *workers.WorkerPool
	Store         storage.Adapter
	Presigner     *storage.HMACPresigner
	ResponseCache cache.Cache
}
