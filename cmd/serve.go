package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/clipforge/clipforge-api/api"
	"github.com/clipforge/clipforge-api/api/types"
	"github.com/clipforge/clipforge-api/internal/database"
	"github.com/clipforge/clipforge-api/internal/services/cache"
	"github.com/clipforge/clipforge-api/internal/services/jobs"
	"github.com/clipforge/clipforge-api/internal/services/pipeline"
	"github.com/clipforge/clipforge-api/internal/services/scoring"
	"github.com/clipforge/clipforge-api/internal/services/segmenter"
	"github.com/clipforge/clipforge-api/internal/services/storage"
	"github.com/clipforge/clipforge-api/internal/services/transcription"
	"github.com/clipforge/clipforge-api/internal/services/videos"
	"github.com/clipforge/clipforge-api/internal/services/workers"
	"github.com/clipforge/clipforge-api/pkg/config"
	"github.com/clipforge/clipforge-api/pkg/retry"
)

var (
	serverHost string
	serverPort int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Start the ClipForge API server with the configured settings.

The server accepts video uploads, runs the clip suggestion pipeline in
background workers, and serves ranked suggestions per video.

Example:
  clipforge-api serve
  clipforge-api serve --port 9090
  clipforge-api serve --host 0.0.0.0 --port 8080`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Server flags
	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host (overrides config)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (overrides config)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Use config values if flags not provided
	if serverHost == "" {
		serverHost = cfg.Server.Host
	}
	if serverPort == 0 {
		serverPort = cfg.Server.Port
	}

	db, err := database.InitializeWithMigrations()
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	deps, pool, err := buildDependencies(db, cfg)
	if err != nil {
		return err
	}

	server := api.NewServer(fmt.Sprintf("%s:%d", serverHost, serverPort))
	server.SetDependencies(deps)
	if err := server.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	// Background workers share the server's lifetime
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	if err := pool.Start(workerCtx); err != nil {
		return fmt.Errorf("failed to start worker pool: %w", err)
	}

	// Channel to listen for interrupt signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Channel to receive server errors
	serverErr := make(chan error, 1)

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server error: %w", err)
		}
	}()

	fmt.Printf("Server is ready to handle requests at %s:%d\n", serverHost, serverPort)

	// Wait for interrupt signal or server error
	select {
	case <-stop:
		fmt.Println("\nShutting down server...")
	case err := <-serverErr:
		fmt.Fprintf(os.Stderr, "\n%v\n", err)
		fmt.Println("Shutting down server...")
	}

	pool.Stop()
	stopWorkers()

	// Create a context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Attempt graceful shutdown
	if err := server.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Server forced to shutdown: %v\n", err)
		return err
	}

	fmt.Println("Server gracefully stopped")
	return nil
}

// buildDependencies wires the full service graph behind the API
func buildDependencies(db *database.DB, cfg *config.Config) (*types.Dependencies, *workers.WorkerPool, error) {
	store, err := storage.NewFilesystemStore(cfg.Storage.RootDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize blob storage: %w", err)
	}

	presigner, err := storage.NewHMACPresigner(cfg.Storage.BaseURL, cfg.Storage.PresignSecret)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize presigner: %w", err)
	}

	jobService := jobs.NewService(jobs.NewRepository(db.DB))
	videoRepo := videos.NewRepository(db.DB)
	transcriptRepo := transcription.NewRepository(db.DB)

	videoService := videos.NewService(videoRepo, store, presigner, jobService, videos.Config{
		MaxUploadBytes:      cfg.Upload.MaxSizeBytes,
		AllowedContentTypes: cfg.Upload.AllowedContentTypes,
		PresignTTL:          cfg.Storage.PresignTTL,
	})

	transcriptionClient := transcription.NewHTTPClient(cfg.Transcription.BaseURL, cfg.Transcription.APIKey, 30*time.Second)
	poller := transcription.NewPoller(transcriptionClient, retry.Policy{
		MaxAttempts: cfg.Transcription.RetryAttempts,
		BaseDelay:   cfg.Transcription.RetryDelay,
		MaxDelay:    8 * time.Second,
	}, cfg.Transcription.PollInterval, cfg.Transcription.Timeout)

	scoringClient := scoring.NewHTTPClient(cfg.Scoring.BaseURL, cfg.Scoring.APIKey, cfg.Scoring.Timeout)
	scorer := scoring.NewScorer(scoringClient, retry.Policy{
		MaxAttempts: cfg.Scoring.RetryAttempts,
		BaseDelay:   cfg.Scoring.RetryBaseDelay,
		MaxDelay:    cfg.Scoring.RetryMaxDelay,
	}, cfg.Scoring.MaxConcurrent, cfg.Scoring.Timeout)

	orchestrator := pipeline.NewOrchestrator(videoRepo, transcriptRepo, poller, scorer, pipeline.NewRunRegistry(), pipeline.Config{
		Segmenter: segmenter.Config{
			MinClipSeconds:   cfg.Pipeline.MinClipSeconds,
			MaxClipSeconds:   cfg.Pipeline.MaxClipSeconds,
			SilenceThreshold: cfg.Pipeline.SilenceThreshold,
		},
		MaxSuggestions: cfg.Pipeline.MaxSuggestions,
	})

	pool := workers.NewWorkerPool(jobService, cfg.Pipeline.Workers, cfg.Pipeline.PollInterval)
	pool.RegisterProcessor(workers.NewPipelineProcessor(orchestrator, jobService))
	pool.RegisterProcessor(workers.NewCleanupProcessor(store, transcriptRepo, jobService))

	deps := &types.Dependencies{
		DB:            db,
		VideoService:  videoService,
		JobService:    jobService,
		WorkerPool:    pool,
		Store:         store,
		Presigner:     presigner,
		ResponseCache: cache.NewMemoryCache(64),
	}

	return deps, pool, nil
}
