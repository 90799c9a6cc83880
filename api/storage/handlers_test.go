package storage

import (
	"context"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/clipforge/clipforge-api/api/types"
	"github.com/clipforge/clipforge-api/internal/models"
	"github.com/clipforge/clipforge-api/internal/services/jobs"
	storageservice "github.com/clipforge/clipforge-api/internal/services/storage"
	"github.com/clipforge/clipforge-api/internal/services/videos"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	router    *gin.Engine
	videoSvc  videos.Service
	presigner *storageservice.HMACPresigner
	store     storageservice.Adapter
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Video{}, &models.ClipSuggestion{}, &models.Job{}))

	store, err := storageservice.NewFilesystemStore(t.TempDir())
	require.NoError(t, err)
	presigner, err := storageservice.NewHMACPresigner("http://localhost:8080", "test-secret")
	require.NoError(t, err)

	jobService := jobs.NewService(jobs.NewRepository(db))
	videoSvc := videos.NewService(videos.NewRepository(db), store, presigner, jobService, videos.Config{
		MaxUploadBytes:      1 << 20,
		AllowedContentTypes: []string{"video/mp4"},
		PresignTTL:          time.Hour,
	})

	router := gin.New()
	RegisterRoutes(router, &types.Dependencies{
		VideoService: videoSvc,
		Store:        store,
		Presigner:    presigner,
	})

	return &testEnv{router: router, videoSvc: videoSvc, presigner: presigner, store: store}
}

// register declares an upload and returns the path portion of the presigned URL
func register(t *testing.T, env *testEnv) (string, string) {
	t.Helper()
	result, err := env.videoSvc.Submit(context.Background(), "proj-1", videos.SubmitRequest{
		Filename:    "talk.mp4",
		ContentType: "video/mp4",
		SizeBytes:   64,
	})
	require.NoError(t, err)

	parsed, err := url.Parse(result.UploadURL)
	require.NoError(t, err)
	return parsed.Path + "?" + parsed.RawQuery, result.Video.VideoID
}

func TestPutObject_StoresBytesAndEnqueues(t *testing.T) {
	env := setupEnv(t)
	uploadPath, videoID := register(t, env)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, uploadPath, bytes.NewReader([]byte("fake mp4 bytes")))
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp types.SingleVideoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, videoID, resp.Video.VideoID)

	video, err := env.videoSvc.GetVideo(context.Background(), videoID)
	require.NoError(t, err)
	exists, err := env.store.Exists(context.Background(), video.StorageKey)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestPutObject_RejectsTamperedSignature(t *testing.T) {
	env := setupEnv(t)
	uploadPath, _ := register(t, env)

	tampered := strings.Replace(uploadPath, "signature=", "signature=00", 1)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, tampered, bytes.NewReader([]byte("x"))))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPutObject_RejectsUnsignedRequest(t *testing.T) {
	env := setupEnv(t)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/storage/videos/p/v/talk.mp4", bytes.NewReader([]byte("x"))))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetObject_StreamsStoredBytes(t *testing.T) {
	env := setupEnv(t)
	uploadPath, videoID := register(t, env)

	put := httptest.NewRecorder()
	env.router.ServeHTTP(put, httptest.NewRequest(http.MethodPut, uploadPath, bytes.NewReader([]byte("fake mp4 bytes"))))
	require.Equal(t, http.StatusOK, put.Code)

	downloadURL, _, err := env.videoSvc.PresignDownload(context.Background(), videoID)
	require.NoError(t, err)
	parsed, err := url.Parse(downloadURL)
	require.NoError(t, err)

	get := httptest.NewRecorder()
	env.router.ServeHTTP(get, httptest.NewRequest(http.MethodGet, parsed.Path+"?"+parsed.RawQuery, nil))

	require.Equal(t, http.StatusOK, get.Code)
	body, err := io.ReadAll(get.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("fake mp4 bytes"), body)
}

func TestGetObject_WrongMethodSignature(t *testing.T) {
	env := setupEnv(t)
	uploadPath, _ := register(t, env)

	// An upload signature must not authorize a download
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, uploadPath, nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
}
