package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// Adapter is the durable blob store used for uploaded video assets
type Adapter interface {
	Put(ctx context.Context, key string, reader io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
}

// Presigner issues time-limited access URLs for stored objects
type Presigner interface {
	PresignUpload(key string, ttl time.Duration) (string, time.Time, error)
	PresignDownload(key string, ttl time.Duration) (string, time.Time, error)
}

// ObjectKey builds the storage key for a video asset. Keys are never
// reused: the video id component makes each upload's key unique.
func ObjectKey(projectID, videoID, filename string) string {
	return fmt.Sprintf("videos/%s/%s/%s", projectID, videoID, sanitizeFilename(filename))
}

// sanitizeFilename strips path components and characters that are not
// safe in a storage key
func sanitizeFilename(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		return "upload"
	}

	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	out := strings.Trim(b.String(), ".")
	if out == "" {
		return "upload"
	}
	return out
}
