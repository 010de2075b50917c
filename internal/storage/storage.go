package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// FileStorage defines the interface for object storage operations.
type FileStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL that allows PUT requests
	// for uploading an object directly to the storage provider.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET requests
	// for downloading/viewing an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}

var allowedMediaTypes = map[string]string{
	"video/mp4":       ".mp4",
	"video/webm":      ".webm",
	"video/quicktime": ".mov",
	"image/gif":       ".gif",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
}

// ExerciseMediaKey builds a unique object key for an exercise's demo media.
// Format: exercises/{exerciseID}/{uuid}{ext}
func ExerciseMediaKey(exerciseID, contentType string) (string, error) {
	ext, ok := allowedMediaTypes[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return "", fmt.Errorf("unsupported media content type %q", contentType)
	}
	return path.Join("exercises", exerciseID, uuid.NewString()+ext), nil
}

// IsExerciseMediaKey reports whether objectKey was issued for exerciseID.
func IsExerciseMediaKey(exerciseID, objectKey string) bool {
	return strings.HasPrefix(objectKey, path.Join("exercises", exerciseID)+"/")
}
