package catalog

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// imageKey builds the storage key for an uploaded image, namespaced per
// tenant so keys never collide across companies.
func imageKey(companyID uuid.UUID, kind string, upload ImageUpload) string {
	ext := strings.ToLower(path.Ext(upload.Filename))
	if ext == "" {
		switch upload.ContentType {
		case "image/png":
			ext = ".png"
		case "image/webp":
			ext = ".webp"
		case "image/gif":
			ext = ".gif"
		default:
			ext = ".jpg"
		}
	}
	return fmt.Sprintf("companies/%s/%s/%s%s", companyID, kind, uuid.New(), ext)
}

// deleteStoredImage drops a replaced object. Failures are logged and
// swallowed: the new image is already the source of truth and an orphan
// object is cheaper than a failed update.
func deleteStoredImage(ctx context.Context, storage ObjectStorageService, logger *zap.Logger, key string) {
	if key == "" {
		return
	}
	if err := storage.Delete(ctx, key); err != nil {
		logger.Warn("Failed to delete replaced image",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}
