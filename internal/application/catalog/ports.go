package catalog

import "context"

// ObjectStorageService stores catalog images. Upload returns the public URL
// the storefront serves the object from.
type ObjectStorageService interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}
