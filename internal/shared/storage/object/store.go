package object

import (
	"context"
	"errors"
	"io"
)

// Provider names recorded next to a storage key.
const (
	ProviderLocal = "local"
	ProviderS3    = "s3"
)

// ErrInvalidKey is returned for storage keys that escape the store root.
var ErrInvalidKey = errors.New("invalid storage key")

// ObjectStore saves and retrieves résumé binaries.
type ObjectStore interface {
	Save(ctx context.Context, userID string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	Delete(ctx context.Context, storageKey string) error
	Provider() string
}
