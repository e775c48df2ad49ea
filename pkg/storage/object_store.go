package storage

import (
	"context"
)

// ObjectStore abstracts the blob backend holding uploaded source files.
// The service only ever writes and removes blobs; reads go through the
// public URL returned by Upload.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}
