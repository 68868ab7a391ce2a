package storage

import (
	"context"
	"io"
)

// Storage abstracts where uploaded assets (pet photos and their thumbnails)
// live. Paths are relative, forward-slash separated keys.
type Storage interface {
	// Save writes content under path, overwriting any previous object.
	Save(ctx context.Context, path string, content io.Reader) error

	// Get opens the object at path for reading. The caller closes it.
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the object at path. Deleting a missing object is not
	// an error.
	Delete(ctx context.Context, path string) error
}
