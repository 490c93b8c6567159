package domain

import (
	"context"
	"io"
)

// BlobWriter stores an object in blob storage under the given path.
type BlobWriter interface {
	Put(ctx context.Context, path string, data io.Reader, contentType string) error
}
