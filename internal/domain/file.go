package domain

import (
	"context"
	"io"
	"time"
)

// FileInfo describes a stored object
type FileInfo struct {
	Path        string
	Size        int64
	ContentType string
	ModTime     time.Time
}

// FileStore defines the interface for durable product image storage.
// Paths are slash separated and start with the upload root.
type FileStore interface {
	// Put streams r to path and returns the number of bytes written.
	// When r fails the write is abandoned and nothing readable is left at path.
	Put(ctx context.Context, path string, r io.Reader, contentType string) (int64, error)
	// Open returns the stored content. Missing paths return ErrNotFound.
	Open(ctx context.Context, path string) (io.ReadCloser, *FileInfo, error)
	// Remove deletes the file at path. Missing paths are not an error.
	Remove(ctx context.Context, path string) error
}
