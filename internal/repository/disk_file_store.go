package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"

	"github.com/mansoorceksport/restshop/internal/domain"
	"github.com/oklog/ulid/v2"
	"github.com/spf13/afero"
)

// DiskFileStore implements domain.FileStore on a local (or in-memory) filesystem.
// Writes go to a uniquely named hidden .part file that is renamed into place only
// after the whole stream has been copied.
type DiskFileStore struct {
	fs afero.Fs
}

// NewDiskFileStore creates a store on fs. Use afero.NewOsFs() in production.
func NewDiskFileStore(fs afero.Fs) *DiskFileStore {
	return &DiskFileStore{fs: fs}
}

// Put streams r to p
func (s *DiskFileStore) Put(ctx context.Context, p string, r io.Reader, contentType string) (int64, error) {
	name := filepath.FromSlash(p)
	if err := s.fs.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create upload directory: %w", err)
	}

	staging := filepath.Join(filepath.Dir(name), "."+filepath.Base(name)+"."+ulid.Make().String()+".part")
	f, err := s.fs.OpenFile(staging, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", p, err)
	}

	n, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = s.fs.Remove(staging)
		return 0, fmt.Errorf("failed to write %s: %w", p, err)
	}

	if err := s.fs.Rename(staging, name); err != nil {
		_ = s.fs.Remove(staging)
		return 0, fmt.Errorf("failed to move %s into place: %w", p, err)
	}
	return n, nil
}

// Open returns the file at p
func (s *DiskFileStore) Open(ctx context.Context, p string) (io.ReadCloser, *domain.FileInfo, error) {
	f, err := s.fs.Open(filepath.FromSlash(p))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to open %s: %w", p, err)
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("failed to stat %s: %w", p, err)
	}
	if st.IsDir() {
		f.Close()
		return nil, nil, domain.ErrNotFound
	}

	return f, &domain.FileInfo{
		Path:        p,
		Size:        st.Size(),
		ContentType: mime.TypeByExtension(path.Ext(p)),
		ModTime:     st.ModTime(),
	}, nil
}

// Remove deletes the file at p
func (s *DiskFileStore) Remove(ctx context.Context, p string) error {
	err := s.fs.Remove(filepath.FromSlash(p))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", p, err)
	}
	return nil
}
