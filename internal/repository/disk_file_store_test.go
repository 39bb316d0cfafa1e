package repository

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/mansoorceksport/restshop/internal/domain"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskFileStore_PutOpenRemove(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	store := NewDiskFileStore(fs)

	n, err := store.Put(ctx, "uploads/2026-10-17T10:11:12.123Zphoto.png", strings.NewReader("pixels"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)

	rc, info, err := store.Open(ctx, "uploads/2026-10-17T10:11:12.123Zphoto.png")
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())

	assert.Equal(t, "pixels", string(body))
	assert.Equal(t, int64(6), info.Size)
	assert.Equal(t, "image/png", info.ContentType)

	require.NoError(t, store.Remove(ctx, "uploads/2026-10-17T10:11:12.123Zphoto.png"))
	_, _, err = store.Open(ctx, "uploads/2026-10-17T10:11:12.123Zphoto.png")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDiskFileStore_FailedWriteLeavesNothing(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	store := NewDiskFileStore(fs)

	broken := io.MultiReader(strings.NewReader("partial"), iotest.ErrReader(errors.New("client went away")))
	_, err := store.Put(ctx, "uploads/a.jpg", broken, "image/jpeg")
	require.Error(t, err)

	exists, err := afero.Exists(fs, "uploads/a.jpg")
	require.NoError(t, err)
	assert.False(t, exists)

	entries, err := afero.ReadDir(fs, "uploads")
	require.NoError(t, err)
	assert.Empty(t, entries, "staging file left behind")
}

func TestDiskFileStore_OpenMissing(t *testing.T) {
	store := NewDiskFileStore(afero.NewMemMapFs())

	_, _, err := store.Open(context.Background(), "uploads/nope.png")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDiskFileStore_OpenDirectory(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("uploads/sub", 0o755))

	_, _, err := NewDiskFileStore(fs).Open(context.Background(), "uploads/sub")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDiskFileStore_RemoveMissing(t *testing.T) {
	store := NewDiskFileStore(afero.NewMemMapFs())
	assert.NoError(t, store.Remove(context.Background(), "uploads/never-written.png"))
}

// dirWatcher records the directory listing while the store is still copying
type dirWatcher struct {
	fs    afero.Fs
	dir   string
	reads int
	seen  []string
}

func (w *dirWatcher) Read(p []byte) (int, error) {
	w.reads++
	if w.reads == 1 {
		return copy(p, "pixels"), nil
	}
	entries, _ := afero.ReadDir(w.fs, w.dir)
	for _, e := range entries {
		w.seen = append(w.seen, e.Name())
	}
	return 0, io.EOF
}

func TestDiskFileStore_StagesHiddenFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	watcher := &dirWatcher{fs: fs, dir: "uploads"}

	_, err := NewDiskFileStore(fs).Put(context.Background(), "uploads/a.png", watcher, "image/png")
	require.NoError(t, err)

	require.Len(t, watcher.seen, 1)
	assert.True(t, strings.HasPrefix(watcher.seen[0], ".a.png."), watcher.seen[0])
	assert.True(t, strings.HasSuffix(watcher.seen[0], ".part"), watcher.seen[0])

	entries, err := afero.ReadDir(fs, "uploads")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.png", entries[0].Name())
}
