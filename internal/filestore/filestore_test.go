package filestore_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/programme-lv/vjudge/internal/filestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*filestore.FileStore, string) {
	t.Helper()
	dir := t.TempDir()
	fs, err := filestore.New(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return fs, dir
}

func TestFileStore(t *testing.T) {
	fs, dir := newStore(t)
	ctx := context.Background()

	downloads := 0
	download := func(ctx context.Context) ([]byte, error) {
		downloads++
		return []byte("<p>Print a+b.</p>"), nil
	}

	body, err := fs.Get(ctx, "desc-11-3.html", download)
	require.NoError(t, err)
	assert.Equal(t, "<p>Print a+b.</p>", string(body))

	body, err = fs.Get(ctx, "desc-11-3.html", download)
	require.NoError(t, err)
	assert.Equal(t, "<p>Print a+b.</p>", string(body))
	assert.Equal(t, 1, downloads)

	stored, err := os.ReadFile(filepath.Join(dir, "files", "desc-11-3.html.zst"))
	require.NoError(t, err)
	assert.NotContains(t, string(stored), "Print a+b.")

	// a second store over the same directory sees the file
	fs2, err := filestore.New(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	body, err = fs2.Get(ctx, "desc-11-3.html", func(context.Context) ([]byte, error) {
		return nil, errors.New("must not download")
	})
	require.NoError(t, err)
	assert.Equal(t, "<p>Print a+b.</p>", string(body))
}

func TestDownloadErrorIsNotStored(t *testing.T) {
	fs, _ := newStore(t)
	ctx := context.Background()

	_, err := fs.Get(ctx, "desc-1-0.html", func(context.Context) ([]byte, error) {
		return nil, errors.New("HTTP 404")
	})
	require.ErrorContains(t, err, "HTTP 404")

	body, err := fs.Get(ctx, "desc-1-0.html", func(context.Context) ([]byte, error) {
		return []byte("ok"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
}

func TestConcurrentMissesDownloadOnce(t *testing.T) {
	fs, _ := newStore(t)
	var downloads atomic.Int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			body, err := fs.Get(context.Background(), "desc-7-1.html", func(context.Context) ([]byte, error) {
				downloads.Add(1)
				<-release
				return []byte("same"), nil
			})
			assert.NoError(t, err)
			assert.Equal(t, "same", string(body))
		}()
	}
	close(release)
	wg.Wait()
	assert.LessOrEqual(t, downloads.Load(), int32(5))
	assert.GreaterOrEqual(t, downloads.Load(), int32(1))
}

func TestInvalidKey(t *testing.T) {
	fs, _ := newStore(t)
	for _, key := range []string{"", "../etc/passwd", "a/b", ".hidden"} {
		_, err := fs.Get(context.Background(), key, func(context.Context) ([]byte, error) {
			return []byte("x"), nil
		})
		assert.Error(t, err, key)
	}
}
