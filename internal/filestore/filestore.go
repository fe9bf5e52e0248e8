// Package filestore keeps immutable judge documents, such as versioned
// problem descriptions, zstd compressed on disk.
package filestore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/sync/singleflight"
)

type FileStore struct {
	fileDirectory string
	tmpDirectory  string
	downloads     singleflight.Group
	encoder       *zstd.Encoder
	decoder       *zstd.Decoder
	log           *slog.Logger
}

// New creates a store rooted at dir.
func New(dir string, logger *slog.Logger) (*FileStore, error) {
	fs := &FileStore{
		fileDirectory: filepath.Join(dir, "files"),
		tmpDirectory:  filepath.Join(dir, "tmp"),
		log:           logger.With("component", "filestore"),
	}
	if err := os.MkdirAll(fs.fileDirectory, 0755); err != nil {
		return nil, fmt.Errorf("failed to create file store directory: %w", err)
	}
	if err := os.MkdirAll(fs.tmpDirectory, 0755); err != nil {
		return nil, fmt.Errorf("failed to create tmp directory: %w", err)
	}

	var err error
	fs.encoder, err = zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	fs.decoder, err = zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return fs, nil
}

// Get returns the stored file under key, calling download on a miss.
// Concurrent misses of one key download once.
func (fs *FileStore) Get(ctx context.Context, key string, download func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	filePath := filepath.Join(fs.fileDirectory, key+".zst")

	if data, err := fs.read(filePath); err == nil {
		fs.log.Debug("file store hit", "key", key)
		return data, nil
	} else if !os.IsNotExist(err) {
		fs.log.Warn("dropping unreadable stored file", "key", key, "error", err)
	}

	v, err, _ := fs.downloads.Do(key, func() (any, error) {
		data, err := download(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to download file %s: %w", key, err)
		}
		if err := fs.write(key, filePath, data); err != nil {
			fs.log.Warn("failed to store file", "key", key, "error", err)
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (fs *FileStore) read(path string) ([]byte, error) {
	compressed, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data, err := fs.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s: %w", path, err)
	}
	return data, nil
}

func (fs *FileStore) write(key, filePath string, data []byte) error {
	tmp, err := os.CreateTemp(fs.tmpDirectory, key+".*")
	if err != nil {
		return fmt.Errorf("failed to create tmp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(fs.encoder.EncodeAll(data, nil)); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write tmp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close tmp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filePath); err != nil {
		return fmt.Errorf("failed to move file %s to file store: %w", key, err)
	}
	return nil
}

func validKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return fmt.Errorf("invalid file key %q", key)
	}
	return nil
}
