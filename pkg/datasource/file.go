package datasource

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// FileSource stores values as files under a base directory. Keys are
// hex-encoded in filenames so arbitrary key bytes cannot escape the
// directory. TTLs are not enforced; it is a development and test
// convenience, not a cache.
type FileSource struct {
	dir string
}

// OpenFile creates the directory if needed and returns a file-backed
// source rooted there.
func OpenFile(dir string) (*FileSource, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty file path", ErrEmptyDSN)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Join(ErrConnectionFailed, err)
	}
	return &FileSource{dir: dir}, nil
}

func (f *FileSource) path(key string) string {
	return filepath.Join(f.dir, hex.EncodeToString([]byte(key)))
}

func (f *FileSource) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

func (f *FileSource) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	return os.WriteFile(f.path(key), value, 0o644)
}

func (f *FileSource) Delete(_ context.Context, key string) error {
	err := os.Remove(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Ping verifies the base directory is still accessible.
func (f *FileSource) Ping(_ context.Context) error {
	if _, err := os.Stat(f.dir); err != nil {
		return fmt.Errorf("%w: %w", ErrHealthcheck, err)
	}
	return nil
}

func (f *FileSource) Close() error { return nil }
