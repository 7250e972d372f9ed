package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// FileKV stores each key as <dir>/<key>.json on an afero filesystem.
type FileKV struct {
	fs  afero.Fs
	dir string
}

var _ KV = (*FileKV)(nil)

// NewFileKV creates a file-backed KV rooted at dir.
func NewFileKV(fs afero.Fs, dir string) *FileKV {
	return &FileKV{fs: fs, dir: dir}
}

func (f *FileKV) path(key string) string {
	key = strings.NewReplacer("/", "_", "\\", "_").Replace(key)
	return filepath.Join(f.dir, key+".json")
}

// Get reads the file for key.
func (f *FileKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := afero.ReadFile(f.fs, f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return data, true, nil
}

// Put writes the file for key atomically.
func (f *FileKV) Put(ctx context.Context, key string, value []byte) error {
	return writeFileAtomic(f.fs, f.path(key), value)
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it over path, so readers see either the old or the new content.
func writeFileAtomic(fs afero.Fs, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmpFile, err := afero.TempFile(fs, dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer fs.Remove(tmpPath)

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := fs.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}
	return nil
}
