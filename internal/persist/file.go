package persist

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"
)

// DefaultFilePath returns the layout file under the XDG state directory.
func DefaultFilePath() (string, error) {
	path, err := xdg.StateFile(filepath.Join("panels", "layout.json"))
	if err != nil {
		return "", fmt.Errorf("resolve state path: %w", err)
	}
	return path, nil
}

// FileStorage keeps each key in its own file. The default key maps to the
// configured path itself; other keys become siblings named <key>.json.
type FileStorage struct {
	mu   sync.Mutex
	path string
}

// NewFileStorage returns a FileStorage rooted at path. The parent directory
// is created if needed.
func NewFileStorage(path string) (*FileStorage, error) {
	if path == "" {
		return nil, fmt.Errorf("layout path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	return &FileStorage{path: path}, nil
}

// Path returns the file used for the default key.
func (f *FileStorage) Path() string {
	return f.path
}

func (f *FileStorage) fileFor(key string) string {
	if key == DefaultKey || key == "" {
		return f.path
	}
	safe := strings.NewReplacer("/", "_", string(filepath.Separator), "_", "..", "_").Replace(key)
	return filepath.Join(filepath.Dir(f.path), safe+".json")
}

func (f *FileStorage) Read(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.fileFor(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	return data, nil
}

// Write replaces the file atomically through a temp file and rename.
func (f *FileStorage) Write(_ context.Context, key string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	target := f.fileFor(key)
	tmp, err := os.CreateTemp(filepath.Dir(target), ".layout-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write layout: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace layout: %w", err)
	}
	return nil
}

func (f *FileStorage) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.fileFor(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete layout: %w", err)
	}
	return nil
}

func (f *FileStorage) Close() error { return nil }
