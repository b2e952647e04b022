package persist

import (
	"context"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Open returns the storage for backend. An empty path selects the backend's
// default location under the XDG state directory.
func Open(ctx context.Context, backend, path string) (Storage, error) {
	switch backend {
	case "", BackendFile:
		if path == "" {
			p, err := DefaultFilePath()
			if err != nil {
				return nil, err
			}
			path = p
		}
		return NewFileStorage(path)

	case BackendSQLite:
		if path == "" {
			p, err := DefaultDBPath()
			if err != nil {
				return nil, err
			}
			path = p
		}
		return NewSQLiteStorage(ctx, path)

	case BackendMemory:
		return NewMemoryStorage(), nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
