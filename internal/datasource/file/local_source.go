// Package file implements a local filesystem-backed data source and sink.
package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// Local is a file on the local disk. It serves both as a datasource.Source
// and a datasource.Sink.
type Local struct{ path string }

// NewLocal returns a Local bound to the provided filesystem path.
func NewLocal(path string) *Local { return &Local{path: path} }

// Open opens the configured path for reading.
//
// Behavior:
//   - If the context is already canceled, Open returns the context error
//     without touching the filesystem.
//   - Filesystem errors are wrapped with the path while still permitting
//     errors.Is checks by callers (os.ErrNotExist, os.ErrPermission).
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	return f, nil
}

// Create truncates or creates the file for writing. The caller must Close
// the returned writer and check its error, since buffered data is only
// guaranteed on disk once Close succeeds.
func (l *Local) Create(ctx context.Context) (io.WriteCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	f, err := os.Create(l.path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", l.path, err)
	}
	return f, nil
}

// Exists reports whether the path exists. Only fs.ErrNotExist counts as
// absent; any other stat error (e.g. a permission problem on a parent
// directory) is returned to the caller.
func (l *Local) Exists() (bool, error) {
	_, err := os.Stat(l.path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat %s: %w", l.path, err)
}
