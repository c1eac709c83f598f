// Package datasource defines where popreport reads its dataset from and
// where it writes files to.
package datasource

import (
	"context"
	"io"
)

// Source yields the raw bytes of a dataset.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Sink accepts a complete file. Whatever was previously stored at the
// destination is replaced.
type Sink interface {
	Create(ctx context.Context) (io.WriteCloser, error)
}
