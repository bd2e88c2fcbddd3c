package photostore

import (
	"context"
	"errors"
	"io"
)

var (
	ErrNotFound    = errors.New("photo not found")
	ErrInvalidName = errors.New("invalid photo name")
)

// PhotoStore is a flat, name-addressed collection of image files. Originals
// and thumbnails live in separate stores that share file names.
type PhotoStore interface {
	List(ctx context.Context) ([]string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, string, error)
	Stat(ctx context.Context, name string) (size int64, err error)
	Exists(ctx context.Context, name string) bool
	Create(ctx context.Context, name string, r io.Reader) error
	// Path returns the on-disk location of name for decoders that need a file.
	Path(name string) (string, error)
}
