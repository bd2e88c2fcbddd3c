package extract

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/vbonduro/photofolio/internal/photostore"
)

// ErrImageDirMissing stops a run before any file is processed.
var ErrImageDirMissing = errors.New("image directory missing")

var supportedExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Supported reports whether name has an image extension the pipeline handles.
func Supported(name string) bool {
	return supportedExts[strings.ToLower(filepath.Ext(name))]
}

// Scan lists the supported images in store in name order.
func Scan(ctx context.Context, store photostore.PhotoStore) ([]string, error) {
	all, err := store.List(ctx)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %v", ErrImageDirMissing, err)
		}
		return nil, fmt.Errorf("failed to scan images: %w", err)
	}

	names := make([]string, 0, len(all))
	for _, name := range all {
		if Supported(name) {
			names = append(names, name)
		}
	}
	return names, nil
}
