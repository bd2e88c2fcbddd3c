package thumbnail

import (
	"bytes"
	"context"
	"fmt"

	"github.com/disintegration/imaging"

	"github.com/vbonduro/photofolio/internal/photostore"
)

type Generator struct {
	store photostore.PhotoStore
	width int
}

// NewGenerator writes thumbnails no wider than width pixels into store.
func NewGenerator(store photostore.PhotoStore, width int) *Generator {
	return &Generator{store: store, width: width}
}

// Ensure creates the thumbnail for name from srcPath unless one already
// exists. It reports whether a new file was written.
func (g *Generator) Ensure(ctx context.Context, srcPath, name string) (bool, error) {
	if g.store.Exists(ctx, name) {
		return false, nil
	}

	format, err := imaging.FormatFromFilename(name)
	if err != nil {
		return false, fmt.Errorf("unsupported thumbnail format: %w", err)
	}

	img, err := imaging.Open(srcPath, imaging.AutoOrientation(true))
	if err != nil {
		return false, fmt.Errorf("failed to decode image: %w", err)
	}
	if img.Bounds().Dx() > g.width {
		img = imaging.Resize(img, g.width, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(85)); err != nil {
		return false, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	if err := g.store.Create(ctx, name, &buf); err != nil {
		return false, fmt.Errorf("failed to save thumbnail: %w", err)
	}
	return true, nil
}
