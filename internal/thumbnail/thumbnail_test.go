package thumbnail

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/photofolio/internal/photostore/local"
)

func setup(t *testing.T, w, h int) (src string, thumbDir string, gen *Generator) {
	t.Helper()
	root := t.TempDir()
	src = filepath.Join(root, "harbour.jpg")
	require.NoError(t, imaging.Save(imaging.New(w, h, image.White.C), src))

	thumbDir = filepath.Join(root, "thumb")
	store, err := local.NewLocalPhotoStoreCreate(thumbDir)
	require.NoError(t, err)
	return src, thumbDir, NewGenerator(store, 100)
}

func TestEnsureCreatesBoundedThumbnail(t *testing.T) {
	src, thumbDir, gen := setup(t, 400, 200)

	created, err := gen.Ensure(context.Background(), src, "harbour.jpg")
	require.NoError(t, err)
	assert.True(t, created)

	img, err := imaging.Open(filepath.Join(thumbDir, "harbour.jpg"))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())
}

func TestEnsureKeepsExistingThumbnail(t *testing.T) {
	src, thumbDir, gen := setup(t, 400, 200)
	existing := filepath.Join(thumbDir, "harbour.jpg")
	require.NoError(t, os.WriteFile(existing, []byte("hand-made"), 0644))

	created, err := gen.Ensure(context.Background(), src, "harbour.jpg")
	require.NoError(t, err)
	assert.False(t, created)

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "hand-made", string(data))
}

func TestEnsureSmallImageNotUpscaled(t *testing.T) {
	src, thumbDir, gen := setup(t, 60, 40)

	_, err := gen.Ensure(context.Background(), src, "harbour.jpg")
	require.NoError(t, err)

	img, err := imaging.Open(filepath.Join(thumbDir, "harbour.jpg"))
	require.NoError(t, err)
	assert.Equal(t, 60, img.Bounds().Dx())
}

func TestEnsureUndecodableSource(t *testing.T) {
	_, thumbDir, gen := setup(t, 10, 10)
	bad := filepath.Join(t.TempDir(), "bad.jpg")
	require.NoError(t, os.WriteFile(bad, []byte("nope"), 0644))

	_, err := gen.Ensure(context.Background(), bad, "bad.jpg")
	assert.Error(t, err)
	_, statErr := os.Stat(filepath.Join(thumbDir, "bad.jpg"))
	assert.True(t, os.IsNotExist(statErr))
}
