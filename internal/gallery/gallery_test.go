package gallery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/photofolio/internal/domain"
	"github.com/vbonduro/photofolio/internal/sidecar"
)

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "seoul tower night", DisplayName("seoul_tower_night.jpg"))
	assert.Equal(t, "archive.v2", DisplayName("archive.v2.png"))
	assert.Equal(t, "noext", DisplayName("noext"))
}

func TestDisplayDate(t *testing.T) {
	assert.Equal(t, "2024.05.01 10.20.30", DisplayDate("2024:05:01 10:20:30"))
	assert.Equal(t, UnknownDate, DisplayDate(domain.UnknownTimestamp))
	assert.Equal(t, UnknownDate, DisplayDate("  "))
}

func TestAspectRatio(t *testing.T) {
	assert.Equal(t, 0.75, AspectRatio(4000, 3000))
	assert.Equal(t, 1.0, AspectRatio(0, 3000))
	assert.Equal(t, 1.0, AspectRatio(4000, 0))
}

func TestNormalizeSortsNewestFirst(t *testing.T) {
	photos := Normalize([]sidecar.Photo{
		{Name: "old.jpg", DateTime: "2019:01:01 00:00:00"},
		{Name: "new.jpg", DateTime: "2024:01:01 00:00:00"},
		{Name: "mid.jpg", DateTime: "2021:06:15 12:00:00"},
	})

	require.Len(t, photos, 3)
	assert.Equal(t, "new.jpg", photos[0].FileName)
	assert.Equal(t, "mid.jpg", photos[1].FileName)
	assert.Equal(t, "old.jpg", photos[2].FileName)
	for i, p := range photos {
		assert.Equal(t, i, p.Index)
	}
}

func TestNormalizeEqualSentinelsKeepOrder(t *testing.T) {
	photos := Normalize([]sidecar.Photo{
		{Name: "first.jpg", DateTime: domain.UnknownTimestamp},
		{Name: "dated.jpg", DateTime: "2020:01:01 00:00:00"},
		{Name: "second.jpg", DateTime: domain.UnknownTimestamp},
		{Name: "third.jpg"},
	})

	require.Len(t, photos, 4)
	assert.Equal(t, "dated.jpg", photos[0].FileName)
	assert.Equal(t, "first.jpg", photos[1].FileName)
	assert.Equal(t, "second.jpg", photos[2].FileName)
	assert.Equal(t, "third.jpg", photos[3].FileName)
	assert.Equal(t, UnknownDate, photos[3].DisplayDate)
}

func TestNormalizeFillsBlanks(t *testing.T) {
	photos := Normalize([]sidecar.Photo{{Name: "a_b.jpg"}})
	p := photos[0]

	assert.Equal(t, "Unknown", p.Make)
	assert.Equal(t, "N/A", p.Model)
	assert.Equal(t, "N/A", p.ISO)
	assert.Equal(t, "N/A", p.Flash)
	assert.Equal(t, "17,17,17", p.RGB)
	assert.Equal(t, domain.ThemeDark, p.Theme)
	assert.Equal(t, 1.0, p.AspectRatio)
	assert.Equal(t, "0 x 0", p.Resolution)
	assert.Equal(t, "0.0M", p.Megapixels)
	assert.Empty(t, p.LocationLink)
	assert.False(t, p.HasLocation())
	assert.Equal(t, "a b", p.AltText)
}

func TestNormalizeFields(t *testing.T) {
	photos := Normalize([]sidecar.Photo{{
		Name:     "seoul tower.jpg",
		Make:     "FUJIFILM",
		DateTime: "2024:05:01 10:20:30",
		Width:    6000,
		Height:   4000,
		RGB:      "200,180,150",
		Theme:    "light",
		Lat:      "37.556",
		Lon:      "126.978",
		Address:  "Seoul, South Korea",
		Caption:  "A tower above the city at dusk.",
	}})
	p := photos[0]

	assert.Equal(t, "FUJIFILM", p.Make)
	assert.Equal(t, "2024.05.01 10.20.30", p.DisplayDate)
	assert.InDelta(t, 0.6667, p.AspectRatio, 0.0001)
	assert.Equal(t, "6000 x 4000", p.Resolution)
	assert.Equal(t, "24.0M", p.Megapixels)
	assert.Equal(t, domain.ThemeLight, p.Theme)
	assert.Equal(t, "/img/seoul%20tower.jpg", p.OriginalSrc)
	assert.Equal(t, "/img/thumb/seoul%20tower.jpg", p.ThumbSrc)
	assert.Equal(t, "https://www.openstreetmap.org/?mlat=37.556000&mlon=126.978000#map=15/37.556000/126.978000", p.LocationLink)
	assert.True(t, p.HasLocation())
	assert.Equal(t, "A tower above the city at dusk.", p.AltText)
}

func TestNormalizeBadColorFallsBack(t *testing.T) {
	photos := Normalize([]sidecar.Photo{{Name: "a.jpg", RGB: "300,1", Theme: "light"}})
	assert.Equal(t, "17,17,17", photos[0].RGB)
	assert.Equal(t, domain.ThemeDark, photos[0].Theme)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo_data.xml")
	xml := `<?xml version="1.0" encoding="UTF-8"?>
<photofolio version="1">
  <photo name="b.jpg"><dateTime>2020:01:01 00:00:00</dateTime></photo>
  <photo name="a.jpg"><dateTime>2022:01:01 00:00:00</dateTime></photo>
</photofolio>`
	require.NoError(t, os.WriteFile(path, []byte(xml), 0o644))

	photos, err := Load(path)
	require.NoError(t, err)
	require.Len(t, photos, 2)
	assert.Equal(t, "a.jpg", photos[0].FileName)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.xml"))
	assert.Error(t, err)
}
