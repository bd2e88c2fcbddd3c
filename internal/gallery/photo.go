// Package gallery turns the sidecar document into display-ready view models
// and arranges them into masonry columns.
package gallery

import (
	"fmt"
	"net/url"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/vbonduro/photofolio/internal/domain"
	"github.com/vbonduro/photofolio/internal/sidecar"
)

// UnknownDate is shown in place of the sentinel or a blank timestamp.
const UnknownDate = "Unknown date"

// Photo is the view model for one gallery entry. It is built once per load
// and never modified afterwards.
type Photo struct {
	Index       int
	FileName    string
	DisplayName string

	Make         string
	Model        string
	ISO          string
	FNumber      string
	ExposureTime string
	ExposureBias string
	FocalLength  string
	Focal35mm    string
	WhiteBalance string
	MeteringMode string
	Flash        string
	Software     string

	DateTime    string
	DisplayDate string
	TimeZone    string

	FileSize    string
	Width       int
	Height      int
	AspectRatio float64
	Resolution  string
	Megapixels  string

	RGB   string
	Theme domain.Theme

	Latitude     string
	Longitude    string
	Address      string
	LocationLink string

	Caption string
	AltText string

	OriginalSrc string
	ThumbSrc    string
}

// HasLocation reports whether the photo carries coordinates.
func (p Photo) HasLocation() bool {
	return p.LocationLink != ""
}

// Load reads the sidecar at path and returns normalised photos.
func Load(path string) ([]Photo, error) {
	doc, err := sidecar.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Normalize(doc.Photos), nil
}

// Normalize converts sidecar entries into view models sorted newest first.
// Entries with equal timestamps keep their document order.
func Normalize(entries []sidecar.Photo) []Photo {
	photos := make([]Photo, 0, len(entries))
	for _, e := range entries {
		photos = append(photos, newPhoto(e))
	}

	sort.SliceStable(photos, func(i, j int) bool {
		return photos[i].DateTime > photos[j].DateTime
	})
	for i := range photos {
		photos[i].Index = i
	}
	return photos
}

func newPhoto(e sidecar.Photo) Photo {
	p := Photo{
		FileName:     e.Name,
		DisplayName:  DisplayName(e.Name),
		Make:         orDefault(e.Make, domain.UnknownMake),
		Model:        orDefault(e.Model, domain.NotAvailable),
		ISO:          orDefault(e.ISO, domain.NotAvailable),
		FNumber:      orDefault(e.FNumber, domain.NotAvailable),
		ExposureTime: orDefault(e.ExposureTime, domain.NotAvailable),
		ExposureBias: orDefault(e.ExposureBias, domain.NotAvailable),
		FocalLength:  orDefault(e.FocalLength, domain.NotAvailable),
		Focal35mm:    orDefault(e.Focal35mm, domain.NotAvailable),
		WhiteBalance: orDefault(e.WhiteBalance, domain.NotAvailable),
		MeteringMode: orDefault(e.MeteringMode, domain.NotAvailable),
		Flash:        orDefault(e.Flash, domain.NotAvailable),
		Software:     orDefault(e.Software, domain.NotAvailable),
		DateTime:     orDefault(e.DateTime, domain.UnknownTimestamp),
		TimeZone:     strings.TrimSpace(e.TimeZone),
		FileSize:     orDefault(e.FileSize, domain.NotAvailable),
		Width:        max(e.Width, 0),
		Height:       max(e.Height, 0),
		Address:      strings.TrimSpace(e.Address),
		Caption:      strings.TrimSpace(e.Caption),
		OriginalSrc:  "/img/" + url.PathEscape(e.Name),
		ThumbSrc:     "/img/thumb/" + url.PathEscape(e.Name),
	}

	p.DisplayDate = DisplayDate(p.DateTime)
	p.AspectRatio = AspectRatio(p.Width, p.Height)
	p.Resolution = fmt.Sprintf("%d x %d", p.Width, p.Height)
	p.Megapixels = fmt.Sprintf("%.1fM", float64(p.Width)*float64(p.Height)/1e6)

	if r, g, b, ok := domain.ParseRGB(e.RGB); ok {
		p.RGB = fmt.Sprintf("%d,%d,%d", r, g, b)
		p.Theme = domain.ThemeDark
		if domain.Theme(e.Theme) == domain.ThemeLight {
			p.Theme = domain.ThemeLight
		}
	} else {
		p.RGB = domain.FallbackColor.RGB()
		p.Theme = domain.FallbackColor.Theme
	}

	lat, latErr := strconv.ParseFloat(strings.TrimSpace(e.Lat), 64)
	lon, lonErr := strconv.ParseFloat(strings.TrimSpace(e.Lon), 64)
	if latErr == nil && lonErr == nil {
		p.Latitude = strconv.FormatFloat(lat, 'f', -1, 64)
		p.Longitude = strconv.FormatFloat(lon, 'f', -1, 64)
		p.LocationLink = LocationLink(lat, lon)
	}

	p.AltText = p.Caption
	if p.AltText == "" {
		p.AltText = p.DisplayName
	}
	return p
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}

// DisplayName strips the extension and turns underscores into spaces.
func DisplayName(fileName string) string {
	base := strings.TrimSuffix(fileName, path.Ext(fileName))
	if base == "" {
		base = fileName
	}
	return strings.ReplaceAll(base, "_", " ")
}

// DisplayDate renders "YYYY:MM:DD HH:MM:SS" as "YYYY.MM.DD HH.MM.SS".
func DisplayDate(ts string) string {
	ts = strings.TrimSpace(ts)
	if ts == "" || ts == domain.UnknownTimestamp {
		return UnknownDate
	}
	return strings.NewReplacer(":", ".", "-", ".").Replace(ts)
}

// AspectRatio is height over width, or 1 when either side is unknown.
func AspectRatio(w, h int) float64 {
	if w <= 0 || h <= 0 {
		return 1
	}
	return float64(h) / float64(w)
}

func LocationLink(lat, lon float64) string {
	la := strconv.FormatFloat(lat, 'f', 6, 64)
	lo := strconv.FormatFloat(lon, 'f', 6, 64)
	return fmt.Sprintf("https://www.openstreetmap.org/?mlat=%s&mlon=%s#map=15/%s/%s", la, lo, la, lo)
}
