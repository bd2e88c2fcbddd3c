// Package exifmeta reads capture metadata from image files and normalises it
// into display-ready strings. Anything the decoder cannot supply falls back
// to the sentinels in package domain.
package exifmeta

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"github.com/vbonduro/photofolio/internal/domain"
)

// ErrNoMetadata means the file has no decodable EXIF block. The capture
// returned alongside it is still usable.
var ErrNoMetadata = errors.New("no exif metadata")

// tagGetter is the subset of *exif.Exif the normaliser needs.
type tagGetter interface {
	Get(name exif.FieldName) (*tiff.Tag, error)
	LatLong() (lat, long float64, err error)
}

type Reader struct{}

func NewReader() *Reader {
	return &Reader{}
}

// Read returns the capture metadata for path. On any decode problem it still
// returns a fully defaulted capture together with the error, so callers can
// log and carry on.
func (r *Reader) Read(path string) (domain.Capture, error) {
	capture := domain.DefaultCapture()

	f, err := os.Open(path)
	if err != nil {
		return capture, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	var readErr error
	x, err := exif.Decode(f)
	if x == nil {
		readErr = fmt.Errorf("%w: %v", ErrNoMetadata, err)
	} else {
		applyTags(&capture, x)
	}

	if capture.Width == 0 || capture.Height == 0 {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return capture, fmt.Errorf("failed to rewind image: %w", err)
		}
		cfg, _, err := image.DecodeConfig(f)
		if err != nil {
			return capture, errors.Join(readErr, fmt.Errorf("failed to decode image header: %w", err))
		}
		capture.Width, capture.Height = cfg.Width, cfg.Height
		if x != nil && rotated(x) {
			capture.Width, capture.Height = capture.Height, capture.Width
		}
	}

	return capture, readErr
}

func applyTags(c *domain.Capture, x tagGetter) {
	if v, ok := stringTag(x, exif.Make); ok {
		c.Make = v
	}
	if v, ok := stringTag(x, exif.Model); ok {
		c.Model = v
	}
	if v, ok := stringTag(x, exif.Software); ok {
		c.Software = v
	}
	if v, ok := intTag(x, exif.ISOSpeedRatings); ok && v > 0 {
		c.ISO = fmt.Sprint(v)
	}
	if v, ok := ratTag(x, exif.FNumber, 0); ok && v > 0 {
		c.FNumber = formatFNumber(v)
	}
	if v, ok := ratTag(x, exif.ExposureTime, 0); ok && v > 0 {
		c.ExposureTime = formatExposure(v)
	}
	if v, ok := ratTag(x, exif.ExposureBiasValue, 0); ok {
		c.ExposureBias = formatBias(v)
	}
	if v, ok := ratTag(x, exif.FocalLength, 0); ok && v > 0 {
		c.FocalLength = formatFocal(v)
	}
	if v, ok := intTag(x, exif.FocalLengthIn35mmFilm); ok && v > 0 {
		c.Focal35mm = formatFocal(float64(v))
	}
	if v, ok := intTag(x, exif.WhiteBalance); ok {
		c.WhiteBalance = whiteBalanceName(v)
	}
	if v, ok := intTag(x, exif.MeteringMode); ok {
		c.MeteringMode = meteringModeName(v)
	}
	if v, ok := intTag(x, exif.Flash); ok {
		c.Flash = flashName(v)
	}

	c.Timestamp = timestamp(x)
	c.UTCOffset = utcOffset(x)

	w, wok := intTag(x, exif.PixelXDimension)
	h, hok := intTag(x, exif.PixelYDimension)
	if wok && hok && w > 0 && h > 0 {
		if rotated(x) {
			w, h = h, w
		}
		c.Width, c.Height = w, h
	}

	c.GPS = gps(x)
}

func timestamp(x tagGetter) string {
	for _, name := range []exif.FieldName{exif.DateTimeOriginal, exif.DateTimeDigitized, exif.DateTime} {
		v, ok := stringTag(x, name)
		if !ok {
			continue
		}
		if _, err := time.Parse(domain.TimestampLayout, v); err == nil {
			return v
		}
	}
	return domain.UnknownTimestamp
}

func utcOffset(x tagGetter) string {
	for _, name := range []exif.FieldName{OffsetTimeOriginal, OffsetTime} {
		if v, ok := stringTag(x, name); ok {
			return v
		}
	}
	return ""
}

// gps returns the signed decimal position, or nil when any of the four GPS
// tags is missing or malformed.
func gps(x tagGetter) *domain.GPS {
	lat, lon, err := x.LatLong()
	if err != nil || math.IsNaN(lat) || math.IsNaN(lon) {
		return nil
	}
	return &domain.GPS{Latitude: lat, Longitude: lon}
}

// rotated reports whether the EXIF orientation turns the stored image by 90
// degrees, which swaps its displayed width and height.
func rotated(x tagGetter) bool {
	o, ok := intTag(x, exif.Orientation)
	return ok && o >= 5 && o <= 8
}

func stringTag(x tagGetter, name exif.FieldName) (string, bool) {
	tag, err := x.Get(name)
	if err != nil || tag == nil {
		return "", false
	}
	v, err := tag.StringVal()
	if err != nil {
		return "", false
	}
	v = strings.TrimSpace(strings.TrimRight(v, "\x00"))
	return v, v != ""
}

func intTag(x tagGetter, name exif.FieldName) (int, bool) {
	tag, err := x.Get(name)
	if err != nil || tag == nil {
		return 0, false
	}
	v, err := tag.Int(0)
	if err != nil {
		return 0, false
	}
	return v, true
}

func ratTag(x tagGetter, name exif.FieldName, i int) (float64, bool) {
	tag, err := x.Get(name)
	if err != nil || tag == nil || i >= int(tag.Count) {
		return 0, false
	}
	num, den, err := tag.Rat2(i)
	if err != nil {
		return 0, false
	}
	return ratio(num, den)
}
