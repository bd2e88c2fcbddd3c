package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Sentinels written in place of missing metadata. Consumers compare against
// these values instead of checking for absent fields.
const (
	NotAvailable     = "N/A"
	UnknownMake      = "Unknown"
	UnknownTimestamp = "1970:01:01 00:00:00"
)

// TimestampLayout is the EXIF DateTimeOriginal layout stored in the sidecar.
const TimestampLayout = "2006:01:02 15:04:05"

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Color is a representative RGB triple with its light/dark classification.
type Color struct {
	R, G, B uint8
	Theme   Theme
}

// FallbackColor is used whenever an image cannot be sampled.
var FallbackColor = Color{R: 17, G: 17, B: 17, Theme: ThemeDark}

// RGB renders the triple as "r,g,b".
func (c Color) RGB() string {
	return fmt.Sprintf("%d,%d,%d", c.R, c.G, c.B)
}

// ParseRGB parses an "r,g,b" triple. Malformed input yields FallbackColor's
// channels and ok=false.
func ParseRGB(s string) (r, g, b uint8, ok bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return FallbackColor.R, FallbackColor.G, FallbackColor.B, false
	}
	var vals [3]uint8
	for i, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return FallbackColor.R, FallbackColor.G, FallbackColor.B, false
		}
		vals[i] = uint8(n)
	}
	return vals[0], vals[1], vals[2], true
}

type GPS struct {
	Latitude  float64
	Longitude float64
}

// Capture holds the camera settings and image geometry read from embedded
// metadata. Text fields are display-ready strings.
type Capture struct {
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
	Timestamp    string
	UTCOffset    string
	Width        int
	Height       int
	GPS          *GPS
}

// DefaultCapture returns a capture with every field set to its sentinel.
func DefaultCapture() Capture {
	return Capture{
		Make:         UnknownMake,
		Model:        NotAvailable,
		ISO:          NotAvailable,
		FNumber:      NotAvailable,
		ExposureTime: NotAvailable,
		ExposureBias: NotAvailable,
		FocalLength:  NotAvailable,
		Focal35mm:    NotAvailable,
		WhiteBalance: NotAvailable,
		MeteringMode: NotAvailable,
		Flash:        NotAvailable,
		Software:     NotAvailable,
		Timestamp:    UnknownTimestamp,
	}
}

// PhotoRecord is one processed image, keyed by FileName within a sidecar.
type PhotoRecord struct {
	FileName string
	Capture
	FileSizeBytes int64
	Color         Color
	Address       string
	Caption       string
}

// FormatFileSize renders a byte count as megabytes with two decimals.
func FormatFileSize(bytes int64) string {
	return fmt.Sprintf("%.2f MB", float64(bytes)/(1024*1024))
}
