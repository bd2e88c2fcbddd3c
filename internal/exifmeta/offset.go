package exifmeta

import (
	"bytes"
	"io"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// EXIF 2.31 time-zone tags, unknown to goexif's field table.
const (
	OffsetTime         exif.FieldName = "OffsetTime"
	OffsetTimeOriginal exif.FieldName = "OffsetTimeOriginal"
)

var offsetFields = map[uint16]exif.FieldName{
	0x9010: OffsetTime,
	0x9011: OffsetTimeOriginal,
}

func init() {
	exif.RegisterParsers(offsetParser{})
}

// offsetParser re-reads the Exif sub-IFD and loads the offset tags into x.
// It runs after goexif's own parser, so the IFD pointer is already loaded.
type offsetParser struct{}

func (offsetParser) Parse(x *exif.Exif) error {
	ptr, err := x.Get(exif.ExifIFDPointer)
	if err != nil {
		return nil
	}
	offset, err := ptr.Int64(0)
	if err != nil {
		return nil
	}
	r := bytes.NewReader(x.Raw)
	if _, err := r.Seek(offset, io.SeekStart); err != nil {
		return nil
	}
	dir, _, err := tiff.DecodeDir(r, x.Tiff.Order)
	if err != nil {
		return nil
	}
	x.LoadTags(dir, offsetFields, false)
	return nil
}
