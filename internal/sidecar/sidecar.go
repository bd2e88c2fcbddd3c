// Package sidecar reads and writes the XML metadata document that connects
// the extraction and presentation pipelines.
package sidecar

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vbonduro/photofolio/internal/domain"
)

const Version = "1"

type Document struct {
	XMLName xml.Name `xml:"photofolio"`
	Version string   `xml:"version,attr,omitempty"`
	Photos  []Photo  `xml:"photo"`
}

// Photo is the on-disk form of a PhotoRecord. Every element is always written.
type Photo struct {
	Name         string `xml:"name,attr"`
	Make         string `xml:"make"`
	Model        string `xml:"model"`
	ISO          string `xml:"iso"`
	FNumber      string `xml:"fNumber"`
	ExposureTime string `xml:"exposureTime"`
	ExposureBias string `xml:"exposureBias"`
	FocalLength  string `xml:"focalLength"`
	Focal35mm    string `xml:"focal35mm"`
	WhiteBalance string `xml:"whiteBalance"`
	MeteringMode string `xml:"meteringMode"`
	Flash        string `xml:"flash"`
	DateTime     string `xml:"dateTime"`
	TimeZone     string `xml:"timeZone"`
	FileSize     string `xml:"fileSize"`
	Width        int    `xml:"width"`
	Height       int    `xml:"height"`
	Software     string `xml:"software"`
	RGB          string `xml:"rgb"`
	Theme        string `xml:"theme"`
	Lat          string `xml:"lat"`
	Lon          string `xml:"lon"`
	Address      string `xml:"address"`
	Caption      string `xml:"caption"`
}

func FromRecord(r domain.PhotoRecord) Photo {
	p := Photo{
		Name:         r.FileName,
		Make:         r.Make,
		Model:        r.Model,
		ISO:          r.ISO,
		FNumber:      r.FNumber,
		ExposureTime: r.ExposureTime,
		ExposureBias: r.ExposureBias,
		FocalLength:  r.FocalLength,
		Focal35mm:    r.Focal35mm,
		WhiteBalance: r.WhiteBalance,
		MeteringMode: r.MeteringMode,
		Flash:        r.Flash,
		DateTime:     r.Timestamp,
		TimeZone:     r.UTCOffset,
		FileSize:     domain.FormatFileSize(r.FileSizeBytes),
		Width:        r.Width,
		Height:       r.Height,
		Software:     r.Software,
		RGB:          r.Color.RGB(),
		Theme:        string(r.Color.Theme),
		Address:      r.Address,
		Caption:      r.Caption,
	}
	if r.GPS != nil {
		p.Lat = strconv.FormatFloat(r.GPS.Latitude, 'f', -1, 64)
		p.Lon = strconv.FormatFloat(r.GPS.Longitude, 'f', -1, 64)
	}
	return p
}

// NewDocument builds a document from records, preserving their order.
func NewDocument(records []domain.PhotoRecord) *Document {
	doc := &Document{Version: Version, Photos: make([]Photo, 0, len(records))}
	for _, r := range records {
		doc.Photos = append(doc.Photos, FromRecord(r))
	}
	return doc
}

func Encode(w io.Writer, doc *Document) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("failed to write xml header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

func Decode(r io.Reader) (*Document, error) {
	doc := &Document{}
	if err := xml.NewDecoder(r).Decode(doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return doc, nil
}

// WriteFile replaces path with doc in a single rename so readers never see a
// partially written document.
func WriteFile(path string, doc *Document) error {
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create sidecar directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write sidecar: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync sidecar: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close sidecar: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to set sidecar permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace sidecar: %w", err)
	}
	return nil
}

func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sidecar: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
