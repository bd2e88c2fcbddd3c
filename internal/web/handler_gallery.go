package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/vbonduro/photofolio/internal/gallery"
	"github.com/vbonduro/photofolio/internal/metrics"
	"github.com/vbonduro/photofolio/internal/modal"
	"github.com/vbonduro/photofolio/internal/photostore"
)

// defaultWidth picks the column bucket when the client has not reported its
// viewport yet.
const defaultWidth = 1440

type galleryView struct {
	Photos         []gallery.Photo
	Columns        [][]gallery.Photo
	ColumnCount    int
	Width          int
	LoadError      bool
	Modal          *modalView
	SwipeThreshold int
	LoadTimeoutMs  int64
}

type modalView struct {
	Photo gallery.Photo
	Total int
	Prev  int
	Next  int
	Width int
}

type layoutResponse struct {
	Width   int     `json:"width"`
	Columns int     `json:"columns"`
	Assign  [][]int `json:"assign"`
}

// loadPhotos reads the sidecar for this request. A load failure is logged
// and yields an empty gallery so the page still renders.
func (s *Server) loadPhotos(r *http.Request) ([]gallery.Photo, bool) {
	photos, err := gallery.Load(s.sidecarPath)
	if err != nil {
		s.logger.Warn("failed to load photo document",
			"path", s.sidecarPath,
			"request_id", requestIDFrom(r.Context()),
			"error", err,
		)
		metrics.GalleryPhotos.Set(0)
		return nil, true
	}
	metrics.GalleryPhotos.Set(float64(len(photos)))
	return photos, false
}

func (s *Server) handleGallery(w http.ResponseWriter, r *http.Request) {
	photos, loadErr := s.loadPhotos(r)
	view := s.newGalleryView(photos, loadErr, parseWidth(r))

	if raw := r.URL.Query().Get("photo"); raw != "" {
		i, err := strconv.Atoi(raw)
		if err == nil {
			view.Modal, err = newModalView(photos, i, view.Width)
		}
		if err != nil {
			s.logger.Debug("ignoring invalid photo parameter", "photo", raw, "error", err)
		}
	}

	if err := s.renderPage(w, "gallery", view); err != nil {
		s.logger.Error("render page error", "error", err)
	}
}

func (s *Server) handlePhoto(w http.ResponseWriter, r *http.Request) {
	i, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		http.Error(w, "invalid photo index", http.StatusBadRequest)
		return
	}

	photos, loadErr := s.loadPhotos(r)
	width := parseWidth(r)
	mv, err := newModalView(photos, i, width)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if r.Header.Get("HX-Request") == "true" {
		if err := s.renderPartial(w, "modal", "modal", mv); err != nil {
			s.logger.Error("render partial error", "error", err)
		}
		return
	}

	view := s.newGalleryView(photos, loadErr, width)
	view.Modal = mv
	if err := s.renderPage(w, "gallery", view); err != nil {
		s.logger.Error("render page error", "error", err)
	}
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	photos, _ := s.loadPhotos(r)
	width := parseWidth(r)
	k := gallery.ColumnCount(width)

	w.Header().Set("Content-Type", "application/json")
	resp := layoutResponse{
		Width:   width,
		Columns: k,
		Assign:  gallery.Assign(gallery.Ratios(photos), k),
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("write layout failed", "error", err)
	}
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	s.serveFromStore(w, r, s.images, r.PathValue("name"))
}

// handleThumb serves the thumbnail, or the original when no thumbnail exists.
func (s *Server) handleThumb(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if s.thumbs != nil && s.thumbs.Exists(r.Context(), name) {
		s.serveFromStore(w, r, s.thumbs, name)
		return
	}
	s.serveFromStore(w, r, s.images, name)
}

func (s *Server) serveFromStore(w http.ResponseWriter, r *http.Request, store photostore.PhotoStore, name string) {
	if store == nil {
		http.NotFound(w, r)
		return
	}
	reader, mimeType, err := store.Open(r.Context(), name)
	if err != nil {
		if errors.Is(err, photostore.ErrNotFound) || errors.Is(err, photostore.ErrInvalidName) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "failed to open image", http.StatusInternalServerError)
		s.logger.Error("open image failed", "name", name, "error", err)
		return
	}
	defer closeWithLog(reader, "image reader", s.logger)

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := io.Copy(w, reader); err != nil {
		s.logger.Error("write image failed", "name", name, "error", err)
	}
}

func (s *Server) handleSidecar(w http.ResponseWriter, r *http.Request) {
	f, err := os.Open(s.sidecarPath)
	if err != nil {
		if os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "failed to open photo document", http.StatusInternalServerError)
		s.logger.Error("open sidecar failed", "error", err)
		return
	}
	defer closeWithLog(f, "sidecar", s.logger)

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := io.Copy(w, f); err != nil {
		s.logger.Error("write sidecar failed", "error", err)
	}
}

// handleHealth reports liveness, followed by the last recorded extraction run
// when run history is available. A history lookup failure does not fail the
// check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
	if s.runs == nil {
		return
	}
	run, err := s.runs.Latest(r.Context())
	if err != nil {
		s.logger.Warn("failed to read last extraction run", "error", err)
		return
	}
	if run == nil {
		_, _ = io.WriteString(w, "last_run none\n")
		return
	}
	_, _ = fmt.Fprintf(w, "last_run %s finished=%s processed=%d failed=%d geocoded=%d\n",
		run.ID, run.FinishedAt.UTC().Format(time.RFC3339), run.Processed, run.Failed, run.Geocoded)
}

func (s *Server) newGalleryView(photos []gallery.Photo, loadErr bool, width int) *galleryView {
	cols := gallery.Columns(photos, width)
	return &galleryView{
		Photos:         photos,
		Columns:        cols,
		ColumnCount:    len(cols),
		Width:          width,
		LoadError:      loadErr,
		SwipeThreshold: modal.SwipeThreshold,
		LoadTimeoutMs:  modal.LoadTimeout.Milliseconds(),
	}
}

// newModalView validates i through the modal controller and computes the
// wrap-around neighbours used by the no-script navigation links.
func newModalView(photos []gallery.Photo, i, width int) (*modalView, error) {
	c := modal.New(len(photos))
	if _, err := c.Open(i); err != nil {
		return nil, err
	}
	return &modalView{
		Photo: photos[i],
		Total: len(photos),
		Prev:  modal.PrevIndex(i, len(photos)),
		Next:  modal.NextIndex(i, len(photos)),
		Width: width,
	}, nil
}

func parseWidth(r *http.Request) int {
	w, err := strconv.Atoi(r.URL.Query().Get("w"))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}
