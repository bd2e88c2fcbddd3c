// Package extract runs the offline batch that turns a directory of images
// into the gallery's sidecar document.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vbonduro/photofolio/internal/caption"
	"github.com/vbonduro/photofolio/internal/colorsample"
	"github.com/vbonduro/photofolio/internal/domain"
	"github.com/vbonduro/photofolio/internal/exifmeta"
	"github.com/vbonduro/photofolio/internal/metrics"
	"github.com/vbonduro/photofolio/internal/photostore"
	"github.com/vbonduro/photofolio/internal/sidecar"
	"github.com/vbonduro/photofolio/internal/store"
)

type metadataReader interface {
	Read(path string) (domain.Capture, error)
}

type colorSampler interface {
	SampleFile(path string) (domain.Color, error)
}

type thumbnailer interface {
	Ensure(ctx context.Context, srcPath, name string) (bool, error)
}

type geocoder interface {
	Resolve(ctx context.Context, gps domain.GPS) string
}

type runRecorder interface {
	Record(ctx context.Context, run store.Run) error
}

// Options configures a Pipeline. Nil optional stages are skipped.
type Options struct {
	SidecarPath string
	Workers     int

	Metadata  metadataReader
	Colors    colorSampler
	Thumbs    thumbnailer
	Geocoder  geocoder
	Captioner caption.Captioner
	Runs      runRecorder
}

type Summary struct {
	RunID     string
	Processed int
	Failed    int
	Geocoded  int
	Duration  time.Duration
}

type Pipeline struct {
	images      photostore.PhotoStore
	sidecarPath string
	workers     int
	metadata    metadataReader
	colors      colorSampler
	thumbs      thumbnailer
	geocoder    geocoder
	captioner   caption.Captioner
	runs        runRecorder
	logger      *slog.Logger
}

func NewPipeline(images photostore.PhotoStore, opts Options, logger *slog.Logger) *Pipeline {
	p := &Pipeline{
		images:      images,
		sidecarPath: opts.SidecarPath,
		workers:     opts.Workers,
		metadata:    opts.Metadata,
		colors:      opts.Colors,
		thumbs:      opts.Thumbs,
		geocoder:    opts.Geocoder,
		captioner:   opts.Captioner,
		runs:        opts.Runs,
		logger:      logger,
	}
	if p.workers < 1 {
		p.workers = 1
	}
	if p.metadata == nil {
		p.metadata = exifmeta.NewReader()
	}
	if p.colors == nil {
		p.colors = colorsample.NewSampler()
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Run processes every supported image and writes the sidecar once at the end.
// Per-file problems are logged and replaced by sentinel values; only a
// missing image directory, cancellation, or a failed sidecar write abort.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	started := time.Now()
	summary := Summary{RunID: uuid.NewString()}
	logger := p.logger.With("run_id", summary.RunID)

	names, err := Scan(ctx, p.images)
	if err != nil {
		return summary, err
	}
	logger.Info("extraction started", "files", len(names), "workers", p.workers)

	records := make([]domain.PhotoRecord, len(names))
	failed := make([]bool, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records[i], failed[i] = p.processFile(gctx, logger, name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return summary, fmt.Errorf("extraction interrupted: %w", err)
	}

	// Network-bound enrichment runs one file at a time in scan order.
	for i := range records {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("extraction interrupted: %w", err)
		}
		rec := &records[i]
		if p.geocoder != nil && rec.GPS != nil {
			rec.Address = p.geocoder.Resolve(ctx, *rec.GPS)
			if rec.Address != "" {
				summary.Geocoded++
			}
		}
		if p.captioner != nil {
			rec.Caption = p.caption(ctx, logger, rec.FileName)
		}
	}

	if err := sidecar.WriteFile(p.sidecarPath, sidecar.NewDocument(records)); err != nil {
		return summary, err
	}

	summary.Processed = len(records)
	for _, f := range failed {
		if f {
			summary.Failed++
		}
	}
	summary.Duration = time.Since(started)

	metrics.ExtractFilesTotal.WithLabelValues("ok").Add(float64(summary.Processed - summary.Failed))
	metrics.ExtractFilesTotal.WithLabelValues("failed").Add(float64(summary.Failed))

	if p.runs != nil {
		run := store.Run{
			ID:         summary.RunID,
			StartedAt:  started,
			FinishedAt: time.Now(),
			Processed:  summary.Processed,
			Failed:     summary.Failed,
			Geocoded:   summary.Geocoded,
		}
		if err := p.runs.Record(ctx, run); err != nil {
			logger.Warn("failed to record extraction run", "error", err)
		}
	}

	logger.Info("extraction finished",
		"processed", summary.Processed,
		"failed", summary.Failed,
		"geocoded", summary.Geocoded,
		"sidecar", p.sidecarPath,
		"duration", summary.Duration,
	)
	return summary, nil
}

// processFile builds the local part of a record. The bool reports whether
// any stage had to fall back to sentinels because of an error.
func (p *Pipeline) processFile(ctx context.Context, logger *slog.Logger, name string) (domain.PhotoRecord, bool) {
	rec := domain.PhotoRecord{
		FileName: name,
		Capture:  domain.DefaultCapture(),
		Color:    domain.FallbackColor,
	}
	logger = logger.With("file", name)

	path, err := p.images.Path(name)
	if err != nil {
		logger.Warn("skipping metadata for unusable file name", "error", err)
		return rec, true
	}

	failed := false

	capture, err := p.metadata.Read(path)
	rec.Capture = capture
	switch {
	case errors.Is(err, exifmeta.ErrNoMetadata):
		logger.Debug("no embedded metadata", "error", err)
	case err != nil:
		logger.Warn("failed to read metadata", "error", err)
		failed = true
	}

	size, err := p.images.Stat(ctx, name)
	if err != nil {
		logger.Warn("failed to stat file", "error", err)
		failed = true
	}
	rec.FileSizeBytes = size

	color, err := p.colors.SampleFile(path)
	if err != nil {
		logger.Warn("failed to sample color", "error", err)
		failed = true
	}
	rec.Color = color

	if p.thumbs != nil {
		created, err := p.thumbs.Ensure(ctx, path, name)
		if err != nil {
			logger.Warn("failed to generate thumbnail", "error", err)
		} else if created {
			logger.Debug("thumbnail created")
		}
	}

	return rec, failed
}

func (p *Pipeline) caption(ctx context.Context, logger *slog.Logger, name string) string {
	rc, mimeType, err := p.images.Open(ctx, name)
	if err != nil {
		logger.Warn("failed to open image for caption", "file", name, "error", err)
		return ""
	}
	defer rc.Close()

	text, err := p.captioner.Caption(ctx, rc, mimeType)
	if err != nil {
		logger.Warn("failed to caption image", "file", name, "error", err)
		return ""
	}
	return text
}
