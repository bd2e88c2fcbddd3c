package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vbonduro/photofolio/internal/caption"
	claudecaption "github.com/vbonduro/photofolio/internal/caption/claude"
	ollamacaption "github.com/vbonduro/photofolio/internal/caption/ollama"
	"github.com/vbonduro/photofolio/internal/config"
	"github.com/vbonduro/photofolio/internal/db"
	"github.com/vbonduro/photofolio/internal/extract"
	"github.com/vbonduro/photofolio/internal/geocode"
	"github.com/vbonduro/photofolio/internal/geocode/nominatim"
	"github.com/vbonduro/photofolio/internal/logging"
	"github.com/vbonduro/photofolio/internal/photostore"
	"github.com/vbonduro/photofolio/internal/photostore/local"
	"github.com/vbonduro/photofolio/internal/store"
	"github.com/vbonduro/photofolio/internal/thumbnail"
	"github.com/vbonduro/photofolio/internal/web"
	"github.com/vbonduro/photofolio/internal/web/templates"
)

const usage = `usage: photofolio <command> [flags]

commands:
  extract   read image metadata and write the photo document
  serve     serve the gallery over HTTP

Run "photofolio <command> -h" for command flags.`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch os.Args[1] {
	case "extract":
		err = runExtract(ctx, cfg, logger, os.Args[2:])
	case "serve":
		err = runServe(ctx, cfg, logger, os.Args[2:])
	case "-h", "--help", "help":
		fmt.Println(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s\n", os.Args[1], usage)
		stop()
		cleanup()
		os.Exit(2)
	}

	if err != nil && !errors.Is(err, flag.ErrHelp) {
		logger.Error("command failed", "command", os.Args[1], "error", err)
		stop()
		cleanup()
		os.Exit(1)
	}
}

func runExtract(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("extract", flag.ContinueOnError)
	dir := fs.String("dir", cfg.ImageDir, "directory of source images")
	thumbDir := fs.String("thumb-dir", cfg.ThumbDir, "directory for generated thumbnails")
	out := fs.String("out", cfg.SidecarPath, "path of the photo document to write")
	workers := fs.Int("workers", cfg.Workers, "files processed in parallel")
	noGeocode := fs.Bool("no-geocode", !cfg.GeocodeEnabled, "skip reverse geocoding")
	noThumbs := fs.Bool("no-thumbs", !cfg.GenerateThumbs, "skip thumbnail generation")
	if err := fs.Parse(args); err != nil {
		return err
	}

	images, err := local.NewLocalPhotoStore(*dir)
	if err != nil {
		return fmt.Errorf("%w: %v", extract.ErrImageDirMissing, err)
	}

	opts := extract.Options{
		SidecarPath: *out,
		Workers:     *workers,
	}

	if !*noThumbs {
		thumbs, err := local.NewLocalPhotoStoreCreate(*thumbDir)
		if err != nil {
			return err
		}
		opts.Thumbs = thumbnail.NewGenerator(thumbs, cfg.ThumbWidth)
	}

	database := openCache(cfg, logger)
	if database != nil {
		defer func() {
			if err := database.Close(); err != nil {
				logger.Error("failed to close database", "error", err)
			}
		}()
		opts.Runs = store.NewRunStore(database)
	}

	if !*noGeocode {
		var cache geocode.Cache
		if database != nil {
			cache = store.NewGeocodeStore(database)
		}
		client := nominatim.NewClient(cfg.GeocodeURL, cfg.GeocodeUserAgent, cfg.GeocodeLanguage)
		svc, err := geocode.NewService(client, cfg.GeocodeInterval, cache, logger)
		if err != nil {
			return err
		}
		opts.Geocoder = svc
	}

	opts.Captioner = newCaptioner(cfg, logger)

	_, err = extract.NewPipeline(images, opts, logger).Run(ctx)
	return err
}

func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", cfg.ListenAddr, "listen address")
	dir := fs.String("dir", cfg.ImageDir, "directory of source images")
	thumbDir := fs.String("thumb-dir", cfg.ThumbDir, "directory of thumbnails")
	doc := fs.String("doc", cfg.SidecarPath, "path of the photo document")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var images photostore.PhotoStore
	if is, err := local.NewLocalPhotoStore(*dir); err == nil {
		images = is
	} else {
		logger.Warn("image directory unavailable, image requests will 404", "dir", *dir, "error", err)
	}

	var thumbs photostore.PhotoStore
	if ts, err := local.NewLocalPhotoStore(*thumbDir); err == nil {
		thumbs = ts
	} else {
		logger.Warn("thumbnail directory unavailable, serving originals", "error", err)
	}

	server, err := web.NewServer(*doc, images, thumbs, templates.FS, logger)
	if err != nil {
		return err
	}

	if database := openCache(cfg, logger); database != nil {
		defer func() {
			if err := database.Close(); err != nil {
				logger.Error("failed to close database", "error", err)
			}
		}()
		server.WithRunHistory(store.NewRunStore(database))
	}
	return server.ListenAndServe(ctx, *addr)
}

// openCache opens the persistent cache database holding geocode results and
// run history. Failure disables it rather than the command.
func openCache(cfg *config.Config, logger *slog.Logger) *sql.DB {
	if cfg.CacheDBPath == "" {
		return nil
	}
	database, err := db.Open(cfg.CacheDBPath)
	if err != nil {
		logger.Warn("failed to open cache database, continuing without it", "path", cfg.CacheDBPath, "error", err)
		return nil
	}
	return database
}

func newCaptioner(cfg *config.Config, logger *slog.Logger) caption.Captioner {
	switch cfg.CaptionBackend {
	case "claude":
		if cfg.ClaudeAPIKey == "" {
			logger.Error("CLAUDE_API_KEY is required when CAPTION_BACKEND=claude")
			return nil
		}
		logger.Info("using Claude caption backend", "model", cfg.ClaudeModel)
		return claudecaption.NewClaudeCaptioner(cfg.ClaudeAPIKey, cfg.ClaudeModel)
	case "ollama":
		logger.Info("using Ollama caption backend", "model", cfg.OllamaModel)
		return ollamacaption.NewOllamaCaptioner(cfg.OllamaHost, cfg.OllamaModel)
	default:
		return nil
	}
}
