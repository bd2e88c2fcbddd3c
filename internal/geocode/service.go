package geocode

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/vbonduro/photofolio/internal/domain"
	"github.com/vbonduro/photofolio/internal/metrics"
)

const memoSize = 4096

// Cache is a persistent address cache keyed by rounded coordinates.
type Cache interface {
	Get(ctx context.Context, key string) (address string, found bool, err error)
	Put(ctx context.Context, key string, lat, lon float64, address string) error
}

// Service resolves coordinates through a Reverser behind a shared
// minimum-interval gate. Lookups are answered from an in-memory memo first,
// then the optional persistent cache, and only then from the network.
// A failed lookup yields an empty address and is not retried by this Service.
type Service struct {
	reverser Reverser
	limiter  *rate.Limiter
	memo     *lru.Cache[string, string]
	cache    Cache
	logger   *slog.Logger
}

// NewService builds a Service. cache may be nil. interval <= 0 disables the gate.
func NewService(r Reverser, interval time.Duration, cache Cache, logger *slog.Logger) (*Service, error) {
	memo, err := lru.New[string, string](memoSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create geocode memo: %w", err)
	}

	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		reverser: r,
		limiter:  rate.NewLimiter(limit, 1),
		memo:     memo,
		cache:    cache,
		logger:   logger,
	}, nil
}

// Resolve returns the formatted address for gps or "" when none is known.
func (s *Service) Resolve(ctx context.Context, gps domain.GPS) string {
	key := CacheKey(gps.Latitude, gps.Longitude)

	if address, ok := s.memo.Get(key); ok {
		metrics.GeocodeCacheHitsTotal.WithLabelValues("memory").Inc()
		return address
	}

	if s.cache != nil {
		address, found, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("geocode cache read failed", "key", key, "error", err)
		} else if found {
			metrics.GeocodeCacheHitsTotal.WithLabelValues("sqlite").Inc()
			s.memo.Add(key, address)
			return address
		}
	}

	address, err := s.lookup(ctx, gps)
	switch {
	case err == nil:
		metrics.GeocodeRequestsTotal.WithLabelValues("ok").Inc()
	case errors.Is(err, ErrNoAddress):
		metrics.GeocodeRequestsTotal.WithLabelValues("empty").Inc()
		s.logger.Debug("no address for coordinates", "lat", gps.Latitude, "lon", gps.Longitude)
	default:
		metrics.GeocodeRequestsTotal.WithLabelValues("error").Inc()
		s.logger.Warn("reverse geocoding failed", "lat", gps.Latitude, "lon", gps.Longitude, "error", err)
		if ctx.Err() == nil {
			s.memo.Add(key, "")
		}
		return ""
	}

	s.memo.Add(key, address)
	if s.cache != nil {
		if err := s.cache.Put(ctx, key, gps.Latitude, gps.Longitude, address); err != nil {
			s.logger.Warn("geocode cache write failed", "key", key, "error", err)
		}
	}
	return address
}

func (s *Service) lookup(ctx context.Context, gps domain.GPS) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("failed to wait for geocode slot: %w", err)
	}

	addr, err := s.reverser.Reverse(ctx, gps.Latitude, gps.Longitude)
	if err != nil {
		return "", err
	}
	return addr.Format()
}

// CacheKey rounds coordinates to four decimal places (about 11 m).
func CacheKey(lat, lon float64) string {
	return fmt.Sprintf("%.4f,%.4f", round4(lat), round4(lon))
}

func round4(v float64) float64 {
	r := math.Round(v*1e4) / 1e4
	if r == 0 {
		return 0
	}
	return r
}
