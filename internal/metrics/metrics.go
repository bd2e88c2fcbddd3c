// Package metrics holds the Prometheus collectors shared by the extraction
// pipeline and the web server.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ExtractFilesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photofolio_extract_files_total",
			Help: "Files handled by the extraction pipeline, by result.",
		},
		[]string{"result"},
	)

	GeocodeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photofolio_geocode_requests_total",
			Help: "Reverse-geocoding requests sent to the external service, by result.",
		},
		[]string{"result"},
	)

	GeocodeCacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photofolio_geocode_cache_hits_total",
			Help: "Reverse-geocoding lookups answered from a cache, by tier.",
		},
		[]string{"tier"},
	)

	GalleryPhotos = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "photofolio_gallery_photos",
		Help: "Photos in the most recently loaded sidecar document.",
	})

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photofolio_http_requests_total",
			Help: "HTTP requests served.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photofolio_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// Middleware records request counts and latency per normalised route.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		path := routeLabel(r)
		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// routeLabel names the ServeMux pattern that served r, which ServeMux records
// on the request. Requests no route matched share one label so scans of
// unknown paths cannot grow the series count.
func routeLabel(r *http.Request) string {
	pattern := r.Pattern
	if pattern == "" {
		return "other"
	}
	if _, path, ok := strings.Cut(pattern, " "); ok {
		pattern = path
	}
	if pattern == "/{$}" {
		return "/"
	}
	return pattern
}
