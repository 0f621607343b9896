package handler

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"pdf-converter/internal/domain"
	"pdf-converter/internal/service"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pdfconverter_http_requests_total",
		Help: "HTTP requests, by method and status code.",
	}, []string{"method", "code"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pdfconverter_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
)

// APIKeyMiddleware resolves the X-API-Key header to a user and stores it in
// the request context. Requests without a valid key are rejected.
func APIKeyMiddleware(users *service.UserService, logger domain.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := r.Header.Get("X-API-Key")
			if apiKey == "" {
				writeError(w, http.StatusUnauthorized, "X-API-Key header required")
				return
			}

			user, err := users.Identify(r.Context(), apiKey)
			if err != nil {
				logger.Warn("API key rejected", "remote", clientIP(r))
				writeError(w, http.StatusUnauthorized, "Invalid API key")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AllowedHostsMiddleware rejects requests whose Host header is not on the
// allow list. An empty list allows everything in debug mode and nothing
// otherwise; config.Load rejects an empty list when DEBUG is false.
func AllowedHostsMiddleware(allowedHosts []string, debug bool) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(allowedHosts))
	for _, h := range allowedHosts {
		allowed[h] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(allowed) == 0 {
				if !debug {
					writeError(w, http.StatusBadRequest, "Invalid Host header")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			host := r.Host
			if h, _, err := net.SplitHostPort(host); err == nil {
				host = h
			}
			if !allowed[host] && !allowed["*"] {
				writeError(w, http.StatusBadRequest, "Invalid Host header")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// statusRecorder captures the response code for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// MetricsMiddleware records request counts and latency.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		httpRequestsTotal.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
	})
}
