package middleware

import (
	"net/http"
	"time"

	"folio/internal/metrics"
)

// Metrics records request counts and latency for every response.
func Metrics(collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)
			collector.RecordRequest(wrapped.statusCode, time.Since(start))
		})
	}
}
