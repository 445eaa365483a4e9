// Package metrics collects and exposes Prometheus metrics for the site.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector gathers site-level Prometheus metrics.
type Collector struct {
	httpRequests  *prometheus.CounterVec
	httpLatency   prometheus.Histogram
	signIns       prometheus.Counter
	postsSaved    prometheus.Counter
	commentsSaved prometheus.Counter
	cacheHits     prometheus.Counter
	cacheMisses   prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with the
// given registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_http_requests_total",
			Help: "HTTP responses by status code.",
		}, []string{"status_code"}),
		httpLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "folio_http_request_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		signIns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "folio_sign_ins_total",
			Help: "Completed Google sign-ins.",
		}),
		postsSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "folio_posts_saved_total",
			Help: "Blog post creates and updates.",
		}),
		commentsSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "folio_comments_saved_total",
			Help: "Comments posted.",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "folio_page_cache_hits_total",
			Help: "Rendered pages served from the Valkey cache.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "folio_page_cache_misses_total",
			Help: "Rendered pages that missed the Valkey cache.",
		}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.signIns,
		c.postsSaved,
		c.commentsSaved,
		c.cacheHits,
		c.cacheMisses,
	)

	return c
}

// RecordRequest records one finished HTTP request.
func (c *Collector) RecordRequest(statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(strconv.Itoa(statusCode)).Inc()
	c.httpLatency.Observe(duration.Seconds())
}

// RecordSignIn counts a completed sign-in.
func (c *Collector) RecordSignIn() { c.signIns.Inc() }

// RecordPostSaved counts a post create or update.
func (c *Collector) RecordPostSaved() { c.postsSaved.Inc() }

// RecordCommentSaved counts a posted comment.
func (c *Collector) RecordCommentSaved() { c.commentsSaved.Inc() }

// RecordCacheHit counts a page cache hit.
func (c *Collector) RecordCacheHit() { c.cacheHits.Inc() }

// RecordCacheMiss counts a page cache miss.
func (c *Collector) RecordCacheMiss() { c.cacheMisses.Inc() }

// Handler returns the HTTP handler that serves the metrics endpoint for
// the given registry.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
