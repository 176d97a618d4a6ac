// Package metrics exposes moderation and HTTP counters to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Cause labels why a report changed state.
const (
	CauseModerator = "moderator"
	CauseCascade   = "cascade"
)

// Recorder holds the collectors. A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry          *prometheus.Registry
	postTransitions   *prometheus.CounterVec
	reportTransitions *prometheus.CounterVec
	contentCreated    *prometheus.CounterVec
	contentDeleted    *prometheus.CounterVec
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

// New registers every collector on a fresh registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		postTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "modboard",
			Name:      "post_status_changes_total",
			Help:      "Post status writes by target status.",
		}, []string{"status"}),
		reportTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "modboard",
			Name:      "report_status_changes_total",
			Help:      "Report status changes by target status and cause.",
		}, []string{"status", "cause"}),
		contentCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "modboard",
			Name:      "content_created_total",
			Help:      "Created posts, comments and reports.",
		}, []string{"kind"}),
		contentDeleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "modboard",
			Name:      "content_deleted_total",
			Help:      "Hard-deleted posts and comments, cascades included.",
		}, []string{"kind"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "modboard",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "modboard",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	r.registry.MustRegister(
		r.postTransitions,
		r.reportTransitions,
		r.contentCreated,
		r.contentDeleted,
		r.httpRequests,
		r.httpDuration,
		collectors.NewGoCollector(),
	)
	return r
}

func (r *Recorder) PostStatusChanged(status string) {
	if r == nil {
		return
	}
	r.postTransitions.WithLabelValues(status).Inc()
}

func (r *Recorder) ReportStatusChanged(status, cause string) {
	if r == nil {
		return
	}
	r.reportTransitions.WithLabelValues(status, cause).Inc()
}

func (r *Recorder) Created(kind string) {
	if r == nil {
		return
	}
	r.contentCreated.WithLabelValues(kind).Inc()
}

func (r *Recorder) Deleted(kind string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.contentDeleted.WithLabelValues(kind).Add(float64(n))
}

// ObserveRequest records one served HTTP request.
func (r *Recorder) ObserveRequest(method, route string, code int, took time.Duration) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(took.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the registry for tests and embedding.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}
