package middleware

import (
	"net/http"
	"time"

	"modboard/app/metrics"

	"github.com/gorilla/mux"
)

// Metrics records request counts and latency per route template, so
// /api/posts/1 and /api/posts/2 share one series.
func Metrics(rec *metrics.Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(sr, r)
			rec.ObserveRequest(r.Method, routeTemplate(r), sr.code(), time.Since(start))
		})
	}
}

func routeTemplate(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return "unmatched"
	}
	tpl, err := route.GetPathTemplate()
	if err != nil {
		return "unmatched"
	}
	return tpl
}
