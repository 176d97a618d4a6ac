package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorderCounts(t *testing.T) {
	r := New()
	r.PostStatusChanged("approved")
	r.PostStatusChanged("approved")
	r.ReportStatusChanged("resolved", CauseCascade)
	r.Created("post")
	r.Deleted("comment", 3)
	r.Deleted("comment", 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.postTransitions.WithLabelValues("approved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.reportTransitions.WithLabelValues("resolved", CauseCascade)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.contentCreated.WithLabelValues("post")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.contentDeleted.WithLabelValues("comment")))
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.PostStatusChanged("approved")
		r.ReportStatusChanged("dismissed", CauseModerator)
		r.Created("report")
		r.Deleted("post", 1)
		r.ObserveRequest("GET", "/api/posts", 200, time.Millisecond)
	})

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandlerExposition(t *testing.T) {
	r := New()
	r.ObserveRequest("GET", "/api/posts", 200, 20*time.Millisecond)

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `modboard_http_requests_total{code="200",method="GET",route="/api/posts"} 1`)
}
