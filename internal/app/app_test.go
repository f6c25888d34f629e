package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alex-user-go/hotelgateway/internal/config"
	"github.com/alex-user-go/hotelgateway/internal/obs"
)

func newTestRouter(t *testing.T, upstream http.HandlerFunc) (http.Handler, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		upstream(w, r)
	}))
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Config{
		Port:        config.DefaultPort,
		APIKey:      "test-key",
		UpstreamURL: srv.URL + "/search.json",
	}
	return NewRouter(cfg, obs.NewMetrics(logger), logger), &calls
}

func TestRouter_Hotels(t *testing.T) {
	router, calls := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.json", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		_, _ = io.WriteString(w, `{"hotels_results":[{"name":"Hotel A"}]}`)
	})

	req := httptest.NewRequest(http.MethodGet, "/hotels?q=hotels%20in%20paris", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"name":"Hotel A"}]`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.EqualValues(t, 1, calls.Load())
}

func TestRouter_MissingQuery(t *testing.T) {
	router, calls := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called")
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hotels", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Required parameter: q (search query)"}`, rec.Body.String())
	assert.Zero(t, calls.Load())
}

func TestRouter_UpstreamFailure(t *testing.T) {
	router, calls := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hotels?q=paris", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch hotels"}`, rec.Body.String())
	assert.EqualValues(t, 1, calls.Load())
}

func TestRouter_Preflight(t *testing.T) {
	router, calls := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodOptions, "/hotels", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Zero(t, calls.Load())
}

func TestRouter_OperationalRoutes(t *testing.T) {
	router, _ := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})

	// Generate one upstream observation so it shows up in /metrics.
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/hotels?q=paris", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `hotelgateway_requests_total{method="GET",route="/hotels",status="200"} 1`)
	assert.Contains(t, rec.Body.String(), `hotelgateway_upstream_requests_total{outcome="success"} 1`)
}

func TestRouter_UnknownRoutes(t *testing.T) {
	router, _ := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Route not found"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/hotels?q=paris", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.JSONEq(t, `{"error":"Method not allowed"}`, rec.Body.String())
}

func TestRouter_HeadFollowsGet(t *testing.T) {
	router, calls := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"hotels_results":[]}`)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/hotels?q=paris", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.EqualValues(t, 1, calls.Load())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/hotels", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.EqualValues(t, 1, calls.Load())
}
