package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pribylovaa/go-local-news/internal/http/middleware"
	"github.com/pribylovaa/go-local-news/internal/models"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	deadline bool
	last     models.Query
}

func (s *stubFetcher) FetchNews(ctx context.Context, q models.Query) models.Result {
	_, s.deadline = ctx.Deadline()
	s.last = q
	return models.Result{Articles: []models.Article{{ID: "x", Title: "t", Category: q.Category}}}
}

type countObserver struct {
	routes []string
}

func (o *countObserver) Observe(route string, _ int) { o.routes = append(o.routes, route) }

func newTestRouter(f *stubFetcher, obs middleware.RequestObserver, basePath string) http.Handler {
	return NewRouter(f, Options{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Timeout:  time.Second,
		Observer: obs,
		BasePath: basePath,
	})
}

func TestRouter_Routes(t *testing.T) {
	f := &stubFetcher{}
	obs := &countObserver{}
	h := newTestRouter(f, obs, "")

	tests := []struct {
		target string
		status int
	}{
		{"/news?category=health", http.StatusOK},
		{"/news/search?q=budget", http.StatusOK},
		{"/news/categories", http.StatusOK},
		{"/news/search", http.StatusBadRequest},
		{"/nope", http.StatusNotFound},
	}

	for _, tc := range tests {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.target, nil))

		require.Equal(t, tc.status, rr.Code, tc.target)
		require.Equal(t, "application/json", rr.Header().Get("Content-Type"), tc.target)
		require.NotEmpty(t, rr.Header().Get("X-Request-Id"), tc.target)
	}

	require.Len(t, obs.routes, len(tests))
	require.Equal(t, []string{"/news", "/news/search", "/news/categories", "/news/search"}, obs.routes[:4])
}

func TestRouter_PassesDeadlineAndQuery(t *testing.T) {
	f := &stubFetcher{}
	h := newTestRouter(f, nil, "")

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/news?category=business&page_size=4", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.True(t, f.deadline)
	require.Equal(t, models.Query{Category: "business", PageSize: 4}, f.last)
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	h := newTestRouter(&stubFetcher{}, nil, "")

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/news", nil)
	req.Header.Set("X-Request-Id", "rid-9")
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	var body struct {
		Error struct {
			Code      string `json:"code"`
			RequestID string `json:"request_id"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "method_not_allowed", body.Error.Code)
	require.Equal(t, "rid-9", body.Error.RequestID)
}

func TestRouter_BasePath(t *testing.T) {
	h := newTestRouter(&stubFetcher{}, nil, "/api")

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/news/categories", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/news/categories", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
}
