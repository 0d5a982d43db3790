package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-staffing/internal/httpx"
	"restaurant-staffing/internal/logger"
)

type pingHandler struct{}

func (pingHandler) Routes(r chi.Router) {
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	r.Get("/echo-id", func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"id": httpx.RequestID(r.Context())})
	})
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name   string
		check  HealthCheck
		status int
	}{
		{"no check", nil, http.StatusOK},
		{"healthy", func(context.Context) error { return nil }, http.StatusOK},
		{"down", func(context.Context) error { return errors.New("db down") }, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewRouter(logger.Discard(), tt.check).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestHandlersMountedUnderAPI(t *testing.T) {
	router := NewRouter(logger.Discard(), nil, pingHandler{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/echo-id", nil)
	req.Header.Set(httpx.RequestIDHeader, "req-42")
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "req-42")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/echo-id", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecoverer(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set(httpx.RequestIDHeader, "req-panic")
	NewRouter(logger.Discard(), nil, pingHandler{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
	assert.Contains(t, rec.Body.String(), "req-panic")
}

func TestRecoverer_OverRealConnection(t *testing.T) {
	srv := httptest.NewServer(NewRouter(logger.Discard(), nil, pingHandler{}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/ping")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
