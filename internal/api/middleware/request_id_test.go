package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aircast/aircast/internal/api/middleware"
)

func TestRequestID_Generates(t *testing.T) {
	var captured string
	handler := middleware.RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		captured = middleware.GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, captured)
	assert.Equal(t, captured, rec.Header().Get("X-Request-Id"))
	assert.Contains(t, captured, "req_")
}

func TestRequestID_PropagatesIncoming(t *testing.T) {
	var captured string
	handler := middleware.RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		captured = middleware.GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "req_incoming")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "req_incoming", captured)
	assert.Equal(t, "req_incoming", rec.Header().Get("X-Request-Id"))
}

func TestGetRequestID_Absent(t *testing.T) {
	assert.Empty(t, middleware.GetRequestID(t.Context()))
}
