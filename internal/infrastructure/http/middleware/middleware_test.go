package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edustore/checkout-service/internal/pkg/logger"
)

func TestResponseWriterWrapperTracksStatusAndBytes(t *testing.T) {
	rec := httptest.NewRecorder()
	wrw := &responseWriterWrapper{ResponseWriter: rec, statusCode: http.StatusOK}

	wrw.WriteHeader(http.StatusAccepted)
	n, err := wrw.Write([]byte("payload"))

	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, http.StatusAccepted, wrw.statusCode)
	assert.Equal(t, 7, wrw.bytes)
}

func TestLoggingMiddlewarePassesResponseThrough(t *testing.T) {
	handler := NewLoggingMiddleware(logger.NewLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("created"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cart/items", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "created", rec.Body.String())
}

func TestRecoveryMiddlewareWritesJSONError(t *testing.T) {
	handler := NewRecoveryMiddleware(logger.NewLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/checkout", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "internal")
}
