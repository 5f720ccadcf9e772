package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/podscript/internal/api/shared"
	"github.com/phrazzld/podscript/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceMiddleware(t *testing.T) {
	log, buf := logger.GetTestLogger(t)

	var traceID, requestID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		requestID = logger.RequestID(r.Context())
		logger.FromContext(r.Context()).Info("handled")
		w.WriteHeader(http.StatusNoContent)
	})

	handler := chimiddleware.RequestID(NewTraceMiddleware(log)(next))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/voices", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.Len(t, traceID, shared.TraceIDLength)
	assert.NotEmpty(t, requestID)
	assert.Equal(t, traceID, rec.Header().Get("X-Trace-Id"))

	entries := buf.EntriesWithMessage(t, "handled")
	require.Len(t, entries, 1)
	assert.Equal(t, traceID, entries[0]["trace_id"])
	assert.Equal(t, requestID, entries[0]["request_id"])

	started := buf.EntriesWithMessage(t, "request started")
	require.Len(t, started, 1)
	assert.Equal(t, "/api/voices", started[0]["path"])
}

func TestTraceMiddleware_UniquePerRequest(t *testing.T) {
	log, _ := logger.GetTestLogger(t)

	var ids []string
	handler := NewTraceMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids = append(ids, shared.GetTraceID(r.Context()))
	}))

	for i := 0; i < 3; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}
	require.Len(t, ids, 3)
	assert.NotEqual(t, ids[0], ids[1])
	assert.NotEqual(t, ids[1], ids[2])
}
