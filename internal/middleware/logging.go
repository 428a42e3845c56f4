// Package middleware holds the HTTP wrappers shared by the backend and the
// web frontend.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// Logging logs one line per request with its status and duration, and
// tags the request with an id unless the caller sent one.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(RequestIDHeader, id)
		}
		w.Header().Set(RequestIDHeader, id)

		m := httpsnoop.CaptureMetrics(next, w, r)
		slog.Info("handled",
			"method", r.Method,
			"url", r.URL.String(),
			"status", m.Code,
			"bytes", m.Written,
			"duration", m.Duration,
			"request_id", id,
		)
	})
}
