// internal/server/middleware.go
package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"invoice-insights/internal/common/metrics"
)

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withRequestContext tags each request with an id, logs it, and records
// request metrics on both the promauto and OTel pipelines.
func (s *Server) withRequestContext(path string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		duration := time.Since(start)
		status := strconv.Itoa(recorder.status)

		metrics.HTTPRequestsTotal.WithLabelValues(path, status).Inc()
		if s.obs != nil {
			s.obs.RecordRequest(r.Context(), path, status)
			s.obs.RecordRequestDuration(r.Context(), duration, path)
		}

		s.logger.Info("request handled", map[string]interface{}{
			"requestId":  requestID,
			"path":       path,
			"method":     r.Method,
			"status":     recorder.status,
			"durationMs": duration.Milliseconds(),
		})
	})
}
