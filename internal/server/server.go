// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	commonerrors "invoice-insights/internal/common/errors"
	"invoice-insights/internal/common/logger"
	"invoice-insights/internal/common/observability"
	"invoice-insights/internal/models"
)

// Dispatcher runs one natural-language question to a terminal envelope or
// error.
type Dispatcher interface {
	Dispatch(ctx context.Context, question string) (*models.QueryResponse, error)
}

// Ingestor upserts a validated batch of records.
type Ingestor interface {
	UpsertRecords(ctx context.Context, records []models.IngestRecord) error
}

type Server struct {
	dispatcher   Dispatcher
	ingestor     Ingestor
	obs          *observability.Observability
	logger       logger.Logger
	queryTimeout time.Duration
	mux          *http.ServeMux
}

func New(dispatcher Dispatcher, ingestor Ingestor, obs *observability.Observability, queryTimeout time.Duration, log logger.Logger) *Server {
	s := &Server{
		dispatcher:   dispatcher,
		ingestor:     ingestor,
		obs:          obs,
		logger:       log.WithFields(map[string]interface{}{"component": "server"}),
		queryTimeout: queryTimeout,
		mux:          http.NewServeMux(),
	}

	s.mux.Handle("/upload-data", s.withRequestContext("/upload-data", http.HandlerFunc(s.handleUploadData)))
	s.mux.Handle("/query", s.withRequestContext("/query", http.HandlerFunc(s.handleQuery)))
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/ready", s.handleHealth)
	s.mux.Handle("/metrics", promhttp.Handler())

	return s
}

// Handler returns the fully routed HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError normalizes any failure into the taxonomy and emits it with the
// mapped status. Nothing is logged-and-suppressed; the caller always sees
// the failure.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	stdErr := commonerrors.Normalize(err)
	status := commonerrors.HTTPStatus(stdErr.Code)

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", map[string]interface{}{
			"path":      r.URL.Path,
			"errorCode": string(stdErr.Code),
			"details":   stdErr.Details,
		})
	} else {
		s.logger.Warn("request rejected", map[string]interface{}{
			"path":      r.URL.Path,
			"errorCode": string(stdErr.Code),
			"message":   stdErr.Message,
		})
	}

	writeJSON(w, status, map[string]interface{}{
		"errorCode": string(stdErr.Code),
		"message":   stdErr.Message,
		"details":   stdErr.Details,
	})
}
