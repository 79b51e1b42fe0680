// internal/server/query.go
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	commonerrors "invoice-insights/internal/common/errors"
	"invoice-insights/internal/models"
)

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var payload models.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeError(w, r, commonerrors.NewValidationFailedError(fmt.Sprintf("decode payload: %v", err)))
		return
	}
	if strings.TrimSpace(payload.NaturalQuery) == "" {
		s.writeError(w, r, commonerrors.NewValidationFailedError("natural_query must not be empty"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.queryTimeout)
	defer cancel()

	response, err := s.dispatcher.Dispatch(ctx, payload.NaturalQuery)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response)
}
