// internal/server/ingest.go
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	commonerrors "invoice-insights/internal/common/errors"
	"invoice-insights/internal/common/metrics"
	"invoice-insights/internal/models"
)

// ingestRecordSchema mirrors the upstream export format. The balance lives
// under summary and the project name under summary_text; total_claimed_amount
// must be non-negative while the balance may go negative on overpayment.
const ingestRecordSchema = `{
	"type": "object",
	"required": ["id", "project_id", "vendor_name", "invoice_number",
	             "total_claimed_amount", "summary", "billing_date", "summary_text"],
	"properties": {
		"id":                   {"type": "integer"},
		"project_id":           {"type": "integer"},
		"vendor_name":          {"type": "string"},
		"invoice_number":       {"type": "string"},
		"total_claimed_amount": {"type": "number", "minimum": 0},
		"summary": {
			"type": "object",
			"required": ["balance_to_finish_including_retainage"],
			"properties": {
				"balance_to_finish_including_retainage": {"type": "number"}
			}
		},
		"billing_date": {"type": "string"},
		"summary_text": {
			"type": "object",
			"required": ["project_name"],
			"properties": {
				"project_name": {"type": "string"}
			}
		}
	}
}`

var recordSchema = gojsonschema.NewStringLoader(ingestRecordSchema)

func (s *Server) handleUploadData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var payload models.UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeError(w, r, commonerrors.NewValidationFailedError(fmt.Sprintf("decode payload: %v", err)))
		return
	}

	records, err := validateRecords(payload.Data)
	if err != nil {
		metrics.IngestBatchesTotal.WithLabelValues("rejected").Inc()
		s.writeError(w, r, err)
		return
	}

	if err := s.ingestor.UpsertRecords(r.Context(), records); err != nil {
		metrics.IngestBatchesTotal.WithLabelValues("failed").Inc()
		s.writeError(w, r, commonerrors.NewQueryExecutionFailedError("upsert_records", err))
		return
	}

	metrics.IngestBatchesTotal.WithLabelValues("ok").Inc()
	metrics.IngestRecordsTotal.Add(float64(len(records)))

	writeJSON(w, http.StatusOK, models.UploadResponse{Message: "Data uploaded successfully."})
}

// validateRecords checks every raw record against the schema before any of
// them is decoded. The first invalid record rejects the batch; nothing is
// written on a partial failure.
func validateRecords(raw []json.RawMessage) ([]models.IngestRecord, error) {
	records := make([]models.IngestRecord, 0, len(raw))

	for i, doc := range raw {
		result, err := gojsonschema.Validate(recordSchema, gojsonschema.NewBytesLoader(doc))
		if err != nil {
			return nil, commonerrors.NewValidationFailedError(
				fmt.Sprintf("record %d: %v", i, err))
		}
		if !result.Valid() {
			errs := make([]string, len(result.Errors()))
			for j, desc := range result.Errors() {
				errs[j] = desc.String()
			}
			return nil, commonerrors.NewValidationFailedError(
				fmt.Sprintf("record %d: %s", i, strings.Join(errs, "; ")))
		}

		var rec models.IngestRecord
		if err := json.Unmarshal(doc, &rec); err != nil {
			return nil, commonerrors.NewValidationFailedError(
				fmt.Sprintf("record %d: %v", i, err))
		}
		records = append(records, rec)
	}

	return records, nil
}
