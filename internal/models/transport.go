// internal/models/transport.go
package models

import "encoding/json"

// UploadRequest is the /upload-data payload. Records stay raw until each one
// has passed schema validation; the whole batch is rejected on the first
// invalid record.
type UploadRequest struct {
	Data []json.RawMessage `json:"data"`
}

// UploadResponse acknowledges a fully ingested batch.
type UploadResponse struct {
	Message string `json:"message"`
}

// QueryRequest is the /query payload.
type QueryRequest struct {
	NaturalQuery string `json:"natural_query"`
}

// QueryResponse is the uniform result envelope: a human-readable summary and
// zero or more detail records. The detail shape varies by intent; callers
// must not assume a fixed schema across intents.
type QueryResponse struct {
	Result  string                   `json:"result"`
	Details []map[string]interface{} `json:"details"`
}

// NewQueryResponse returns an envelope with no details. Details is always a
// non-nil slice so it marshals as [] rather than null.
func NewQueryResponse(result string) *QueryResponse {
	return &QueryResponse{Result: result, Details: []map[string]interface{}{}}
}
