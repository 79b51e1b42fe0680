// internal/models/insights.go
package models

// Project is a stored project row. Names follow the ingestion convention
// "Project " + uppercased short code; project resolution in the dispatcher
// depends on that exact shape.
type Project struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Invoice is a stored invoice row. ProjectID is not enforced as a foreign
// key; orphaned references are tolerated.
type Invoice struct {
	ID                 int64   `json:"id"`
	ProjectID          int64   `json:"projectId"`
	VendorName         string  `json:"vendorName"`
	InvoiceNumber      string  `json:"invoiceNumber"`
	TotalClaimedAmount float64 `json:"totalClaimedAmount"`
	BalanceAmount      float64 `json:"balanceAmount"`
	BillingDate        string  `json:"billingDate"`
}

// IngestRecord is one flat record from an upload batch. Each record upserts
// one invoice row and one project row, replace-on-conflict keyed by id.
type IngestRecord struct {
	ID                 int64             `json:"id"`
	ProjectID          int64             `json:"project_id"`
	VendorName         string            `json:"vendor_name"`
	InvoiceNumber      string            `json:"invoice_number"`
	TotalClaimedAmount float64           `json:"total_claimed_amount"`
	Summary            RecordSummary     `json:"summary"`
	BillingDate        string            `json:"billing_date"`
	SummaryText        RecordSummaryText `json:"summary_text"`
}

type RecordSummary struct {
	BalanceToFinishIncludingRetainage float64 `json:"balance_to_finish_including_retainage"`
}

type RecordSummaryText struct {
	ProjectName string `json:"project_name"`
}
