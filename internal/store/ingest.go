// internal/store/ingest.go
package store

import (
	"context"
	"fmt"

	"invoice-insights/internal/models"
)

const (
	upsertInvoiceSQL = `
		INSERT INTO invoices (id, project_id, vendor_name, invoice_number,
		                      total_claimed_amount, balance_amount, billing_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			project_id           = EXCLUDED.project_id,
			vendor_name          = EXCLUDED.vendor_name,
			invoice_number       = EXCLUDED.invoice_number,
			total_claimed_amount = EXCLUDED.total_claimed_amount,
			balance_amount       = EXCLUDED.balance_amount,
			billing_date         = EXCLUDED.billing_date`

	upsertProjectSQL = `
		INSERT INTO projects (id, name)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`
)

// UpsertRecords writes one invoice row and one project row per record,
// replace-on-conflict keyed by id. The batch runs in a single transaction:
// either every record lands or none does.
func (s *Store) UpsertRecords(ctx context.Context, records []models.IngestRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ingest transaction: %w", err)
	}

	for _, rec := range records {
		if _, err := tx.ExecContext(ctx, upsertInvoiceSQL,
			rec.ID, rec.ProjectID, rec.VendorName, rec.InvoiceNumber,
			rec.TotalClaimedAmount, rec.Summary.BalanceToFinishIncludingRetainage,
			rec.BillingDate); err != nil {
			tx.Rollback()
			return fmt.Errorf("upsert invoice %d: %w", rec.ID, err)
		}

		if _, err := tx.ExecContext(ctx, upsertProjectSQL,
			rec.ProjectID, rec.SummaryText.ProjectName); err != nil {
			tx.Rollback()
			return fmt.Errorf("upsert project %d: %w", rec.ProjectID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ingest transaction: %w", err)
	}

	// Refresh the name cache only after the rows are durable, so a failed
	// batch never leaves stale name-to-id entries behind.
	for _, rec := range records {
		s.cacheProjectID(ctx, rec.SummaryText.ProjectName, rec.ProjectID)
	}

	s.logger.Info("batch ingested", map[string]interface{}{
		"records": len(records),
	})
	return nil
}
