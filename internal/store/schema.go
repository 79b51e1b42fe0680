// internal/store/schema.go
package store

import "context"

// Both tables are created idempotently at startup. There are no migrations;
// invoices.project_id intentionally carries no foreign key so orphaned
// references survive out-of-order ingestion.
const (
	createProjectsTable = `
		CREATE TABLE IF NOT EXISTS projects (
			id   BIGINT PRIMARY KEY,
			name TEXT NOT NULL
		)`

	createInvoicesTable = `
		CREATE TABLE IF NOT EXISTS invoices (
			id                   BIGINT PRIMARY KEY,
			project_id           BIGINT,
			vendor_name          TEXT,
			invoice_number       TEXT,
			total_claimed_amount DOUBLE PRECISION,
			balance_amount       DOUBLE PRECISION,
			billing_date         TEXT
		)`
)

// EnsureSchema creates the two tables if they are absent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, ddl := range []string{createProjectsTable, createInvoicesTable} {
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return err
		}
	}
	return nil
}
