package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoice-insights/internal/models"
)

func sampleRecord() models.IngestRecord {
	return models.IngestRecord{
		ID:                 1,
		ProjectID:          10,
		VendorName:         "Acme",
		InvoiceNumber:      "INV-1",
		TotalClaimedAmount: 500.0,
		Summary:            models.RecordSummary{BalanceToFinishIncludingRetainage: 200.0},
		BillingDate:        "2024-01-01",
		SummaryText:        models.RecordSummaryText{ProjectName: "Project X"},
	}
}

// The expectations pin the conflict clauses, not just the insert heads:
// ingestion must replace existing rows, never fail on a duplicate id.
const (
	upsertInvoicePattern = `INSERT INTO invoices .+ ON CONFLICT \(id\) DO UPDATE SET`
	upsertProjectPattern = `INSERT INTO projects .+ ON CONFLICT \(id\) DO UPDATE SET name = EXCLUDED\.name`
)

func TestUpsertRecords_SingleTransaction(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(upsertInvoicePattern).
		WithArgs(int64(1), int64(10), "Acme", "INV-1", 500.0, 200.0, "2024-01-01").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(upsertProjectPattern).
		WithArgs(int64(10), "Project X").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	s := newTestStore(t, db, nil)
	err := s.UpsertRecords(context.Background(), []models.IngestRecord{sampleRecord()})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertRecords_RollsBackOnFailure(t *testing.T) {
	db, mock := setupMockDB(t)

	first := sampleRecord()
	second := sampleRecord()
	second.ID = 2
	second.InvoiceNumber = "INV-2"

	mock.ExpectBegin()
	mock.ExpectExec(upsertInvoicePattern).
		WithArgs(int64(1), int64(10), "Acme", "INV-1", 500.0, 200.0, "2024-01-01").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(upsertProjectPattern).
		WithArgs(int64(10), "Project X").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(upsertInvoicePattern).
		WithArgs(int64(2), int64(10), "Acme", "INV-2", 500.0, 200.0, "2024-01-01").
		WillReturnError(fmt.Errorf("disk full"))
	mock.ExpectRollback()

	s := newTestStore(t, db, nil)
	err := s.UpsertRecords(context.Background(), []models.IngestRecord{first, second})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "upsert invoice 2")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertRecords_ReplacesExistingInvoice(t *testing.T) {
	db, mock := setupMockDB(t)

	updated := sampleRecord()
	updated.VendorName = "Acme Holdings"
	updated.TotalClaimedAmount = 750.0

	// Same invoice id twice: the second batch must go through the same
	// conflict-update statement with the new values, not a bare insert.
	for _, rec := range []models.IngestRecord{sampleRecord(), updated} {
		mock.ExpectBegin()
		mock.ExpectExec(upsertInvoicePattern).
			WithArgs(rec.ID, rec.ProjectID, rec.VendorName, rec.InvoiceNumber,
				rec.TotalClaimedAmount, rec.Summary.BalanceToFinishIncludingRetainage,
				rec.BillingDate).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(upsertProjectPattern).
			WithArgs(rec.ProjectID, rec.SummaryText.ProjectName).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
	}

	s := newTestStore(t, db, nil)
	require.NoError(t, s.UpsertRecords(context.Background(), []models.IngestRecord{sampleRecord()}))
	require.NoError(t, s.UpsertRecords(context.Background(), []models.IngestRecord{updated}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertRecords_EmptyBatchIsNoOp(t *testing.T) {
	db, mock := setupMockDB(t)

	s := newTestStore(t, db, nil)
	require.NoError(t, s.UpsertRecords(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertRecords_RefreshesProjectCacheAfterCommit(t *testing.T) {
	db, mock := setupMockDB(t)
	mr, rdb := setupRedis(t)

	mock.ExpectBegin()
	mock.ExpectExec(upsertInvoicePattern).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(upsertProjectPattern).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	s := newTestStore(t, db, rdb)
	require.NoError(t, s.UpsertRecords(context.Background(), []models.IngestRecord{sampleRecord()}))

	cached, err := mr.Get("project:id:Project X")
	require.NoError(t, err)
	assert.Equal(t, "10", cached)
}
