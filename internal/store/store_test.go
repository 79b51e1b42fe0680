package store

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoice-insights/internal/common/logger"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	return mr, redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}

func newTestStore(t *testing.T, db *sql.DB, rdb *redis.Client) *Store {
	return New(db, rdb, 5*time.Minute, logger.NewTestLogger(t))
}

func TestFindProjectByName(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectQuery(`SELECT id, name FROM projects WHERE name = \$1`).
			WithArgs("Project X").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(10, "Project X"))

		s := newTestStore(t, db, nil)
		project, err := s.FindProjectByName(context.Background(), "Project X")

		require.NoError(t, err)
		require.NotNil(t, project)
		assert.Equal(t, int64(10), project.ID)
		assert.Equal(t, "Project X", project.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("absent returns nil without error", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectQuery(`SELECT id, name FROM projects WHERE name = \$1`).
			WithArgs("Project NOPE").
			WillReturnError(sql.ErrNoRows)

		s := newTestStore(t, db, nil)
		project, err := s.FindProjectByName(context.Background(), "Project NOPE")

		require.NoError(t, err)
		assert.Nil(t, project)
	})

	t.Run("warm cache skips postgres", func(t *testing.T) {
		// No query expectations registered: any SELECT would fail the test.
		db, mock := setupMockDB(t)
		mr, rdb := setupRedis(t)
		mr.Set("project:id:Project X", "10")

		s := newTestStore(t, db, rdb)
		project, err := s.FindProjectByName(context.Background(), "Project X")

		require.NoError(t, err)
		require.NotNil(t, project)
		assert.Equal(t, int64(10), project.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("miss populates the cache", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mr, rdb := setupRedis(t)
		mock.ExpectQuery(`SELECT id, name FROM projects WHERE name = \$1`).
			WithArgs("Project Y").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(11, "Project Y"))

		s := newTestStore(t, db, rdb)
		_, err := s.FindProjectByName(context.Background(), "Project Y")

		require.NoError(t, err)
		cached, err := mr.Get("project:id:Project Y")
		require.NoError(t, err)
		assert.Equal(t, "11", cached)
	})
}

func TestTopInvoicesByAmount(t *testing.T) {
	db, mock := setupMockDB(t)
	rows := sqlmock.NewRows([]string{
		"id", "project_id", "vendor_name", "invoice_number",
		"total_claimed_amount", "balance_amount", "billing_date",
	}).
		AddRow(3, 10, "Acme", "INV-3", 900.0, 100.0, "2024-03-01").
		AddRow(1, 10, "Globex", "INV-1", 500.0, 200.0, "2024-01-01")

	mock.ExpectQuery(`SELECT id, project_id, vendor_name, invoice_number,\s+total_claimed_amount, balance_amount, billing_date\s+FROM invoices WHERE project_id = \$1\s+ORDER BY total_claimed_amount DESC LIMIT \$2`).
		WithArgs(int64(10), 2).
		WillReturnRows(rows)

	s := newTestStore(t, db, nil)
	invoices, err := s.TopInvoicesByAmount(context.Background(), 10, 2)

	require.NoError(t, err)
	require.Len(t, invoices, 2)
	assert.Equal(t, int64(3), invoices[0].ID)
	assert.Equal(t, 900.0, invoices[0].TotalClaimedAmount)
	assert.Equal(t, "Globex", invoices[1].VendorName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopInvoicesByAmount_NoRows(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery(`FROM invoices WHERE project_id = \$1`).
		WithArgs(int64(99), 5).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "project_id", "vendor_name", "invoice_number",
			"total_claimed_amount", "balance_amount", "billing_date",
		}))

	s := newTestStore(t, db, nil)
	invoices, err := s.TopInvoicesByAmount(context.Background(), 99, 5)

	require.NoError(t, err)
	assert.Empty(t, invoices)
}

func TestHighestBalanceInvoice(t *testing.T) {
	t.Run("populated table", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectQuery(`ORDER BY balance_amount DESC, id LIMIT 1`).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "project_id", "vendor_name", "invoice_number",
				"total_claimed_amount", "balance_amount", "billing_date",
			}).AddRow(42, 10, "Initech", "INV-42", 1000.0, 950.0, "2024-02-02"))

		s := newTestStore(t, db, nil)
		invoice, err := s.HighestBalanceInvoice(context.Background())

		require.NoError(t, err)
		require.NotNil(t, invoice)
		assert.Equal(t, int64(42), invoice.ID)
		assert.Equal(t, 950.0, invoice.BalanceAmount)
	})

	t.Run("empty table returns nil", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectQuery(`ORDER BY balance_amount DESC, id LIMIT 1`).
			WillReturnError(sql.ErrNoRows)

		s := newTestStore(t, db, nil)
		invoice, err := s.HighestBalanceInvoice(context.Background())

		require.NoError(t, err)
		assert.Nil(t, invoice)
	})
}

func TestEnsureSchema(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS projects`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS invoices`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	s := newTestStore(t, db, nil)
	require.NoError(t, s.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchema_PropagatesError(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS projects`).
		WillReturnError(fmt.Errorf("permission denied"))

	s := newTestStore(t, db, nil)
	err := s.EnsureSchema(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
}
