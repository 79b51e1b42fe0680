// internal/store/store.go
package store

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"invoice-insights/internal/common/logger"
	"invoice-insights/internal/models"
)

const projectCacheKeyPrefix = "project:id:"

// Store executes the structured lookups against the projects and invoices
// tables. All reads are side-effect-free apart from refreshing the optional
// Redis name-to-id cache.
type Store struct {
	db       *sql.DB
	redis    *redis.Client // nil disables caching
	cacheTTL time.Duration
	logger   logger.Logger
}

func New(db *sql.DB, rdb *redis.Client, cacheTTL time.Duration, log logger.Logger) *Store {
	return &Store{
		db:       db,
		redis:    rdb,
		cacheTTL: cacheTTL,
		logger:   log.WithFields(map[string]interface{}{"component": "store"}),
	}
}

// FindProjectByName resolves a project by exact, case-sensitive name match.
// Returns nil without error when no row matches. A warm cache entry skips
// Postgres entirely; cache outages fall through silently.
func (s *Store) FindProjectByName(ctx context.Context, name string) (*models.Project, error) {
	if s.redis != nil {
		if val, err := s.redis.Get(ctx, projectCacheKeyPrefix+name).Result(); err == nil {
			if id, err := strconv.ParseInt(val, 10, 64); err == nil {
				return &models.Project{ID: id, Name: name}, nil
			}
		}
	}

	var p models.Project
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name FROM projects WHERE name = $1`, name).
		Scan(&p.ID, &p.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	s.cacheProjectID(ctx, p.Name, p.ID)
	return &p, nil
}

// TopInvoicesByAmount returns up to n invoices for the project, ordered by
// total claimed amount descending. Ties beyond the amount keep storage
// order; the total order is unspecified there.
func (s *Store) TopInvoicesByAmount(ctx context.Context, projectID int64, n int) ([]models.Invoice, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, vendor_name, invoice_number,
		       total_claimed_amount, balance_amount, billing_date
		FROM invoices WHERE project_id = $1
		ORDER BY total_claimed_amount DESC LIMIT $2`, projectID, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []models.Invoice
	for rows.Next() {
		var inv models.Invoice
		if err := rows.Scan(&inv.ID, &inv.ProjectID, &inv.VendorName, &inv.InvoiceNumber,
			&inv.TotalClaimedAmount, &inv.BalanceAmount, &inv.BillingDate); err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// HighestBalanceInvoice returns the single invoice with the maximum balance
// amount across all projects, or nil when the table is empty. Balance ties
// break deterministically on the lowest invoice id.
func (s *Store) HighestBalanceInvoice(ctx context.Context) (*models.Invoice, error) {
	var inv models.Invoice
	err := s.db.QueryRowContext(ctx, `
		SELECT id, project_id, vendor_name, invoice_number,
		       total_claimed_amount, balance_amount, billing_date
		FROM invoices
		ORDER BY balance_amount DESC, id LIMIT 1`).
		Scan(&inv.ID, &inv.ProjectID, &inv.VendorName, &inv.InvoiceNumber,
			&inv.TotalClaimedAmount, &inv.BalanceAmount, &inv.BillingDate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *Store) cacheProjectID(ctx context.Context, name string, id int64) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Set(ctx, projectCacheKeyPrefix+name, strconv.FormatInt(id, 10), s.cacheTTL).Err(); err != nil {
		s.logger.Warn("project cache write failed", map[string]interface{}{
			"project": name,
			"error":   err.Error(),
		})
	}
}
