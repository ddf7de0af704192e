package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/models"
)

type ReconciliationRepository struct {
	q dbtx
}

const reconciliationColumns = `id, tenant_id, bank_account_id, start_date, end_date,
	reconciliation_date, opening_balance, closing_balance, system_balance, difference,
	status, total_income, total_expense, notes, created_by, created_at`

// Create persists a reconciliation with all of its items. The caller runs
// this inside an atomic unit when the outcome also overwrites the account
// balance.
func (r *ReconciliationRepository) Create(ctx context.Context, rec *models.Reconciliation, items []*models.ReconciliationItem) error {
	recQuery := `
		INSERT INTO reconciliations (id, tenant_id, bank_account_id, start_date, end_date,
			reconciliation_date, opening_balance, closing_balance, system_balance,
			difference, status, total_income, total_expense, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := r.q.ExecContext(ctx, recQuery,
		rec.ID,
		rec.TenantID,
		rec.BankAccountID,
		rec.StartDate,
		rec.EndDate,
		rec.ReconciliationDate,
		rec.OpeningBalance,
		rec.ClosingBalance,
		rec.SystemBalance,
		rec.Difference,
		rec.Status,
		rec.TotalIncome,
		rec.TotalExpense,
		rec.Notes,
		rec.CreatedBy,
		rec.CreatedAt,
	)
	if err != nil {
		return translateConstraintErr(err)
	}

	itemQuery := `
		INSERT INTO reconciliation_items (id, reconciliation_id, transaction_id,
			is_reconciled, reconciled_at, reconciled_by)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, item := range items {
		_, err := r.q.ExecContext(ctx, itemQuery,
			item.ID,
			item.ReconciliationID,
			item.TransactionID,
			item.IsReconciled,
			item.ReconciledAt,
			item.ReconciledBy,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *ReconciliationRepository) ExistsForDate(ctx context.Context, tenantID, accountID string, date time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM reconciliations
			WHERE tenant_id = $1 AND bank_account_id = $2 AND reconciliation_date = $3
		)
	`
	var exists bool
	if err := r.q.QueryRowContext(ctx, query, tenantID, accountID, date).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *ReconciliationRepository) List(ctx context.Context, tenantID, accountID string) ([]*models.Reconciliation, error) {
	query := `
		SELECT ` + reconciliationColumns + `
		FROM reconciliations
		WHERE tenant_id = $1 AND bank_account_id = $2
		ORDER BY reconciliation_date DESC
	`
	return r.list(ctx, query, tenantID, accountID)
}

func (r *ReconciliationRepository) ListUnreconciled(ctx context.Context, tenantID, accountID string) ([]*models.Reconciliation, error) {
	query := `
		SELECT ` + reconciliationColumns + `
		FROM reconciliations
		WHERE tenant_id = $1 AND bank_account_id = $2 AND status <> $3
		ORDER BY reconciliation_date DESC
	`
	return r.list(ctx, query, tenantID, accountID, models.ReconStatusReconciled)
}

func (r *ReconciliationRepository) list(ctx context.Context, query string, args ...any) ([]*models.Reconciliation, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*models.Reconciliation
	for rows.Next() {
		rec, err := scanReconciliation(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func scanReconciliation(rows *sql.Rows) (*models.Reconciliation, error) {
	rec := &models.Reconciliation{}
	err := rows.Scan(
		&rec.ID,
		&rec.TenantID,
		&rec.BankAccountID,
		&rec.StartDate,
		&rec.EndDate,
		&rec.ReconciliationDate,
		&rec.OpeningBalance,
		&rec.ClosingBalance,
		&rec.SystemBalance,
		&rec.Difference,
		&rec.Status,
		&rec.TotalIncome,
		&rec.TotalExpense,
		&rec.Notes,
		&rec.CreatedBy,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return rec, nil
}
