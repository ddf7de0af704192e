package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/models"
)

// LedgerRepository persists ledger entries. It is append-only: no update or
// delete statement exists here, matching the immutability of the ledger.
type LedgerRepository struct {
	q dbtx
}

const ledgerColumns = `id, tenant_id, bank_account_id, effective_date, amount, balance_after,
	entry_type, transaction_id, reference_type, reference_id, description, created_by, created_at`

func (r *LedgerRepository) Append(ctx context.Context, entry *models.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (id, tenant_id, bank_account_id, effective_date, amount,
			balance_after, entry_type, transaction_id, reference_type, reference_id,
			description, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.q.ExecContext(ctx, query,
		entry.ID,
		entry.TenantID,
		entry.BankAccountID,
		entry.EffectiveDate,
		entry.Amount,
		entry.BalanceAfter,
		entry.EntryType,
		entry.TransactionID,
		entry.ReferenceType,
		entry.ReferenceID,
		entry.Description,
		entry.CreatedBy,
		entry.CreatedAt,
	)
	return err
}

func (r *LedgerRepository) ListRange(ctx context.Context, tenantID, accountID string, from, to time.Time) ([]*models.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE tenant_id = $1 AND bank_account_id = $2
		  AND effective_date >= $3 AND effective_date <= $4
		ORDER BY effective_date ASC, created_at ASC, id ASC
	`
	rows, err := r.q.QueryContext(ctx, query, tenantID, accountID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.LedgerEntry
	for rows.Next() {
		entry, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *LedgerRepository) LatestBefore(ctx context.Context, tenantID, accountID string, before time.Time) (*models.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE tenant_id = $1 AND bank_account_id = $2 AND effective_date < $3
		ORDER BY effective_date DESC, created_at DESC, id DESC
		LIMIT 1
	`
	return r.queryOne(ctx, query, tenantID, accountID, before)
}

func (r *LedgerRepository) Latest(ctx context.Context, tenantID, accountID string) (*models.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE tenant_id = $1 AND bank_account_id = $2
		ORDER BY effective_date DESC, created_at DESC, id DESC
		LIMIT 1
	`
	return r.queryOne(ctx, query, tenantID, accountID)
}

// queryOne returns nil without error when no entry matches; an absent entry
// is a normal ledger state, not a lookup failure.
func (r *LedgerRepository) queryOne(ctx context.Context, query string, args ...any) (*models.LedgerEntry, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return scanLedgerEntry(rows)
}

func scanLedgerEntry(rows *sql.Rows) (*models.LedgerEntry, error) {
	entry := &models.LedgerEntry{}
	err := rows.Scan(
		&entry.ID,
		&entry.TenantID,
		&entry.BankAccountID,
		&entry.EffectiveDate,
		&entry.Amount,
		&entry.BalanceAfter,
		&entry.EntryType,
		&entry.TransactionID,
		&entry.ReferenceType,
		&entry.ReferenceID,
		&entry.Description,
		&entry.CreatedBy,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return entry, nil
}
