package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/apperrors"
	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/models"
)

type AccountRepository struct {
	q dbtx
}

const accountColumns = `id, tenant_id, name, bank_name, account_number, is_default,
	current_balance, last_balance_update, created_at, updated_at`

func (r *AccountRepository) Create(ctx context.Context, acct *models.BankAccount) error {
	query := `
		INSERT INTO bank_accounts (id, tenant_id, name, bank_name, account_number, is_default,
			current_balance, last_balance_update, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.q.ExecContext(ctx, query,
		acct.ID,
		acct.TenantID,
		acct.Name,
		acct.BankName,
		acct.AccountNumber,
		acct.IsDefault,
		acct.CurrentBalance,
		acct.LastBalanceUpdate,
		acct.CreatedAt,
		acct.UpdatedAt,
	)
	return translateConstraintErr(err)
}

func (r *AccountRepository) GetByID(ctx context.Context, tenantID, id string) (*models.BankAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM bank_accounts WHERE tenant_id = $1 AND id = $2`

	acct := &models.BankAccount{}
	err := r.q.QueryRowContext(ctx, query, tenantID, id).Scan(
		&acct.ID,
		&acct.TenantID,
		&acct.Name,
		&acct.BankName,
		&acct.AccountNumber,
		&acct.IsDefault,
		&acct.CurrentBalance,
		&acct.LastBalanceUpdate,
		&acct.CreatedAt,
		&acct.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFoundf("bank account %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return acct, nil
}

func (r *AccountRepository) List(ctx context.Context, tenantID string) ([]*models.BankAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM bank_accounts WHERE tenant_id = $1 ORDER BY created_at ASC`

	rows, err := r.q.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.BankAccount
	for rows.Next() {
		acct := &models.BankAccount{}
		err := rows.Scan(
			&acct.ID,
			&acct.TenantID,
			&acct.Name,
			&acct.BankName,
			&acct.AccountNumber,
			&acct.IsDefault,
			&acct.CurrentBalance,
			&acct.LastBalanceUpdate,
			&acct.CreatedAt,
			&acct.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acct)
	}
	return accounts, rows.Err()
}

// ApplyBalanceImpact increments the balance in a single relative UPDATE, so
// Postgres row locking serializes concurrent impacts on the same account.
// The post-increment balance comes back through RETURNING for the paired
// ledger entry.
func (r *AccountRepository) ApplyBalanceImpact(ctx context.Context, tenantID, accountID string, delta decimal.Decimal) (decimal.Decimal, error) {
	query := `
		UPDATE bank_accounts
		SET current_balance = current_balance + $1,
		    last_balance_update = NOW(),
		    updated_at = NOW()
		WHERE tenant_id = $2 AND id = $3
		RETURNING current_balance
	`
	var balance decimal.Decimal
	err := r.q.QueryRowContext(ctx, query, delta, tenantID, accountID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, apperrors.NotFoundf("bank account %s not found", accountID)
	}
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

func (r *AccountRepository) OverwriteBalance(ctx context.Context, tenantID, accountID string, balance decimal.Decimal) error {
	query := `
		UPDATE bank_accounts
		SET current_balance = $1,
		    last_balance_update = NOW(),
		    updated_at = NOW()
		WHERE tenant_id = $2 AND id = $3
	`
	res, err := r.q.ExecContext(ctx, query, balance, tenantID, accountID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.NotFoundf("bank account %s not found", accountID)
	}
	return nil
}
