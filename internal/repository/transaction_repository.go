package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/apperrors"
	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/models"
)

type TransactionRepository struct {
	q dbtx
}

const transactionColumns = `id, tenant_id, type, status, category_id, description, amount,
	discount_amount, late_fee_amount, net_amount, bank_account_id, due_date, payment_date,
	confirmed_by, created_at, updated_at`

func (r *TransactionRepository) Create(ctx context.Context, txn *models.Transaction) error {
	query := `
		INSERT INTO transactions (id, tenant_id, type, status, category_id, description,
			amount, discount_amount, late_fee_amount, net_amount, bank_account_id,
			due_date, payment_date, confirmed_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := r.q.ExecContext(ctx, query,
		txn.ID,
		txn.TenantID,
		txn.Type,
		txn.Status,
		txn.CategoryID,
		txn.Description,
		txn.Amount,
		txn.DiscountAmount,
		txn.LateFeeAmount,
		txn.NetAmount,
		txn.BankAccountID,
		txn.DueDate,
		txn.PaymentDate,
		txn.ConfirmedBy,
		txn.CreatedAt,
		txn.UpdatedAt,
	)
	return err
}

func (r *TransactionRepository) GetByID(ctx context.Context, tenantID, id string) (*models.Transaction, error) {
	return r.get(ctx, tenantID, id, "")
}

// GetForUpdate takes the row lock that serializes lifecycle transitions.
// Only meaningful inside a store transaction.
func (r *TransactionRepository) GetForUpdate(ctx context.Context, tenantID, id string) (*models.Transaction, error) {
	return r.get(ctx, tenantID, id, " FOR UPDATE")
}

func (r *TransactionRepository) get(ctx context.Context, tenantID, id, locking string) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE tenant_id = $1 AND id = $2` + locking

	txn := &models.Transaction{}
	err := r.q.QueryRowContext(ctx, query, tenantID, id).Scan(
		&txn.ID,
		&txn.TenantID,
		&txn.Type,
		&txn.Status,
		&txn.CategoryID,
		&txn.Description,
		&txn.Amount,
		&txn.DiscountAmount,
		&txn.LateFeeAmount,
		&txn.NetAmount,
		&txn.BankAccountID,
		&txn.DueDate,
		&txn.PaymentDate,
		&txn.ConfirmedBy,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFoundf("transaction %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return txn, nil
}

func (r *TransactionRepository) Update(ctx context.Context, txn *models.Transaction) error {
	query := `
		UPDATE transactions
		SET type = $1, status = $2, category_id = $3, description = $4, amount = $5,
		    discount_amount = $6, late_fee_amount = $7, net_amount = $8,
		    bank_account_id = $9, due_date = $10, payment_date = $11,
		    confirmed_by = $12, updated_at = $13
		WHERE tenant_id = $14 AND id = $15
	`
	res, err := r.q.ExecContext(ctx, query,
		txn.Type,
		txn.Status,
		txn.CategoryID,
		txn.Description,
		txn.Amount,
		txn.DiscountAmount,
		txn.LateFeeAmount,
		txn.NetAmount,
		txn.BankAccountID,
		txn.DueDate,
		txn.PaymentDate,
		txn.ConfirmedBy,
		txn.UpdatedAt,
		txn.TenantID,
		txn.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.NotFoundf("transaction %s not found", txn.ID)
	}
	return nil
}

func (r *TransactionRepository) ListPaidInPeriod(ctx context.Context, tenantID, accountID string, start, end time.Time) ([]*models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE tenant_id = $1 AND bank_account_id = $2
		  AND status IN ($3, $4)
		  AND payment_date >= $5 AND payment_date <= $6
		ORDER BY payment_date ASC, created_at ASC
	`
	rows, err := r.q.QueryContext(ctx, query, tenantID, accountID,
		models.TxnStatusPaid, models.TxnStatusPartiallyPaid, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []*models.Transaction
	for rows.Next() {
		txn := &models.Transaction{}
		err := rows.Scan(
			&txn.ID,
			&txn.TenantID,
			&txn.Type,
			&txn.Status,
			&txn.CategoryID,
			&txn.Description,
			&txn.Amount,
			&txn.DiscountAmount,
			&txn.LateFeeAmount,
			&txn.NetAmount,
			&txn.BankAccountID,
			&txn.DueDate,
			&txn.PaymentDate,
			&txn.ConfirmedBy,
			&txn.CreatedAt,
			&txn.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}
