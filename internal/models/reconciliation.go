package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReconciliationStatus string

const (
	ReconStatusPending     ReconciliationStatus = "PENDING"
	ReconStatusReconciled  ReconciliationStatus = "RECONCILED"
	ReconStatusDiscrepancy ReconciliationStatus = "DISCREPANCY"
)

// Reconciliation compares ledger-derived totals for a period against the
// closing balance reported by the real bank statement. Difference is
// closing - system, compared with exact decimal equality.
type Reconciliation struct {
	ID                 string                `json:"id" db:"id"`
	TenantID           string                `json:"tenant_id" db:"tenant_id"`
	BankAccountID      string                `json:"bank_account_id" db:"bank_account_id"`
	StartDate          time.Time             `json:"start_date" db:"start_date"`
	EndDate            time.Time             `json:"end_date" db:"end_date"`
	ReconciliationDate time.Time             `json:"reconciliation_date" db:"reconciliation_date"`
	OpeningBalance     decimal.Decimal       `json:"opening_balance" db:"opening_balance"`
	ClosingBalance     decimal.Decimal       `json:"closing_balance" db:"closing_balance"`
	SystemBalance      decimal.Decimal       `json:"system_balance" db:"system_balance"`
	Difference         decimal.Decimal       `json:"difference" db:"difference"`
	Status             ReconciliationStatus  `json:"status" db:"status"`
	TotalIncome        decimal.Decimal       `json:"total_income" db:"total_income"`
	TotalExpense       decimal.Decimal       `json:"total_expense" db:"total_expense"`
	Notes              string                `json:"notes" db:"notes"`
	CreatedBy          string                `json:"created_by" db:"created_by"`
	CreatedAt          time.Time             `json:"created_at" db:"created_at"`
	Items              []*ReconciliationItem `json:"items,omitempty"`
}

// ReconciliationItem links a reconciliation to one covered transaction.
// Items are marked reconciled all together when the period reconciles,
// never individually.
type ReconciliationItem struct {
	ID               string     `json:"id" db:"id"`
	ReconciliationID string     `json:"reconciliation_id" db:"reconciliation_id"`
	TransactionID    string     `json:"transaction_id" db:"transaction_id"`
	IsReconciled     bool       `json:"is_reconciled" db:"is_reconciled"`
	ReconciledAt     *time.Time `json:"reconciled_at,omitempty" db:"reconciled_at"`
	ReconciledBy     *string    `json:"reconciled_by,omitempty" db:"reconciled_by"`
}

// CreateReconciliationRequest carries the caller-supplied statement figures.
// Opening and closing balances come from the external bank statement, as
// exact decimal strings; dates are civil YYYY-MM-DD strings.
type CreateReconciliationRequest struct {
	BankAccountID      string `json:"bank_account_id" binding:"required"`
	StartDate          string `json:"start_date" binding:"required"`
	EndDate            string `json:"end_date" binding:"required"`
	ReconciliationDate string `json:"reconciliation_date" binding:"required"`
	OpeningBalance     string `json:"opening_balance" binding:"required"`
	ClosingBalance     string `json:"closing_balance" binding:"required"`
	Notes              string `json:"notes"`
	CreatedBy          string `json:"created_by" binding:"required"`
}

const ReconciliationSchema = `
CREATE TABLE IF NOT EXISTS reconciliations (
    id VARCHAR(36) PRIMARY KEY,
    tenant_id VARCHAR(36) NOT NULL,
    bank_account_id VARCHAR(36) NOT NULL REFERENCES bank_accounts(id),
    start_date TIMESTAMP NOT NULL,
    end_date TIMESTAMP NOT NULL,
    reconciliation_date TIMESTAMP NOT NULL,
    opening_balance DECIMAL(19, 4) NOT NULL,
    closing_balance DECIMAL(19, 4) NOT NULL,
    system_balance DECIMAL(19, 4) NOT NULL,
    difference DECIMAL(19, 4) NOT NULL,
    status VARCHAR(20) NOT NULL,
    total_income DECIMAL(19, 4) NOT NULL,
    total_expense DECIMAL(19, 4) NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    created_by VARCHAR(36) NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS uq_reconciliations_account_date
    ON reconciliations (tenant_id, bank_account_id, reconciliation_date);

CREATE TABLE IF NOT EXISTS reconciliation_items (
    id VARCHAR(36) PRIMARY KEY,
    reconciliation_id VARCHAR(36) NOT NULL REFERENCES reconciliations(id),
    transaction_id VARCHAR(36) NOT NULL REFERENCES transactions(id),
    is_reconciled BOOLEAN NOT NULL DEFAULT FALSE,
    reconciled_at TIMESTAMP,
    reconciled_by VARCHAR(36)
);

CREATE INDEX IF NOT EXISTS idx_reconciliation_items_reconciliation
    ON reconciliation_items (reconciliation_id);
`
