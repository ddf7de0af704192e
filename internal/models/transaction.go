package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string
type TransactionStatus string

const (
	TxnTypeIncome  TransactionType = "INCOME"
	TxnTypeExpense TransactionType = "EXPENSE"

	TxnStatusPending       TransactionStatus = "PENDING"
	TxnStatusPaid          TransactionStatus = "PAID"
	TxnStatusPartiallyPaid TransactionStatus = "PARTIALLY_PAID"
	TxnStatusCancelled     TransactionStatus = "CANCELLED"
)

// Transaction is a single income or expense item. NetAmount is derived:
// amount - discount + late fee, never negative. BankAccountID stays nil until
// the transaction is paid (or is linked ahead of payment).
type Transaction struct {
	ID             string            `json:"id" db:"id"`
	TenantID       string            `json:"tenant_id" db:"tenant_id"`
	Type           TransactionType   `json:"type" db:"type"`
	Status         TransactionStatus `json:"status" db:"status"`
	CategoryID     string            `json:"category_id" db:"category_id"`
	Description    string            `json:"description" db:"description"`
	Amount         decimal.Decimal   `json:"amount" db:"amount"`
	DiscountAmount decimal.Decimal   `json:"discount_amount" db:"discount_amount"`
	LateFeeAmount  decimal.Decimal   `json:"late_fee_amount" db:"late_fee_amount"`
	NetAmount      decimal.Decimal   `json:"net_amount" db:"net_amount"`
	BankAccountID  *string           `json:"bank_account_id,omitempty" db:"bank_account_id"`
	DueDate        time.Time         `json:"due_date" db:"due_date"`
	PaymentDate    *time.Time        `json:"payment_date,omitempty" db:"payment_date"`
	ConfirmedBy    *string           `json:"confirmed_by,omitempty" db:"confirmed_by"`
	CreatedAt      time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at" db:"updated_at"`
}

// SignedImpact is the delta this transaction applies to a bank balance when
// paid: +net for income, -net for expense.
func (t *Transaction) SignedImpact() decimal.Decimal {
	if t.Type == TxnTypeExpense {
		return t.NetAmount.Neg()
	}
	return t.NetAmount
}

// CreateTransactionRequest carries validated input for a new transaction.
// Monetary fields arrive as strings and are parsed as exact decimals; dates
// arrive as civil YYYY-MM-DD strings.
type CreateTransactionRequest struct {
	Type           TransactionType   `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Status         TransactionStatus `json:"status"`
	CategoryID     string            `json:"category_id" binding:"required"`
	Description    string            `json:"description"`
	Amount         string            `json:"amount" binding:"required"`
	DiscountAmount string            `json:"discount_amount"`
	LateFeeAmount  string            `json:"late_fee_amount"`
	BankAccountID  *string           `json:"bank_account_id"`
	DueDate        string            `json:"due_date" binding:"required"`
}

// UpdateTransactionRequest carries a partial edit. Nil pointers mean "leave
// unchanged". Status may only restate the current status; transitions go
// through MarkPaid/Cancel.
type UpdateTransactionRequest struct {
	Type             *TransactionType   `json:"type"`
	Status           *TransactionStatus `json:"status"`
	CategoryID       *string            `json:"category_id"`
	Description      *string            `json:"description"`
	Amount           *string            `json:"amount"`
	DiscountAmount   *string            `json:"discount_amount"`
	LateFeeAmount    *string            `json:"late_fee_amount"`
	BankAccountID    *string            `json:"bank_account_id"`
	ClearBankAccount bool               `json:"clear_bank_account"`
	DueDate          *string            `json:"due_date"`
}

// MarkPaidRequest confirms payment of a transaction.
type MarkPaidRequest struct {
	BankAccountID *string `json:"bank_account_id"`
	PaymentDate   string  `json:"payment_date" binding:"required"`
	ConfirmedBy   string  `json:"confirmed_by" binding:"required"`
}

const TransactionSchema = `
CREATE TABLE IF NOT EXISTS transactions (
    id VARCHAR(36) PRIMARY KEY,
    tenant_id VARCHAR(36) NOT NULL,
    type VARCHAR(10) NOT NULL,
    status VARCHAR(20) NOT NULL,
    category_id VARCHAR(36) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    amount DECIMAL(19, 4) NOT NULL,
    discount_amount DECIMAL(19, 4) NOT NULL DEFAULT 0,
    late_fee_amount DECIMAL(19, 4) NOT NULL DEFAULT 0,
    net_amount DECIMAL(19, 4) NOT NULL,
    bank_account_id VARCHAR(36) REFERENCES bank_accounts(id),
    due_date TIMESTAMP NOT NULL,
    payment_date TIMESTAMP,
    confirmed_by VARCHAR(36),
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_transactions_tenant_status
    ON transactions (tenant_id, status);
CREATE INDEX IF NOT EXISTS idx_transactions_account_payment
    ON transactions (tenant_id, bank_account_id, payment_date);
`
