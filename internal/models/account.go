package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankAccount holds a tenant's bank account and its running balance.
// CurrentBalance is only ever mutated through the balance projector or a
// reconciliation overwrite, never written directly by callers.
type BankAccount struct {
	ID                string          `json:"id" db:"id"`
	TenantID          string          `json:"tenant_id" db:"tenant_id"`
	Name              string          `json:"name" db:"name"`
	BankName          string          `json:"bank_name" db:"bank_name"`
	AccountNumber     string          `json:"account_number" db:"account_number"`
	IsDefault         bool            `json:"is_default" db:"is_default"`
	CurrentBalance    decimal.Decimal `json:"current_balance" db:"current_balance"`
	LastBalanceUpdate time.Time       `json:"last_balance_update" db:"last_balance_update"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`
}

// CreateAccountRequest is the validated input for opening a bank account.
// InitialBalance is optional; when present and non-zero it seeds the ledger
// with an INITIAL_BALANCE entry.
type CreateAccountRequest struct {
	Name           string `json:"name" binding:"required"`
	BankName       string `json:"bank_name" binding:"required"`
	AccountNumber  string `json:"account_number" binding:"required"`
	IsDefault      bool   `json:"is_default"`
	InitialBalance string `json:"initial_balance"`
	CreatedBy      string `json:"created_by"`
}

// AdjustBalanceRequest applies a signed manual correction to an account.
type AdjustBalanceRequest struct {
	Amount      string `json:"amount" binding:"required"`
	Description string `json:"description"`
	AdjustedBy  string `json:"adjusted_by"`
}

const BankAccountSchema = `
CREATE TABLE IF NOT EXISTS bank_accounts (
    id VARCHAR(36) PRIMARY KEY,
    tenant_id VARCHAR(36) NOT NULL,
    name TEXT NOT NULL,
    bank_name TEXT NOT NULL,
    account_number TEXT NOT NULL,
    is_default BOOLEAN NOT NULL DEFAULT FALSE,
    current_balance DECIMAL(19, 4) NOT NULL DEFAULT 0,
    last_balance_update TIMESTAMP NOT NULL DEFAULT NOW(),
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS uq_bank_accounts_identity
    ON bank_accounts (tenant_id, bank_name, account_number);
CREATE INDEX IF NOT EXISTS idx_bank_accounts_tenant
    ON bank_accounts (tenant_id);
`
