package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type EntryType string

const (
	EntryTypeInitialBalance   EntryType = "INITIAL_BALANCE"
	EntryTypeManualAdjustment EntryType = "MANUAL_BALANCE_ADJUSTMENT"
	EntryTypePaymentConfirm   EntryType = "PAYMENT_CONFIRMATION"
	EntryTypePaymentReversal  EntryType = "PAYMENT_REVERSAL"
	EntryTypePaidTxnUpdate    EntryType = "PAID_TRANSACTION_UPDATE"
)

// LedgerEntry is one immutable record of a balance change. Amount is the
// signed delta applied to the account; BalanceAfter is the balance the
// projector returned for that same delta. Entries are append-only: there is
// no update or delete path anywhere in the repository.
type LedgerEntry struct {
	ID            string          `json:"id" db:"id"`
	TenantID      string          `json:"tenant_id" db:"tenant_id"`
	BankAccountID string          `json:"bank_account_id" db:"bank_account_id"`
	EffectiveDate time.Time       `json:"effective_date" db:"effective_date"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	BalanceAfter  decimal.Decimal `json:"balance_after" db:"balance_after"`
	EntryType     EntryType       `json:"entry_type" db:"entry_type"`
	TransactionID *string         `json:"transaction_id,omitempty" db:"transaction_id"`
	ReferenceType *string         `json:"reference_type,omitempty" db:"reference_type"`
	ReferenceID   *string         `json:"reference_id,omitempty" db:"reference_id"`
	Description   string          `json:"description" db:"description"`
	CreatedBy     string          `json:"created_by" db:"created_by"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

const LedgerEntrySchema = `
CREATE TABLE IF NOT EXISTS ledger_entries (
    id VARCHAR(36) PRIMARY KEY,
    tenant_id VARCHAR(36) NOT NULL,
    bank_account_id VARCHAR(36) NOT NULL REFERENCES bank_accounts(id),
    effective_date TIMESTAMP NOT NULL,
    amount DECIMAL(19, 4) NOT NULL,
    balance_after DECIMAL(19, 4) NOT NULL,
    entry_type VARCHAR(32) NOT NULL,
    transaction_id VARCHAR(36),
    reference_type VARCHAR(64),
    reference_id VARCHAR(36),
    description TEXT NOT NULL DEFAULT '',
    created_by VARCHAR(36) NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_ledger_entries_account_date
    ON ledger_entries (tenant_id, bank_account_id, effective_date, created_at);
CREATE INDEX IF NOT EXISTS idx_ledger_entries_transaction
    ON ledger_entries (transaction_id);
`
