// Package store defines the storage ports the services operate through. The
// Postgres implementation lives in internal/repository; tests substitute
// in-memory fakes.
package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/models"
)

// Store gives read access to the repositories and runs atomic units of work.
// Every mutating operation in the core goes through Atomically: the entity
// write, the balance increment and the ledger append commit or roll back as
// one; partial application is never observable.
type Store interface {
	Read() Repos
	Atomically(ctx context.Context, fn func(r Repos) error) error
}

// Repos groups the per-entity repositories bound to one database handle
// (the pool for reads, a single transaction inside Atomically).
type Repos interface {
	Accounts() AccountRepository
	Transactions() TransactionRepository
	Ledger() LedgerRepository
	Reconciliations() ReconciliationRepository
}

type AccountRepository interface {
	Create(ctx context.Context, acct *models.BankAccount) error
	GetByID(ctx context.Context, tenantID, id string) (*models.BankAccount, error)
	List(ctx context.Context, tenantID string) ([]*models.BankAccount, error)

	// ApplyBalanceImpact atomically increments current_balance by the signed
	// delta and returns the post-increment balance (the balance projector).
	ApplyBalanceImpact(ctx context.Context, tenantID, accountID string, delta decimal.Decimal) (decimal.Decimal, error)

	// OverwriteBalance force-sets current_balance; only the reconciliation
	// engine holds this authority.
	OverwriteBalance(ctx context.Context, tenantID, accountID string, balance decimal.Decimal) error
}

type TransactionRepository interface {
	Create(ctx context.Context, txn *models.Transaction) error
	GetByID(ctx context.Context, tenantID, id string) (*models.Transaction, error)

	// GetForUpdate reads the transaction and locks its row for the rest of
	// the atomic unit. Lifecycle transitions branch on this read so that
	// concurrent duplicates serialize instead of both observing the old
	// status.
	GetForUpdate(ctx context.Context, tenantID, id string) (*models.Transaction, error)

	Update(ctx context.Context, txn *models.Transaction) error

	// ListPaidInPeriod returns the account's PAID and PARTIALLY_PAID
	// transactions with a payment date inside [start, end].
	ListPaidInPeriod(ctx context.Context, tenantID, accountID string, start, end time.Time) ([]*models.Transaction, error)
}

// LedgerRepository is append-only: there is deliberately no update or delete.
type LedgerRepository interface {
	Append(ctx context.Context, entry *models.LedgerEntry) error

	// ListRange returns entries with effective_date in [from, to], ordered by
	// (effective_date asc, created_at asc, id asc).
	ListRange(ctx context.Context, tenantID, accountID string, from, to time.Time) ([]*models.LedgerEntry, error)

	// LatestBefore returns the last entry strictly before the given date, or
	// nil when none exists.
	LatestBefore(ctx context.Context, tenantID, accountID string, before time.Time) (*models.LedgerEntry, error)

	// Latest returns the account's most recent entry, or nil when the ledger
	// is empty.
	Latest(ctx context.Context, tenantID, accountID string) (*models.LedgerEntry, error)
}

type ReconciliationRepository interface {
	Create(ctx context.Context, rec *models.Reconciliation, items []*models.ReconciliationItem) error
	ExistsForDate(ctx context.Context, tenantID, accountID string, date time.Time) (bool, error)
	List(ctx context.Context, tenantID, accountID string) ([]*models.Reconciliation, error)
	ListUnreconciled(ctx context.Context, tenantID, accountID string) ([]*models.Reconciliation, error)
}
