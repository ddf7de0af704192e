package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/apperrors"
	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/models"
	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/store"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx, so the same repository code
// serves plain reads and transactional units of work.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the Postgres-backed implementation of store.Store.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Read() store.Repos {
	return newRepos(s.db)
}

// Atomically runs fn inside a single database transaction. Any error (or
// panic) rolls the whole unit back; there is no path where a ledger entry
// commits without its balance change, or vice versa.
func (s *Store) Atomically(ctx context.Context, fn func(r store.Repos) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(newRepos(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", translateConstraintErr(err))
	}
	return nil
}

type repos struct {
	accounts        *AccountRepository
	transactions    *TransactionRepository
	ledger          *LedgerRepository
	reconciliations *ReconciliationRepository
}

func newRepos(q dbtx) *repos {
	return &repos{
		accounts:        &AccountRepository{q: q},
		transactions:    &TransactionRepository{q: q},
		ledger:          &LedgerRepository{q: q},
		reconciliations: &ReconciliationRepository{q: q},
	}
}

func (r *repos) Accounts() store.AccountRepository               { return r.accounts }
func (r *repos) Transactions() store.TransactionRepository       { return r.transactions }
func (r *repos) Ledger() store.LedgerRepository                  { return r.ledger }
func (r *repos) Reconciliations() store.ReconciliationRepository { return r.reconciliations }

// Migrate applies the schema DDL. Statements are idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, schema := range []string{
		models.BankAccountSchema,
		models.LedgerEntrySchema,
		models.TransactionSchema,
		models.ReconciliationSchema,
	} {
		if _, err := db.ExecContext(ctx, schema); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}

// uniqueViolation is the Postgres error code for unique-constraint failures.
const uniqueViolation = "23505"

// translateConstraintErr maps unique violations on known constraints to
// ConflictError; anything else propagates untouched.
func translateConstraintErr(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != uniqueViolation {
		return err
	}
	switch pqErr.Constraint {
	case "uq_reconciliations_account_date":
		return apperrors.Wrap(apperrors.KindConflict, err, "a reconciliation already exists for this account and date")
	case "uq_bank_accounts_identity":
		return apperrors.Wrap(apperrors.KindConflict, err, "a bank account with this bank and account number already exists")
	default:
		return err
	}
}
