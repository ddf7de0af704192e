package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/apperrors"
	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/models"
	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/store"
)

// StatementService reconstructs account statements from the ledger. It only
// reads; running balances are deterministic because in-range entries are
// ordered by (effective_date, created_at, id).
type StatementService struct {
	store  store.Store
	logger *zap.Logger
}

func NewStatementService(st store.Store, logger *zap.Logger) *StatementService {
	return &StatementService{store: st, logger: logger}
}

// Statement builds the account's statement for [from, to]. The opening
// balance is resolved in order of preference:
//  1. balance_after of the latest entry strictly before the period;
//  2. derived from the earliest in-range entry: its balance_after directly
//     when it is an INITIAL_BALANCE marker, else balance_after - amount;
//  3. the account's current stored balance when the ledger is empty.
func (s *StatementService) Statement(ctx context.Context, tenantID, accountID string, from, to time.Time) (*models.AccountStatement, error) {
	if from.After(to) {
		return nil, apperrors.Validationf("from date must not be after to date")
	}

	r := s.store.Read()
	acct, err := r.Accounts().GetByID(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}

	entries, err := r.Ledger().ListRange(ctx, tenantID, accountID, from, to)
	if err != nil {
		return nil, err
	}

	opening, err := s.openingBalance(ctx, r, acct, from, entries)
	if err != nil {
		return nil, err
	}

	periodNet := decimal.Zero
	for _, entry := range entries {
		// INITIAL_BALANCE marks a baseline, not period activity.
		if entry.EntryType == models.EntryTypeInitialBalance {
			continue
		}
		periodNet = periodNet.Add(entry.Amount)
	}

	closing := opening
	if len(entries) > 0 {
		closing = entries[len(entries)-1].BalanceAfter
	}

	return &models.AccountStatement{
		BankAccountID:   accountID,
		FromDate:        from,
		ToDate:          to,
		OpeningBalance:  opening,
		ClosingBalance:  closing,
		PeriodNetImpact: periodNet,
		Entries:         entries,
	}, nil
}

func (s *StatementService) openingBalance(ctx context.Context, r store.Repos, acct *models.BankAccount, from time.Time, inRange []*models.LedgerEntry) (decimal.Decimal, error) {
	prior, err := r.Ledger().LatestBefore(ctx, acct.TenantID, acct.ID, from)
	if err != nil {
		return decimal.Zero, err
	}
	if prior != nil {
		return prior.BalanceAfter, nil
	}
	if len(inRange) > 0 {
		first := inRange[0]
		if first.EntryType == models.EntryTypeInitialBalance {
			return first.BalanceAfter, nil
		}
		return first.BalanceAfter.Sub(first.Amount), nil
	}
	return acct.CurrentBalance, nil
}
