package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/apperrors"
	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/civildate"
	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/models"
	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/service"
	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/store"
)

func seedEntry(st *memStore, accountID string, date string, amount, balanceAfter string, entryType models.EntryType) {
	d, _ := civildate.Parse(date)
	st.data.entries = append(st.data.entries, &models.LedgerEntry{
		ID:            "entry-" + date + "-" + amount,
		TenantID:      testTenant,
		BankAccountID: accountID,
		EffectiveDate: d,
		Amount:        decimal.RequireFromString(amount),
		BalanceAfter:  decimal.RequireFromString(balanceAfter),
		EntryType:     entryType,
		CreatedAt:     time.Now(),
	})
}

func seedAccount(st *memStore, id, balance string) {
	st.data.accounts[id] = &models.BankAccount{
		ID:             id,
		TenantID:       testTenant,
		Name:           "Operating",
		BankName:       "001",
		AccountNumber:  id,
		CurrentBalance: decimal.RequireFromString(balance),
		CreatedAt:      time.Now(),
	}
}

func statementRange(t *testing.T, from, to string) (time.Time, time.Time) {
	t.Helper()
	f, err := civildate.Parse(from)
	require.NoError(t, err)
	u, err := civildate.Parse(to)
	require.NoError(t, err)
	return f, u
}

func TestStatementOpeningFromPriorEntry(t *testing.T) {
	st := newMemStore()
	seedAccount(st, "acct-1", "1250.00")
	seedEntry(st, "acct-1", "2025-02-20", "1000.00", "1000.00", models.EntryTypeInitialBalance)
	seedEntry(st, "acct-1", "2025-03-05", "200.00", "1200.00", models.EntryTypePaymentConfirm)
	seedEntry(st, "acct-1", "2025-03-10", "50.00", "1250.00", models.EntryTypePaymentConfirm)

	svc := service.NewStatementService(st, zap.NewNop())
	from, to := statementRange(t, "2025-03-01", "2025-03-31")

	stmt, err := svc.Statement(context.Background(), testTenant, "acct-1", from, to)
	require.NoError(t, err)

	assert.True(t, stmt.OpeningBalance.Equal(decimal.RequireFromString("1000.00")))
	assert.True(t, stmt.ClosingBalance.Equal(decimal.RequireFromString("1250.00")))
	assert.True(t, stmt.PeriodNetImpact.Equal(decimal.RequireFromString("250.00")))
	assert.Len(t, stmt.Entries, 2)
}

func TestStatementOpeningFromInRangeInitialBalance(t *testing.T) {
	st := newMemStore()
	seedAccount(st, "acct-1", "1100.00")
	seedEntry(st, "acct-1", "2025-03-02", "1000.00", "1000.00", models.EntryTypeInitialBalance)
	seedEntry(st, "acct-1", "2025-03-10", "100.00", "1100.00", models.EntryTypePaymentConfirm)

	svc := service.NewStatementService(st, zap.NewNop())
	from, to := statementRange(t, "2025-03-01", "2025-03-31")

	stmt, err := svc.Statement(context.Background(), testTenant, "acct-1", from, to)
	require.NoError(t, err)

	assert.True(t, stmt.OpeningBalance.Equal(decimal.RequireFromString("1000.00")),
		"INITIAL_BALANCE marker supplies its balance_after directly")
	assert.True(t, stmt.PeriodNetImpact.Equal(decimal.RequireFromString("100.00")),
		"INITIAL_BALANCE is a baseline, not period activity")
	assert.True(t, stmt.ClosingBalance.Equal(decimal.RequireFromString("1100.00")))
}

func TestStatementOpeningBackComputed(t *testing.T) {
	st := newMemStore()
	seedAccount(st, "acct-1", "900.00")
	seedEntry(st, "acct-1", "2025-03-10", "-100.00", "900.00", models.EntryTypePaymentConfirm)

	svc := service.NewStatementService(st, zap.NewNop())
	from, to := statementRange(t, "2025-03-01", "2025-03-31")

	stmt, err := svc.Statement(context.Background(), testTenant, "acct-1", from, to)
	require.NoError(t, err)

	assert.True(t, stmt.OpeningBalance.Equal(decimal.RequireFromString("1000.00")),
		"opening = first entry's balance_after - amount")
}

func TestStatementEmptyLedgerFallsBackToStoredBalance(t *testing.T) {
	st := newMemStore()
	seedAccount(st, "acct-1", "417.23")

	svc := service.NewStatementService(st, zap.NewNop())
	from, to := statementRange(t, "2025-03-01", "2025-03-31")

	stmt, err := svc.Statement(context.Background(), testTenant, "acct-1", from, to)
	require.NoError(t, err)

	assert.True(t, stmt.OpeningBalance.Equal(decimal.RequireFromString("417.23")))
	assert.True(t, stmt.ClosingBalance.Equal(decimal.RequireFromString("417.23")))
	assert.True(t, stmt.PeriodNetImpact.IsZero())
	assert.Empty(t, stmt.Entries)
}

func TestStatementSameDayEntriesKeepInsertionOrder(t *testing.T) {
	st := newMemStore()
	seedAccount(st, "acct-1", "1300.00")
	seedEntry(st, "acct-1", "2025-03-10", "200.00", "1200.00", models.EntryTypePaymentConfirm)
	seedEntry(st, "acct-1", "2025-03-10", "100.00", "1300.00", models.EntryTypePaymentConfirm)

	svc := service.NewStatementService(st, zap.NewNop())
	from, to := statementRange(t, "2025-03-01", "2025-03-31")

	stmt, err := svc.Statement(context.Background(), testTenant, "acct-1", from, to)
	require.NoError(t, err)

	require.Len(t, stmt.Entries, 2)
	assert.True(t, stmt.Entries[0].Amount.Equal(decimal.RequireFromString("200.00")))
	assert.True(t, stmt.Entries[1].Amount.Equal(decimal.RequireFromString("100.00")))
	assert.True(t, stmt.ClosingBalance.Equal(decimal.RequireFromString("1300.00")),
		"closing is the balance_after of the last same-day entry by insertion order")
}

func TestStatementRejectsInvertedRange(t *testing.T) {
	st := newMemStore()
	seedAccount(st, "acct-1", "0")

	svc := service.NewStatementService(st, zap.NewNop())
	from, to := statementRange(t, "2025-03-31", "2025-03-01")

	_, err := svc.Statement(context.Background(), testTenant, "acct-1", from, to)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestStatementUnknownAccount(t *testing.T) {
	st := newMemStore()
	svc := service.NewStatementService(st, zap.NewNop())
	from, to := statementRange(t, "2025-03-01", "2025-03-31")

	_, err := svc.Statement(context.Background(), testTenant, "missing", from, to)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

var _ store.Store = (*memStore)(nil)
