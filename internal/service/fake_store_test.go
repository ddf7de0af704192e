package service_test

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/apperrors"
	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/models"
	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/service"
	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/store"
)

// memStore is an in-memory store.Store. Atomically runs against a snapshot
// and swaps it in only on success, mirroring the all-or-nothing contract of
// the real database transaction.
type memStore struct {
	data *memData

	// failAppendOn makes the nth ledger append (1-based, counted across the
	// store's lifetime) fail, to exercise rollback behavior.
	failAppendOn int
	appendCalls  int
}

type memData struct {
	accounts     map[string]*models.BankAccount
	transactions map[string]*models.Transaction
	entries      []*models.LedgerEntry
	recs         []*models.Reconciliation
	items        []*models.ReconciliationItem
}

func newMemStore() *memStore {
	return &memStore{data: &memData{
		accounts:     map[string]*models.BankAccount{},
		transactions: map[string]*models.Transaction{},
	}}
}

func (d *memData) clone() *memData {
	c := &memData{
		accounts:     make(map[string]*models.BankAccount, len(d.accounts)),
		transactions: make(map[string]*models.Transaction, len(d.transactions)),
		entries:      make([]*models.LedgerEntry, len(d.entries)),
		recs:         make([]*models.Reconciliation, len(d.recs)),
		items:        make([]*models.ReconciliationItem, len(d.items)),
	}
	for id, a := range d.accounts {
		cp := *a
		c.accounts[id] = &cp
	}
	for id, t := range d.transactions {
		cp := *t
		c.transactions[id] = &cp
	}
	copy(c.entries, d.entries)
	copy(c.recs, d.recs)
	copy(c.items, d.items)
	return c
}

func (s *memStore) Read() store.Repos {
	return &memRepos{s: s, data: s.data}
}

func (s *memStore) Atomically(_ context.Context, fn func(r store.Repos) error) error {
	snapshot := s.data.clone()
	if err := fn(&memRepos{s: s, data: snapshot}); err != nil {
		return err
	}
	s.data = snapshot
	return nil
}

type memRepos struct {
	s    *memStore
	data *memData
}

func (r *memRepos) Accounts() store.AccountRepository               { return (*memAccounts)(r) }
func (r *memRepos) Transactions() store.TransactionRepository       { return (*memTransactions)(r) }
func (r *memRepos) Ledger() store.LedgerRepository                  { return (*memLedger)(r) }
func (r *memRepos) Reconciliations() store.ReconciliationRepository { return (*memRecons)(r) }

type memAccounts memRepos

func (m *memAccounts) Create(_ context.Context, acct *models.BankAccount) error {
	for _, existing := range m.data.accounts {
		if existing.TenantID == acct.TenantID &&
			existing.BankName == acct.BankName &&
			existing.AccountNumber == acct.AccountNumber {
			return apperrors.Conflictf("a bank account with this bank and account number already exists")
		}
	}
	cp := *acct
	m.data.accounts[acct.ID] = &cp
	return nil
}

func (m *memAccounts) GetByID(_ context.Context, tenantID, id string) (*models.BankAccount, error) {
	acct, ok := m.data.accounts[id]
	if !ok || acct.TenantID != tenantID {
		return nil, apperrors.NotFoundf("bank account %s not found", id)
	}
	cp := *acct
	return &cp, nil
}

func (m *memAccounts) List(_ context.Context, tenantID string) ([]*models.BankAccount, error) {
	var out []*models.BankAccount
	for _, acct := range m.data.accounts {
		if acct.TenantID == tenantID {
			cp := *acct
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memAccounts) ApplyBalanceImpact(_ context.Context, tenantID, accountID string, delta decimal.Decimal) (decimal.Decimal, error) {
	acct, ok := m.data.accounts[accountID]
	if !ok || acct.TenantID != tenantID {
		return decimal.Zero, apperrors.NotFoundf("bank account %s not found", accountID)
	}
	acct.CurrentBalance = acct.CurrentBalance.Add(delta)
	acct.LastBalanceUpdate = time.Now()
	acct.UpdatedAt = acct.LastBalanceUpdate
	return acct.CurrentBalance, nil
}

func (m *memAccounts) OverwriteBalance(_ context.Context, tenantID, accountID string, balance decimal.Decimal) error {
	acct, ok := m.data.accounts[accountID]
	if !ok || acct.TenantID != tenantID {
		return apperrors.NotFoundf("bank account %s not found", accountID)
	}
	acct.CurrentBalance = balance
	acct.LastBalanceUpdate = time.Now()
	acct.UpdatedAt = acct.LastBalanceUpdate
	return nil
}

type memTransactions memRepos

func (m *memTransactions) Create(_ context.Context, txn *models.Transaction) error {
	cp := *txn
	m.data.transactions[txn.ID] = &cp
	return nil
}

func (m *memTransactions) GetByID(_ context.Context, tenantID, id string) (*models.Transaction, error) {
	txn, ok := m.data.transactions[id]
	if !ok || txn.TenantID != tenantID {
		return nil, apperrors.NotFoundf("transaction %s not found", id)
	}
	cp := *txn
	return &cp, nil
}

func (m *memTransactions) GetForUpdate(ctx context.Context, tenantID, id string) (*models.Transaction, error) {
	// No row locks in memory; Atomically's snapshot swap already keeps
	// units from observing each other's partial state.
	return m.GetByID(ctx, tenantID, id)
}

func (m *memTransactions) Update(_ context.Context, txn *models.Transaction) error {
	existing, ok := m.data.transactions[txn.ID]
	if !ok || existing.TenantID != txn.TenantID {
		return apperrors.NotFoundf("transaction %s not found", txn.ID)
	}
	cp := *txn
	m.data.transactions[txn.ID] = &cp
	return nil
}

func (m *memTransactions) ListPaidInPeriod(_ context.Context, tenantID, accountID string, start, end time.Time) ([]*models.Transaction, error) {
	var out []*models.Transaction
	for _, txn := range m.data.transactions {
		if txn.TenantID != tenantID || txn.BankAccountID == nil || *txn.BankAccountID != accountID {
			continue
		}
		if txn.Status != models.TxnStatusPaid && txn.Status != models.TxnStatusPartiallyPaid {
			continue
		}
		if txn.PaymentDate == nil || txn.PaymentDate.Before(start) || txn.PaymentDate.After(end) {
			continue
		}
		cp := *txn
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PaymentDate.Before(*out[j].PaymentDate) })
	return out, nil
}

type memLedger memRepos

func (m *memLedger) Append(_ context.Context, entry *models.LedgerEntry) error {
	m.s.appendCalls++
	if m.s.failAppendOn > 0 && m.s.appendCalls == m.s.failAppendOn {
		return errors.New("simulated append failure")
	}
	cp := *entry
	m.data.entries = append(m.data.entries, &cp)
	return nil
}

// ordered returns the account's entries sorted by (effective_date,
// created_at) with insertion order preserved for ties.
func (m *memLedger) ordered(tenantID, accountID string) []*models.LedgerEntry {
	var out []*models.LedgerEntry
	for _, e := range m.data.entries {
		if e.TenantID == tenantID && e.BankAccountID == accountID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].EffectiveDate.Equal(out[j].EffectiveDate) {
			return out[i].EffectiveDate.Before(out[j].EffectiveDate)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (m *memLedger) ListRange(_ context.Context, tenantID, accountID string, from, to time.Time) ([]*models.LedgerEntry, error) {
	var out []*models.LedgerEntry
	for _, e := range m.ordered(tenantID, accountID) {
		if e.EffectiveDate.Before(from) || e.EffectiveDate.After(to) {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memLedger) LatestBefore(_ context.Context, tenantID, accountID string, before time.Time) (*models.LedgerEntry, error) {
	var latest *models.LedgerEntry
	for _, e := range m.ordered(tenantID, accountID) {
		if e.EffectiveDate.Before(before) {
			latest = e
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (m *memLedger) Latest(_ context.Context, tenantID, accountID string) (*models.LedgerEntry, error) {
	ordered := m.ordered(tenantID, accountID)
	if len(ordered) == 0 {
		return nil, nil
	}
	cp := *ordered[len(ordered)-1]
	return &cp, nil
}

type memRecons memRepos

func (m *memRecons) Create(_ context.Context, rec *models.Reconciliation, items []*models.ReconciliationItem) error {
	for _, existing := range m.data.recs {
		if existing.TenantID == rec.TenantID &&
			existing.BankAccountID == rec.BankAccountID &&
			existing.ReconciliationDate.Equal(rec.ReconciliationDate) {
			return apperrors.Conflictf("a reconciliation already exists for this account and date")
		}
	}
	cp := *rec
	cp.Items = nil
	m.data.recs = append(m.data.recs, &cp)
	for _, item := range items {
		icp := *item
		m.data.items = append(m.data.items, &icp)
	}
	return nil
}

func (m *memRecons) ExistsForDate(_ context.Context, tenantID, accountID string, date time.Time) (bool, error) {
	for _, rec := range m.data.recs {
		if rec.TenantID == tenantID && rec.BankAccountID == accountID && rec.ReconciliationDate.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRecons) List(_ context.Context, tenantID, accountID string) ([]*models.Reconciliation, error) {
	var out []*models.Reconciliation
	for _, rec := range m.data.recs {
		if rec.TenantID == tenantID && rec.BankAccountID == accountID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memRecons) ListUnreconciled(_ context.Context, tenantID, accountID string) ([]*models.Reconciliation, error) {
	var out []*models.Reconciliation
	for _, rec := range m.data.recs {
		if rec.TenantID == tenantID && rec.BankAccountID == accountID && rec.Status != models.ReconStatusReconciled {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

// interposedStore delegates to an inner store and runs a hook once right
// before the next atomic unit starts, so a test can squeeze a competing
// operation into the gap between a call's arrival and its transaction.
type interposedStore struct {
	inner  store.Store
	before func()
}

func (s *interposedStore) Read() store.Repos { return s.inner.Read() }

func (s *interposedStore) Atomically(ctx context.Context, fn func(r store.Repos) error) error {
	if s.before != nil {
		hook := s.before
		s.before = nil
		hook()
	}
	return s.inner.Atomically(ctx, fn)
}

// fakeCategories serves category lookups from a fixed map.
type fakeCategories struct {
	categories map[string]*service.Category
}

func (f *fakeCategories) Lookup(_ context.Context, _, categoryID string) (*service.Category, error) {
	cat, ok := f.categories[categoryID]
	if !ok {
		return nil, apperrors.NotFoundf("category %s not found", categoryID)
	}
	cp := *cat
	return &cp, nil
}
