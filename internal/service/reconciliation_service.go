package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/apperrors"
	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/civildate"
	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/metrics"
	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/models"
	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/store"
)

// ReconciliationService compares ledger-derived totals against the balance
// the real bank statement reports, and when they agree, becomes the
// authoritative source for the account's running balance.
type ReconciliationService struct {
	store  store.Store
	logger *zap.Logger
}

func NewReconciliationService(st store.Store, logger *zap.Logger) *ReconciliationService {
	return &ReconciliationService{store: st, logger: logger}
}

// Create reconciles one period. Covered transactions are the account's PAID
// and PARTIALLY_PAID transactions paid inside [start, end]. The period is
// RECONCILED only when closing - (opening + income - expense) is exactly
// zero, with no tolerance. On RECONCILED every item is marked together and the
// account balance is force-overwritten to the reported closing balance; on
// DISCREPANCY everything persists unreconciled for manual follow-up and the
// balance is left alone.
func (s *ReconciliationService) Create(ctx context.Context, tenantID string, req *models.CreateReconciliationRequest) (*models.Reconciliation, error) {
	start, err := civildate.Parse(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := civildate.Parse(req.EndDate)
	if err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, apperrors.Validationf("start date must not be after end date")
	}
	reconDate, err := civildate.Parse(req.ReconciliationDate)
	if err != nil {
		return nil, err
	}

	opening, err := parseSignedAmount("opening_balance", req.OpeningBalance)
	if err != nil {
		return nil, err
	}
	closing, err := parseSignedAmount("closing_balance", req.ClosingBalance)
	if err != nil {
		return nil, err
	}

	read := s.store.Read()
	if _, err := read.Accounts().GetByID(ctx, tenantID, req.BankAccountID); err != nil {
		return nil, err
	}

	exists, err := read.Reconciliations().ExistsForDate(ctx, tenantID, req.BankAccountID, reconDate)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.Conflictf("a reconciliation already exists for this account on %s", civildate.Format(reconDate))
	}

	covered, err := read.Transactions().ListPaidInPeriod(ctx, tenantID, req.BankAccountID, start, end)
	if err != nil {
		return nil, err
	}

	totalIncome := decimal.Zero
	totalExpense := decimal.Zero
	for _, txn := range covered {
		if txn.Type == models.TxnTypeIncome {
			totalIncome = totalIncome.Add(txn.NetAmount)
		} else {
			totalExpense = totalExpense.Add(txn.NetAmount)
		}
	}

	systemBalance := opening.Add(totalIncome).Sub(totalExpense)
	difference := closing.Sub(systemBalance)

	status := models.ReconStatusDiscrepancy
	if difference.IsZero() {
		status = models.ReconStatusReconciled
	}

	now := time.Now()
	rec := &models.Reconciliation{
		ID:                 uuid.New().String(),
		TenantID:           tenantID,
		BankAccountID:      req.BankAccountID,
		StartDate:          start,
		EndDate:            end,
		ReconciliationDate: reconDate,
		OpeningBalance:     opening,
		ClosingBalance:     closing,
		SystemBalance:      systemBalance,
		Difference:         difference,
		Status:             status,
		TotalIncome:        totalIncome,
		TotalExpense:       totalExpense,
		Notes:              req.Notes,
		CreatedBy:          req.CreatedBy,
		CreatedAt:          now,
	}

	items := make([]*models.ReconciliationItem, 0, len(covered))
	for _, txn := range covered {
		item := &models.ReconciliationItem{
			ID:               uuid.New().String(),
			ReconciliationID: rec.ID,
			TransactionID:    txn.ID,
		}
		if status == models.ReconStatusReconciled {
			item.IsReconciled = true
			item.ReconciledAt = &now
			item.ReconciledBy = &rec.CreatedBy
		}
		items = append(items, item)
	}

	err = s.store.Atomically(ctx, func(r store.Repos) error {
		if err := r.Reconciliations().Create(ctx, rec, items); err != nil {
			return err
		}
		if status == models.ReconStatusReconciled {
			// The bank statement is authoritative: correct any drift between
			// the projected balance and the real-world balance.
			return r.Accounts().OverwriteBalance(ctx, tenantID, req.BankAccountID, closing)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	rec.Items = items
	metrics.ReconciliationsPerformed.WithLabelValues(string(status)).Inc()

	if status == models.ReconStatusReconciled {
		s.logger.Info("period reconciled",
			zap.String("reconciliation_id", rec.ID),
			zap.String("bank_account_id", req.BankAccountID),
			zap.Int("transactions", len(covered)),
			zap.String("closing_balance", closing.String()))
	} else {
		s.logger.Warn("reconciliation discrepancy",
			zap.String("reconciliation_id", rec.ID),
			zap.String("bank_account_id", req.BankAccountID),
			zap.String("system_balance", systemBalance.String()),
			zap.String("closing_balance", closing.String()),
			zap.String("difference", difference.String()))
	}
	return rec, nil
}

func (s *ReconciliationService) List(ctx context.Context, tenantID, accountID string) ([]*models.Reconciliation, error) {
	if _, err := s.store.Read().Accounts().GetByID(ctx, tenantID, accountID); err != nil {
		return nil, err
	}
	return s.store.Read().Reconciliations().List(ctx, tenantID, accountID)
}

func (s *ReconciliationService) ListUnreconciled(ctx context.Context, tenantID, accountID string) ([]*models.Reconciliation, error) {
	if _, err := s.store.Read().Accounts().GetByID(ctx, tenantID, accountID); err != nil {
		return nil, err
	}
	return s.store.Read().Reconciliations().ListUnreconciled(ctx, tenantID, accountID)
}
