package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/apperrors"
	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/civildate"
	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/metrics"
	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/models"
	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/store"
)

// TransactionService owns the transaction state machine:
//
//	PENDING -(MarkPaid)-> PAID -(Cancel)-> CANCELLED
//	PENDING -(Cancel)-> CANCELLED
//	PAID -(MarkPaid)-> PAID (idempotent, no ledger effect)
//
// No transition leaves PAID or CANCELLED back to PENDING. PARTIALLY_PAID is
// a declared status with no supported transitions.
type TransactionService struct {
	store      store.Store
	categories CategoryValidator
	logger     *zap.Logger
}

func NewTransactionService(st store.Store, categories CategoryValidator, logger *zap.Logger) *TransactionService {
	return &TransactionService{store: st, categories: categories, logger: logger}
}

// Create persists a new PENDING transaction. Creation never touches the
// ledger: balance impact only happens on payment confirmation.
func (s *TransactionService) Create(ctx context.Context, tenantID string, req *models.CreateTransactionRequest) (*models.Transaction, error) {
	switch req.Status {
	case "", models.TxnStatusPending:
	case models.TxnStatusPaid:
		return nil, apperrors.BusinessRulef("transactions cannot be created as PAID; confirm payment separately")
	default:
		return nil, apperrors.BusinessRulef("transactions cannot be created with status %s", req.Status)
	}

	amount, err := parseMoney("amount", req.Amount)
	if err != nil {
		return nil, err
	}
	discount, err := parseOptionalMoney("discount_amount", req.DiscountAmount)
	if err != nil {
		return nil, err
	}
	lateFee, err := parseOptionalMoney("late_fee_amount", req.LateFeeAmount)
	if err != nil {
		return nil, err
	}
	net, err := netAmount(amount, discount, lateFee)
	if err != nil {
		return nil, err
	}

	if err := s.validateCategory(ctx, tenantID, req.CategoryID, req.Type); err != nil {
		return nil, err
	}

	dueDate, err := civildate.Parse(req.DueDate)
	if err != nil {
		return nil, err
	}

	if req.BankAccountID != nil {
		if _, err := s.store.Read().Accounts().GetByID(ctx, tenantID, *req.BankAccountID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	txn := &models.Transaction{
		ID:             uuid.New().String(),
		TenantID:       tenantID,
		Type:           req.Type,
		Status:         models.TxnStatusPending,
		CategoryID:     req.CategoryID,
		Description:    req.Description,
		Amount:         amount,
		DiscountAmount: discount,
		LateFeeAmount:  lateFee,
		NetAmount:      net,
		BankAccountID:  req.BankAccountID,
		DueDate:        dueDate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = s.store.Atomically(ctx, func(r store.Repos) error {
		return r.Transactions().Create(ctx, txn)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("transaction created",
		zap.String("transaction_id", txn.ID),
		zap.String("tenant_id", tenantID),
		zap.String("type", string(txn.Type)),
		zap.String("net_amount", net.String()))
	return txn, nil
}

func (s *TransactionService) Get(ctx context.Context, tenantID, id string) (*models.Transaction, error) {
	return s.store.Read().Transactions().GetByID(ctx, tenantID, id)
}

// Update edits a transaction. Status may only restate the current value;
// transitions go through MarkPaid/Cancel. Editing a PAID transaction's
// financial fields reverses the old impact against the original account and
// reapplies the new impact against the (possibly different) new account,
// both recorded as PAID_TRANSACTION_UPDATE entries dated today, in one
// atomic unit.
func (s *TransactionService) Update(ctx context.Context, tenantID, id string, req *models.UpdateTransactionRequest) (*models.Transaction, error) {
	var updated *models.Transaction
	var oldImpact, newImpact string
	var reversed bool
	err := s.store.Atomically(ctx, func(r store.Repos) error {
		current, err := r.Transactions().GetForUpdate(ctx, tenantID, id)
		if err != nil {
			return err
		}

		if req.Status != nil {
			if *req.Status == models.TxnStatusPaid {
				return apperrors.BusinessRulef("status cannot be set to PAID through update; confirm payment separately")
			}
			if *req.Status != current.Status {
				return apperrors.BusinessRulef("status cannot change from %s to %s through update", current.Status, *req.Status)
			}
		}

		updated, err = s.applyEdit(current, req)
		if err != nil {
			return err
		}

		if updated.CategoryID != current.CategoryID || updated.Type != current.Type {
			if err := s.validateCategory(ctx, tenantID, updated.CategoryID, updated.Type); err != nil {
				return err
			}
		}

		if updated.BankAccountID != nil && !sameAccount(updated.BankAccountID, current.BankAccountID) {
			if _, err := r.Accounts().GetByID(ctx, tenantID, *updated.BankAccountID); err != nil {
				return err
			}
		}

		financialEdit := updated.Type != current.Type ||
			updated.CategoryID != current.CategoryID ||
			!updated.Amount.Equal(current.Amount) ||
			!updated.DiscountAmount.Equal(current.DiscountAmount) ||
			!updated.LateFeeAmount.Equal(current.LateFeeAmount) ||
			!sameAccount(updated.BankAccountID, current.BankAccountID)

		if current.Status == models.TxnStatusPaid {
			if updated.BankAccountID == nil {
				return apperrors.BusinessRulef("a paid transaction cannot lose its bank account link")
			}
			if financialEdit {
				reversed = true
				oldImpact = current.SignedImpact().String()
				newImpact = updated.SignedImpact().String()
				today := civildate.Today()
				if err := applyImpact(ctx, r, impact{
					tenantID:      current.TenantID,
					accountID:     *current.BankAccountID,
					delta:         current.SignedImpact().Neg(),
					entryType:     models.EntryTypePaidTxnUpdate,
					effectiveDate: today,
					transactionID: &current.ID,
					description:   "reversal of prior payment impact on edit",
				}); err != nil {
					return err
				}
				if err := applyImpact(ctx, r, impact{
					tenantID:      updated.TenantID,
					accountID:     *updated.BankAccountID,
					delta:         updated.SignedImpact(),
					entryType:     models.EntryTypePaidTxnUpdate,
					effectiveDate: today,
					transactionID: &updated.ID,
					description:   "reapplication of payment impact after edit",
				}); err != nil {
					return err
				}
			}
		}
		return r.Transactions().Update(ctx, updated)
	})
	if err != nil {
		return nil, err
	}

	if reversed {
		s.logger.Info("paid transaction edited with ledger reversal",
			zap.String("transaction_id", updated.ID),
			zap.String("old_impact", oldImpact),
			zap.String("new_impact", newImpact))
	}
	return updated, nil
}

// MarkPaid confirms payment. Re-confirming an already-PAID transaction only
// refreshes payment_date/confirmed_by and never reapplies the balance
// impact, which makes client retries safe. The status branch is decided on
// a row-locked read inside the atomic unit, so a duplicate delivery racing
// the first confirmation waits for it and then lands on the idempotent path.
func (s *TransactionService) MarkPaid(ctx context.Context, tenantID, id string, req *models.MarkPaidRequest) (*models.Transaction, error) {
	paymentDate, err := civildate.Parse(req.PaymentDate)
	if err != nil {
		return nil, err
	}

	var txn *models.Transaction
	var confirmed bool
	err = s.store.Atomically(ctx, func(r store.Repos) error {
		var err error
		txn, err = r.Transactions().GetForUpdate(ctx, tenantID, id)
		if err != nil {
			return err
		}

		switch txn.Status {
		case models.TxnStatusCancelled:
			return apperrors.BusinessRulef("a cancelled transaction cannot be paid")
		case models.TxnStatusPartiallyPaid:
			return apperrors.BusinessRulef("partially paid transactions are not supported")
		}

		if txn.Status == models.TxnStatusPaid {
			txn.PaymentDate = &paymentDate
			txn.ConfirmedBy = &req.ConfirmedBy
			txn.UpdatedAt = time.Now()
			return r.Transactions().Update(ctx, txn)
		}

		accountID := txn.BankAccountID
		if req.BankAccountID != nil {
			accountID = req.BankAccountID
		}
		if accountID == nil {
			return apperrors.BusinessRulef("a bank account is required to confirm payment")
		}

		txn.Status = models.TxnStatusPaid
		txn.BankAccountID = accountID
		txn.PaymentDate = &paymentDate
		txn.ConfirmedBy = &req.ConfirmedBy
		txn.UpdatedAt = time.Now()
		confirmed = true

		if err := applyImpact(ctx, r, impact{
			tenantID:      tenantID,
			accountID:     *accountID,
			delta:         txn.SignedImpact(),
			entryType:     models.EntryTypePaymentConfirm,
			effectiveDate: paymentDate,
			transactionID: &txn.ID,
			description:   txn.Description,
			createdBy:     req.ConfirmedBy,
		}); err != nil {
			return err
		}
		return r.Transactions().Update(ctx, txn)
	})
	if err != nil {
		return nil, err
	}

	if confirmed {
		metrics.TransactionTransitions.WithLabelValues(string(models.TxnStatusPaid)).Inc()
		s.logger.Info("transaction marked paid",
			zap.String("transaction_id", txn.ID),
			zap.String("bank_account_id", *txn.BankAccountID),
			zap.String("impact", txn.SignedImpact().String()))
	}
	return txn, nil
}

// Cancel terminates a transaction. Cancelling a PAID transaction reverses
// its impact with a PAYMENT_REVERSAL entry dated today; cancelling a
// PENDING one has no ledger effect because no impact was ever applied.
func (s *TransactionService) Cancel(ctx context.Context, tenantID, id, cancelledBy string) (*models.Transaction, error) {
	var txn *models.Transaction
	var wasPaid bool
	err := s.store.Atomically(ctx, func(r store.Repos) error {
		var err error
		txn, err = r.Transactions().GetForUpdate(ctx, tenantID, id)
		if err != nil {
			return err
		}

		switch txn.Status {
		case models.TxnStatusPartiallyPaid:
			return apperrors.BusinessRulef("partially paid transactions are not supported")
		case models.TxnStatusCancelled:
			return apperrors.BusinessRulef("transaction is already cancelled")
		}

		wasPaid = txn.Status == models.TxnStatusPaid
		reversal := txn.SignedImpact().Neg()
		accountID := txn.BankAccountID

		txn.Status = models.TxnStatusCancelled
		txn.PaymentDate = nil
		txn.ConfirmedBy = nil
		txn.UpdatedAt = time.Now()

		if wasPaid {
			if err := applyImpact(ctx, r, impact{
				tenantID:      tenantID,
				accountID:     *accountID,
				delta:         reversal,
				entryType:     models.EntryTypePaymentReversal,
				effectiveDate: civildate.Today(),
				transactionID: &txn.ID,
				description:   "payment reversal on cancellation",
				createdBy:     cancelledBy,
			}); err != nil {
				return err
			}
		}
		return r.Transactions().Update(ctx, txn)
	})
	if err != nil {
		return nil, err
	}

	metrics.TransactionTransitions.WithLabelValues(string(models.TxnStatusCancelled)).Inc()
	s.logger.Info("transaction cancelled",
		zap.String("transaction_id", txn.ID),
		zap.Bool("reversed_payment", wasPaid))
	return txn, nil
}

func (s *TransactionService) validateCategory(ctx context.Context, tenantID, categoryID string, txnType models.TransactionType) error {
	cat, err := s.categories.Lookup(ctx, tenantID, categoryID)
	if err != nil {
		return err
	}
	if !cat.Active {
		return apperrors.BusinessRulef("category %s is inactive", categoryID)
	}
	if cat.Type != txnType {
		return apperrors.BusinessRulef("category %s is a %s category, transaction is %s", categoryID, cat.Type, txnType)
	}
	return nil
}

// applyEdit materializes the partial edit into a full transaction copy,
// reparsing monetary fields and rederiving the net amount.
func (s *TransactionService) applyEdit(current *models.Transaction, req *models.UpdateTransactionRequest) (*models.Transaction, error) {
	updated := *current
	updated.UpdatedAt = time.Now()

	if req.Type != nil {
		if *req.Type != models.TxnTypeIncome && *req.Type != models.TxnTypeExpense {
			return nil, apperrors.Validationf("type: must be INCOME or EXPENSE")
		}
		updated.Type = *req.Type
	}
	if req.CategoryID != nil {
		updated.CategoryID = *req.CategoryID
	}
	if req.Description != nil {
		updated.Description = *req.Description
	}
	if req.Amount != nil {
		amount, err := parseMoney("amount", *req.Amount)
		if err != nil {
			return nil, err
		}
		updated.Amount = amount
	}
	if req.DiscountAmount != nil {
		discount, err := parseMoney("discount_amount", *req.DiscountAmount)
		if err != nil {
			return nil, err
		}
		updated.DiscountAmount = discount
	}
	if req.LateFeeAmount != nil {
		lateFee, err := parseMoney("late_fee_amount", *req.LateFeeAmount)
		if err != nil {
			return nil, err
		}
		updated.LateFeeAmount = lateFee
	}
	if req.DueDate != nil {
		dueDate, err := civildate.Parse(*req.DueDate)
		if err != nil {
			return nil, err
		}
		updated.DueDate = dueDate
	}
	if req.ClearBankAccount {
		updated.BankAccountID = nil
	} else if req.BankAccountID != nil {
		updated.BankAccountID = req.BankAccountID
	}

	net, err := netAmount(updated.Amount, updated.DiscountAmount, updated.LateFeeAmount)
	if err != nil {
		return nil, err
	}
	updated.NetAmount = net
	return &updated, nil
}

func sameAccount(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
