package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/apperrors"
	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/civildate"
	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/models"
	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/store"
)

type AccountService struct {
	store  store.Store
	logger *zap.Logger
}

func NewAccountService(st store.Store, logger *zap.Logger) *AccountService {
	return &AccountService{store: st, logger: logger}
}

// Create opens a bank account. A non-zero initial balance seeds the ledger
// with a single INITIAL_BALANCE entry whose amount and balance_after both
// equal the initial balance, in the same atomic unit as the account insert.
func (s *AccountService) Create(ctx context.Context, tenantID string, req *models.CreateAccountRequest) (*models.BankAccount, error) {
	initial, err := parseOptionalMoney("initial_balance", req.InitialBalance)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	acct := &models.BankAccount{
		ID:                uuid.New().String(),
		TenantID:          tenantID,
		Name:              req.Name,
		BankName:          req.BankName,
		AccountNumber:     req.AccountNumber,
		IsDefault:         req.IsDefault,
		CurrentBalance:    decimal.Zero,
		LastBalanceUpdate: now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err = s.store.Atomically(ctx, func(r store.Repos) error {
		if err := r.Accounts().Create(ctx, acct); err != nil {
			return err
		}
		if initial.IsZero() {
			return nil
		}
		return applyImpact(ctx, r, impact{
			tenantID:      tenantID,
			accountID:     acct.ID,
			delta:         initial,
			entryType:     models.EntryTypeInitialBalance,
			effectiveDate: civildate.Today(),
			description:   "initial balance",
			createdBy:     req.CreatedBy,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("bank account created",
		zap.String("account_id", acct.ID),
		zap.String("tenant_id", tenantID),
		zap.String("initial_balance", initial.String()))
	return s.store.Read().Accounts().GetByID(ctx, tenantID, acct.ID)
}

func (s *AccountService) Get(ctx context.Context, tenantID, id string) (*models.BankAccount, error) {
	return s.store.Read().Accounts().GetByID(ctx, tenantID, id)
}

func (s *AccountService) List(ctx context.Context, tenantID string) ([]*models.BankAccount, error) {
	return s.store.Read().Accounts().List(ctx, tenantID)
}

// AdjustBalance applies a signed manual correction to the running balance,
// paired with a MANUAL_BALANCE_ADJUSTMENT entry dated today.
func (s *AccountService) AdjustBalance(ctx context.Context, tenantID, accountID string, req *models.AdjustBalanceRequest) (*models.BankAccount, error) {
	delta, err := parseSignedAmount("amount", req.Amount)
	if err != nil {
		return nil, err
	}
	if delta.IsZero() {
		return nil, apperrors.Validationf("amount: adjustment must not be zero")
	}

	err = s.store.Atomically(ctx, func(r store.Repos) error {
		return applyImpact(ctx, r, impact{
			tenantID:      tenantID,
			accountID:     accountID,
			delta:         delta,
			entryType:     models.EntryTypeManualAdjustment,
			effectiveDate: civildate.Today(),
			description:   req.Description,
			createdBy:     req.AdjustedBy,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("manual balance adjustment applied",
		zap.String("account_id", accountID),
		zap.String("tenant_id", tenantID),
		zap.String("amount", delta.String()))
	return s.store.Read().Accounts().GetByID(ctx, tenantID, accountID)
}
