package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/metrics"
	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/models"
	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/store"
)

// impact describes one signed balance change and the ledger entry recording
// it. The two persist together or not at all.
type impact struct {
	tenantID      string
	accountID     string
	delta         decimal.Decimal
	entryType     models.EntryType
	effectiveDate time.Time
	transactionID *string
	referenceType *string
	referenceID   *string
	description   string
	createdBy     string
}

// applyImpact is the balance projector plus ledger appender: it increments
// the account balance by the signed delta and appends one entry carrying
// that same delta and the post-increment balance. It must only be called
// inside a store.Atomically unit, alongside the entity write that triggered
// the impact.
func applyImpact(ctx context.Context, r store.Repos, p impact) error {
	balance, err := r.Accounts().ApplyBalanceImpact(ctx, p.tenantID, p.accountID, p.delta)
	if err != nil {
		return fmt.Errorf("applying balance impact: %w", err)
	}

	entry := &models.LedgerEntry{
		ID:            uuid.New().String(),
		TenantID:      p.tenantID,
		BankAccountID: p.accountID,
		EffectiveDate: p.effectiveDate,
		Amount:        p.delta,
		BalanceAfter:  balance,
		EntryType:     p.entryType,
		TransactionID: p.transactionID,
		ReferenceType: p.referenceType,
		ReferenceID:   p.referenceID,
		Description:   p.description,
		CreatedBy:     p.createdBy,
		CreatedAt:     time.Now(),
	}
	if err := r.Ledger().Append(ctx, entry); err != nil {
		return fmt.Errorf("appending ledger entry: %w", err)
	}

	metrics.LedgerEntriesAppended.WithLabelValues(string(p.entryType)).Inc()
	return nil
}
