package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountStatement reconstructs an account's activity over a period from the
// ledger: opening balance, chronological entries, net impact and closing
// balance. It is a pure read model.
type AccountStatement struct {
	BankAccountID   string          `json:"bank_account_id"`
	FromDate        time.Time       `json:"from_date"`
	ToDate          time.Time       `json:"to_date"`
	OpeningBalance  decimal.Decimal `json:"opening_balance"`
	ClosingBalance  decimal.Decimal `json:"closing_balance"`
	PeriodNetImpact decimal.Decimal `json:"period_net_impact"`
	Entries         []*LedgerEntry  `json:"entries"`
}
