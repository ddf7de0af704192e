// Package metrics exposes the prometheus counters published on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LedgerEntriesAppended = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "finance_ledger_entries_appended_total",
		Help: "Ledger entries appended, partitioned by entry type.",
	}, []string{"entry_type"})

	TransactionTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "finance_transaction_transitions_total",
		Help: "Transaction status transitions, partitioned by target status.",
	}, []string{"to_status"})

	ReconciliationsPerformed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "finance_reconciliations_total",
		Help: "Bank reconciliations performed, partitioned by result status.",
	}, []string{"status"})
)
