package fintrack

import (
	"slices"
)

// All is the filter value that disables a type or account filter.
const All = "All"

// byTimestampDesc sorts most recently created first. The sort is stable so
// entries created in the same millisecond keep their relative order.
func byTimestampDesc(txs []Transaction) []Transaction {
	slices.SortStableFunc(txs, func(a, b Transaction) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return txs
}

// DueReminders returns every reminder, most recently created first.
// The optional due date plays no role in the ordering.
func DueReminders(transactions []Transaction) []Transaction {
	var reminders []Transaction
	for _, tx := range transactions {
		if tx.Type == TypeReminder {
			reminders = append(reminders, tx)
		}
	}
	return byTimestampDesc(reminders)
}

// FilterTransactions keeps the transactions matching typeFilter and
// accountFilter, most recently created first. Either filter may be All.
// The account filter matches the source or the transfer destination.
func FilterTransactions(transactions []Transaction, typeFilter, accountFilter string) []Transaction {
	var filters []func(Transaction) bool
	if typeFilter != All {
		filters = append(filters, OfType(TransactionType(typeFilter)))
	}
	if accountFilter != All {
		filters = append(filters, OnAccount(accountFilter))
	}
	var out []Transaction
	for _, tx := range transactions {
		if acceptAll(tx, filters) {
			out = append(out, tx)
		}
	}
	return byTimestampDesc(out)
}

// PersonHistory returns the transactions with person as counterparty, in
// the given order (newest-first for a Ledger).
func PersonHistory(transactions []Transaction, person string) []Transaction {
	var out []Transaction
	for _, tx := range transactions {
		if tx.Person == person {
			out = append(out, tx)
		}
	}
	return out
}
