package fintrack

import (
	"iter"
	"slices"

	"github.com/etnz/fintrack/date"
)

// Ledger represents the list of transactions.
//
// In a Ledger transactions are kept most-recent-first: new entries are
// prepended. Entries are never edited in place, only removed wholesale.
type Ledger struct {
	transactions []Transaction
}

// NewLedger creates a ledger holding txs in the given order.
func NewLedger(txs ...Transaction) *Ledger {
	return &Ledger{transactions: slices.Clone(txs)}
}

// Len returns the number of transactions.
func (l *Ledger) Len() int { return len(l.transactions) }

// Prepend adds tx at the head of the ledger.
func (l *Ledger) Prepend(tx Transaction) {
	l.transactions = slices.Insert(l.transactions, 0, tx)
}

// Delete removes the transaction with that id. It reports whether one was removed.
func (l *Ledger) Delete(id string) bool {
	i := slices.IndexFunc(l.transactions, func(tx Transaction) bool { return tx.ID == id })
	if i < 0 {
		return false
	}
	l.transactions = slices.Delete(l.transactions, i, i+1)
	return true
}

// Get returns the transaction with that id.
func (l *Ledger) Get(id string) (Transaction, bool) {
	for _, tx := range l.transactions {
		if tx.ID == id {
			return tx, true
		}
	}
	return Transaction{}, false
}

// All returns a copy of the transactions in ledger order.
func (l *Ledger) All() []Transaction {
	return slices.Clone(l.transactions)
}

// Transactions returns an iterator over the transactions accepted by every
// filter, in ledger order. With no filter, every transaction is yielded.
func (l *Ledger) Transactions(filters ...func(Transaction) bool) iter.Seq2[int, Transaction] {
	return func(yield func(int, Transaction) bool) {
		for i, tx := range l.transactions {
			if !acceptAll(tx, filters) {
				continue
			}
			if !yield(i, tx) {
				return
			}
		}
	}
}

func acceptAll(tx Transaction, filters []func(Transaction) bool) bool {
	for _, filter := range filters {
		if !filter(tx) {
			return false
		}
	}
	return true
}

// AcceptAll is a filter that accepts every transaction.
func AcceptAll(Transaction) bool { return true }

// OfType accepts transactions of type t.
func OfType(t TransactionType) func(Transaction) bool {
	return func(tx Transaction) bool { return tx.Type == t }
}

// OnAccount accepts transactions whose source or destination is account.
func OnAccount(account string) func(Transaction) bool {
	return func(tx Transaction) bool { return tx.Account == account || tx.ToAccount == account }
}

// WithPerson accepts transactions whose counterparty is person.
func WithPerson(person string) func(Transaction) bool {
	return func(tx Transaction) bool { return tx.Person == person }
}

// Within accepts transactions dated within r.
func Within(r date.Range) func(Transaction) bool {
	return func(tx Transaction) bool { return r.Contains(tx.Date) }
}
