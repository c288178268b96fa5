package fintrack

import (
	"errors"
	"time"

	"github.com/etnz/fintrack/date"
)

// ErrZeroAmount is returned when recording a zero amount for a type that
// moves money. Reminders and external spends may carry no amount.
var ErrZeroAmount = errors.New("amount must not be zero")

// Draft is a candidate transaction as collected from the user.
// Zero fields are filled with defaults when the draft is built.
type Draft struct {
	Type TransactionType // TypeExpense when empty
	// AsCredit records an expense as a ledger credit to Person.
	AsCredit bool

	Amount           Money
	Account          string
	ToAccount        string
	Person           string
	PersonAdjustment bool
	Category         string
	Date             date.Date
	DueDate          date.Date
	Note             string

	IsAuto    bool
	AutoPayID string

	EventID       string
	PaidBy        string
	PaymentMethod string
	BillImage     string
}

// EffectiveType returns the type that will be persisted for this draft.
// This is the only place where the chosen type and the stored type differ.
func (d Draft) EffectiveType() TransactionType {
	t := d.Type
	if t == "" {
		t = TypeExpense
	}
	if t == TypeExpense && d.AsCredit {
		return TypeCredit
	}
	return t
}

// Build validates and normalizes the draft into a Transaction.
//
// firstAccount is the account used when the draft has none, id the fresh
// identifier and now the creation instant; today is derived from now.
// Account and person names are not checked against any registry.
func (d Draft) Build(id string, now time.Time, firstAccount string) (Transaction, error) {
	typ := d.EffectiveType()
	if _, err := ParseTransactionType(string(typ)); err != nil {
		return Transaction{}, err
	}

	amount := d.Amount.Abs()
	if typ == TypeAdjustment {
		amount = d.Amount
	}
	if amount.IsZero() && typ.affectsBalances() {
		return Transaction{}, ErrZeroAmount
	}

	tx := Transaction{
		ID:               id,
		Type:             typ,
		Amount:           amount,
		Account:          or(d.Account, firstAccount),
		ToAccount:        d.ToAccount,
		Person:           d.Person,
		PersonAdjustment: d.PersonAdjustment,
		Category:         or(d.Category, DefaultCategory),
		Date:             d.Date,
		DueDate:          d.DueDate,
		Note:             d.Note,
		Timestamp:        now,
		IsAuto:           d.IsAuto,
		AutoPayID:        d.AutoPayID,
		EventID:          d.EventID,
		PaidBy:           or(d.PaidBy, DefaultPaidBy),
		PaymentMethod:    or(d.PaymentMethod, DefaultPaymentMethod),
		BillImage:        d.BillImage,
	}
	if tx.Date.IsZero() {
		tx.Date = date.Of(now)
	}
	return tx, nil
}

func or(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// accountAdjustment returns the adjustment moving account by delta.
func accountAdjustment(id string, now time.Time, account string, delta Money) Transaction {
	return Transaction{
		ID:        id,
		Type:      TypeAdjustment,
		Amount:    delta,
		Account:   account,
		Category:  CalibrationAccountCategory,
		Date:      date.Of(now),
		Note:      "Manual Account Calibration",
		Timestamp: now,
	}
}

// ledgerAdjustment returns the adjustment moving person's net credit by delta.
// account is only there because every entry names one; it plays no role.
func ledgerAdjustment(id string, now time.Time, account, person string, delta Money) Transaction {
	return Transaction{
		ID:               id,
		Type:             TypeAdjustment,
		Amount:           delta,
		Account:          account,
		Person:           person,
		PersonAdjustment: true,
		Category:         CalibrationLedgerCategory,
		Date:             date.Of(now),
		Note:             "Manual Ledger Calibration",
		Timestamp:        now,
	}
}
