package fintrack

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/etnz/fintrack/date"
)

// TransactionType is a typed string for identifying ledger entries.
type TransactionType string

// Transaction types, as persisted.
const (
	TypeExpense    TransactionType = "expense"
	TypeIncome     TransactionType = "income"
	TypeCredit     TransactionType = "credit"
	TypeRepayment  TransactionType = "repayment"
	TypeTransfer   TransactionType = "transfer"
	TypeReminder   TransactionType = "reminder"
	TypeAdjustment TransactionType = "adjustment"
	TypeExternal   TransactionType = "external"
)

// TransactionTypes lists every known type in display order.
var TransactionTypes = []TransactionType{
	TypeExpense, TypeIncome, TypeExternal, TypeReminder, TypeCredit, TypeRepayment, TypeTransfer, TypeAdjustment,
}

// ParseTransactionType parses a string into a TransactionType.
func ParseTransactionType(s string) (TransactionType, error) {
	for _, t := range TransactionTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown transaction type: %q", s)
}

// affectsBalances reports whether entries of this type can move money at all.
func (t TransactionType) affectsBalances() bool {
	return t != TypeReminder && t != TypeExternal
}

// Default registry values used when a draft leaves them empty.
const (
	DefaultCategory      = "General"
	DefaultPaidBy        = "Self"
	DefaultPaymentMethod = "UPI"

	CalibrationAccountCategory = "System Reset"
	CalibrationLedgerCategory  = "Ledger Reset"
)

// Transaction is one immutable ledger entry.
//
// Amount is a non-negative magnitude for every type but TypeAdjustment, whose
// Amount is a signed delta. Account, ToAccount, Person and EventID are weak
// references by name (or id) into the Settings registry.
type Transaction struct {
	ID               string
	Type             TransactionType
	Amount           Money
	Account          string
	ToAccount        string // transfer destination
	Person           string
	PersonAdjustment bool // adjustment targets Person's ledger, not Account
	Category         string
	Date             date.Date
	DueDate          date.Date // reminders only, informational
	Note             string
	Timestamp        time.Time // creation instant, ordering only

	// Provenance of entries created from an AutoPayRule.
	IsAuto    bool
	AutoPayID string

	// External spends.
	EventID       string
	PaidBy        string
	PaymentMethod string
	BillImage     string
}

// MarshalJSON implements the json.Marshaler interface for Transaction.
// Optional fields are omitted, and timestamp is encoded in epoch milliseconds.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var o object
	o.set("id", t.ID)
	o.set("type", t.Type)
	o.set("amount", t.Amount)
	o.set("account", t.Account)
	o.setNonZero("toAccount", t.ToAccount)
	o.setNonZero("person", t.Person)
	o.setNonZero("personAdjustment", t.PersonAdjustment)
	o.set("category", t.Category)
	o.set("date", t.Date)
	o.setNonZero("dueDate", t.DueDate)
	o.set("note", t.Note)
	o.set("timestamp", t.Timestamp.UnixMilli())
	o.setNonZero("isAuto", t.IsAuto)
	o.setNonZero("autoPayId", t.AutoPayID)
	o.setNonZero("eventId", t.EventID)
	o.setNonZero("paidBy", t.PaidBy)
	o.setNonZero("paymentMethod", t.PaymentMethod)
	o.setNonZero("billImage", t.BillImage)
	return o.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Transaction.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	// Use a temporary type that has all possible fields.
	var temp struct {
		ID               string          `json:"id"`
		Type             TransactionType `json:"type"`
		Amount           Money           `json:"amount"`
		Account          string          `json:"account"`
		ToAccount        string          `json:"toAccount"`
		Person           string          `json:"person"`
		PersonAdjustment bool            `json:"personAdjustment"`
		Category         string          `json:"category"`
		Date             date.Date       `json:"date"`
		DueDate          date.Date       `json:"dueDate"`
		Note             string          `json:"note"`
		Timestamp        int64           `json:"timestamp"`
		IsAuto           bool            `json:"isAuto"`
		AutoPayID        string          `json:"autoPayId"`
		EventID          string          `json:"eventId"`
		PaidBy           string          `json:"paidBy"`
		PaymentMethod    string          `json:"paymentMethod"`
		BillImage        string          `json:"billImage"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	if _, err := ParseTransactionType(string(temp.Type)); err != nil {
		return err
	}

	*t = Transaction{
		ID:               temp.ID,
		Type:             temp.Type,
		Amount:           temp.Amount,
		Account:          temp.Account,
		ToAccount:        temp.ToAccount,
		Person:           temp.Person,
		PersonAdjustment: temp.PersonAdjustment,
		Category:         temp.Category,
		Date:             temp.Date,
		DueDate:          temp.DueDate,
		Note:             temp.Note,
		Timestamp:        time.UnixMilli(temp.Timestamp),
		IsAuto:           temp.IsAuto,
		AutoPayID:        temp.AutoPayID,
		EventID:          temp.EventID,
		PaidBy:           temp.PaidBy,
		PaymentMethod:    temp.PaymentMethod,
		BillImage:        temp.BillImage,
	}
	return nil
}
