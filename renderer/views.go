package renderer

import (
	"github.com/etnz/fintrack"
	"github.com/etnz/fintrack/date"
)

// Masked is shown in place of a balance that has not been revealed.
const Masked = "₹ ••••"

// AccountRow is one account of a BalanceSheet.
type AccountRow struct {
	Name    string
	Balance fintrack.Money
	Visible bool
	Locked  bool
}

// Display returns the balance, or Masked when it is hidden.
func (r AccountRow) Display() string {
	if !r.Visible {
		return Masked
	}
	return r.Balance.String()
}

// BalanceSheet is the total balance and every account, as far as revealed.
type BalanceSheet struct {
	Total        fintrack.Money
	TotalVisible bool
	Accounts     []AccountRow
}

// TotalDisplay returns the total, or Masked when it is hidden.
func (b *BalanceSheet) TotalDisplay() string {
	if !b.TotalVisible {
		return Masked
	}
	return b.Total.String()
}

// NewBalanceSheet collects what the session has revealed. Hidden values are
// never read into the sheet.
func NewBalanceSheet(s *fintrack.Session) *BalanceSheet {
	settings := s.Settings()
	sheet := &BalanceSheet{}
	sheet.Total, sheet.TotalVisible = s.VisibleTotal()
	for _, name := range settings.Accounts {
		row := AccountRow{Name: name, Locked: settings.AccountLocked(name)}
		row.Balance, row.Visible = s.VisibleAccount(name)
		sheet.Accounts = append(sheet.Accounts, row)
	}
	return sheet
}

// CreditRow is one person of a CreditSheet.
type CreditRow struct {
	Name   string
	Credit fintrack.Money
}

// Status tells who owes whom.
func (r CreditRow) Status() string {
	switch {
	case r.Credit.IsPositive():
		return "owes you"
	case r.Credit.IsNegative():
		return "you owe"
	default:
		return "settled"
	}
}

// CreditSheet lists the net credit of every person.
type CreditSheet struct {
	Rows  []CreditRow
	Total fintrack.Money
}

// NewCreditSheet collects the person credits of the session.
func NewCreditSheet(s *fintrack.Session) *CreditSheet {
	credits := s.PersonCredits()
	sheet := &CreditSheet{Total: s.TotalNetCredit()}
	for _, name := range s.Settings().People {
		sheet.Rows = append(sheet.Rows, CreditRow{Name: name, Credit: credits.Get(name)})
	}
	return sheet
}

// TxRow is a transaction ready for display.
type TxRow struct {
	ID       string
	Date     string
	Type     string
	Account  string
	Amount   string
	Category string
	Person   string
	Note     string
}

// NewTxRow formats tx. The amount is signed by its effect on the account.
func NewTxRow(tx fintrack.Transaction) TxRow {
	account := tx.Account
	if tx.Type == fintrack.TypeTransfer && tx.ToAccount != "" {
		account = tx.Account + " → " + tx.ToAccount
	}
	return TxRow{
		ID:       tx.ID,
		Date:     tx.Date.String(),
		Type:     string(tx.Type),
		Account:  account,
		Amount:   signedAmount(tx),
		Category: tx.Category,
		Person:   tx.Person,
		Note:     tx.Note,
	}
}

func signedAmount(tx fintrack.Transaction) string {
	switch tx.Type {
	case fintrack.TypeIncome, fintrack.TypeRepayment:
		return tx.Amount.Abs().SignedString()
	case fintrack.TypeExpense, fintrack.TypeCredit, fintrack.TypeTransfer:
		return tx.Amount.Abs().Neg().SignedString()
	case fintrack.TypeAdjustment:
		return tx.Amount.SignedString()
	default:
		return tx.Amount.String()
	}
}

func txRows(txs []fintrack.Transaction) []TxRow {
	rows := make([]TxRow, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, NewTxRow(tx))
	}
	return rows
}

// TransactionList is a titled list of transactions.
type TransactionList struct {
	Title string
	Rows  []TxRow
}

// NewTransactionList formats txs in the given order.
func NewTransactionList(title string, txs []fintrack.Transaction) *TransactionList {
	return &TransactionList{Title: title, Rows: txRows(txs)}
}

// PersonHistory is a person's net credit and transactions.
type PersonHistory struct {
	Person string
	Credit CreditRow
	Rows   []TxRow
}

// NewPersonHistory collects person's history from the session.
func NewPersonHistory(s *fintrack.Session, person string) *PersonHistory {
	return &PersonHistory{
		Person: person,
		Credit: CreditRow{Name: person, Credit: s.PersonCredits().Get(person)},
		Rows:   txRows(s.PersonHistory(person)),
	}
}

// ReminderRow is a reminder ready for display.
type ReminderRow struct {
	ID       string
	Created  string
	Due      string
	Category string
	Amount   string
	Note     string
}

// ReminderList lists reminders, most recently created first.
type ReminderList struct {
	Rows []ReminderRow
}

// NewReminderList formats reminders in the given order.
func NewReminderList(reminders []fintrack.Transaction) *ReminderList {
	l := &ReminderList{}
	for _, tx := range reminders {
		amount := ""
		if !tx.Amount.IsZero() {
			amount = tx.Amount.String()
		}
		l.Rows = append(l.Rows, ReminderRow{
			ID:       tx.ID,
			Created:  tx.Date.String(),
			Due:      tx.DueDate.String(),
			Category: tx.Category,
			Amount:   amount,
			Note:     tx.Note,
		})
	}
	return l
}

// AutoPayRow is an auto-pay rule ready for display.
type AutoPayRow struct {
	ID      string
	Purpose string
	Type    string
	Amount  string
	Account string
	Day     string
	NextDue string
}

// AutoPayList lists the auto-pay rules.
type AutoPayList struct {
	Rows []AutoPayRow
}

// NewAutoPayList formats rules with their next due date after today.
func NewAutoPayList(rules []fintrack.AutoPayRule, today date.Date) *AutoPayList {
	l := &AutoPayList{}
	for _, r := range rules {
		next := ""
		if d, err := r.NextDue(today); err == nil {
			next = d.String()
		}
		l.Rows = append(l.Rows, AutoPayRow{
			ID:      r.ID,
			Purpose: r.Purpose,
			Type:    string(r.Type),
			Amount:  r.Amount.String(),
			Account: r.Account,
			Day:     r.Day,
			NextDue: next,
		})
	}
	return l
}
