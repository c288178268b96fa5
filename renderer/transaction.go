package renderer

import (
	"fmt"

	"github.com/etnz/fintrack"
)

// Transaction renders a transaction to a one-line summary.
func Transaction(tx fintrack.Transaction) string {
	switch tx.Type {
	case fintrack.TypeExpense:
		return fmt.Sprintf("Spent %s from %s on %s", tx.Amount, tx.Account, tx.Category)
	case fintrack.TypeIncome:
		return fmt.Sprintf("Received %s into %s as %s", tx.Amount, tx.Account, tx.Category)
	case fintrack.TypeCredit:
		return fmt.Sprintf("Lent %s to %s from %s", tx.Amount, tx.Person, tx.Account)
	case fintrack.TypeRepayment:
		return fmt.Sprintf("Got back %s from %s into %s", tx.Amount, tx.Person, tx.Account)
	case fintrack.TypeTransfer:
		if tx.ToAccount == "" {
			return fmt.Sprintf("Moved %s out of %s", tx.Amount, tx.Account)
		}
		return fmt.Sprintf("Moved %s from %s to %s", tx.Amount, tx.Account, tx.ToAccount)
	case fintrack.TypeReminder:
		if tx.DueDate.IsZero() {
			return fmt.Sprintf("Reminder for %s", tx.Category)
		}
		return fmt.Sprintf("Reminder for %s due %s", tx.Category, tx.DueDate)
	case fintrack.TypeExternal:
		return fmt.Sprintf("Noted external spend of %s paid by %s", tx.Amount, tx.PaidBy)
	case fintrack.TypeAdjustment:
		if tx.PersonAdjustment {
			return fmt.Sprintf("Adjusted %s's credit by %s", tx.Person, tx.Amount.SignedString())
		}
		return fmt.Sprintf("Adjusted %s by %s", tx.Account, tx.Amount.SignedString())
	default:
		return string(tx.Type)
	}
}
