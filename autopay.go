package fintrack

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/etnz/fintrack/date"
	"github.com/robfig/cron/v3"
)

var (
	ErrUnknownAutoPayType = errors.New("auto-pay type must be expense or income")
	ErrInvalidAutoPayDay  = errors.New("auto-pay day must be between 1 and 31")
)

// AutoPayRule is a recurring payment template. Rules are declarative: nothing
// in this package turns them into transactions.
type AutoPayRule struct {
	ID      string          `json:"id"`
	Amount  Money           `json:"amount"`
	Day     string          `json:"day"` // day of month, "1" to "31"
	Purpose string          `json:"purpose"`
	Account string          `json:"account"`
	Type    TransactionType `json:"type"`
}

// Validate checks the rule's fields.
func (r AutoPayRule) Validate() error {
	var errs error
	if strings.TrimSpace(r.Purpose) == "" {
		errs = errors.Join(errs, errors.New("auto-pay purpose is missing"))
	}
	if r.Amount.IsZero() {
		errs = errors.Join(errs, fmt.Errorf("auto-pay amount: %w", ErrZeroAmount))
	}
	if r.Type != TypeExpense && r.Type != TypeIncome {
		errs = errors.Join(errs, fmt.Errorf("%w, got %q", ErrUnknownAutoPayType, r.Type))
	}
	if _, err := r.schedule(); err != nil {
		errs = errors.Join(errs, err)
	}
	return errs
}

// schedule returns the monthly schedule of the rule, at midnight on its day.
func (r AutoPayRule) schedule() (cron.Schedule, error) {
	day, err := strconv.Atoi(strings.TrimSpace(r.Day))
	if err != nil || day < 1 || day > 31 {
		return nil, fmt.Errorf("%w, got %q", ErrInvalidAutoPayDay, r.Day)
	}
	return cron.ParseStandard(fmt.Sprintf("0 0 %d * *", day))
}

// NextDue returns the first date strictly after 'after' on which the rule is
// due. Months without the rule's day (e.g. the 31st in April) are skipped.
func (r AutoPayRule) NextDue(after date.Date) (date.Date, error) {
	sched, err := r.schedule()
	if err != nil {
		return date.Date{}, err
	}
	// Start from the last instant of 'after' so that 'after' itself never matches.
	from := after.Time(time.UTC).Add(date.Day - time.Second)
	next := sched.Next(from)
	if next.IsZero() {
		return date.Date{}, fmt.Errorf("auto-pay %q has no upcoming date", r.Purpose)
	}
	return date.Of(next), nil
}
