package cmd

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/etnz/fintrack"
	"github.com/etnz/fintrack/agent"
	"github.com/etnz/fintrack/date"
	"github.com/etnz/fintrack/renderer"
	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

type addCmd struct {
	typ           string
	amount        string
	account       string
	toAccount     string
	person        string
	category      string
	date          string
	dueDate       string
	note          string
	asCredit      bool
	ledger        bool
	event         string
	paidBy        string
	paymentMethod string
	bill          string
	enhance       bool
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record a transaction" }
func (*addCmd) Usage() string {
	return `fin add [-t <type>] -a <amount> [-acc <account>] [-c <category>] [-n <note>] ...

  Records a transaction, newest first in the ledger.
  Types: expense (default), income, credit, repayment, transfer, reminder,
  adjustment, external. An expense with -credit is recorded as a credit to -p.
  An adjustment amount is signed; with -ledger it moves the net credit of -p
  rather than an account balance.
  Missing account, category, payer and payment method take their defaults.
  With -enhance the note is cleaned up and a category suggested by Gemini
  before recording; without an answer the draft is recorded as typed.

Usage Examples:
# Lunch paid from the wallet
$ fin add -a 250 -c Food -n "lunch"

# Lent 500 to Sanchi
$ fin add -t credit -a 500 -p Sanchi

# Sanchi owes 10 less than recorded
$ fin add -t adjustment -ledger -p Sanchi -a -10

# Move money between accounts
$ fin add -t transfer -a 1000 -acc "G Pay UPI" -to "Cash In Saving"
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.typ, "t", string(fintrack.TypeExpense), "Transaction type")
	f.StringVar(&c.amount, "a", "", "Amount, e.g. 250 or 99.50")
	f.StringVar(&c.account, "acc", "", "Account, the first account by default")
	f.StringVar(&c.toAccount, "to", "", "Destination account of a transfer")
	f.StringVar(&c.person, "p", "", "Counterparty of a credit or repayment")
	f.StringVar(&c.category, "c", "", "Category")
	f.StringVar(&c.date, "d", "", "Date (YYYY-MM-DD), today by default")
	f.StringVar(&c.dueDate, "due", "", "Due date of a reminder (YYYY-MM-DD)")
	f.StringVar(&c.note, "n", "", "Free-form note")
	f.BoolVar(&c.asCredit, "credit", false, "Record an expense as a credit to -p")
	f.BoolVar(&c.ledger, "ledger", false, "Apply an adjustment to the ledger of -p instead of an account")
	f.StringVar(&c.event, "event", "", "Event id of an external spend")
	f.StringVar(&c.paidBy, "paidby", "", "Who paid an external spend")
	f.StringVar(&c.paymentMethod, "method", "", "Payment method")
	f.StringVar(&c.bill, "bill", "", "Reference to a bill image")
	f.BoolVar(&c.enhance, "enhance", false, "Clean up the note and suggest a category with Gemini")
}

// draft builds the draft described by the flags.
func (c *addCmd) draft() (fintrack.Draft, error) {
	typ, err := fintrack.ParseTransactionType(c.typ)
	if err != nil {
		return fintrack.Draft{}, usageError{err}
	}
	switch {
	case c.ledger && (typ != fintrack.TypeAdjustment || c.person == ""):
		return fintrack.Draft{}, usagef("-ledger needs -t adjustment and -p")
	case !c.ledger && typ == fintrack.TypeAdjustment && c.person != "":
		return fintrack.Draft{}, usagef("-t adjustment adjusts an account, add -ledger to adjust %s's ledger", c.person)
	}
	amount, err := parseAmount(c.amount)
	if err != nil {
		return fintrack.Draft{}, err
	}
	d := fintrack.Draft{
		Type:             typ,
		AsCredit:         c.asCredit,
		Amount:           amount,
		Account:          c.account,
		ToAccount:        c.toAccount,
		Person:           c.person,
		PersonAdjustment: c.ledger,
		Category:         c.category,
		Note:             c.note,
		EventID:          c.event,
		PaidBy:           c.paidBy,
		PaymentMethod:    c.paymentMethod,
		BillImage:        c.bill,
	}
	if c.date != "" {
		if d.Date, err = date.Parse(c.date); err != nil {
			return d, usageError{err}
		}
	}
	if c.dueDate != "" {
		if d.DueDate, err = date.Parse(c.dueDate); err != nil {
			return d, usageError{err}
		}
	}
	return d, nil
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	d, err := c.draft()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		f.Usage()
		return subcommands.ExitUsageError
	}

	return withSession(ctx, func(s *fintrack.Session) error {
		composer := fintrack.NewComposer()
		composer.Replace(d)
		if c.enhance {
			enhanceDraft(ctx, s, composer)
		}
		tx, err := composer.Submit(ctx, s)
		if tx.ID != "" {
			fmt.Fprintf(stdout, "%s (%s)\n", renderer.Transaction(tx), tx.ID)
		}
		return err
	})
}

// enhanceDraft asks Gemini for a suggestion and waits for it. Any failure
// leaves the draft as typed.
func enhanceDraft(ctx context.Context, s *fintrack.Session, composer *fintrack.Composer) {
	if cfg.APIKey == "" {
		log.Warn().Msg("no Gemini API key configured, note left as typed")
		return
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		log.Warn().Err(err).Msg("could not create Gemini client, note left as typed")
		return
	}
	model := cfg.Model
	if model == "" {
		model = agent.DefaultModel
	}
	timeout := cfg.EnhanceTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	settings := s.Settings()
	categories, err := settings.Categories(categoryKind(composer.Draft().EffectiveType()))
	if err != nil {
		categories = settings.ExpenseCats
	}
	composer.Enhance(ctx, agent.NewGemini(client, model, timeout), categories)
	composer.Wait()
}

// categoryKind returns the category list matching a transaction type.
func categoryKind(t fintrack.TransactionType) fintrack.CategoryKind {
	switch t {
	case fintrack.TypeIncome:
		return fintrack.IncomeCategories
	case fintrack.TypeReminder:
		return fintrack.ReminderCategories
	default:
		return fintrack.ExpenseCategories
	}
}
