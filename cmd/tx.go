package cmd

import (
	"context"
	"flag"
	"fmt"
	"slices"

	"github.com/etnz/fintrack"
	"github.com/etnz/fintrack/date"
	"github.com/etnz/fintrack/renderer"
	"github.com/google/subcommands"
)

type txCmd struct {
	typ      string
	account  string
	from, to string
	period   string
	head     int
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list transactions, most recent first" }
func (*txCmd) Usage() string {
	return `fin tx [-t <type>] [-acc <account>] [-period <period> | -from <date> -to <date>] [-head <n>]

  Lists transactions, most recently created first. The account filter
  matches both the source and the destination of transfers. -period
  (day, week, month, quarter, year) keeps the current one.
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.typ, "t", fintrack.All, "Only this transaction type")
	f.StringVar(&c.account, "acc", fintrack.All, "Only transactions from or to this account")
	f.StringVar(&c.from, "from", "", "Only transactions dated on or after (YYYY-MM-DD)")
	f.StringVar(&c.to, "to", "", "Only transactions dated on or before (YYYY-MM-DD)")
	f.StringVar(&c.period, "period", "", "Only transactions of the current day, week, month, quarter or year")
	f.IntVar(&c.head, "head", 0, "Show only the first N transactions.")
}

// dates returns the date range selected by the flags, relative to today.
func (c *txCmd) dates(today date.Date) (date.Range, error) {
	if c.period != "" {
		if c.from != "" || c.to != "" {
			return date.Range{}, usagef("-period cannot be combined with -from or -to")
		}
		p, err := date.ParsePeriod(c.period)
		if err != nil {
			return date.Range{}, usageError{err}
		}
		return p.Of(today), nil
	}
	var from, to date.Date
	var err error
	if c.from != "" {
		if from, err = date.Parse(c.from); err != nil {
			return date.Range{}, usageError{err}
		}
	}
	if c.to != "" {
		if to, err = date.Parse(c.to); err != nil {
			return date.Range{}, usageError{err}
		}
	}
	return date.NewRange(from, to), nil
}

func (c *txCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.typ != fintrack.All {
		if _, err := fintrack.ParseTransactionType(c.typ); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	return withSession(ctx, func(s *fintrack.Session) error {
		r, err := c.dates(date.Of(s.Now()))
		if err != nil {
			return err
		}
		txs := slices.DeleteFunc(s.Filter(c.typ, c.account), func(tx fintrack.Transaction) bool {
			return !fintrack.Within(r)(tx)
		})
		if c.head > 0 && len(txs) > c.head {
			txs = txs[:c.head]
		}
		title := "Transactions"
		if c.typ != fintrack.All || c.account != fintrack.All {
			title = fmt.Sprintf("Transactions (type: %s, account: %s)", c.typ, c.account)
		}
		if !r.IsZero() {
			title += ", " + r.String()
		}
		printMarkdown(s, renderer.RenderTransactions(renderer.NewTransactionList(title, txs)))
		return nil
	})
}

type rmCmd struct{}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "delete transactions by id" }
func (*rmCmd) Usage() string {
	return `fin rm <id>...

  Deletes transactions. Balances are recomputed without them. Unknown ids
  are reported and skipped.
`
}

func (*rmCmd) SetFlags(*flag.FlagSet) {}

func (*rmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withSession(ctx, func(s *fintrack.Session) error {
		for _, id := range f.Args() {
			tx, _ := s.Transaction(id)
			deleted, err := s.Delete(ctx, id)
			if err != nil {
				return err
			}
			if !deleted {
				fmt.Fprintf(stderr, "No transaction %q\n", id)
				continue
			}
			fmt.Fprintf(stdout, "Deleted: %s\n", renderer.Transaction(tx))
		}
		return nil
	})
}

type calibrateCmd struct {
	account string
	person  string
	target  string
}

func (*calibrateCmd) Name() string     { return "calibrate" }
func (*calibrateCmd) Synopsis() string { return "bring an account balance or a person's credit to a value" }
func (*calibrateCmd) Usage() string {
	return `fin calibrate (-acc <account> | -p <person>) -to <amount>

  Records the adjustment that brings the account balance, or the person's
  net credit, to the given amount. Nothing is recorded when it already matches.
`
}

func (c *calibrateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "acc", "", "Account to calibrate")
	f.StringVar(&c.person, "p", "", "Person whose net credit to calibrate")
	f.StringVar(&c.target, "to", "", "Target amount (may be negative)")
}

func (c *calibrateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if (c.account == "") == (c.person == "") || c.target == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	target, err := parseAmount(c.target)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withSession(ctx, func(s *fintrack.Session) error {
		var (
			tx      fintrack.Transaction
			changed bool
		)
		if c.account != "" {
			tx, changed, err = s.CalibrateAccount(ctx, c.account, target)
		} else {
			tx, changed, err = s.CalibrateLedger(ctx, c.person, target)
		}
		if !changed {
			fmt.Fprintln(stdout, "Already at target, nothing recorded.")
			return err
		}
		fmt.Fprintf(stdout, "%s (%s)\n", renderer.Transaction(tx), tx.ID)
		return err
	})
}
