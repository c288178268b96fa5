package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/fintrack"
	"github.com/etnz/fintrack/date"
	"github.com/etnz/fintrack/renderer"
	"github.com/google/subcommands"
)

type autopayCmd struct {
	add     string
	amount  string
	day     string
	account string
	typ     string
	rm      string
}

func (*autopayCmd) Name() string     { return "autopay" }
func (*autopayCmd) Synopsis() string { return "list and edit recurring payment rules" }
func (*autopayCmd) Usage() string {
	return `fin autopay [-add <purpose> -a <amount> [-day <1-31>] [-acc <account>] [-t expense|income] | -rm <id>]

  Without flags, lists the rules with their next due date. Rules are
  reminders of recurring payments: nothing is ever recorded automatically.
`
}

func (c *autopayCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.add, "add", "", "Purpose of a new rule")
	f.StringVar(&c.amount, "a", "", "Amount of the new rule")
	f.StringVar(&c.day, "day", "1", "Day of month of the new rule")
	f.StringVar(&c.account, "acc", "", "Account of the new rule, the first account by default")
	f.StringVar(&c.typ, "t", string(fintrack.TypeExpense), "Type of the new rule: expense or income")
	f.StringVar(&c.rm, "rm", "", "Remove the rule with this id")
}

func (c *autopayCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(s *fintrack.Session) error {
		switch {
		case c.add != "":
			amount, err := parseAmount(c.amount)
			if err != nil {
				return err
			}
			rule, err := s.AddAutoPay(ctx, fintrack.AutoPayRule{
				Purpose: c.add,
				Amount:  amount,
				Day:     c.day,
				Account: c.account,
				Type:    fintrack.TransactionType(c.typ),
			})
			if err != nil {
				return usageError{err}
			}
			fmt.Fprintf(stdout, "Added auto-pay %q (%s)\n", rule.Purpose, rule.ID)
			return nil
		case c.rm != "":
			return s.UpdateSettings(ctx, func(st *fintrack.Settings) error {
				if !st.RemoveAutoPay(c.rm) {
					return usagef("no auto-pay rule %q", c.rm)
				}
				return nil
			})
		}
		today := date.Of(s.Now())
		printMarkdown(s, renderer.RenderAutoPays(renderer.NewAutoPayList(s.Settings().AutoPays, today)))
		return nil
	})
}
