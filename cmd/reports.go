package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/etnz/fintrack"
	"github.com/etnz/fintrack/renderer"
	"github.com/google/subcommands"
)

type balanceCmd struct {
	pin string
	all bool
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "show account balances" }
func (*balanceCmd) Usage() string {
	return `fin balance [-pin <pin>] [-all] [<account>...]

  Shows the total balance and the balance of the named accounts (every
  account with -all). Balances are masked unless revealed: the total and
  locked accounts need the PIN when one is set.
`
}

func (c *balanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.pin, "pin", "", "PIN to reveal protected balances")
	f.BoolVar(&c.all, "all", false, "Reveal every account")
}

func (c *balanceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(s *fintrack.Session) error {
		if err := revealBalances(ctx, s, c.pin, c.all, f.Args()); err != nil {
			return err
		}
		printMarkdown(s, renderer.RenderBalances(renderer.NewBalanceSheet(s)))
		return nil
	})
}

// revealBalances reveals the total and the accounts. A missing PIN leaves the
// protected balances masked; a wrong PIN is an error.
func revealBalances(ctx context.Context, s *fintrack.Session, pin string, all bool, accounts []string) error {
	if all {
		accounts = s.Settings().Accounts
	}
	var missingPIN bool
	reveal := func(request func() (bool, error)) error {
		err := confirm(ctx, s, pin, request)
		if errors.Is(err, errPINRequired) {
			missingPIN = true
			return nil
		}
		return err
	}

	if err := reveal(s.RevealTotal); err != nil {
		return err
	}
	for _, account := range accounts {
		if err := reveal(func() (bool, error) { return s.RevealAccount(account) }); err != nil {
			return err
		}
	}
	if missingPIN {
		fmt.Fprintln(stderr, "Some balances are protected: use -pin to reveal them.")
	}
	return nil
}

type ledgerCmd struct{}

func (*ledgerCmd) Name() string     { return "ledger" }
func (*ledgerCmd) Synopsis() string { return "show what people owe you and what you owe them" }
func (*ledgerCmd) Usage() string {
	return `fin ledger [<person>]

  Without argument, shows the net credit of every person. With a person,
  shows their net credit and every transaction with them.
`
}

func (*ledgerCmd) SetFlags(*flag.FlagSet) {}

func (*ledgerCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withSession(ctx, func(s *fintrack.Session) error {
		if f.NArg() == 1 {
			printMarkdown(s, renderer.RenderPersonHistory(renderer.NewPersonHistory(s, f.Arg(0))))
			return nil
		}
		printMarkdown(s, renderer.RenderCredits(renderer.NewCreditSheet(s)))
		return nil
	})
}

type remindersCmd struct{}

func (*remindersCmd) Name() string     { return "reminders" }
func (*remindersCmd) Synopsis() string { return "list reminders, most recent first" }
func (*remindersCmd) Usage() string {
	return `fin reminders

  Lists every reminder, most recently created first. Add one with
  fin add -t reminder -c <category> [-due <date>].
`
}

func (*remindersCmd) SetFlags(*flag.FlagSet) {}

func (*remindersCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(s *fintrack.Session) error {
		printMarkdown(s, renderer.RenderReminders(renderer.NewReminderList(s.DueReminders())))
		return nil
	})
}
