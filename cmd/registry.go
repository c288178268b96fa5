package cmd

import (
	"context"
	"flag"
	"fmt"
	"slices"
	"strings"

	"github.com/etnz/fintrack"
	"github.com/google/subcommands"
)

// printList prints a titled bullet list.
func printList(s *fintrack.Session, title string, items []string) {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	if len(items) == 0 {
		b.WriteString("_None._\n")
	}
	for _, item := range items {
		fmt.Fprintf(&b, "- %s\n", item)
	}
	printMarkdown(s, b.String())
}

// --- Account Command ---

type accountCmd struct {
	add, rm      string
	up, down     string
	lock, unlock string
}

func (*accountCmd) Name() string     { return "account" }
func (*accountCmd) Synopsis() string { return "list and edit accounts" }
func (*accountCmd) Usage() string {
	return `fin account [-add <name> | -rm <name> | -up <name> | -down <name> | -lock <name> | -unlock <name>]

  Without flags, lists the accounts in order. Removing an account keeps its
  transactions. A locked account needs the PIN to reveal its balance.
`
}

func (c *accountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.add, "add", "", "Add an account")
	f.StringVar(&c.rm, "rm", "", "Remove an account")
	f.StringVar(&c.up, "up", "", "Move an account up")
	f.StringVar(&c.down, "down", "", "Move an account down")
	f.StringVar(&c.lock, "lock", "", "Require the PIN to reveal an account")
	f.StringVar(&c.unlock, "unlock", "", "Stop requiring the PIN to reveal an account")
}

func (c *accountCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(s *fintrack.Session) error {
		switch {
		case c.up != "" && c.down != "":
			return usagef("-up and -down cannot be combined")
		case c.lock != "" && c.unlock != "":
			return usagef("-lock and -unlock cannot be combined")
		case c.add != "":
			return s.UpdateSettings(ctx, func(st *fintrack.Settings) error {
				if !st.AddAccount(c.add) {
					return usagef("account %q already exists", c.add)
				}
				return nil
			})
		case c.rm != "":
			return s.UpdateSettings(ctx, func(st *fintrack.Settings) error {
				if !st.RemoveAccount(c.rm) {
					return usagef("no account %q", c.rm)
				}
				return nil
			})
		case c.up != "" || c.down != "":
			name := c.up + c.down
			return s.UpdateSettings(ctx, func(st *fintrack.Settings) error {
				i := slices.Index(st.Accounts, name)
				if i < 0 {
					return usagef("no account %q", name)
				}
				st.MoveAccount(i, c.up != "")
				return nil
			})
		case c.lock != "" || c.unlock != "":
			name := c.lock + c.unlock
			return s.UpdateSettings(ctx, func(st *fintrack.Settings) error {
				st.SetAccountLock(name, c.lock != "")
				return nil
			})
		}
		settings := s.Settings()
		var items []string
		for _, acc := range settings.Accounts {
			if settings.AccountLocked(acc) {
				acc += " 🔒"
			}
			items = append(items, acc)
		}
		printList(s, "Accounts", items)
		return nil
	})
}

// --- Person Command ---

type personCmd struct {
	add, rm string
	yes     bool
	pin     string
}

func (*personCmd) Name() string     { return "person" }
func (*personCmd) Synopsis() string { return "list and edit people" }
func (*personCmd) Usage() string {
	return `fin person [-add <name> | -rm <name> -yes [-pin <pin>]]

  Without flags, lists the people. Removing a person needs -yes, and the
  PIN when one is set; their transactions are kept.
`
}

func (c *personCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.add, "add", "", "Add a person")
	f.StringVar(&c.rm, "rm", "", "Remove a person")
	f.BoolVar(&c.yes, "yes", false, "Confirm the removal")
	f.StringVar(&c.pin, "pin", "", "PIN to confirm the removal")
}

func (c *personCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(s *fintrack.Session) error {
		switch {
		case c.add != "":
			return s.UpdateSettings(ctx, func(st *fintrack.Settings) error {
				if !st.AddPerson(c.add) {
					return usagef("person %q already exists", c.add)
				}
				return nil
			})
		case c.rm != "":
			if !slices.Contains(s.Settings().People, c.rm) {
				return usagef("no person %q", c.rm)
			}
			return confirm(ctx, s, c.pin, func() (bool, error) {
				return s.RequestDeletePerson(ctx, c.rm, c.yes)
			})
		}
		printList(s, "People", s.Settings().People)
		return nil
	})
}

// --- Category Command ---

type categoryCmd struct {
	kind    string
	add, rm string
}

func (*categoryCmd) Name() string     { return "category" }
func (*categoryCmd) Synopsis() string { return "list and edit categories" }
func (*categoryCmd) Usage() string {
	return `fin category [-k expense|income|reminder] [-add <name> | -rm <name>]

  Without -add or -rm, lists the categories of that kind.
`
}

func (c *categoryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "k", string(fintrack.ExpenseCategories), "Category kind: expense, income or reminder")
	f.StringVar(&c.add, "add", "", "Add a category")
	f.StringVar(&c.rm, "rm", "", "Remove a category")
}

func (c *categoryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	kind := fintrack.CategoryKind(c.kind)
	return withSession(ctx, func(s *fintrack.Session) error {
		switch {
		case c.add != "":
			return s.UpdateSettings(ctx, func(st *fintrack.Settings) error {
				added, err := st.AddCategory(kind, c.add)
				if err != nil {
					return usageError{err}
				}
				if !added {
					return usagef("category %q already exists", c.add)
				}
				return nil
			})
		case c.rm != "":
			return s.UpdateSettings(ctx, func(st *fintrack.Settings) error {
				removed, err := st.RemoveCategory(kind, c.rm)
				if err != nil {
					return usageError{err}
				}
				if !removed {
					return usagef("no category %q", c.rm)
				}
				return nil
			})
		}
		settings := s.Settings()
		categories, err := settings.Categories(kind)
		if err != nil {
			return usageError{err}
		}
		printList(s, strings.ToUpper(c.kind[:1])+c.kind[1:]+" Categories", categories)
		return nil
	})
}

// --- Event Command ---

type eventCmd struct {
	add, rm string
}

func (*eventCmd) Name() string     { return "event" }
func (*eventCmd) Synopsis() string { return "list and edit events of external spends" }
func (*eventCmd) Usage() string {
	return `fin event [-add <name> | -rm <id>]

  Without flags, lists the events. External spends keep their event id when
  the event is removed.
`
}

func (c *eventCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.add, "add", "", "Add an event")
	f.StringVar(&c.rm, "rm", "", "Remove the event with this id")
}

func (c *eventCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(s *fintrack.Session) error {
		switch {
		case c.add != "":
			ev, err := s.AddEvent(ctx, c.add)
			if err == nil {
				fmt.Fprintf(stdout, "Added event %q (%s)\n", ev.Name, ev.ID)
			}
			return err
		case c.rm != "":
			return s.UpdateSettings(ctx, func(st *fintrack.Settings) error {
				if !st.RemoveEvent(c.rm) {
					return usagef("no event %q", c.rm)
				}
				return nil
			})
		}
		var items []string
		for _, ev := range s.Settings().Events {
			items = append(items, fmt.Sprintf("%s (%s)", ev.Name, ev.ID))
		}
		printList(s, "Events", items)
		return nil
	})
}
