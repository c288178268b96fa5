package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/fintrack"
	"github.com/google/subcommands"
)

type pinCmd struct {
	current string
	set     string
	confirm string
	reset   bool
	yes     bool
}

func (*pinCmd) Name() string     { return "pin" }
func (*pinCmd) Synopsis() string { return "set, change, disable or reset the balance PIN" }
func (*pinCmd) Usage() string {
	return `fin pin [-current <pin>] -set <new> -confirm <new>
fin pin -reset -yes

  Sets the 4 character PIN protecting balances and person removal. The
  current PIN is required to change it; an empty -set disables it.
  -reset clears a forgotten PIN without verification. It never touches
  your transactions.
`
}

func (c *pinCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.current, "current", "", "Current PIN")
	f.StringVar(&c.set, "set", "", "New PIN, empty to disable")
	f.StringVar(&c.confirm, "confirm", "", "New PIN again")
	f.BoolVar(&c.reset, "reset", false, "Clear the PIN without verification")
	f.BoolVar(&c.yes, "yes", false, "Confirm the reset")
}

func (c *pinCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(s *fintrack.Session) error {
		if c.reset {
			if !c.yes {
				return fintrack.ErrNotConfirmed
			}
			if err := s.EmergencyResetPIN(ctx); err != nil {
				return err
			}
			fmt.Fprintln(stdout, "PIN cleared.")
			return nil
		}
		if err := s.ChangePIN(ctx, c.current, c.set, c.confirm); err != nil {
			return err
		}
		if c.set == "" {
			fmt.Fprintln(stdout, "PIN disabled.")
		} else {
			fmt.Fprintln(stdout, "PIN updated.")
		}
		return nil
	})
}
