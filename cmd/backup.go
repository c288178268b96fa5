package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/fintrack"
	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
)

type exportCmd struct {
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write the whole ledger and settings as JSON" }
func (*exportCmd) Usage() string {
	return `fin export [-o <file>]

  Writes the transactions and settings as one JSON document, to stdout by
  default. Read it back with fin import, possibly into another store.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file, stdout by default")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(s *fintrack.Session) error {
		data, err := fintrack.EncodeSnapshot(s.Snapshot())
		if err != nil {
			return err
		}
		if c.output == "" {
			_, err = fmt.Fprintln(stdout, string(data))
			return err
		}
		return os.WriteFile(c.output, data, 0o600)
	})
}

type importCmd struct {
	yes bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "replace the ledger and settings by an export" }
func (*importCmd) Usage() string {
	return `fin import -yes <file>|-

  Replaces every transaction and setting by the content of an export ("-"
  reads stdin). Fields that cannot be read keep their default value and
  are reported.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "yes", false, "Confirm that the current data is replaced")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	data, err := readInput(f.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return withSession(ctx, func(s *fintrack.Session) error {
		if !c.yes {
			return fintrack.ErrNotConfirmed
		}
		snap, err := fintrack.DecodeSnapshot(data)
		if err != nil {
			log.Warn().Err(err).Msg("import partially read")
			fmt.Fprintf(stderr, "Warning: %v\n", err)
		}
		if err := s.Restore(ctx, snap); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Imported %d transactions.\n", len(snap.Transactions))
		return nil
	})
}

func readInput(name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(name)
}
