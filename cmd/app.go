// Package cmd implements the fin CLI application to manage a personal ledger.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/etnz/fintrack"
	"github.com/etnz/fintrack/config"
	"github.com/etnz/fintrack/store"
	"github.com/google/subcommands"
)

// Commands lists every fin subcommand by group.
var Commands = map[string][]subcommands.Command{
	"transactions": {&addCmd{}, &rmCmd{}, &txCmd{}, &calibrateCmd{}},
	"reports":      {&balanceCmd{}, &ledgerCmd{}, &remindersCmd{}},
	"settings": {
		&accountCmd{}, &personCmd{}, &categoryCmd{}, &eventCmd{},
		&autopayCmd{}, &pinCmd{}, &profileCmd{},
	},
	"data":          {&exportCmd{}, &importCmd{}},
	"assistant":     {&assistCmd{}},
	"documentation": {&topicCmd{}},
}

// Register the subcommands.
func Register(c *subcommands.Commander) {
	for group, cmds := range Commands {
		for _, cmd := range cmds {
			c.Register(cmd, group)
		}
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	cfg    = &config.Config{Store: config.StoreFile}
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Configure sets the configuration used by every subcommand.
func Configure(c *config.Config) { cfg = c }

// openStore opens the configured snapshot store. closer releases it.
func openStore(ctx context.Context) (st fintrack.Store, closer func() error, err error) {
	switch cfg.Store {
	case config.StoreSQLite:
		db, err := store.OpenSQLite(ctx, filepath.Join(cfg.DataDir, "fintrack.db"))
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	case config.StoreFile, "":
		f, err := store.NewFile(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return f, func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

// withSession opens the session, runs run, and releases the store. Errors are
// printed and turned into an exit status.
func withSession(ctx context.Context, run func(*fintrack.Session) error) subcommands.ExitStatus {
	st, closeStore, err := openStore(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error opening store in %q: %v\n", cfg.DataDir, err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	s, err := fintrack.Open(ctx, st)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading data: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := run(s); err != nil {
		var usage usageError
		if errors.As(err, &usage) {
			fmt.Fprintf(stderr, "Error: %v\n", usage.err)
			return subcommands.ExitUsageError
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// usageError marks an error caused by invalid command line arguments.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return usageError{fmt.Errorf(format, args...)}
}

// errPINRequired is returned when a PIN protected action is requested without -pin.
var errPINRequired = errors.New("a PIN is set: use -pin to confirm this action")

// confirm runs a gated request and, if it waits for the PIN, submits pin.
func confirm(ctx context.Context, s *fintrack.Session, pin string, request func() (bool, error)) error {
	done, err := request()
	if err != nil || done {
		return err
	}
	if pin == "" {
		s.CancelPIN()
		return errPINRequired
	}
	if err := s.SubmitPIN(ctx, pin); err != nil {
		s.CancelPIN()
		return err
	}
	return nil
}

// parseAmount parses a flag amount; empty is zero.
func parseAmount(s string) (fintrack.Money, error) {
	if s == "" {
		return fintrack.Money{}, nil
	}
	m, err := fintrack.ParseMoney(s)
	if err != nil {
		return m, usageError{err}
	}
	return m, nil
}
