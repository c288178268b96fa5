// Command fin is a personal finance ledger for the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/etnz/fintrack/cmd"
	"github.com/etnz/fintrack/config"
	"github.com/etnz/fintrack/logger"
	"github.com/google/subcommands"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(int(subcommands.ExitFailure))
	}
	cfg.RegisterFlags(flag.CommandLine)

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	// Exits when invoked by the shell for completion.
	completion(flag.CommandLine).Complete("fin")

	flag.Parse()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(int(subcommands.ExitUsageError))
	}
	logger.SetGlobalLogger(logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty}))
	cmd.Configure(cfg)

	if name := flag.Arg(0); name != "" && !builtin(name) {
		if found, code := cmd.RunExtension(name, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}

// builtin reports whether name is a fin subcommand rather than an extension.
func builtin(name string) bool {
	switch name {
	case "help", "flags", "commands":
		return true
	}
	for _, cmds := range cmd.Commands {
		for _, c := range cmds {
			if c.Name() == name {
				return true
			}
		}
	}
	return false
}
