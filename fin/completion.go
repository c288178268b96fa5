package main

import (
	"flag"

	"github.com/etnz/fintrack"
	"github.com/etnz/fintrack/cmd"
	"github.com/etnz/fintrack/config"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// flagPredictors are the value predictors of flags with a closed set of
// values. Other flags take anything.
var flagPredictors = map[string]complete.Predictor{
	"t":        predict.Set(transactionTypes()),
	"k":        predict.Set{string(fintrack.ExpenseCategories), string(fintrack.IncomeCategories), string(fintrack.ReminderCategories)},
	"external": predict.Set{"on", "off"},
	"store":    predict.Set{config.StoreFile, config.StoreSQLite},
	"data":     predict.Dirs("*"),
	"log":      predict.Set{"trace", "debug", "info", "warn", "error", "disabled"},
	"period":   predict.Set{"day", "week", "month", "quarter", "year"},
}

// completion describes the fin command line for shell completion.
func completion(global *flag.FlagSet) *complete.Command {
	root := &complete.Command{
		Sub: map[string]*complete.Command{
			"help":     {Args: predict.Nothing},
			"flags":    {Args: predict.Nothing},
			"commands": {Args: predict.Nothing},
		},
		Flags: flags(global),
	}
	for _, cmds := range cmd.Commands {
		for _, c := range cmds {
			fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
			c.SetFlags(fs)
			root.Sub[c.Name()] = &complete.Command{Flags: flags(fs)}
		}
	}
	return root
}

func flags(fs *flag.FlagSet) map[string]complete.Predictor {
	m := map[string]complete.Predictor{}
	fs.VisitAll(func(f *flag.Flag) {
		if p, ok := flagPredictors[f.Name]; ok {
			m[f.Name] = p
			return
		}
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			m[f.Name] = predict.Nothing
			return
		}
		m[f.Name] = predict.Something
	})
	return m
}

func transactionTypes() []string {
	types := make([]string, len(fintrack.TransactionTypes))
	for i, t := range fintrack.TransactionTypes {
		types[i] = string(t)
	}
	return types
}
