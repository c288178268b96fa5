package cmd

import (
	"context"
	"errors"
	"flag"
	"os"
	"strings"

	"github.com/etnz/fintrack"
	"github.com/etnz/fintrack/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// assistCmd is the subcommand for the AI assistant.
type assistCmd struct {
	pin string
}

func (*assistCmd) Name() string { return "assist" }
func (*assistCmd) Synopsis() string {
	return "start an interactive session with the AI assistant"
}
func (*assistCmd) Usage() string {
	return `fin assist [-pin <pin>] [<question>]

  Starts an interactive session with an assistant that can read your ledger.
  Balances stay masked unless -pin reveals them. Needs GEMINI_API_KEY.
`
}

func (c *assistCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.pin, "pin", "", "PIN to let the assistant see protected balances")
}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	initialPrompt := strings.Join(f.Args(), " ")

	return withSession(ctx, func(s *fintrack.Session) error {
		if cfg.APIKey == "" {
			return errors.New("no Gemini API key: set GEMINI_API_KEY")
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey, Backend: genai.BackendGeminiAPI})
		if err != nil {
			return err
		}
		if err := revealBalances(ctx, s, c.pin, true, nil); err != nil {
			return err
		}

		model := cfg.Model
		if model == "" {
			model = agent.DefaultModel
		}
		a := agent.New(stdout, os.Stdin, model, agent.NewAccountant(model, s), agent.NewAdvisor(model))
		theme := s.Settings().Theme
		a.Render = func(md string) string { return renderMarkdown(theme, md) }
		return a.Run(ctx, client, initialPrompt)
	})
}
