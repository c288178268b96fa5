package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/fintrack"
	"golang.org/x/term"
)

// rawMarkdown disables terminal rendering, for tests and pipes.
var rawMarkdown = !term.IsTerminal(int(os.Stdout.Fd()))

// renderMarkdown formats md for the terminal in the user's theme.
func renderMarkdown(theme fintrack.Theme, md string) string {
	if rawMarkdown {
		return md
	}
	style := "dark"
	if theme == fintrack.ThemeLight {
		style = "light"
	}
	r, err := glamour.NewTermRenderer(glamour.WithStandardStyle(style), glamour.WithWordWrap(120))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

// printMarkdown prints md to stdout in the session's theme.
func printMarkdown(s *fintrack.Session, md string) {
	fmt.Fprint(stdout, renderMarkdown(s.Settings().Theme, md))
}
