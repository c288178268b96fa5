// Package renderer renders fintrack views as markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed templates/*.md
var templateFS embed.FS

var templates = mustSub(templateFS, "templates")

func mustSub(f fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(f, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

var funcs = template.FuncMap{
	// cell escapes a value for use inside a table cell.
	"cell": func(v any) string {
		s := strings.ReplaceAll(fmt.Sprint(v), "|", `\|`)
		return strings.ReplaceAll(s, "\n", " ")
	},
}

// RenderBalances renders the account balances, masking those not revealed.
func RenderBalances(b *BalanceSheet) string {
	return renderTemplate("balances", "balances.md", map[string]string{
		"balances_total":    "balances_total.md",
		"balances_accounts": "balances_accounts.md",
	}, b)
}

// RenderCredits renders the person credits.
func RenderCredits(c *CreditSheet) string {
	return renderTemplate("credits", "credits.md", nil, c)
}

// RenderTransactions renders a list of transactions under title.
func RenderTransactions(l *TransactionList) string {
	return renderTemplate("transactions", "transactions.md", map[string]string{
		"transaction_rows": "transaction_rows.md",
	}, l)
}

// RenderPersonHistory renders a person's net credit and transactions.
func RenderPersonHistory(h *PersonHistory) string {
	return renderTemplate("person", "person.md", map[string]string{
		"transaction_rows": "transaction_rows.md",
	}, h)
}

// RenderReminders renders the due reminders.
func RenderReminders(r *ReminderList) string {
	return renderTemplate("reminders", "reminders.md", nil, r)
}

// RenderAutoPays renders the auto-pay rules with their next due date.
func RenderAutoPays(a *AutoPayList) string {
	return renderTemplate("autopays", "autopays.md", nil, a)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
