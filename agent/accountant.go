package agent

import (
	"context"
	"fmt"
	"slices"

	"github.com/etnz/fintrack"
	"github.com/etnz/fintrack/date"
	"github.com/etnz/fintrack/docs"
	"github.com/etnz/fintrack/renderer"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// NewFacilitator returns the expert that talks to the user and delegates to experts.
func NewFacilitator(model string, experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user keeps a personal ledger of accounts, spending, income, and money lent to or
			borrowed from people. Amounts are in Indian Rupees.
			Devise a plan of questions to ask to each expert and come up with the best response to the user's request.
			Some balances are hidden behind a PIN: never guess them, tell the user to reveal them instead.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewAdvisor returns an expert on general personal finance, grounded on Google Search.
func NewAdvisor(model string) *Expert {
	return &Expert{
		Name: "Advisor",
		Description: `This is a personal finance advisor, aware of Indian banking, UPI, wallets,
		bills and subscriptions. Ask the Advisor for general advice or recent information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert in personal finance in India. You Leverage Google Search to
			ground your assertions in a solid truth. You never see the user's data.
			`}}},
		},
	}
}

// NewAccountant returns the expert that reads the user's ledger through session.
func NewAccountant(model string, session *fintrack.Session) *Expert {
	lib := LedgerFunctions(session)
	return &Expert{
		Name: "Accountant",
		Description: `This is the Accountant. He is in charge of reading the user's ledger:
		account balances, transactions, reminders, auto-pay rules and what people owe.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are an accountant in charge of the user's personal ledger.
				You know how to use the Tools to extract relevant information about the user's money.
				Positive net credit means the person owes the user, negative means the user owes them.
				A balance shown as "₹ ••••" is hidden by the user: say so, never estimate it.

				Below is the user documentation about transactions and balances.

				` + must(docs.GetTopics("transactions", "balances")),
			}}},
		},
		Library: NewLibrary(lib),
	}
}

// LedgerFunctions returns the read-only functions over session offered to the Accountant.
func LedgerFunctions(session *fintrack.Session) []Function {
	noArgs := &genai.Schema{Type: genai.TypeObject, Properties: map[string]*genai.Schema{}}
	markdown := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: desc}
	}

	return []Function{
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "Balances",
				Description: "Balances lists every account with its balance and the total balance. Hidden balances are masked.",
				Parameters:  noArgs,
				Response:    markdown("A markdown table of account balances."),
			},
			Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
				return outputResponse(id, "Balances", renderer.RenderBalances(renderer.NewBalanceSheet(session)))
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "Credits",
				Description: "Credits lists the net credit of every person: how much they owe the user or the user owes them.",
				Parameters:  noArgs,
				Response:    markdown("A markdown table of net credit per person."),
			},
			Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
				return outputResponse(id, "Credits", renderer.RenderCredits(renderer.NewCreditSheet(session)))
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "Transactions",
				Description: "Transactions lists transactions, most recent first, optionally filtered by type, account and current period.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"type": {
							Type:        genai.TypeString,
							Description: "Only this transaction type. All types by default.",
							Enum:        transactionTypes(),
						},
						"account": {
							Type:        genai.TypeString,
							Description: "Only transactions from or to this account. All accounts by default.",
						},
						"period": {
							Type:        genai.TypeString,
							Description: "Only transactions dated in the current day, week, month, quarter or year. All dates by default.",
							Enum:        []string{"day", "week", "month", "quarter", "year"},
						},
					},
				},
				Response: markdown("A markdown table of transactions."),
			},
			Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
				typ, err := stringArg(args, "type", false)
				if err != nil {
					return errorResponse(id, "Transactions", err)
				}
				account, err := stringArg(args, "account", false)
				if err != nil {
					return errorResponse(id, "Transactions", err)
				}
				if typ != "" {
					if _, err := fintrack.ParseTransactionType(typ); err != nil {
						return errorResponse(id, "Transactions", err)
					}
				}
				speriod, err := stringArg(args, "period", false)
				if err != nil {
					return errorResponse(id, "Transactions", err)
				}
				var within date.Range
				if speriod != "" {
					p, err := date.ParsePeriod(speriod)
					if err != nil {
						return errorResponse(id, "Transactions", err)
					}
					within = p.Of(date.Of(session.Now()))
				}
				txs := slices.DeleteFunc(session.Filter(orAll(typ), orAll(account)), func(tx fintrack.Transaction) bool {
					return !fintrack.Within(within)(tx)
				})
				title := fmt.Sprintf("Transactions (type: %s, account: %s, dates: %s)", orAll(typ), orAll(account), within)
				return outputResponse(id, "Transactions", renderer.RenderTransactions(renderer.NewTransactionList(title, txs)))
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "Reminders",
				Description: "Reminders lists the bills and payments the user asked to be reminded of.",
				Parameters:  noArgs,
				Response:    markdown("A markdown table of reminders."),
			},
			Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
				return outputResponse(id, "Reminders", renderer.RenderReminders(renderer.NewReminderList(session.DueReminders())))
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "PersonHistory",
				Description: "PersonHistory returns a person's net credit and every transaction with them.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"person": {Type: genai.TypeString, Description: "The person's name, case-sensitive."},
					},
					Required: []string{"person"},
				},
				Response: markdown("The person's net credit and a markdown table of transactions."),
			},
			Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
				person, err := stringArg(args, "person", true)
				if err != nil {
					return errorResponse(id, "PersonHistory", err)
				}
				return outputResponse(id, "PersonHistory", renderer.RenderPersonHistory(renderer.NewPersonHistory(session, person)))
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "AutoPays",
				Description: "AutoPays lists the recurring payment rules and their next due date.",
				Parameters:  noArgs,
				Response:    markdown("A markdown table of auto-pay rules."),
			},
			Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
				rules := session.Settings().AutoPays
				return outputResponse(id, "AutoPays", renderer.RenderAutoPays(renderer.NewAutoPayList(rules, date.Of(session.Now()))))
			},
		},
	}
}

func transactionTypes() []string {
	types := make([]string, 0, len(fintrack.TransactionTypes))
	for _, t := range fintrack.TransactionTypes {
		types = append(types, string(t))
	}
	return types
}

func orAll(s string) string {
	if s == "" {
		return fintrack.All
	}
	return s
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
