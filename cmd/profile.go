package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/fintrack"
	"github.com/google/subcommands"
)

type profileCmd struct {
	name, email, phone, address string
	toggleTheme                 bool
	external                    string
	payer, rmPayer              string
	method, rmMethod            string
}

func (*profileCmd) Name() string     { return "profile" }
func (*profileCmd) Synopsis() string { return "show and edit the profile and preferences" }
func (*profileCmd) Usage() string {
	return `fin profile [-name <n>] [-email <e>] [-phone <p>] [-address <a>] [-theme] [-external on|off]
            [-payer <p> | -rm-payer <p>] [-method <m> | -rm-method <m>]

  Without flags, shows the profile, preferences, payers and payment methods.
`
}

func (c *profileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Name")
	f.StringVar(&c.email, "email", "", "Email")
	f.StringVar(&c.phone, "phone", "", "Phone")
	f.StringVar(&c.address, "address", "", "Address")
	f.BoolVar(&c.toggleTheme, "theme", false, "Switch between dark and light theme")
	f.StringVar(&c.external, "external", "", "Show external spends: on or off")
	f.StringVar(&c.payer, "payer", "", "Add a payer of external spends")
	f.StringVar(&c.rmPayer, "rm-payer", "", "Remove a payer")
	f.StringVar(&c.method, "method", "", "Add a payment method")
	f.StringVar(&c.rmMethod, "rm-method", "", "Remove a payment method")
}

// edit applies the flags to st. It reports whether anything was asked.
func (c *profileCmd) edit(st *fintrack.Settings) (bool, error) {
	edited := false
	set := func(field *string, value string) {
		if value != "" {
			*field = value
			edited = true
		}
	}
	set(&st.Profile.Name, c.name)
	set(&st.Profile.Email, c.email)
	set(&st.Profile.Phone, c.phone)
	set(&st.Profile.Address, c.address)

	if c.toggleTheme {
		st.ToggleTheme()
		edited = true
	}
	switch c.external {
	case "":
	case "on":
		st.ShowExternal, edited = true, true
	case "off":
		st.ShowExternal, edited = false, true
	default:
		return false, usagef("-external must be on or off, got %q", c.external)
	}
	if c.payer != "" {
		st.AddPayer(c.payer)
		edited = true
	}
	if c.rmPayer != "" {
		st.RemovePayer(c.rmPayer)
		edited = true
	}
	if c.method != "" {
		st.AddPaymentMethod(c.method)
		edited = true
	}
	if c.rmMethod != "" {
		st.RemovePaymentMethod(c.rmMethod)
		edited = true
	}
	return edited, nil
}

func (c *profileCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(s *fintrack.Session) error {
		st := s.Settings()
		edited, err := c.edit(&st)
		if err != nil {
			return err
		}
		if edited {
			return s.UpdateSettings(ctx, func(current *fintrack.Settings) error {
				*current = st
				return nil
			})
		}

		p := st.Profile
		var b strings.Builder
		b.WriteString("# Profile\n\n| | |\n|:--|:--|\n")
		fmt.Fprintf(&b, "| Name | %s |\n| Email | %s |\n| Phone | %s |\n| Address | %s |\n", p.Name, p.Email, p.Phone, p.Address)
		fmt.Fprintf(&b, "| Theme | %s |\n| Show external spends | %t |\n| PIN | %t |\n", st.Theme, st.ShowExternal, st.HasPIN())
		fmt.Fprintf(&b, "| Payers | %s |\n", strings.Join(st.PaidByList, ", "))
		fmt.Fprintf(&b, "| Payment methods | %s |\n", strings.Join(st.PaymentMethods, ", "))
		printMarkdown(s, b.String())
		return nil
	})
}
