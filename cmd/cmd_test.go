package cmd

import (
	"bytes"
	"context"
	"flag"
	"path/filepath"
	"testing"

	"github.com/etnz/fintrack"
	"github.com/etnz/fintrack/config"
	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useConfig sets the global configuration and captures stdout for the test.
func useConfig(t *testing.T, c *config.Config) *bytes.Buffer {
	t.Helper()
	oldCfg, oldOut, oldErr, oldRaw := cfg, stdout, stderr, rawMarkdown
	t.Cleanup(func() { cfg, stdout, stderr, rawMarkdown = oldCfg, oldOut, oldErr, oldRaw })

	var out, errOut bytes.Buffer
	cfg, stdout, stderr, rawMarkdown = c, &out, &errOut, true
	t.Cleanup(func() {
		if errOut.Len() > 0 {
			t.Logf("stderr:\n%s", errOut.String())
		}
	})
	return &out
}

// run parses args for a fresh instance of cmd and executes it.
func run(t *testing.T, cmd subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(f)
	require.NoError(t, f.Parse(args))
	return cmd.Execute(context.Background(), f)
}

// load reads back what the commands persisted.
func load(t *testing.T) *fintrack.Session {
	t.Helper()
	st, closeStore, err := openStore(context.Background())
	require.NoError(t, err)
	defer closeStore()
	s, err := fintrack.Open(context.Background(), st)
	require.NoError(t, err)
	return s
}

func stores(t *testing.T) map[string]*config.Config {
	return map[string]*config.Config{
		"file":   {DataDir: t.TempDir(), Store: config.StoreFile},
		"sqlite": {DataDir: t.TempDir(), Store: config.StoreSQLite},
	}
}

func TestAddAndBalance(t *testing.T) {
	for name, c := range stores(t) {
		t.Run(name, func(t *testing.T) {
			out := useConfig(t, c)

			require.Equal(t, subcommands.ExitSuccess, run(t, &addCmd{}, "-t", "income", "-a", "1000", "-acc", "Cash In Wallet", "-n", "pocket money"))
			require.Equal(t, subcommands.ExitSuccess, run(t, &addCmd{}, "-a", "250", "-acc", "Cash In Wallet", "-c", "Food"))
			assert.Contains(t, out.String(), "Spent")

			s := load(t)
			assert.True(t, fintrack.M(750).Equal(s.AccountBalances().Get("Cash In Wallet")))
			require.Len(t, s.Transactions(), 2)
			assert.Equal(t, "Food", s.Transactions()[0].Category)

			out.Reset()
			require.Equal(t, subcommands.ExitSuccess, run(t, &balanceCmd{}, "Cash In Wallet"))
			assert.Contains(t, out.String(), fintrack.M(750).String())
		})
	}
}

func TestAdd_ZeroAmountFails(t *testing.T) {
	useConfig(t, &config.Config{DataDir: t.TempDir(), Store: config.StoreFile})
	assert.Equal(t, subcommands.ExitFailure, run(t, &addCmd{}, "-a", "0"))
	assert.Empty(t, load(t).Transactions())
}

func TestAdd_UsageErrors(t *testing.T) {
	useConfig(t, &config.Config{DataDir: t.TempDir(), Store: config.StoreFile})
	assert.Equal(t, subcommands.ExitUsageError, run(t, &addCmd{}, "-t", "loan", "-a", "5"))
	assert.Equal(t, subcommands.ExitUsageError, run(t, &addCmd{}, "-a", "five"))
	assert.Equal(t, subcommands.ExitUsageError, run(t, &addCmd{}, "-a", "5", "-d", "yesterday"))
}

func TestAdd_ExpenseAsCredit(t *testing.T) {
	useConfig(t, &config.Config{DataDir: t.TempDir(), Store: config.StoreFile})
	require.Equal(t, subcommands.ExitSuccess, run(t, &addCmd{}, "-a", "300", "-credit", "-p", "Sanchi"))

	s := load(t)
	require.Len(t, s.Transactions(), 1)
	assert.Equal(t, fintrack.TypeCredit, s.Transactions()[0].Type)
	assert.True(t, fintrack.M(300).Equal(s.PersonCredits().Get("Sanchi")))
}

func TestAdd_LedgerAdjustment(t *testing.T) {
	useConfig(t, &config.Config{DataDir: t.TempDir(), Store: config.StoreFile})
	assert.Equal(t, subcommands.ExitUsageError, run(t, &addCmd{}, "-t", "adjustment", "-p", "Sanchi", "-a", "10"))
	assert.Equal(t, subcommands.ExitUsageError, run(t, &addCmd{}, "-ledger", "-p", "Sanchi", "-a", "10"))
	assert.Equal(t, subcommands.ExitUsageError, run(t, &addCmd{}, "-t", "adjustment", "-ledger", "-a", "10"))
	assert.Empty(t, load(t).Transactions())

	require.Equal(t, subcommands.ExitSuccess, run(t, &addCmd{}, "-t", "adjustment", "-ledger", "-p", "Sanchi", "-a", "-10"))
	s := load(t)
	require.Len(t, s.Transactions(), 1)
	assert.True(t, s.Transactions()[0].PersonAdjustment)
	assert.True(t, fintrack.M(-10).Equal(s.PersonCredits().Get("Sanchi")))
	assert.True(t, s.TotalBalance().IsZero(), "no account moves")
}

func TestBalance_ProtectedByPIN(t *testing.T) {
	out := useConfig(t, &config.Config{DataDir: t.TempDir(), Store: config.StoreFile})
	require.Equal(t, subcommands.ExitSuccess, run(t, &addCmd{}, "-t", "income", "-a", "500"))
	require.Equal(t, subcommands.ExitSuccess, run(t, &pinCmd{}, "-set", "1234", "-confirm", "1234"))

	out.Reset()
	require.Equal(t, subcommands.ExitSuccess, run(t, &balanceCmd{}))
	assert.NotContains(t, out.String(), fintrack.M(500).String())

	out.Reset()
	assert.Equal(t, subcommands.ExitFailure, run(t, &balanceCmd{}, "-pin", "0000"))

	out.Reset()
	require.Equal(t, subcommands.ExitSuccess, run(t, &balanceCmd{}, "-pin", "1234"))
	assert.Contains(t, out.String(), fintrack.M(500).String())
}

func TestPin_ChangeAndReset(t *testing.T) {
	useConfig(t, &config.Config{DataDir: t.TempDir(), Store: config.StoreFile})
	require.Equal(t, subcommands.ExitSuccess, run(t, &pinCmd{}, "-set", "1234", "-confirm", "1234"))
	assert.Equal(t, subcommands.ExitFailure, run(t, &pinCmd{}, "-current", "9999", "-set", "4321", "-confirm", "4321"))
	assert.Equal(t, subcommands.ExitFailure, run(t, &pinCmd{}, "-current", "1234", "-set", "12", "-confirm", "12"))
	settings := load(t).Settings()
	assert.Equal(t, "1234", settings.PIN())

	assert.Equal(t, subcommands.ExitFailure, run(t, &pinCmd{}, "-reset"))
	require.Equal(t, subcommands.ExitSuccess, run(t, &pinCmd{}, "-reset", "-yes"))
	settings = load(t).Settings()
	assert.False(t, settings.HasPIN())
}

func TestPerson_RemoveNeedsConfirmationAndPIN(t *testing.T) {
	useConfig(t, &config.Config{DataDir: t.TempDir(), Store: config.StoreFile})
	require.Equal(t, subcommands.ExitSuccess, run(t, &personCmd{}, "-add", "Ravi"))
	require.Equal(t, subcommands.ExitSuccess, run(t, &pinCmd{}, "-set", "1234", "-confirm", "1234"))

	assert.Equal(t, subcommands.ExitFailure, run(t, &personCmd{}, "-rm", "Ravi"))
	assert.Equal(t, subcommands.ExitFailure, run(t, &personCmd{}, "-rm", "Ravi", "-yes"))
	assert.Contains(t, load(t).Settings().People, "Ravi")

	require.Equal(t, subcommands.ExitSuccess, run(t, &personCmd{}, "-rm", "Ravi", "-yes", "-pin", "1234"))
	assert.NotContains(t, load(t).Settings().People, "Ravi")
}

func TestCalibrate(t *testing.T) {
	out := useConfig(t, &config.Config{DataDir: t.TempDir(), Store: config.StoreFile})
	require.Equal(t, subcommands.ExitSuccess, run(t, &calibrateCmd{}, "-acc", "UPI Lite", "-to", "120.50"))
	assert.True(t, fintrack.M(120.5).Equal(load(t).AccountBalances().Get("UPI Lite")))

	out.Reset()
	require.Equal(t, subcommands.ExitSuccess, run(t, &calibrateCmd{}, "-acc", "UPI Lite", "-to", "120.5"))
	assert.Contains(t, out.String(), "nothing recorded")
	assert.Len(t, load(t).Transactions(), 1)

	assert.Equal(t, subcommands.ExitUsageError, run(t, &calibrateCmd{}, "-acc", "UPI Lite", "-p", "Mummy", "-to", "1"))
}

func TestRm(t *testing.T) {
	useConfig(t, &config.Config{DataDir: t.TempDir(), Store: config.StoreFile})
	require.Equal(t, subcommands.ExitSuccess, run(t, &addCmd{}, "-a", "10"))
	id := load(t).Transactions()[0].ID

	require.Equal(t, subcommands.ExitSuccess, run(t, &rmCmd{}, id, "unknown"))
	assert.Empty(t, load(t).Transactions())
}

func TestAccountCmd(t *testing.T) {
	out := useConfig(t, &config.Config{DataDir: t.TempDir(), Store: config.StoreFile})
	require.Equal(t, subcommands.ExitSuccess, run(t, &accountCmd{}, "-add", "HDFC"))
	assert.Equal(t, subcommands.ExitUsageError, run(t, &accountCmd{}, "-add", "HDFC"))
	require.Equal(t, subcommands.ExitSuccess, run(t, &accountCmd{}, "-up", "HDFC"))
	require.Equal(t, subcommands.ExitSuccess, run(t, &accountCmd{}, "-lock", "HDFC"))

	st := load(t).Settings()
	n := len(st.Accounts)
	assert.Equal(t, "HDFC", st.Accounts[n-2])
	assert.True(t, st.AccountLocked("HDFC"))

	out.Reset()
	require.Equal(t, subcommands.ExitSuccess, run(t, &accountCmd{}))
	assert.Contains(t, out.String(), "- HDFC 🔒")
}

func TestAccountCmd_ConflictingFlags(t *testing.T) {
	useConfig(t, &config.Config{DataDir: t.TempDir(), Store: config.StoreFile})
	before := load(t).Settings()
	assert.Equal(t, subcommands.ExitUsageError, run(t, &accountCmd{}, "-up", "Mobikwik", "-down", "UPI Lite"))
	assert.Equal(t, subcommands.ExitUsageError, run(t, &accountCmd{}, "-lock", "Mobikwik", "-unlock", "UPI Lite"))
	after := load(t).Settings()
	assert.Equal(t, before.Accounts, after.Accounts)
	assert.False(t, after.AccountLocked("Mobikwik"))
}

func TestCategoryCmd(t *testing.T) {
	useConfig(t, &config.Config{DataDir: t.TempDir(), Store: config.StoreFile})
	require.Equal(t, subcommands.ExitSuccess, run(t, &categoryCmd{}, "-k", "income", "-add", "Freelance"))
	assert.Equal(t, subcommands.ExitUsageError, run(t, &categoryCmd{}, "-k", "savings", "-add", "x"))
	assert.Contains(t, load(t).Settings().IncomeCats, "Freelance")
}

func TestAutopayCmd(t *testing.T) {
	out := useConfig(t, &config.Config{DataDir: t.TempDir(), Store: config.StoreFile})
	require.Equal(t, subcommands.ExitSuccess, run(t, &autopayCmd{}, "-add", "Netflix", "-a", "199", "-day", "12"))
	assert.Equal(t, subcommands.ExitUsageError, run(t, &autopayCmd{}, "-add", "Rent", "-a", "100", "-day", "40"))

	rules := load(t).Settings().AutoPays
	require.Len(t, rules, 1)
	assert.Equal(t, "Cash In Wallet", rules[0].Account)

	out.Reset()
	require.Equal(t, subcommands.ExitSuccess, run(t, &autopayCmd{}))
	assert.Contains(t, out.String(), "Netflix")
}

func TestProfileCmd(t *testing.T) {
	useConfig(t, &config.Config{DataDir: t.TempDir(), Store: config.StoreFile})
	require.Equal(t, subcommands.ExitSuccess, run(t, &profileCmd{}, "-name", "Asha", "-theme", "-external", "off"))
	assert.Equal(t, subcommands.ExitUsageError, run(t, &profileCmd{}, "-external", "maybe"))

	st := load(t).Settings()
	assert.Equal(t, "Asha", st.Profile.Name)
	assert.Equal(t, fintrack.ThemeLight, st.Theme)
	assert.False(t, st.ShowExternal)
}

func TestCategoryKind(t *testing.T) {
	assert.Equal(t, fintrack.IncomeCategories, categoryKind(fintrack.TypeIncome))
	assert.Equal(t, fintrack.ReminderCategories, categoryKind(fintrack.TypeReminder))
	assert.Equal(t, fintrack.ExpenseCategories, categoryKind(fintrack.TypeCredit))
}

func TestTx_DateRange(t *testing.T) {
	out := useConfig(t, &config.Config{DataDir: t.TempDir(), Store: config.StoreFile})
	require.Equal(t, subcommands.ExitSuccess, run(t, &addCmd{}, "-a", "10", "-d", "2025-01-15", "-n", "january"))
	require.Equal(t, subcommands.ExitSuccess, run(t, &addCmd{}, "-a", "20", "-d", "2025-02-15", "-n", "february"))

	out.Reset()
	require.Equal(t, subcommands.ExitSuccess, run(t, &txCmd{}, "-from", "2025-02-01", "-to", "2025-02-28"))
	assert.Contains(t, out.String(), "february")
	assert.NotContains(t, out.String(), "january")

	assert.Equal(t, subcommands.ExitUsageError, run(t, &txCmd{}, "-period", "month", "-from", "2025-02-01"))
	assert.Equal(t, subcommands.ExitUsageError, run(t, &txCmd{}, "-period", "fortnight"))
}

func TestTopicCmd(t *testing.T) {
	out := useConfig(t, &config.Config{DataDir: t.TempDir(), Store: config.StoreFile})
	require.Equal(t, subcommands.ExitSuccess, run(t, &topicCmd{}))
	assert.Contains(t, out.String(), "fin topic <topic>")

	out.Reset()
	require.Equal(t, subcommands.ExitSuccess, run(t, &topicCmd{}, "pin"))
	assert.Contains(t, out.String(), "# PIN")

	assert.Equal(t, subcommands.ExitFailure, run(t, &topicCmd{}, "stocks"))
}

func TestExportImport_AcrossStores(t *testing.T) {
	useConfig(t, &config.Config{DataDir: t.TempDir(), Store: config.StoreFile})
	require.Equal(t, subcommands.ExitSuccess, run(t, &addCmd{}, "-t", "credit", "-a", "700", "-p", "Mummy"))
	require.Equal(t, subcommands.ExitSuccess, run(t, &accountCmd{}, "-add", "HDFC"))
	backup := filepath.Join(t.TempDir(), "backup.json")
	require.Equal(t, subcommands.ExitSuccess, run(t, &exportCmd{}, "-o", backup))

	out := useConfig(t, &config.Config{DataDir: t.TempDir(), Store: config.StoreSQLite})
	assert.Equal(t, subcommands.ExitFailure, run(t, &importCmd{}, backup), "import needs -yes")
	require.Equal(t, subcommands.ExitSuccess, run(t, &importCmd{}, "-yes", backup))
	assert.Contains(t, out.String(), "Imported 1 transactions.")

	s := load(t)
	assert.True(t, fintrack.M(700).Equal(s.PersonCredits().Get("Mummy")))
	assert.Contains(t, s.Settings().Accounts, "HDFC")
}

func TestExport_Stdout(t *testing.T) {
	out := useConfig(t, &config.Config{DataDir: t.TempDir(), Store: config.StoreFile})
	require.Equal(t, subcommands.ExitSuccess, run(t, &exportCmd{}))

	snap, err := fintrack.DecodeSnapshot(out.Bytes())
	require.NoError(t, err)
	assert.Equal(t, fintrack.DefaultSettings().Accounts, snap.Settings.Accounts)
}
