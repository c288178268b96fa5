package fintrack

import (
	"testing"
)

func TestDeriveAccountBalances(t *testing.T) {
	accounts := []string{"Cash", "Bank"}
	testCases := []struct {
		name     string
		tx       Transaction
		wantCash Money
		wantBank Money
	}{
		{"income", Transaction{Type: TypeIncome, Amount: M(100), Account: "Cash"}, M(100), M(0)},
		{"expense", Transaction{Type: TypeExpense, Amount: M(100), Account: "Cash"}, M(-100), M(0)},
		{"credit", Transaction{Type: TypeCredit, Amount: M(100), Account: "Cash", Person: "Asha"}, M(-100), M(0)},
		{"repayment", Transaction{Type: TypeRepayment, Amount: M(100), Account: "Cash", Person: "Asha"}, M(100), M(0)},
		{"transfer", Transaction{Type: TypeTransfer, Amount: M(100), Account: "Cash", ToAccount: "Bank"}, M(-100), M(100)},
		{"transfer without destination", Transaction{Type: TypeTransfer, Amount: M(100), Account: "Cash"}, M(-100), M(0)},
		{"transfer to unknown account", Transaction{Type: TypeTransfer, Amount: M(100), Account: "Cash", ToAccount: "Old"}, M(-100), M(0)},
		{"negative adjustment", Transaction{Type: TypeAdjustment, Amount: M(-30), Account: "Bank"}, M(0), M(-30)},
		{"ledger adjustment", Transaction{Type: TypeAdjustment, Amount: M(30), Account: "Bank", Person: "Asha", PersonAdjustment: true}, M(0), M(0)},
		{"reminder", Transaction{Type: TypeReminder, Amount: M(100), Account: "Cash"}, M(0), M(0)},
		{"external", Transaction{Type: TypeExternal, Amount: M(100), Account: "Cash"}, M(0), M(0)},
		{"negative amount is a magnitude", Transaction{Type: TypeExpense, Amount: M(-100), Account: "Cash"}, M(-100), M(0)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := DeriveAccountBalances([]Transaction{tc.tx}, accounts)
			if len(got) != len(accounts) {
				t.Fatalf("DeriveAccountBalances() has %d accounts, want %d", len(got), len(accounts))
			}
			if !got.Get("Cash").Equal(tc.wantCash) {
				t.Errorf("Cash = %v, want %v", got.Get("Cash"), tc.wantCash)
			}
			if !got.Get("Bank").Equal(tc.wantBank) {
				t.Errorf("Bank = %v, want %v", got.Get("Bank"), tc.wantBank)
			}
		})
	}
}

func TestDeriveAccountBalances_OrderIndependent(t *testing.T) {
	txs := []Transaction{
		{Type: TypeIncome, Amount: M(1000), Account: "Cash"},
		{Type: TypeExpense, Amount: M(250.5), Account: "Cash"},
		{Type: TypeTransfer, Amount: M(100), Account: "Cash", ToAccount: "Bank"},
		{Type: TypeAdjustment, Amount: M(-0.5), Account: "Bank"},
	}
	reversed := []Transaction{txs[3], txs[2], txs[1], txs[0]}

	a := DeriveAccountBalances(txs, []string{"Cash", "Bank"})
	b := DeriveAccountBalances(reversed, []string{"Cash", "Bank"})
	for _, acc := range []string{"Cash", "Bank"} {
		if !a.Get(acc).Equal(b.Get(acc)) {
			t.Errorf("%s: %v in order, %v reversed", acc, a.Get(acc), b.Get(acc))
		}
	}
	if want := M(749); !a.Total().Equal(want) {
		t.Errorf("Total() = %v, want %v", a.Total(), want)
	}
}

func TestDeriveAccountBalances_UnregisteredAccountsAreDropped(t *testing.T) {
	got := DeriveAccountBalances([]Transaction{{Type: TypeIncome, Amount: M(10), Account: "Removed"}}, []string{"Cash"})
	if _, ok := got["Removed"]; ok {
		t.Errorf("DeriveAccountBalances() = %v, should not track Removed", got)
	}
	if !got.Total().IsZero() {
		t.Errorf("Total() = %v, want 0", got.Total())
	}
}

func TestDerivePersonCredits(t *testing.T) {
	txs := []Transaction{
		{Type: TypeCredit, Amount: M(500), Account: "Cash", Person: "Asha"},
		{Type: TypeRepayment, Amount: M(200), Account: "Cash", Person: "Asha"},
		{Type: TypeRepayment, Amount: M(50), Account: "Cash", Person: "Ravi"},
		{Type: TypeAdjustment, Amount: M(-20), Account: "Cash", Person: "Asha", PersonAdjustment: true},
		{Type: TypeAdjustment, Amount: M(1000), Account: "Cash", Person: "Asha"}, // account adjustment
		{Type: TypeExpense, Amount: M(70), Account: "Cash", Person: "Asha"},
		{Type: TypeExternal, Amount: M(70), Person: "Asha"},
		{Type: TypeCredit, Amount: M(10), Person: "Stranger"},
	}
	got := DerivePersonCredits(txs, []string{"Asha", "Ravi", "Mummy"})

	want := map[string]Money{"Asha": M(280), "Ravi": M(-50), "Mummy": M(0)}
	if len(got) != len(want) {
		t.Fatalf("DerivePersonCredits() = %v, want %v", got, want)
	}
	for person, w := range want {
		if !got.Get(person).Equal(w) {
			t.Errorf("%s = %v, want %v", person, got.Get(person), w)
		}
	}
	if !got.Total().Equal(M(230)) {
		t.Errorf("Total() = %v, want %v", got.Total(), M(230))
	}
}
