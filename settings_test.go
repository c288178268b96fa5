package fintrack

import (
	"reflect"
	"testing"
)

func TestSettings_Accounts(t *testing.T) {
	s := Settings{Accounts: []string{"A", "B", "C"}}

	if !s.AddAccount("D") || s.AddAccount("D") || s.AddAccount("") {
		t.Error("AddAccount must append new names only")
	}
	if !s.MoveAccount(3, true) {
		t.Error("MoveAccount(3, up) = false")
	}
	if s.MoveAccount(0, true) || s.MoveAccount(3, false) || s.MoveAccount(7, true) {
		t.Error("MoveAccount out of the list must be a no-op")
	}
	if want := []string{"A", "B", "D", "C"}; !reflect.DeepEqual(s.Accounts, want) {
		t.Errorf("Accounts = %v, want %v", s.Accounts, want)
	}
	if !s.RemoveAccount("B") || s.RemoveAccount("B") {
		t.Error("RemoveAccount must remove once")
	}
	if s.FirstAccount() != "A" {
		t.Errorf("FirstAccount() = %q, want A", s.FirstAccount())
	}
	if (&Settings{}).FirstAccount() != "" {
		t.Error("FirstAccount() of no account must be empty")
	}
}

func TestSettings_AccountLocks(t *testing.T) {
	var s Settings
	if s.AccountLocked("Bank") {
		t.Error("accounts are unlocked by default")
	}
	if !s.ToggleAccountLock("Bank") || !s.AccountLocked("Bank") {
		t.Error("ToggleAccountLock must lock an unlocked account")
	}
	s.SetAccountLock("Bank", false)
	if s.AccountLocked("Bank") {
		t.Error("SetAccountLock(false) must unlock")
	}
}

func TestSettings_PeopleAreCaseSensitive(t *testing.T) {
	s := Settings{People: []string{"Asha"}}
	if !s.AddPerson("asha") || s.AddPerson("Asha") {
		t.Errorf("People = %v", s.People)
	}
	if !s.RemovePerson("Asha") || !reflect.DeepEqual(s.People, []string{"asha"}) {
		t.Errorf("People = %v, want [asha]", s.People)
	}
}

func TestSettings_Categories(t *testing.T) {
	s := DefaultSettings()
	added, err := s.AddCategory(IncomeCategories, "Freelance")
	if err != nil || !added {
		t.Fatalf("AddCategory() = %v, %v", added, err)
	}
	income, _ := s.Categories(IncomeCategories)
	if income[len(income)-1] != "Freelance" {
		t.Errorf("income categories = %v", income)
	}
	income[0] = "changed"
	if s.IncomeCats[0] == "changed" {
		t.Error("Categories() must return a copy")
	}
	if removed, _ := s.RemoveCategory(ReminderCategories, "Netflix"); !removed {
		t.Error("RemoveCategory(Netflix) = false")
	}
	if _, err := s.AddCategory("savings", "x"); err == nil {
		t.Error("AddCategory(savings) succeeded, want error")
	}
}

func TestSettings_Events(t *testing.T) {
	s := DefaultSettings()
	ev := s.AddEvent("e1", "Goa trip")
	if got, ok := s.Event("e1"); !ok || got != ev {
		t.Errorf("Event(e1) = %v, %v", got, ok)
	}
	if !s.RemoveEvent("e1") || s.RemoveEvent("e1") {
		t.Error("RemoveEvent must remove once")
	}
	if _, ok := s.Event("e1"); ok {
		t.Error("Event(e1) found after removal")
	}
}

func TestSettings_AddAutoPay(t *testing.T) {
	s := Settings{Accounts: []string{"Cash", "Bank"}}
	rule, err := s.AddAutoPay("r1", AutoPayRule{Purpose: "Rent", Amount: M(12000)})
	if err != nil {
		t.Fatalf("AddAutoPay() error = %v", err)
	}
	want := AutoPayRule{ID: "r1", Purpose: "Rent", Amount: M(12000), Day: "1", Account: "Cash", Type: TypeExpense}
	if !reflect.DeepEqual(rule, want) {
		t.Errorf("AddAutoPay() = %+v, want %+v", rule, want)
	}
	if _, err := s.AddAutoPay("r2", AutoPayRule{Purpose: "Rent"}); err == nil {
		t.Error("AddAutoPay(zero amount) succeeded, want error")
	}
	if len(s.AutoPays) != 1 {
		t.Errorf("AutoPays = %v, want only the valid rule", s.AutoPays)
	}
	if !s.RemoveAutoPay("r1") || len(s.AutoPays) != 0 {
		t.Errorf("RemoveAutoPay(r1) left %v", s.AutoPays)
	}
}

func TestSettings_Clone(t *testing.T) {
	s := DefaultSettings()
	s.setPIN("1234")
	c := s.Clone()
	c.Accounts[0] = "changed"
	c.AccountLockSettings["Bank"] = true
	*c.BalancePIN = "0000"

	if s.Accounts[0] == "changed" || s.AccountLocked("Bank") || s.PIN() != "1234" {
		t.Error("Clone() shares state with the original")
	}
}

func TestSettings_ToggleTheme(t *testing.T) {
	s := DefaultSettings()
	if s.ToggleTheme() != ThemeLight || s.ToggleTheme() != ThemeDark {
		t.Errorf("Theme = %q", s.Theme)
	}
}
