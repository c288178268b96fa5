package fintrack

import (
	"fmt"
	"maps"
	"slices"
)

// Theme is the display theme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// CategoryKind selects one of the category lists.
type CategoryKind string

const (
	ExpenseCategories  CategoryKind = "expense"
	IncomeCategories   CategoryKind = "income"
	ReminderCategories CategoryKind = "reminder"
)

// Event is a registered shared event that external spends belong to.
type Event struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Profile holds the user's identity details.
type Profile struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Settings is the registry of named lists that transactions refer to by name.
//
// Nothing here is owned by transactions: removing an entry never touches the
// ledger, and the ledger never validates its names against the registry.
type Settings struct {
	People              []string        `json:"peopleList"`
	Accounts            []string        `json:"accounts"`
	AccountLockSettings map[string]bool `json:"accountLockSettings"`
	ExpenseCats         []string        `json:"expenseCats"`
	IncomeCats          []string        `json:"incomeCats"`
	ReminderCats        []string        `json:"reminderCats"`
	BalancePIN          *string         `json:"balancePin"`
	AutoPays            []AutoPayRule   `json:"autoPays"`
	Profile             Profile         `json:"profile"`
	Theme               Theme           `json:"theme"`
	ShowExternal        bool            `json:"showExternal"`
	PaidByList          []string        `json:"paidByList"`
	PaymentMethods      []string        `json:"paymentMethods"`
	Events              []Event         `json:"events"`
}

// DefaultSettings returns the registry a new user starts with.
func DefaultSettings() Settings {
	return Settings{
		People: []string{"Sanchi", "Mummy"},
		Accounts: []string{
			"Cash In Wallet", "G Pay UPI", "Phone Pe UPI", "UPI Lite", "Recharge Cash",
			"Fam Pay Wallet", "Mobikwik", "Amazon Wallet", "Cash In Saving", "Fam Pay Saving",
		},
		AccountLockSettings: map[string]bool{},
		ExpenseCats:         []string{"General", "Food", "Shopping", "Bills", "Travel", "Medical", "Other"},
		IncomeCats:          []string{"Pocket Money", "Salary", "Bonus", "Refund", "Gift"},
		ReminderCats:        []string{"Jio Fiber", "Self Phone", "Netflix", "Mummy Phone", "Jio Hotstar", "Sony Liv", "Prime Video"},
		AutoPays:            []AutoPayRule{},
		Theme:               ThemeDark,
		ShowExternal:        true,
		PaidByList:          []string{"Self", "Friend", "Company"},
		PaymentMethods:      []string{"UPI", "Cash", "Wallet", "Card", "Bank Transfer"},
		Events:              []Event{{ID: "default-event", Name: "General Event"}},
	}
}

// Clone returns a deep copy of s.
func (s Settings) Clone() Settings {
	c := s
	c.People = slices.Clone(s.People)
	c.Accounts = slices.Clone(s.Accounts)
	c.AccountLockSettings = maps.Clone(s.AccountLockSettings)
	c.ExpenseCats = slices.Clone(s.ExpenseCats)
	c.IncomeCats = slices.Clone(s.IncomeCats)
	c.ReminderCats = slices.Clone(s.ReminderCats)
	c.AutoPays = slices.Clone(s.AutoPays)
	c.PaidByList = slices.Clone(s.PaidByList)
	c.PaymentMethods = slices.Clone(s.PaymentMethods)
	c.Events = slices.Clone(s.Events)
	if s.BalancePIN != nil {
		pin := *s.BalancePIN
		c.BalancePIN = &pin
	}
	return c
}

// FirstAccount returns the first registered account, or "" if there is none.
func (s *Settings) FirstAccount() string {
	if len(s.Accounts) == 0 {
		return ""
	}
	return s.Accounts[0]
}

// PIN returns the configured PIN, "" when none is set.
func (s *Settings) PIN() string {
	if s.BalancePIN == nil {
		return ""
	}
	return *s.BalancePIN
}

// HasPIN reports whether a PIN is configured.
func (s *Settings) HasPIN() bool { return s.PIN() != "" }

func (s *Settings) setPIN(pin string) {
	if pin == "" {
		s.BalancePIN = nil
		return
	}
	s.BalancePIN = &pin
}

// --- accounts ---

// AddAccount appends name to the accounts. It reports false if it already exists.
func (s *Settings) AddAccount(name string) bool {
	return addUnique(&s.Accounts, name)
}

// RemoveAccount removes name from the accounts. Its transactions are kept.
func (s *Settings) RemoveAccount(name string) bool {
	return remove(&s.Accounts, name)
}

// MoveAccount swaps the account at index with its neighbour above (up) or
// below. It reports false when the move would leave the list.
func (s *Settings) MoveAccount(index int, up bool) bool {
	target := index + 1
	if up {
		target = index - 1
	}
	if index < 0 || index >= len(s.Accounts) || target < 0 || target >= len(s.Accounts) {
		return false
	}
	s.Accounts[index], s.Accounts[target] = s.Accounts[target], s.Accounts[index]
	return true
}

// AccountLocked reports whether revealing account requires the PIN.
func (s *Settings) AccountLocked(account string) bool {
	return s.AccountLockSettings[account]
}

// SetAccountLock sets whether revealing account requires the PIN.
func (s *Settings) SetAccountLock(account string, locked bool) {
	if s.AccountLockSettings == nil {
		s.AccountLockSettings = map[string]bool{}
	}
	s.AccountLockSettings[account] = locked
}

// ToggleAccountLock flips the lock flag of account and returns the new value.
func (s *Settings) ToggleAccountLock(account string) bool {
	locked := !s.AccountLocked(account)
	s.SetAccountLock(account, locked)
	return locked
}

// --- people ---

// AddPerson adds name to the people. Names are case-sensitive and distinct.
func (s *Settings) AddPerson(name string) bool {
	return addUnique(&s.People, name)
}

// RemovePerson removes name from the people. Their transactions are kept.
func (s *Settings) RemovePerson(name string) bool {
	return remove(&s.People, name)
}

// --- categories, payers and payment methods ---

func (s *Settings) categories(kind CategoryKind) (*[]string, error) {
	switch kind {
	case ExpenseCategories:
		return &s.ExpenseCats, nil
	case IncomeCategories:
		return &s.IncomeCats, nil
	case ReminderCategories:
		return &s.ReminderCats, nil
	default:
		return nil, fmt.Errorf("unknown category kind: %q", kind)
	}
}

// Categories returns the categories of that kind.
func (s *Settings) Categories(kind CategoryKind) ([]string, error) {
	list, err := s.categories(kind)
	if err != nil {
		return nil, err
	}
	return slices.Clone(*list), nil
}

// AddCategory appends name to the categories of that kind.
func (s *Settings) AddCategory(kind CategoryKind, name string) (bool, error) {
	list, err := s.categories(kind)
	if err != nil {
		return false, err
	}
	return addUnique(list, name), nil
}

// RemoveCategory removes name from the categories of that kind.
func (s *Settings) RemoveCategory(kind CategoryKind, name string) (bool, error) {
	list, err := s.categories(kind)
	if err != nil {
		return false, err
	}
	return remove(list, name), nil
}

func (s *Settings) AddPayer(name string) bool            { return addUnique(&s.PaidByList, name) }
func (s *Settings) RemovePayer(name string) bool         { return remove(&s.PaidByList, name) }
func (s *Settings) AddPaymentMethod(name string) bool    { return addUnique(&s.PaymentMethods, name) }
func (s *Settings) RemovePaymentMethod(name string) bool { return remove(&s.PaymentMethods, name) }

// --- events ---

// AddEvent registers a new event under id.
func (s *Settings) AddEvent(id, name string) Event {
	ev := Event{ID: id, Name: name}
	s.Events = append(s.Events, ev)
	return ev
}

// RemoveEvent removes the event with that id. External spends keep their eventId.
func (s *Settings) RemoveEvent(id string) bool {
	n := len(s.Events)
	s.Events = slices.DeleteFunc(s.Events, func(e Event) bool { return e.ID == id })
	return len(s.Events) != n
}

// Event returns the event with that id.
func (s *Settings) Event(id string) (Event, bool) {
	i := slices.IndexFunc(s.Events, func(e Event) bool { return e.ID == id })
	if i < 0 {
		return Event{}, false
	}
	return s.Events[i], true
}

// --- auto-pay rules ---

// AddAutoPay validates rule, fills its defaults and stores it under id.
func (s *Settings) AddAutoPay(id string, rule AutoPayRule) (AutoPayRule, error) {
	rule.ID = id
	if rule.Account == "" {
		rule.Account = s.FirstAccount()
	}
	if rule.Day == "" {
		rule.Day = "1"
	}
	if rule.Type == "" {
		rule.Type = TypeExpense
	}
	if err := rule.Validate(); err != nil {
		return AutoPayRule{}, err
	}
	s.AutoPays = append(s.AutoPays, rule)
	return rule, nil
}

// RemoveAutoPay removes the rule with that id.
func (s *Settings) RemoveAutoPay(id string) bool {
	n := len(s.AutoPays)
	s.AutoPays = slices.DeleteFunc(s.AutoPays, func(r AutoPayRule) bool { return r.ID == id })
	return len(s.AutoPays) != n
}

// --- preferences ---

// ToggleTheme switches between the dark and light themes.
func (s *Settings) ToggleTheme() Theme {
	if s.Theme == ThemeDark {
		s.Theme = ThemeLight
	} else {
		s.Theme = ThemeDark
	}
	return s.Theme
}

func addUnique(list *[]string, name string) bool {
	if name == "" || slices.Contains(*list, name) {
		return false
	}
	*list = append(*list, name)
	return true
}

func remove(list *[]string, name string) bool {
	n := len(*list)
	*list = slices.DeleteFunc(*list, func(s string) bool { return s == name })
	return len(*list) != n
}
