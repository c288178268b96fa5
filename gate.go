package fintrack

import (
	"errors"
	"unicode/utf8"
)

var (
	ErrWrongPIN        = errors.New("incorrect PIN")
	ErrPINFormat       = errors.New("PIN must be exactly 4 characters")
	ErrPINConfirmation = errors.New("new PIN and confirmation do not match")
	ErrNothingPending  = errors.New("no action is waiting for a PIN")
	ErrNotConfirmed    = errors.New("action requires explicit confirmation")
)

// PINLength is the length of a non-empty PIN.
const PINLength = 4

// ActionKind identifies a sensitive action guarded by the PIN.
type ActionKind string

const (
	ActionRevealTotal   ActionKind = "balance"
	ActionRevealAccount ActionKind = "reveal"
	ActionDeletePerson  ActionKind = "delete-person"
)

// Action is a sensitive action and its argument (an account or person name).
type Action struct {
	Kind    ActionKind
	Payload string
}

// Gate defers sensitive actions until the PIN is confirmed.
//
// A Gate is either open, or holds exactly one pending action. The PIN is read
// through pin on every call so that PIN changes apply immediately; "" means
// no PIN is configured and every action runs at once.
type Gate struct {
	pin     func() string
	execute func(Action) error

	pending *Action
	entered string
	failed  bool
}

// NewGate returns an open gate.
func NewGate(pin func() string, execute func(Action) error) *Gate {
	return &Gate{pin: pin, execute: execute}
}

// Request runs a immediately when no PIN is configured. Otherwise a becomes
// the pending action, replacing any previous one, and nothing runs.
func (g *Gate) Request(a Action) (executed bool, err error) {
	if g.pin() == "" {
		return true, g.execute(a)
	}
	g.pending = &a
	g.entered = ""
	g.failed = false
	return false, nil
}

// Enter records the candidate PIN typed so far.
func (g *Gate) Enter(candidate string) { g.entered = candidate }

// Entered returns the candidate PIN typed so far.
func (g *Gate) Entered() string { return g.entered }

// Submit compares candidate with the PIN. On match the pending action runs
// and the gate opens. On mismatch the action stays pending, Failed reports
// true, and the entered candidate is cleared so the user can retry.
func (g *Gate) Submit(candidate string) error {
	if g.pending == nil {
		return ErrNothingPending
	}
	if candidate != g.pin() {
		g.failed = true
		g.entered = ""
		return ErrWrongPIN
	}
	a := *g.pending
	g.reset()
	return g.execute(a)
}

// Cancel discards the pending action without running it.
func (g *Gate) Cancel() { g.reset() }

func (g *Gate) reset() {
	g.pending = nil
	g.entered = ""
	g.failed = false
}

// Pending returns the action waiting for the PIN.
func (g *Gate) Pending() (Action, bool) {
	if g.pending == nil {
		return Action{}, false
	}
	return *g.pending, true
}

// Failed reports whether the last submitted PIN was wrong.
func (g *Gate) Failed() bool { return g.failed }

// ChangePIN applies the PIN change policy to settings: the current PIN must be
// supplied when one is set, newPIN and confirm must be identical, and newPIN
// must be PINLength characters or empty to disable the PIN. settings is left
// untouched on any refusal.
func ChangePIN(settings *Settings, current, newPIN, confirm string) error {
	if settings.HasPIN() && current != settings.PIN() {
		return ErrWrongPIN
	}
	if newPIN != confirm {
		return ErrPINConfirmation
	}
	if newPIN != "" && utf8.RuneCountInString(newPIN) != PINLength {
		return ErrPINFormat
	}
	settings.setPIN(newPIN)
	return nil
}

// ResetPIN clears the PIN without verification. It is the explicit escape
// hatch for a forgotten PIN and never touches the ledger.
func ResetPIN(settings *Settings) {
	settings.setPIN("")
}
