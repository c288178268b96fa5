package fintrack

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/etnz/fintrack/store"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Store is the key-value blob store the session persists to.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Session holds the whole state of one user: the ledger, the settings
// registry, and the PIN gate with what it has revealed so far.
//
// Every operation runs to completion before returning, and every mutation is
// persisted as a whole snapshot. A Session is not safe for concurrent use.
type Session struct {
	store Store
	log   zerolog.Logger
	now   func() time.Time
	newID func() string

	ledger   *Ledger
	settings Settings
	gate     *Gate

	showTotal bool
	revealed  map[string]bool
	dirty     bool // set by gated actions that changed persisted state

	version uint64
	cache   derived
}

// derived caches the balances computed for a given version.
type derived struct {
	version  uint64
	valid    bool
	accounts Balances
	credits  Balances
}

// Option configures a Session.
type Option func(*Session)

// WithClock sets the clock used for timestamps and default dates.
func WithClock(now func() time.Time) Option { return func(s *Session) { s.now = now } }

// WithIDs sets the identifier generator.
func WithIDs(newID func() string) Option { return func(s *Session) { s.newID = newID } }

// WithLogger sets the session logger.
func WithLogger(l zerolog.Logger) Option { return func(s *Session) { s.log = l } }

// NewSession returns a session on snap that persists to st (st may be nil
// for a purely in-memory session).
func NewSession(st Store, snap Snapshot, opts ...Option) *Session {
	s := &Session{
		store:    st,
		log:      log.Logger.With().Str("component", "session").Logger(),
		now:      time.Now,
		newID:    uuid.NewString,
		ledger:   NewLedger(snap.Transactions...),
		settings: snap.Settings.Clone(),
		revealed: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.gate = NewGate(s.settings.PIN, s.execute)
	return s
}

// Open loads the session from st. A missing or corrupt snapshot is replaced
// by defaults (field by field for a partial one); only a failing store is an
// error.
func Open(ctx context.Context, st Store, opts ...Option) (*Session, error) {
	data, err := st.Get(ctx, SnapshotKey)
	switch {
	case errors.Is(err, store.ErrNotFound):
		s := NewSession(st, DefaultSnapshot(), opts...)
		s.log.Info().Str("key", SnapshotKey).Msg("no snapshot found, starting from defaults")
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("could not load snapshot %q: %w", SnapshotKey, err)
	}

	snap, decodeErr := DecodeSnapshot(data)
	s := NewSession(st, snap, opts...)
	if decodeErr != nil {
		s.log.Warn().Err(decodeErr).Str("key", SnapshotKey).Msg("snapshot partially restored")
	}
	s.log.Debug().Int("transactions", s.ledger.Len()).Msg("session loaded")
	return s, nil
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{Transactions: s.ledger.All(), Settings: s.settings.Clone()}
}

// Save writes the whole snapshot to the store.
func (s *Session) Save(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	data, err := EncodeSnapshot(s.Snapshot())
	if err != nil {
		return fmt.Errorf("could not encode snapshot: %w", err)
	}
	if err := s.store.Put(ctx, SnapshotKey, data); err != nil {
		return fmt.Errorf("could not save snapshot %q: %w", SnapshotKey, err)
	}
	s.log.Debug().Int("bytes", len(data)).Msg("snapshot saved")
	return nil
}

// Restore replaces the whole state by snap and persists it. Revealed
// balances are hidden again and any pending PIN request is cancelled.
func (s *Session) Restore(ctx context.Context, snap Snapshot) error {
	s.ledger = NewLedger(snap.Transactions...)
	s.settings = snap.Settings.Clone()
	s.gate.Cancel()
	s.showTotal = false
	clear(s.revealed)
	s.log.Info().Int("transactions", s.ledger.Len()).Msg("snapshot restored")
	return s.commit(ctx)
}

// commit invalidates derived values and persists the new state.
func (s *Session) commit(ctx context.Context) error {
	s.version++
	return s.Save(ctx)
}

// NewID returns a fresh identifier.
func (s *Session) NewID() string { return s.newID() }

// Now returns the session clock's current instant.
func (s *Session) Now() time.Time { return s.now() }

// --- transactions ---

// Record builds the draft and prepends it to the ledger. A zero amount for a
// type that moves money is refused with ErrZeroAmount and nothing changes.
func (s *Session) Record(ctx context.Context, d Draft) (Transaction, error) {
	tx, err := d.Build(s.newID(), s.now(), s.settings.FirstAccount())
	if err != nil {
		return Transaction{}, err
	}
	s.ledger.Prepend(tx)
	s.log.Debug().Str("id", tx.ID).Str("type", string(tx.Type)).Msg("transaction recorded")
	return tx, s.commit(ctx)
}

// Delete removes the transaction with that id. Deleting an unknown id is a no-op.
func (s *Session) Delete(ctx context.Context, id string) (bool, error) {
	if !s.ledger.Delete(id) {
		return false, nil
	}
	return true, s.commit(ctx)
}

// Transaction returns the transaction with that id.
func (s *Session) Transaction(id string) (Transaction, bool) { return s.ledger.Get(id) }

// Transactions returns all transactions, most recent first.
func (s *Session) Transactions() []Transaction { return s.ledger.All() }

// CalibrateAccount records the adjustment that brings account to target.
// It reports false, and records nothing, when the balance already matches.
func (s *Session) CalibrateAccount(ctx context.Context, account string, target Money) (Transaction, bool, error) {
	delta := target.Sub(s.derive().accounts.Get(account))
	if delta.IsZero() {
		return Transaction{}, false, nil
	}
	tx := accountAdjustment(s.newID(), s.now(), account, delta)
	s.ledger.Prepend(tx)
	return tx, true, s.commit(ctx)
}

// CalibrateLedger records the adjustment that brings person's net credit to target.
func (s *Session) CalibrateLedger(ctx context.Context, person string, target Money) (Transaction, bool, error) {
	delta := target.Sub(s.derive().credits.Get(person))
	if delta.IsZero() {
		return Transaction{}, false, nil
	}
	tx := ledgerAdjustment(s.newID(), s.now(), s.settings.FirstAccount(), person, delta)
	s.ledger.Prepend(tx)
	return tx, true, s.commit(ctx)
}

// --- derived values ---

func (s *Session) derive() derived {
	if s.cache.valid && s.cache.version == s.version {
		return s.cache
	}
	txs := s.ledger.transactions
	s.cache = derived{
		version:  s.version,
		valid:    true,
		accounts: DeriveAccountBalances(txs, s.settings.Accounts),
		credits:  DerivePersonCredits(txs, s.settings.People),
	}
	return s.cache
}

// AccountBalances returns the balance of every registered account.
func (s *Session) AccountBalances() Balances { return maps.Clone(s.derive().accounts) }

// PersonCredits returns the net credit of every registered person.
func (s *Session) PersonCredits() Balances { return maps.Clone(s.derive().credits) }

// TotalBalance returns the sum of all account balances.
func (s *Session) TotalBalance() Money { return s.derive().accounts.Total() }

// TotalNetCredit returns the sum of all person credits.
func (s *Session) TotalNetCredit() Money { return s.derive().credits.Total() }

// DueReminders returns every reminder, most recently created first.
func (s *Session) DueReminders() []Transaction { return DueReminders(s.ledger.transactions) }

// Filter returns the transactions matching both filters (either may be All).
func (s *Session) Filter(typeFilter, accountFilter string) []Transaction {
	return FilterTransactions(s.ledger.transactions, typeFilter, accountFilter)
}

// PersonHistory returns person's transactions, most recent first.
func (s *Session) PersonHistory(person string) []Transaction {
	return PersonHistory(s.ledger.transactions, person)
}

// --- settings ---

// Settings returns a copy of the registry.
func (s *Session) Settings() Settings { return s.settings.Clone() }

// UpdateSettings applies update to a copy of the registry and keeps it only
// if update succeeds.
func (s *Session) UpdateSettings(ctx context.Context, update func(*Settings) error) error {
	next := s.settings.Clone()
	if err := update(&next); err != nil {
		return err
	}
	s.settings = next
	return s.commit(ctx)
}

// AddEvent registers a new event with a fresh id.
func (s *Session) AddEvent(ctx context.Context, name string) (Event, error) {
	var ev Event
	err := s.UpdateSettings(ctx, func(st *Settings) error {
		ev = st.AddEvent(s.newID(), name)
		return nil
	})
	return ev, err
}

// AddAutoPay validates and stores a new auto-pay rule with a fresh id.
func (s *Session) AddAutoPay(ctx context.Context, rule AutoPayRule) (AutoPayRule, error) {
	var added AutoPayRule
	err := s.UpdateSettings(ctx, func(st *Settings) (err error) {
		added, err = st.AddAutoPay(s.newID(), rule)
		return err
	})
	return added, err
}

// ChangePIN changes the PIN according to the PIN change policy.
func (s *Session) ChangePIN(ctx context.Context, current, newPIN, confirm string) error {
	return s.UpdateSettings(ctx, func(st *Settings) error {
		return ChangePIN(st, current, newPIN, confirm)
	})
}

// EmergencyResetPIN clears the PIN without verification.
func (s *Session) EmergencyResetPIN(ctx context.Context) error {
	s.log.Warn().Msg("PIN cleared by emergency reset")
	return s.UpdateSettings(ctx, func(st *Settings) error {
		ResetPIN(st)
		return nil
	})
}

// --- gated visibility ---

// execute performs a gated action once it is allowed.
func (s *Session) execute(a Action) error {
	switch a.Kind {
	case ActionRevealTotal:
		s.showTotal = true
	case ActionRevealAccount:
		s.revealed[a.Payload] = true
	case ActionDeletePerson:
		if s.settings.RemovePerson(a.Payload) {
			s.dirty = true
		}
	default:
		return fmt.Errorf("unknown gated action %q", a.Kind)
	}
	return nil
}

// flush persists what a gated action changed.
func (s *Session) flush(ctx context.Context) error {
	if !s.dirty {
		return nil
	}
	s.dirty = false
	return s.commit(ctx)
}

// RevealTotal asks to show the total balance. It reports whether the total
// is now visible; when false, the request waits for SubmitPIN.
func (s *Session) RevealTotal() (bool, error) {
	return s.gate.Request(Action{Kind: ActionRevealTotal})
}

// HideTotal masks the total balance again.
func (s *Session) HideTotal() { s.showTotal = false }

// RevealAccount asks to show account's balance. Only accounts flagged as
// locked go through the gate; others are revealed at once.
func (s *Session) RevealAccount(account string) (bool, error) {
	if !s.settings.AccountLocked(account) {
		s.revealed[account] = true
		return true, nil
	}
	return s.gate.Request(Action{Kind: ActionRevealAccount, Payload: account})
}

// HideAccount masks account's balance again.
func (s *Session) HideAccount(account string) { delete(s.revealed, account) }

// RequestDeletePerson removes person from the registry once confirmed is true
// and the gate allows it. Their transactions are kept.
func (s *Session) RequestDeletePerson(ctx context.Context, person string, confirmed bool) (bool, error) {
	if !confirmed {
		return false, ErrNotConfirmed
	}
	done, err := s.gate.Request(Action{Kind: ActionDeletePerson, Payload: person})
	if err != nil {
		return done, err
	}
	return done, s.flush(ctx)
}

// SubmitPIN confirms the pending action with candidate.
func (s *Session) SubmitPIN(ctx context.Context, candidate string) error {
	if err := s.gate.Submit(candidate); err != nil {
		return err
	}
	return s.flush(ctx)
}

// CancelPIN discards the pending action.
func (s *Session) CancelPIN() { s.gate.Cancel() }

// PendingAction returns the action waiting for the PIN.
func (s *Session) PendingAction() (Action, bool) { return s.gate.Pending() }

// PINFailed reports whether the last submitted PIN was wrong.
func (s *Session) PINFailed() bool { return s.gate.Failed() }

// VisibleTotal returns the total balance if it has been revealed.
func (s *Session) VisibleTotal() (Money, bool) {
	if !s.showTotal {
		return Money{}, false
	}
	return s.TotalBalance(), true
}

// VisibleAccount returns account's balance if it has been revealed.
func (s *Session) VisibleAccount(account string) (Money, bool) {
	if !s.revealed[account] {
		return Money{}, false
	}
	return s.derive().accounts.Get(account), true
}
