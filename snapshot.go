package fintrack

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// SnapshotKey is the store key of the persisted state. The schema generation
// is part of the name: a new generation starts from a fresh key.
const SnapshotKey = "fintrack_pro_v22_master"

// Snapshot is the whole persisted state.
type Snapshot struct {
	Transactions []Transaction `json:"transactions"`
	Settings     Settings      `json:"settings"`
}

// DefaultSnapshot returns the state of a new user.
func DefaultSnapshot() Snapshot {
	return Snapshot{Transactions: []Transaction{}, Settings: DefaultSettings()}
}

// EncodeSnapshot serializes s as a single JSON blob.
func EncodeSnapshot(s Snapshot) ([]byte, error) {
	if s.Transactions == nil {
		s.Transactions = []Transaction{}
	}
	return json.Marshal(s)
}

// DecodeSnapshot restores a snapshot, falling back to defaults field by field.
//
// It always returns a usable snapshot. The error lists what had to be
// discarded (unparsable blob, transactions or settings fields) and is meant
// for logging only.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	s := DefaultSnapshot()

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return s, fmt.Errorf("unreadable snapshot, using defaults: %w", err)
	}

	var errs error
	if raw, ok := top["transactions"]; ok && !isNull(raw) {
		txs, err := decodeTransactions(raw)
		errs = errors.Join(errs, err)
		s.Transactions = txs
	}
	if raw, ok := top["settings"]; ok && !isNull(raw) {
		errs = errors.Join(errs, mergeSettings(&s.Settings, raw))
	}
	return s, errs
}

// decodeTransactions decodes each entry on its own and drops those that fail.
func decodeTransactions(raw json.RawMessage) ([]Transaction, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return []Transaction{}, fmt.Errorf("transactions: %w", err)
	}
	txs := make([]Transaction, 0, len(items))
	var errs error
	for i, item := range items {
		var tx Transaction
		if err := json.Unmarshal(item, &tx); err != nil {
			errs = errors.Join(errs, fmt.Errorf("transaction #%d dropped: %w", i, err))
			continue
		}
		txs = append(txs, tx)
	}
	return txs, errs
}

// mergeSettings decodes every known field of raw onto settings. A field that
// is absent, null or invalid keeps its current value. Nested objects
// (profile, accountLockSettings) are merged key by key.
func mergeSettings(settings *Settings, raw json.RawMessage) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return fmt.Errorf("settings: %w", err)
	}

	targets := map[string]any{
		"peopleList":     &settings.People,
		"accounts":       &settings.Accounts,
		"expenseCats":    &settings.ExpenseCats,
		"incomeCats":     &settings.IncomeCats,
		"reminderCats":   &settings.ReminderCats,
		"autoPays":       &settings.AutoPays,
		"theme":          &settings.Theme,
		"showExternal":   &settings.ShowExternal,
		"paidByList":     &settings.PaidByList,
		"paymentMethods": &settings.PaymentMethods,
		"events":         &settings.Events,
	}

	var errs error
	for key, target := range targets {
		value, ok := fields[key]
		if !ok || isNull(value) {
			continue
		}
		if err := decodeInto(value, target); err != nil {
			errs = errors.Join(errs, fmt.Errorf("settings field %q kept default: %w", key, err))
		}
	}

	// balancePin: null is meaningful (no PIN).
	if value, ok := fields["balancePin"]; ok {
		var pin *string
		if err := json.Unmarshal(value, &pin); err != nil {
			errs = errors.Join(errs, fmt.Errorf("settings field %q kept default: %w", "balancePin", err))
		} else {
			settings.BalancePIN = nil
			if pin != nil && *pin != "" {
				settings.BalancePIN = pin
			}
		}
	}

	// Decoding onto the existing struct and map merges them key by key.
	if value, ok := fields["profile"]; ok && !isNull(value) {
		profile := settings.Profile
		if err := json.Unmarshal(value, &profile); err != nil {
			errs = errors.Join(errs, fmt.Errorf("settings field %q kept default: %w", "profile", err))
		} else {
			settings.Profile = profile
		}
	}
	if value, ok := fields["accountLockSettings"]; ok && !isNull(value) {
		var locks map[string]bool
		if err := json.Unmarshal(value, &locks); err != nil {
			errs = errors.Join(errs, fmt.Errorf("settings field %q kept default: %w", "accountLockSettings", err))
		} else {
			if settings.AccountLockSettings == nil {
				settings.AccountLockSettings = map[string]bool{}
			}
			for k, v := range locks {
				settings.AccountLockSettings[k] = v
			}
		}
	}
	return errs
}

// decodeInto decodes value into a fresh copy of target's type and only
// assigns it on success, so that a failure leaves target untouched.
func decodeInto(value json.RawMessage, target any) error {
	switch t := target.(type) {
	case *[]string:
		return decodeReplace(value, t)
	case *[]AutoPayRule:
		return decodeReplace(value, t)
	case *[]Event:
		return decodeReplace(value, t)
	case *Theme:
		return decodeReplace(value, t)
	case *bool:
		return decodeReplace(value, t)
	default:
		return fmt.Errorf("unsupported settings target %T", target)
	}
}

func decodeReplace[T any](value json.RawMessage, target *T) error {
	var v T
	if err := json.Unmarshal(value, &v); err != nil {
		return err
	}
	*target = v
	return nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
