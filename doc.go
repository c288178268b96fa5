// Package fintrack is a local-first personal finance ledger.
//
// The ledger is an append-only list of transactions, newest first. Everything
// else is derived from it on demand:
//   - account balances and the total balance,
//   - the net credit of every person (what they owe you, or you owe them),
//   - reminders, filters and per-person history.
//
// Transactions refer to accounts, people, categories and events by name only.
// The Settings registry lists those names for input and display, but removing
// an entry never rewrites the ledger.
//
// A Session holds the ledger and the settings, persists both as a single
// snapshot in a Store, and guards sensitive actions (revealing balances,
// deleting people) behind an optional 4 character PIN through a Gate.
//
// Amounts are Money values in Indian Rupees, backed by decimals.
package fintrack
