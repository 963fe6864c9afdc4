// Package cli provides the interactive BudgetBuddy command-line client.
//
// It wires configuration, the local SQLite ledger, the remote mirror, the
// scheduled notifiers and an interactive REPL. Records are always written
// locally first; the mirror follows when it can.
//
// Key features:
//   - Register / Login / Logout against the mirror server
//   - Add, list, delete and clear expenses and incomes
//   - Sync the local ledger from the remote copy
//   - Summary, suggestion, trend warnings, category chart and the assistant
//   - Daily limit, currency, notification and location settings
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
