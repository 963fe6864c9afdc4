// Package migrations embeds the SQLite schema of the local ledger.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
