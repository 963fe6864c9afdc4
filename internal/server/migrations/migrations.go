// Package migrations embeds the PostgreSQL schema of the mirror server.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
