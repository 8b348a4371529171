// Package migrations embeds the PostgreSQL schema of the remote board store.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
