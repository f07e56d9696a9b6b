// Package migrations embeds the goose SQL migration files so the server can
// apply its own schema on startup without external tooling.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
