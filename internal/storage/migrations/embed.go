// Package migrations embeds the sqlite schema migrations for the local
// session database.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
