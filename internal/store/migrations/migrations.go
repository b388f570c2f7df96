// Package migrations embeds the SQL schema migrations for the prefs database.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
