// Package migrations embeds the SQL schema for the SQLite substrate.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
