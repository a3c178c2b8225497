// Package migrations embeds the registry schema.
package migrations

import "embed"

// FS holds the SQL scripts applied at startup.
//
//go:embed *.sql
var FS embed.FS
