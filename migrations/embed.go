// Package migrations embeds the storefront database schema.
package migrations

import "embed"

// FS holds the .up.sql and .down.sql migration files.
//
//go:embed *.sql
var FS embed.FS
