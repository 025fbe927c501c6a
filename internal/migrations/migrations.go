// Package migrations embeds the PostgreSQL schema shared by the API and the
// worker service.
package migrations

import "embed"

// FS holds the versioned migration files
//
//go:embed *.sql
var FS embed.FS
