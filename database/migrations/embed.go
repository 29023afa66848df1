// Package migrations embeds the versioned Postgres schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
