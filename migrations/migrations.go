// Package migrations embeds the catalog database schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
