// Package migrations carries the schema migrations compiled into the
// binary, so a fresh database file is usable without any external files.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
