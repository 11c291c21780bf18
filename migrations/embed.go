// Package migrations embeds the SQL schema migrations served to the
// migrator over io/fs.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
