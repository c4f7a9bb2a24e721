// Package migrations embeds the SQL migrations of the sample host.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
