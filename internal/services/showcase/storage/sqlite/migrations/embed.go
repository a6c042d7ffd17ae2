// Package migrations embeds the archive schema applied on store open.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
