// Package migrations embeds the goose SQL files that bootstrap a user store.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
