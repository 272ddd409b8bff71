// Package migrations embeds the goose SQL migrations for the server database.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
