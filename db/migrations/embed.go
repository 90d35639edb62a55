// Package migrations embeds the goose SQL migrations into the binary.
package migrations

import "embed"

// FS holds every migration at the root of the filesystem.
//
//go:embed *.sql
var FS embed.FS
