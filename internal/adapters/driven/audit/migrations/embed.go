// Package migrations embeds the audit schema for each supported dialect.
package migrations

import "embed"

// FS contains postgres/*.up.sql and sqlite/*.up.sql, embedded at compile time.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
