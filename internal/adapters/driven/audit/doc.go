// Package audit records every posted unit's response in a SQL table.
//
// PostgreSQL (lib/pq) and SQLite (modernc.org/sqlite) are supported. The
// schema is embedded per dialect and applied on open. Each event is one
// insert with no spanning transaction.
package audit
