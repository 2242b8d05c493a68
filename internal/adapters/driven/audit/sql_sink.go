package audit

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/adapters/driven/audit/migrations"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/ports/driven"
)

// Supported dialects.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

var (
	_ driven.AuditSink = (*SQLSink)(nil)
	_ driven.AuditSink = (*NullSink)(nil)
)

// SQLSink writes audit events to the flow_responses table.
type SQLSink struct {
	db      *sql.DB
	dialect string
	insert  string
}

// Open connects to the configured database and applies pending migrations.
// A relative SQLite path is resolved with resolve.
func Open(settings domain.DBSettings, resolve func(string) string) (*SQLSink, error) {
	dsn := settings.DSN
	switch settings.Driver {
	case DialectPostgres:
	case DialectSQLite:
		if !strings.HasPrefix(dsn, "file:") && dsn != ":memory:" {
			if resolve != nil {
				dsn = resolve(dsn)
			}
			if err := os.MkdirAll(filepath.Dir(dsn), 0o700); err != nil {
				return nil, fmt.Errorf("creating database directory: %w", err)
			}
			dsn += "?_pragma=busy_timeout(5000)"
		}
	default:
		return nil, fmt.Errorf("%w: db driver %q", domain.ErrUnsupportedType, settings.Driver)
	}

	db, err := sql.Open(settings.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	sink, err := New(db, settings.Driver)
	if err != nil {
		db.Close()
		return nil, err
	}
	return sink, nil
}

// New wraps an open database and runs migrations for dialect.
func New(db *sql.DB, dialect string) (*SQLSink, error) {
	s := &SQLSink{
		db:      db,
		dialect: dialect,
		insert: fmt.Sprintf(`INSERT INTO flow_responses
			(run_id, flow_key, file_name, payload_json, status_code, response_text, created_at)
			VALUES (%s)`, placeholders(dialect, 7)),
	}
	if err := s.migrate(migrations.FS); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Record inserts one event.
func (s *SQLSink) Record(ctx context.Context, e domain.AuditEvent) error {
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := s.db.ExecContext(ctx, s.insert,
		e.RunID, e.FlowKey, e.FileName, e.Payload, e.StatusCode, e.Response, created.UTC())
	if err != nil {
		return fmt.Errorf("recording flow response: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLSink) Close() error {
	return s.db.Close()
}

// migrate runs all pending migrations of the sink's dialect.
func (s *SQLSink) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	if err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, s.dialect)
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}
	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	record := "INSERT INTO schema_migrations (version) VALUES (" + placeholders(s.dialect, 1) + ")"
	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= current {
			continue
		}
		content, err := fs.ReadFile(fsys, s.dialect+"/"+name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(record, version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}
	return nil
}

// placeholders returns n bind parameters in the dialect's style.
func placeholders(dialect string, n int) string {
	ps := make([]string, n)
	for i := range ps {
		if dialect == DialectPostgres {
			ps[i] = fmt.Sprintf("$%d", i+1)
		} else {
			ps[i] = "?"
		}
	}
	return strings.Join(ps, ", ")
}

// NullSink discards events when no database is configured.
type NullSink struct{}

// Record does nothing.
func (NullSink) Record(context.Context, domain.AuditEvent) error { return nil }

// Close does nothing.
func (NullSink) Close() error { return nil }
