// Package sqlite implements the repository interfaces on top of SQLite.
//
// modernc.org/sqlite is a pure Go translation of SQLite, so the binary builds
// without a C toolchain. The driver registers itself with database/sql under
// the name "sqlite" through the blank import below.
//
// Schema:
//
//	users(id, username, created_at)
//	exercises(id, user_id → users.id, description, duration, performed_on)
//
// performed_on holds a calendar date as YYYY-MM-DD text, so date range
// filters are plain string comparisons and index-friendly.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/sakif/exercise-tracker/internal/repository"
)

// InMemory is the data source name for a throwaway database.
const InMemory = ":memory:"

var _ repository.Store = (*DB)(nil)

// DB wraps a sql.DB connection pool and provides repository methods.
type DB struct {
	conn *sql.DB
}

// connPragmas run on every connection the pool opens. database/sql opens
// connections lazily and on demand, so a PRAGMA executed once through
// conn.Exec only reaches whichever connection served that call. Passing them
// in the DSN makes the driver apply them to each new connection instead.
//
//   - busy_timeout: wait up to 5s for a competing writer instead of failing
//     with SQLITE_BUSY. It comes first so the remaining pragmas wait too.
//   - foreign_keys: SQLite leaves this off per connection unless asked.
//   - journal_mode=WAL: readers never block the single writer.
var connPragmas = []string{
	"busy_timeout(5000)",
	"foreign_keys(1)",
	"journal_mode(WAL)",
}

// dsn appends the connection pragmas to dbPath using the driver's
// "_pragma=name(value)" query syntax.
func dsn(dbPath string) string {
	var b strings.Builder
	b.WriteString(dbPath)

	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	for _, pragma := range connPragmas {
		b.WriteString(sep)
		b.WriteString("_pragma=")
		b.WriteString(pragma)
		sep = "&"
	}
	return b.String()
}

// New opens the database at dbPath, applies pragmas and creates the schema.
//
// dbPath examples:
//   - "data/exercise.db" → file-based database (persistent)
//   - ":memory:"         → in-memory database, lost on close
//
// CONNECTION POOL:
// sql.Open does not connect; it returns a pool that dials on first use. A
// file database is shared by every connection in the pool, so concurrent
// requests each get their own connection and SQLite's locking (with
// busy_timeout) serialises the writes. An in-memory database is private to
// the connection that created it, so that pool is pinned to one connection.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if dbPath == InMemory {
		conn.SetMaxOpenConns(1)
	}

	// Ping forces the first real connection, surfacing a bad path or a
	// failing pragma here instead of on the first request.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.createSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: creating schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping checks that the database is still reachable.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite: ping: %w", err)
	}
	return nil
}

// createSchema creates the tables if they are missing. It is safe to run on
// every start.
func (db *DB) createSchema() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id         TEXT PRIMARY KEY,
			username   TEXT NOT NULL CHECK (username <> ''),
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS exercises (
			id           TEXT PRIMARY KEY,
			user_id      TEXT NOT NULL REFERENCES users(id),
			description  TEXT NOT NULL CHECK (description <> ''),
			duration     INTEGER NOT NULL,
			performed_on TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_exercises_user_date ON exercises(user_id, performed_on);
	`)
	if err != nil {
		return fmt.Errorf("creating exercises table: %w", err)
	}

	return nil
}
