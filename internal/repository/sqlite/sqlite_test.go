package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
)

// newTestDB opens a fresh in-memory database that is closed when the test ends.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(InMemory)
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// newFileTestDB opens a database file in a temp dir. Unlike ":memory:" its
// pool is not pinned to one connection, so it exercises real concurrency.
func newFileTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "exercise.db"))
	if err != nil {
		t.Fatalf("failed to create file test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDSN(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{
			path: "data/exercise.db",
			want: "data/exercise.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)",
		},
		{
			path: "file:exercise.db?cache=shared",
			want: "file:exercise.db?cache=shared&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)",
		},
	}

	for _, tt := range tests {
		if got := dsn(tt.path); got != tt.want {
			t.Errorf("dsn(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

// Every pooled connection must carry the pragmas, not just the first one.
func TestNew_PragmasOnEveryConnection(t *testing.T) {
	db := newFileTestDB(t)
	ctx := context.Background()

	// Holding the connections open forces the pool to dial new ones.
	const n = 4
	conns := make([]*sql.Conn, 0, n)
	defer func() {
		for _, c := range conns {
			c.Close()
		}
	}()

	for i := 0; i < n; i++ {
		c, err := db.conn.Conn(ctx)
		if err != nil {
			t.Fatalf("Conn() error = %v", err)
		}
		conns = append(conns, c)
	}

	for i, c := range conns {
		var foreignKeys, busyTimeout int
		var journalMode string

		if err := c.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&foreignKeys); err != nil {
			t.Fatalf("conn %d: reading foreign_keys: %v", i, err)
		}
		if err := c.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&busyTimeout); err != nil {
			t.Fatalf("conn %d: reading busy_timeout: %v", i, err)
		}
		if err := c.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&journalMode); err != nil {
			t.Fatalf("conn %d: reading journal_mode: %v", i, err)
		}

		if foreignKeys != 1 {
			t.Errorf("conn %d: foreign_keys = %d, want 1", i, foreignKeys)
		}
		if busyTimeout != 5000 {
			t.Errorf("conn %d: busy_timeout = %d, want 5000", i, busyTimeout)
		}
		if journalMode != "wal" {
			t.Errorf("conn %d: journal_mode = %q, want %q", i, journalMode, "wal")
		}
	}
}

func TestNew_FileDatabaseSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exercise.db")

	db, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	u := createTestUser(t, db, "persisted")
	if err := db.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Reopening runs the schema statements again; they must be idempotent.
	db, err = New(path)
	if err != nil {
		t.Fatalf("New() on existing file error = %v", err)
	}
	defer db.Close()

	found, err := db.GetUserByID(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("GetUserByID() after reopen error = %v", err)
	}
	if found.Username != "persisted" {
		t.Errorf("Username = %q, want %q", found.Username, "persisted")
	}
}

func TestPing(t *testing.T) {
	db := newTestDB(t)
	if err := db.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
}
