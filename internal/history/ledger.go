package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"net/url"
	"sync"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// connParams are applied by go-sqlite3 to every connection it opens.
var connParams = url.Values{
	"_journal_mode": {"WAL"},
	"_synchronous":  {"NORMAL"},
	"_busy_timeout": {"5000"},
	"_foreign_keys": {"on"},
}

// migrations[i] upgrades a ledger from user_version i to i+1.
var migrations = []func(*sql.Tx) error{
	// v1: per-test lookups used by ByTest.
	func(tx *sql.Tx) error {
		_, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_outcomes_test ON outcomes(source_file, name, seq)`)
		return err
	},
}

var currentSchemaVersion = len(migrations)

// Ledger is an append-only record of assertion outcomes backed by SQLite
// in WAL mode, so several test binaries may share one file.
type Ledger struct {
	db    *sql.DB
	runID string

	register    sync.Once
	registerErr error
}

// Open creates or opens the ledger at path and brings its schema up to
// date. The run owning this Ledger is inserted lazily by the first Record,
// so read-only use leaves no trace.
func Open(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite3", path+"?"+connParams.Encode())
	if err != nil {
		return nil, fmt.Errorf("open ledger %s: %w", path, err)
	}
	// One connection serializes writers and keeps the pragmas in force.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open ledger %s: %w", path, err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate ledger %s: %w", path, err)
	}

	return &Ledger{db: db, runID: uuid.Must(uuid.NewV7()).String()}, nil
}

func migrate(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}

	var version int
	if err := db.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	for v := version; v < len(migrations); v++ {
		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if err := migrations[v](tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("to v%d: %w", v+1, err)
		}
		// PRAGMA does not accept bound parameters.
		if _, err := tx.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, v+1)); err != nil {
			tx.Rollback()
			return fmt.Errorf("to v%d: %w", v+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("to v%d: %w", v+1, err)
		}
	}
	return nil
}

func (l *Ledger) registerRun(ctx context.Context) error {
	l.register.Do(func() {
		if _, err := l.db.ExecContext(ctx, `INSERT INTO runs (id) VALUES (?)`, l.runID); err != nil {
			l.registerErr = fmt.Errorf("register run: %w", err)
		}
	})
	return l.registerErr
}

// RunID identifies the entries recorded through this Ledger.
func (l *Ledger) RunID() string {
	return l.runID
}

// Runs returns the number of runs that recorded at least one entry.
func (l *Ledger) Runs(ctx context.Context) (int, error) {
	var n int
	if err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return n, nil
}

// Close releases the database handle.
func (l *Ledger) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}

// verifyPragma is a test hook comparing a pragma's current value.
func (l *Ledger) verifyPragma(name, want string) error {
	var got string
	if err := l.db.QueryRow("PRAGMA " + name).Scan(&got); err != nil {
		return fmt.Errorf("query %s: %w", name, err)
	}
	if got != want {
		return fmt.Errorf("%s = %q, want %q", name, got, want)
	}
	return nil
}
