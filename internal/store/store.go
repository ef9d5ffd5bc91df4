// Package store persists session records to a single-file SQLite
// database. Every hook invocation is a fresh process, so durability
// between invocations comes entirely from this store; concurrent
// invocations rely on SQLite's own locking for isolation.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/tursodatabase/go-libsql"
)

// ErrNotFound indicates no record exists for the requested session id.
// A lookup miss is expected for sessions that never submitted a prompt.
var ErrNotFound = errors.New("session not found")

// timeFormat is how timestamps are stored in the database. RFC3339
// keeps rows readable for the manual troubleshooting flow.
const timeFormat = time.RFC3339

// Record is one session's tracked state. A session has at most one
// row, keyed by session id; a new prompt overwrites the previous one.
type Record struct {
	SessionID  string
	Prompt     string
	Cwd        string
	CreatedAt  time.Time
	StoppedAt  *time.Time
	LastWaitAt *time.Time
}

// Store wraps the SQLite session database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the session database at path and
// ensures the schema exists. The connection is scoped to a single
// hook invocation; callers must Close before exit.
func Open(path string) (*Store, error) {
	db, err := sql.Open("libsql", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("opening session database: %w", err)
	}

	// One writer at a time. Hook invocations are short-lived and the
	// database is local, so a single connection avoids lock churn.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			session_id   TEXT PRIMARY KEY,
			prompt       TEXT,
			cwd          TEXT,
			created_at   TEXT NOT NULL,
			stopped_at   TEXT,
			last_wait_at TEXT
		)
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Upsert records a prompt submission. An existing row for the session
// is overwritten: created_at restarts the interval and stopped_at /
// last_wait_at are cleared so the session reads as open again.
func (s *Store) Upsert(ctx context.Context, sessionID, prompt, cwd string, now time.Time) error {
	_, err := withRetry(ctx, defaultBusyRetries, func() (sql.Result, error) {
		return s.db.ExecContext(ctx, `
			INSERT INTO sessions (session_id, prompt, cwd, created_at, stopped_at, last_wait_at)
			VALUES (?, ?, ?, ?, NULL, NULL)
			ON CONFLICT(session_id) DO UPDATE SET
				prompt       = excluded.prompt,
				cwd          = excluded.cwd,
				created_at   = excluded.created_at,
				stopped_at   = NULL,
				last_wait_at = NULL
		`, sessionID, prompt, cwd, now.UTC().Format(timeFormat))
	})
	if err != nil {
		return fmt.Errorf("upserting session %s: %w", sessionID, err)
	}
	return nil
}

// Get returns the record for sessionID, or ErrNotFound.
func (s *Store) Get(ctx context.Context, sessionID string) (*Record, error) {
	return withRetry(ctx, defaultBusyRetries, func() (*Record, error) {
		row := s.db.QueryRowContext(ctx, `
			SELECT session_id, prompt, cwd, created_at, stopped_at, last_wait_at
			FROM sessions
			WHERE session_id = ?
		`, sessionID)

		var rec Record
		var prompt, cwd, stoppedAt, lastWaitAt sql.NullString
		var createdAt string
		err := row.Scan(&rec.SessionID, &prompt, &cwd, &createdAt, &stoppedAt, &lastWaitAt)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("reading session %s: %w", sessionID, err)
		}

		rec.Prompt = prompt.String
		rec.Cwd = cwd.String
		rec.CreatedAt, err = time.Parse(timeFormat, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at for session %s: %w", sessionID, err)
		}
		rec.StoppedAt = parseNullTime(stoppedAt)
		rec.LastWaitAt = parseNullTime(lastWaitAt)
		return &rec, nil
	})
}

// MarkStopped stamps the completion time on the session's row. The row
// is kept so the troubleshooting flow can still query it.
func (s *Store) MarkStopped(ctx context.Context, sessionID string, now time.Time) error {
	_, err := withRetry(ctx, defaultBusyRetries, func() (sql.Result, error) {
		return s.db.ExecContext(ctx, `
			UPDATE sessions SET stopped_at = ? WHERE session_id = ?
		`, now.UTC().Format(timeFormat), sessionID)
	})
	if err != nil {
		return fmt.Errorf("marking session %s stopped: %w", sessionID, err)
	}
	return nil
}

// TouchLastWait stamps when the assistant last asked for user input.
func (s *Store) TouchLastWait(ctx context.Context, sessionID string, now time.Time) error {
	_, err := withRetry(ctx, defaultBusyRetries, func() (sql.Result, error) {
		return s.db.ExecContext(ctx, `
			UPDATE sessions SET last_wait_at = ? WHERE session_id = ?
		`, now.UTC().Format(timeFormat), sessionID)
	})
	if err != nil {
		return fmt.Errorf("touching last_wait_at for session %s: %w", sessionID, err)
	}
	return nil
}

// PurgeOlderThan deletes session rows created before cutoff and
// returns how many were removed. Used by the optional retention
// policy; best-effort for callers.
func (s *Store) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := withRetry(ctx, defaultBusyRetries, func() (sql.Result, error) {
		return s.db.ExecContext(ctx, `
			DELETE FROM sessions WHERE created_at < ?
		`, cutoff.UTC().Format(timeFormat))
	})
	if err != nil {
		return 0, fmt.Errorf("purging old sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting purged sessions: %w", err)
	}
	return n, nil
}

func parseNullTime(v sql.NullString) *time.Time {
	if !v.Valid {
		return nil
	}
	t, err := time.Parse(timeFormat, v.String)
	if err != nil {
		return nil
	}
	return &t
}
