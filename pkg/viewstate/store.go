// Package viewstate remembers, per JSON file, which containers were
// collapsed and where the cursor was, so reopening a file restores the view.
// State is keyed by absolute path and stored in a SQLite database.
package viewstate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS view_state (
	file       TEXT PRIMARY KEY,
	collapsed  TEXT NOT NULL,
	cursor     TEXT NOT NULL DEFAULT '',
	updated_at INTEGER NOT NULL
)`

// State is the remembered view of one file. Collapsed and Cursor hold JSON
// pointers, which survive reformatting where line ids do not.
type State struct {
	File      string
	Collapsed []string
	Cursor    string
	UpdatedAt time.Time
}

// Store is a handle on the state database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	// One writer; the TUI and a concurrent CLI run share the file.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Key normalizes a file path into the key state is stored under.
func Key(file string) string {
	if abs, err := filepath.Abs(file); err == nil {
		return abs
	}
	return filepath.Clean(file)
}

// Save stores st, replacing any previous state for the same file. A zero
// UpdatedAt is set to now.
func (s *Store) Save(ctx context.Context, st State) error {
	if st.UpdatedAt.IsZero() {
		st.UpdatedAt = time.Now()
	}
	collapsed := st.Collapsed
	if collapsed == nil {
		collapsed = []string{}
	}
	data, err := json.Marshal(collapsed)
	if err != nil {
		return fmt.Errorf("encoding collapsed paths: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO view_state (file, collapsed, cursor, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(file) DO UPDATE SET
			collapsed = excluded.collapsed,
			cursor = excluded.cursor,
			updated_at = excluded.updated_at`,
		Key(st.File), string(data), st.Cursor, st.UpdatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("saving view state for %s: %w", st.File, err)
	}
	return nil
}

// Load returns the stored state for file. The boolean is false when nothing
// was stored.
func (s *Store) Load(ctx context.Context, file string) (State, bool, error) {
	var (
		collapsed string
		updated   int64
	)
	st := State{File: Key(file)}
	err := s.db.QueryRowContext(ctx,
		`SELECT collapsed, cursor, updated_at FROM view_state WHERE file = ?`, st.File).
		Scan(&collapsed, &st.Cursor, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return State{}, false, nil
	}
	if err != nil {
		return State{}, false, fmt.Errorf("loading view state for %s: %w", file, err)
	}
	if err := json.Unmarshal([]byte(collapsed), &st.Collapsed); err != nil {
		return State{}, false, fmt.Errorf("decoding collapsed paths for %s: %w", file, err)
	}
	st.UpdatedAt = time.Unix(0, updated)
	return st, true, nil
}

// Delete forgets the state of file.
func (s *Store) Delete(ctx context.Context, file string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM view_state WHERE file = ?`, Key(file)); err != nil {
		return fmt.Errorf("deleting view state for %s: %w", file, err)
	}
	return nil
}

// Prune removes state last saved before cutoff and returns how many files
// were forgotten.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM view_state WHERE updated_at < ?`, cutoff.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("pruning view state: %w", err)
	}
	return res.RowsAffected()
}

// Count returns the number of files with stored state.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM view_state`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting view state: %w", err)
	}
	return n, nil
}
