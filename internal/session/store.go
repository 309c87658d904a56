// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session persists document editing sessions in a local SQLite
// database so each CLI invocation can pick up where the last one left off.
// The database is bookkeeping only: every session row carries the ORIGINAL
// snapshot and current stores in full, so engine state is always
// reconstructable from a single row.
// Implements: prd008-session (R1-R4).
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citation-engine/internal/document"
	"github.com/pdiddy/citation-engine/pkg/types"
)

const dbFile = "sessions.db"

const defaultMaxSessions = 50

// ErrNotFound reports a session ID with no stored row.
var ErrNotFound = errors.New("session not found")

// Store manages the session SQLite database.
type Store struct {
	db          *sql.DB
	maxSessions int
}

// NewStore opens or creates the session database at sessionDir/sessions.db,
// creating the schema if it does not exist.
func NewStore(cfg types.SessionConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.SessionDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating session directory: %w", err)
	}

	dbPath := filepath.Join(cfg.SessionDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxSessions := cfg.MaxSessions
	if maxSessions <= 0 {
		maxSessions = defaultMaxSessions
	}

	s := &Store{db: db, maxSessions: maxSessions}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			document_id TEXT NOT NULL,
			name TEXT,
			detected_style TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			original TEXT NOT NULL,
			current TEXT NOT NULL,
			changes TEXT,
			quarantine TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_document_id ON sessions(document_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save upserts a session row, serializing the snapshot, current state,
// change set, and quarantine as YAML blobs in one transaction.
func (s *Store) Save(ctx context.Context, sess *document.Session) error {
	original, err := yaml.Marshal(sess.Original)
	if err != nil {
		return fmt.Errorf("marshaling original snapshot: %w", err)
	}
	current, err := yaml.Marshal(sess.Doc)
	if err != nil {
		return fmt.Errorf("marshaling current state: %w", err)
	}
	changes, err := yaml.Marshal(sess.Changes)
	if err != nil {
		return fmt.Errorf("marshaling change set: %w", err)
	}
	quarantine, err := yaml.Marshal(sess.Quarantine)
	if err != nil {
		return fmt.Errorf("marshaling quarantine: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (id, document_id, name, detected_style, created_at, updated_at, original, current, changes, quarantine)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			detected_style=excluded.detected_style, updated_at=excluded.updated_at,
			current=excluded.current, changes=excluded.changes`,
		sess.ID, sess.Doc.ID, sess.Doc.Name, string(sess.Doc.DetectedStyle),
		sess.CreatedAt.UTC().Format(time.RFC3339Nano),
		time.Now().UTC().Format(time.RFC3339Nano),
		string(original), string(current), string(changes), string(quarantine),
	)
	if err != nil {
		return fmt.Errorf("upserting session: %w", err)
	}

	return tx.Commit()
}

// Get loads a session by ID.
func (s *Store) Get(ctx context.Context, id string) (*document.Session, error) {
	var (
		createdAt                              string
		original, current, changes, quarantine string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT created_at, original, current, changes, quarantine FROM sessions WHERE id = ?`, id,
	).Scan(&createdAt, &original, &current, &changes, &quarantine)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}

	sess := &document.Session{ID: id}
	sess.Original = &types.Document{}
	if err := yaml.Unmarshal([]byte(original), sess.Original); err != nil {
		return nil, fmt.Errorf("parsing original snapshot: %w", err)
	}
	sess.Doc = &types.Document{}
	if err := yaml.Unmarshal([]byte(current), sess.Doc); err != nil {
		return nil, fmt.Errorf("parsing current state: %w", err)
	}
	if err := yaml.Unmarshal([]byte(changes), &sess.Changes); err != nil {
		return nil, fmt.Errorf("parsing change set: %w", err)
	}
	if err := yaml.Unmarshal([]byte(quarantine), &sess.Quarantine); err != nil {
		return nil, fmt.Errorf("parsing quarantine: %w", err)
	}
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		sess.CreatedAt = t
	}
	return sess, nil
}

// Info summarizes a stored session for listing.
type Info struct {
	ID            string    `json:"id" yaml:"id"`
	DocumentID    string    `json:"document_id" yaml:"document_id"`
	Name          string    `json:"name" yaml:"name"`
	DetectedStyle string    `json:"detected_style" yaml:"detected_style"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" yaml:"updated_at"`
}

// List returns stored sessions, most recently updated first.
func (s *Store) List(ctx context.Context) ([]Info, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, document_id, name, detected_style, created_at, updated_at
		 FROM sessions ORDER BY updated_at DESC LIMIT ?`, s.maxSessions)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var infos []Info
	for rows.Next() {
		var info Info
		var createdAt, updatedAt string
		if err := rows.Scan(&info.ID, &info.DocumentID, &info.Name, &info.DetectedStyle, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning session row: %w", err)
		}
		info.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		info.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Delete removes a session row.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
