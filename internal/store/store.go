// Package store persists serialized plan documents in sqlite.
package store

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cityforge/urbanplan/pkg/plan"
)

// Store keeps one snapshot per plan id. Snapshots are the plan's wire
// document, stored as-is.
type Store struct {
	db *sql.DB
}

// Snapshot describes one stored plan document.
type Snapshot struct {
	PlanID  string
	Name    string
	SavedAt time.Time
}

// Open opens (creating if necessary) the snapshot database at path.
// Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging snapshot database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrating snapshot database: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS plans (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			document BLOB NOT NULL,
			saved_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_plans_saved_at ON plans(saved_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores the serialized plan, replacing any previous snapshot with
// the same id.
func (s *Store) Save(ctx context.Context, p *plan.Plan) error {
	var buf bytes.Buffer
	if err := p.EncodeTo(&buf); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO plans (id, name, document, saved_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			document = excluded.document,
			saved_at = excluded.saved_at
	`, p.ID, p.Name, buf.Bytes(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving snapshot of plan %s: %w", p.ID, err)
	}
	return nil
}

// Document returns the stored serialized document for a plan id.
// ok is false when no snapshot exists.
func (s *Store) Document(ctx context.Context, id string) ([]byte, bool, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM plans WHERE id = ?`, id).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading snapshot of plan %s: %w", id, err)
	}
	return doc, true, nil
}

// List returns the stored snapshots, most recent first.
func (s *Store) List(ctx context.Context) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, saved_at FROM plans ORDER BY saved_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var snap Snapshot
		if err := rows.Scan(&snap.PlanID, &snap.Name, &snap.SavedAt); err != nil {
			return nil, fmt.Errorf("scanning snapshot row: %w", err)
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// Delete removes a snapshot. ok is false when no snapshot existed.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting snapshot of plan %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
