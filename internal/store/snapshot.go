package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/voxelview/voxelview/internal/coordspace"
)

// Snapshot is one saved navigation state.
type Snapshot struct {
	ID        string
	Name      string
	Revision  int64
	State     json.RawMessage
	Space     json.RawMessage
	CreatedAt string
}

// ErrNotFound reports that no snapshot matched.
var ErrNotFound = errors.New("store: snapshot not found")

// Save writes a new snapshot revision under name. The revision is one past
// the highest existing revision for that name; snapshots are never
// overwritten in place.
func (s *Store) Save(ctx context.Context, name string, state any, space *coordspace.Space) (*Snapshot, error) {
	if name == "" {
		return nil, fmt.Errorf("store: snapshot name is required")
	}
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("store: marshal state: %w", err)
	}
	spaceJSON, err := json.Marshal(space)
	if err != nil {
		return nil, fmt.Errorf("store: marshal space: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	var revision int64
	err = tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(revision), 0) + 1 FROM snapshots WHERE name = ?", name,
	).Scan(&revision)
	if err != nil {
		return nil, fmt.Errorf("store: next revision for %q: %w", name, err)
	}

	snap := &Snapshot{
		ID:       uuid.NewString(),
		Name:     name,
		Revision: revision,
		State:    stateJSON,
		Space:    spaceJSON,
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO snapshots (id, name, revision, state_json, space_json) VALUES (?, ?, ?, ?, ?)",
		snap.ID, snap.Name, snap.Revision, string(snap.State), string(snap.Space),
	)
	if err != nil {
		return nil, fmt.Errorf("store: insert snapshot %q: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: commit: %w", err)
	}

	slog.Info("snapshot saved", "id", snap.ID, "name", name, "revision", revision)
	return snap, nil
}

// Load returns the latest revision of the named snapshot.
func (s *Store) Load(ctx context.Context, name string) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, revision, state_json, space_json, created_at
		FROM snapshots WHERE name = ?
		ORDER BY revision DESC LIMIT 1`, name)
	return scanSnapshot(row)
}

// LoadRevision returns a specific revision of the named snapshot.
func (s *Store) LoadRevision(ctx context.Context, name string, revision int64) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, revision, state_json, space_json, created_at
		FROM snapshots WHERE name = ? AND revision = ?`, name, revision)
	return scanSnapshot(row)
}

// List returns the latest revision of every snapshot name, ordered by name.
func (s *Store) List(ctx context.Context) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, revision, state_json, space_json, created_at
		FROM snapshots
		WHERE (name, revision) IN (SELECT name, MAX(revision) FROM snapshots GROUP BY name)
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("store: list snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var snap Snapshot
		var state, space string
		if err := rows.Scan(&snap.ID, &snap.Name, &snap.Revision, &state, &space, &snap.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan snapshot: %w", err)
		}
		snap.State = json.RawMessage(state)
		snap.Space = json.RawMessage(space)
		out = append(out, snap)
	}
	return out, rows.Err()
}

// Delete removes every revision of the named snapshot. Returns ErrNotFound
// when the name does not exist.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM snapshots WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("store: delete %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: delete %q: %w", name, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	slog.Info("snapshot deleted", "name", name, "revisions", n)
	return nil
}

func scanSnapshot(row *sql.Row) (*Snapshot, error) {
	var snap Snapshot
	var state, space string
	err := row.Scan(&snap.ID, &snap.Name, &snap.Revision, &state, &space, &snap.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: scan snapshot: %w", err)
	}
	snap.State = json.RawMessage(state)
	snap.Space = json.RawMessage(space)
	return &snap, nil
}
