package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tatianab/kingdom-crisis/internal/models"
	"gopkg.in/yaml.v3"
)

// SaveSummary describes a save slot without decoding it.
type SaveSummary struct {
	Name      string
	SessionID string
	Role      models.Role
	Event     models.CrisisEvent
	Day       int
	Slot      models.Slot
	UpdatedAt time.Time
}

// Slots is where the game keeps named saves. SessionRepo and Files both
// implement it.
type Slots interface {
	Save(ctx context.Context, name string, snap models.Snapshot) error
	Load(ctx context.Context, name string) (*models.Snapshot, error)
	List(ctx context.Context) ([]SaveSummary, error)
}

// SessionRepo stores snapshots as YAML in the save_slots table.
type SessionRepo struct {
	db *DB
}

// Save creates or replaces the slot called name.
func (r *SessionRepo) Save(ctx context.Context, name string, snap models.Snapshot) error {
	data, err := yaml.Marshal(snap)
	if err != nil {
		return storeErr("encode snapshot", err)
	}
	q := fmt.Sprintf(`INSERT INTO save_slots (name, session_id, role, event, day, slot, snapshot, updated_at)
VALUES (%s)
ON CONFLICT (name) DO UPDATE SET
	session_id = excluded.session_id,
	role = excluded.role,
	event = excluded.event,
	day = excluded.day,
	slot = excluded.slot,
	snapshot = excluded.snapshot,
	updated_at = excluded.updated_at`, r.db.binds(8))
	_, err = r.db.db.ExecContext(ctx, q,
		name,
		snap.SessionID,
		string(snap.Role),
		string(snap.PrimaryEvent),
		snap.Day,
		string(snap.Slot),
		string(data),
		time.Now().UnixMilli(),
	)
	if err != nil {
		return storeErr(fmt.Sprintf("save slot %q", name), err)
	}
	return nil
}

// Load returns the slot called name, or nil if there is none.
func (r *SessionRepo) Load(ctx context.Context, name string) (*models.Snapshot, error) {
	q := "SELECT snapshot FROM save_slots WHERE name = " + r.db.bind(1)
	var data string
	if err := r.db.db.QueryRowContext(ctx, q, name).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr(fmt.Sprintf("load slot %q", name), err)
	}
	var snap models.Snapshot
	if err := yaml.Unmarshal([]byte(data), &snap); err != nil {
		return nil, storeErr(fmt.Sprintf("decode slot %q", name), err)
	}
	return &snap, nil
}

// List returns every slot, most recently saved first.
func (r *SessionRepo) List(ctx context.Context) ([]SaveSummary, error) {
	const q = `SELECT name, session_id, role, event, day, slot, updated_at
FROM save_slots
ORDER BY updated_at DESC, name`
	rows, err := r.db.db.QueryContext(ctx, q)
	if err != nil {
		return nil, storeErr("list slots", err)
	}
	defer rows.Close()

	var out []SaveSummary
	for rows.Next() {
		var s SaveSummary
		var role, event, slot string
		var updated int64
		if err := rows.Scan(&s.Name, &s.SessionID, &role, &event, &s.Day, &slot, &updated); err != nil {
			return nil, storeErr("scan slot", err)
		}
		s.Role = models.Role(role)
		s.Event = models.CrisisEvent(event)
		s.Slot = models.Slot(slot)
		s.UpdatedAt = time.UnixMilli(updated)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate slots", err)
	}
	return out, nil
}

// Delete removes a slot. Deleting a missing slot is not an error.
func (r *SessionRepo) Delete(ctx context.Context, name string) error {
	q := "DELETE FROM save_slots WHERE name = " + r.db.bind(1)
	if _, err := r.db.db.ExecContext(ctx, q, name); err != nil {
		return storeErr(fmt.Sprintf("delete slot %q", name), err)
	}
	return nil
}
