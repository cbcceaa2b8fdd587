package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tatianab/kingdom-crisis/internal/models"
)

// OutcomeRecord is one finished game.
type OutcomeRecord struct {
	ID            string
	SessionID     string
	Role          models.Role
	Event         models.CrisisEvent
	Outcome       models.Outcome
	Effectiveness float64
	Preparations  int
	FinishedAt    time.Time
}

// OutcomeRepo is the append-only log of finished games.
type OutcomeRepo struct {
	db *DB
}

func (r *OutcomeRepo) Record(ctx context.Context, sessionID string, role models.Role, res models.Resolution) (OutcomeRecord, error) {
	rec := OutcomeRecord{
		ID:            uuid.NewString(),
		SessionID:     sessionID,
		Role:          role,
		Event:         res.Event,
		Outcome:       res.Outcome,
		Effectiveness: res.Effectiveness,
		Preparations:  res.Preparations,
		FinishedAt:    time.UnixMilli(time.Now().UnixMilli()),
	}
	q := fmt.Sprintf(`INSERT INTO outcomes (id, session_id, role, event, outcome, effectiveness, preparations, finished_at)
VALUES (%s)`, r.db.binds(8))
	_, err := r.db.db.ExecContext(ctx, q,
		rec.ID,
		rec.SessionID,
		string(rec.Role),
		string(rec.Event),
		string(rec.Outcome),
		rec.Effectiveness,
		rec.Preparations,
		rec.FinishedAt.UnixMilli(),
	)
	if err != nil {
		return OutcomeRecord{}, storeErr("record outcome", err)
	}
	return rec, nil
}

// Recent returns up to limit finished games, newest first.
func (r *OutcomeRepo) Recent(ctx context.Context, limit int) ([]OutcomeRecord, error) {
	q := fmt.Sprintf(`SELECT id, session_id, role, event, outcome, effectiveness, preparations, finished_at
FROM outcomes
ORDER BY finished_at DESC, id
LIMIT %s`, r.db.bind(1))
	rows, err := r.db.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, storeErr("list outcomes", err)
	}
	defer rows.Close()

	var out []OutcomeRecord
	for rows.Next() {
		var rec OutcomeRecord
		var role, event, outcome string
		var finished int64
		if err := rows.Scan(&rec.ID, &rec.SessionID, &role, &event, &outcome, &rec.Effectiveness, &rec.Preparations, &finished); err != nil {
			return nil, storeErr("scan outcome", err)
		}
		rec.Role = models.Role(role)
		rec.Event = models.CrisisEvent(event)
		rec.Outcome = models.Outcome(outcome)
		rec.FinishedAt = time.UnixMilli(finished)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate outcomes", err)
	}
	return out, nil
}
