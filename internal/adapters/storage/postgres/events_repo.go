package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"doggo-community/internal/domain/events"
)

type EventRepo struct {
	db *sql.DB
}

func NewEventRepo(db *sql.DB) *EventRepo {
	return &EventRepo{db: db}
}

func (r *EventRepo) Create(ctx context.Context, e events.Event) error {
	roster, err := json.Marshal(e.Participants)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO events (
			id, title, description, kind,
			scheduled_at, lat, lng,
			creator_id, capacity, participants,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		e.ID,
		e.Title,
		e.Description,
		string(e.Kind),
		e.ScheduledAt,
		e.Location.Lat,
		e.Location.Lng,
		e.CreatorID,
		e.Capacity,
		roster,
		e.CreatedAt,
		e.UpdatedAt,
	)
	return err
}

func (r *EventRepo) GetByID(ctx context.Context, id string) (events.Event, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return events.Event{}, events.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, title, description, kind,
			scheduled_at, lat, lng,
			creator_id, capacity, participants,
			created_at, updated_at
		FROM events
		WHERE id = $1
	`, id)

	return scanEvent(row)
}

func (r *EventRepo) Replace(ctx context.Context, e events.Event) error {
	roster, err := json.Marshal(e.Participants)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE events SET
			title = $2, description = $3, kind = $4,
			scheduled_at = $5, lat = $6, lng = $7,
			creator_id = $8, capacity = $9, participants = $10,
			created_at = $11, updated_at = $12
		WHERE id = $1
	`,
		e.ID,
		e.Title,
		e.Description,
		string(e.Kind),
		e.ScheduledAt,
		e.Location.Lat,
		e.Location.Lng,
		e.CreatorID,
		e.Capacity,
		roster,
		e.CreatedAt,
		e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireRow(res, events.ErrNotFound)
}

func (r *EventRepo) UpdateParticipants(ctx context.Context, id string, participants []string, updatedAt time.Time) error {
	roster, err := json.Marshal(participants)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE events SET participants = $2, updated_at = $3
		WHERE id = $1
	`, id, roster, updatedAt)
	if err != nil {
		return err
	}
	return requireRow(res, events.ErrNotFound)
}

func (r *EventRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res, events.ErrNotFound)
}

func (r *EventRepo) List(ctx context.Context, f events.ListFilter) ([]events.Event, error) {
	sb := strings.Builder{}
	sb.WriteString(`
		SELECT
			id, title, description, kind,
			scheduled_at, lat, lng,
			creator_id, capacity, participants,
			created_at, updated_at
		FROM events
		WHERE 1=1
	`)

	args := []any{}
	argN := 1

	if f.CreatorID != "" {
		sb.WriteString(fmt.Sprintf(" AND creator_id = $%d", argN))
		args = append(args, f.CreatorID)
		argN++
	}
	if f.Kind != "" {
		sb.WriteString(fmt.Sprintf(" AND kind = $%d", argN))
		args = append(args, string(f.Kind))
		argN++
	}
	if f.From != nil {
		sb.WriteString(fmt.Sprintf(" AND scheduled_at >= $%d", argN))
		args = append(args, *f.From)
		argN++
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	sb.WriteString(" ORDER BY scheduled_at ASC")
	sb.WriteString(fmt.Sprintf(" LIMIT $%d", argN))
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []events.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanEvent(row rowScanner) (events.Event, error) {
	var e events.Event
	var kind string
	var roster []byte

	if err := row.Scan(
		&e.ID,
		&e.Title,
		&e.Description,
		&kind,
		&e.ScheduledAt,
		&e.Location.Lat,
		&e.Location.Lng,
		&e.CreatorID,
		&e.Capacity,
		&roster,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return events.Event{}, events.ErrNotFound
		}
		return events.Event{}, err
	}

	e.Kind = events.Kind(kind)
	e.Participants = []string{}
	if len(roster) > 0 {
		if err := json.Unmarshal(roster, &e.Participants); err != nil {
			return events.Event{}, err
		}
	}
	return e, nil
}

