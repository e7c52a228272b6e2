package postgres

import (
	"context"
	"database/sql"

	"doggo-community/internal/domain/chat"
)

type ChatRepo struct {
	db *sql.DB
}

func NewChatRepo(db *sql.DB) *ChatRepo {
	return &ChatRepo{db: db}
}

func (r *ChatRepo) Create(ctx context.Context, m chat.Message) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO chat_messages (id, event_id, author_id, body, sent_at)
		VALUES ($1,$2,$3,$4,$5)
	`,
		m.ID,
		m.EventID,
		m.AuthorID,
		m.Body,
		m.SentAt,
	)
	return err
}

func (r *ChatRepo) ListByEvent(ctx context.Context, eventID string, limit int) ([]chat.Message, error) {
	if limit <= 0 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}

	// Subquery: la cola del chat (los N más nuevos), devuelta en orden
	// cronológico.
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, event_id, author_id, body, sent_at FROM (
			SELECT id, event_id, author_id, body, sent_at
			FROM chat_messages
			WHERE event_id = $1
			ORDER BY sent_at DESC
			LIMIT $2
		) tail
		ORDER BY sent_at ASC
	`, eventID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []chat.Message{}
	for rows.Next() {
		var m chat.Message
		if err := rows.Scan(&m.ID, &m.EventID, &m.AuthorID, &m.Body, &m.SentAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *ChatRepo) DeleteByEvent(ctx context.Context, eventID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM chat_messages WHERE event_id = $1`, eventID)
	return err
}
