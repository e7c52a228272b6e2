package chat

import "time"

// Message es un mensaje del chat de un evento.
type Message struct {
	ID      string
	EventID string

	AuthorID string
	Body     string

	SentAt time.Time
}
