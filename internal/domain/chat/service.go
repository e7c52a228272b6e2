package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"doggo-community/internal/platform/bus"
	"doggo-community/internal/platform/watch"

	"github.com/google/uuid"
)

const maxBodyLen = 2000

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrUnavailable     = errors.New("store unavailable")
)

// Service es CRUD simple de mensajes. Quién puede escribir en el chat
// de un evento (participantes y creador) lo decide el handler,
// componiendo con el servicio de events.
type Service struct {
	repo     Repository
	hub      *watch.Hub[Message]
	notifier bus.Notifier
	now      func() time.Time
}

func NewService(repo Repository, notifier bus.Notifier) *Service {
	return &Service{
		repo:     repo,
		hub:      watch.NewHub[Message](),
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *Service) Post(ctx context.Context, eventID, authorID, body string) (Message, error) {
	eventID = strings.TrimSpace(eventID)
	authorID = strings.TrimSpace(authorID)
	body = strings.TrimSpace(body)

	if authorID == "" {
		return Message{}, ErrUnauthenticated
	}
	if eventID == "" || body == "" || len(body) > maxBodyLen {
		return Message{}, ErrInvalidInput
	}

	m := Message{
		ID:       uuid.NewString(),
		EventID:  eventID,
		AuthorID: authorID,
		Body:     body,
		SentAt:   s.now(),
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return Message{}, storeErr(err)
	}

	s.changed(ctx)
	return m, nil
}

func (s *Service) ListByEvent(ctx context.Context, eventID string, limit int) ([]Message, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return nil, ErrInvalidInput
	}
	out, err := s.repo.ListByEvent(ctx, eventID, limit)
	if err != nil {
		return nil, storeErr(err)
	}
	return out, nil
}

// Watch entrega el historial completo del chat en cada mensaje nuevo
// (replace, no diffs).
func (s *Service) Watch(ctx context.Context, eventID string, limit int) (*watch.Subscription[Message], error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return nil, ErrInvalidInput
	}
	return s.hub.Subscribe(ctx, func(ctx context.Context) ([]Message, error) {
		return s.ListByEvent(ctx, eventID, limit)
	})
}

// PurgeEvent borra el chat de un evento que dejó de existir.
func (s *Service) PurgeEvent(ctx context.Context, eventID string) error {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return ErrInvalidInput
	}
	if err := s.repo.DeleteByEvent(ctx, eventID); err != nil {
		return storeErr(err)
	}
	s.changed(ctx)
	return nil
}

func (s *Service) Refresh(ctx context.Context) {
	s.hub.Broadcast(ctx)
}

func (s *Service) Close() {
	s.hub.Close()
}

func (s *Service) changed(ctx context.Context) {
	s.hub.Broadcast(ctx)
	if s.notifier != nil {
		_ = s.notifier.Publish(ctx, bus.TopicChat)
	}
}

func storeErr(err error) error {
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
