package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"doggo-community/internal/domain/geo"
	"doggo-community/internal/platform/bus"
	"doggo-community/internal/platform/watch"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrCapacityFull    = errors.New("capacity exceeded")
	ErrUnavailable     = errors.New("store unavailable")
)

type Service struct {
	repo     Repository
	hub      *watch.Hub[Event]
	notifier bus.Notifier // puede ser nil (instancia única)
	now      func() time.Time
}

// NewService arma el servicio. notifier nil = sin fanout entre instancias.
func NewService(repo Repository, notifier bus.Notifier) *Service {
	return &Service{
		repo:     repo,
		hub:      watch.NewHub[Event](),
		notifier: notifier,
		now:      time.Now,
	}
}

type CreateInput struct {
	Title       string
	Description string
	Kind        Kind
	ScheduledAt time.Time
	Location    geo.Point
	Capacity    int
}

func (in CreateInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return ErrInvalidInput
	}
	if in.ScheduledAt.IsZero() {
		return ErrInvalidInput
	}
	if in.Capacity < 1 {
		return ErrInvalidInput
	}
	if !in.Location.Valid() {
		return ErrInvalidInput
	}
	return nil
}

func (s *Service) Create(ctx context.Context, callerID string, in CreateInput) (Event, error) {
	callerID = strings.TrimSpace(callerID)
	if callerID == "" {
		return Event{}, ErrUnauthenticated
	}
	if err := in.validate(); err != nil {
		return Event{}, err
	}

	kind := Kind(strings.TrimSpace(string(in.Kind)))
	if kind == "" {
		kind = KindOther
	}

	now := s.now()
	e := Event{
		ID:           uuid.NewString(),
		Title:        strings.TrimSpace(in.Title),
		Description:  strings.TrimSpace(in.Description),
		Kind:         kind,
		ScheduledAt:  in.ScheduledAt,
		Location:     in.Location,
		CreatorID:    callerID,
		Capacity:     in.Capacity,
		Participants: []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return Event{}, storeErr(err)
	}

	s.changed(ctx)
	return e, nil
}

// Update reemplaza los campos editables del evento. Solo el creador.
// El roster NO se toca por acá: participants entra y sale únicamente
// por Join/Leave.
func (s *Service) Update(ctx context.Context, id, callerID string, in CreateInput) (Event, error) {
	id = strings.TrimSpace(id)
	callerID = strings.TrimSpace(callerID)
	if callerID == "" {
		return Event{}, ErrUnauthenticated
	}
	if id == "" {
		return Event{}, ErrInvalidInput
	}
	if err := in.validate(); err != nil {
		return Event{}, err
	}

	cur, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Event{}, storeErr(err)
	}
	if cur.CreatorID != callerID {
		return Event{}, ErrForbidden
	}

	kind := Kind(strings.TrimSpace(string(in.Kind)))
	if kind == "" {
		kind = KindOther
	}

	cur.Title = strings.TrimSpace(in.Title)
	cur.Description = strings.TrimSpace(in.Description)
	cur.Kind = kind
	cur.ScheduledAt = in.ScheduledAt
	cur.Location = in.Location
	cur.Capacity = in.Capacity
	cur.UpdatedAt = s.now()

	if err := s.repo.Replace(ctx, cur); err != nil {
		return Event{}, storeErr(err)
	}

	s.changed(ctx)
	return cur, nil
}

func (s *Service) Delete(ctx context.Context, id, callerID string) error {
	id = strings.TrimSpace(id)
	callerID = strings.TrimSpace(callerID)
	if callerID == "" {
		return ErrUnauthenticated
	}
	if id == "" {
		return ErrInvalidInput
	}

	cur, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return storeErr(err)
	}
	if cur.CreatorID != callerID {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return storeErr(err)
	}

	s.changed(ctx)
	return nil
}

// Join agrega al caller al final del roster.
// - Si ya está adentro: no-op, devuelve el evento tal cual (idempotente).
// - Si el cupo está lleno: ErrCapacityFull, sin mutación.
//
// El chequeo de cupo es read-then-write sin transacción: dos joins
// concurrentes pueden observar lugar libre y pasarse del cupo.
// Limitación conocida; el cupo es un tope "blando".
func (s *Service) Join(ctx context.Context, id, callerID string) (Event, error) {
	id = strings.TrimSpace(id)
	callerID = strings.TrimSpace(callerID)
	if callerID == "" {
		return Event{}, ErrUnauthenticated
	}
	if id == "" {
		return Event{}, ErrInvalidInput
	}

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Event{}, storeErr(err)
	}

	if e.HasParticipant(callerID) {
		return e, nil
	}
	if e.IsFull() {
		return Event{}, ErrCapacityFull
	}

	roster := make([]string, 0, len(e.Participants)+1)
	roster = append(roster, e.Participants...)
	roster = append(roster, callerID)

	now := s.now()
	if err := s.repo.UpdateParticipants(ctx, id, roster, now); err != nil {
		return Event{}, storeErr(err)
	}

	e.Participants = roster
	e.UpdatedAt = now

	s.changed(ctx)
	return e, nil
}

// Leave saca al caller del roster. Si no estaba, no-op (idempotente).
func (s *Service) Leave(ctx context.Context, id, callerID string) (Event, error) {
	id = strings.TrimSpace(id)
	callerID = strings.TrimSpace(callerID)
	if callerID == "" {
		return Event{}, ErrUnauthenticated
	}
	if id == "" {
		return Event{}, ErrInvalidInput
	}

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Event{}, storeErr(err)
	}

	if !e.HasParticipant(callerID) {
		return e, nil
	}

	roster := make([]string, 0, len(e.Participants)-1)
	for _, uid := range e.Participants {
		if uid == callerID {
			continue
		}
		roster = append(roster, uid)
	}

	now := s.now()
	if err := s.repo.UpdateParticipants(ctx, id, roster, now); err != nil {
		return Event{}, storeErr(err)
	}

	e.Participants = roster
	e.UpdatedAt = now

	s.changed(ctx)
	return e, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Event, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Event{}, ErrInvalidInput
	}
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Event{}, storeErr(err)
	}
	return e, nil
}

// Filter es el filtro de cara al caller.
// OnlyOpen = solo eventos que todavía no empezaron.
type Filter struct {
	CreatorID string
	Kind      Kind
	OnlyOpen  bool
	Limit     int
}

func (s *Service) ListUpcoming(ctx context.Context, f Filter) ([]Event, error) {
	lf := ListFilter{
		CreatorID: strings.TrimSpace(f.CreatorID),
		Kind:      f.Kind,
		Limit:     f.Limit,
	}
	if f.OnlyOpen {
		now := s.now()
		lf.From = &now
	}

	out, err := s.repo.List(ctx, lf)
	if err != nil {
		return nil, storeErr(err)
	}
	return out, nil
}

// Watch entrega el listado completo filtrado cada vez que algo cambia
// (semántica replace: siempre la lista entera, nunca deltas).
// Cancelar la suscripción (o el ctx) libera los recursos.
func (s *Service) Watch(ctx context.Context, f Filter) (*watch.Subscription[Event], error) {
	return s.hub.Subscribe(ctx, func(ctx context.Context) ([]Event, error) {
		return s.ListUpcoming(ctx, f)
	})
}

// Refresh re-entrega snapshots a todos los watchers. Lo dispara el
// listener del bus cuando otra instancia tocó la colección.
func (s *Service) Refresh(ctx context.Context) {
	s.hub.Broadcast(ctx)
}

func (s *Service) Close() {
	s.hub.Close()
}

func (s *Service) changed(ctx context.Context) {
	s.hub.Broadcast(ctx)
	if s.notifier != nil {
		// best-effort: si el bus falla, los watchers locales ya recibieron
		_ = s.notifier.Publish(ctx, bus.TopicEvents)
	}
}

func storeErr(err error) error {
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
