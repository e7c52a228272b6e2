package lostpets

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
	ErrUnavailable     = errors.New("store unavailable")
)

type Service struct {
	repo     Repository
	hub      *watch.Hub[Report]
	notifier bus.Notifier
	now      func() time.Time
}

func NewService(repo Repository, notifier bus.Notifier) *Service {
	return &Service{
		repo:     repo,
		hub:      watch.NewHub[Report](),
		notifier: notifier,
		now:      time.Now,
	}
}

type ReportInput struct {
	PetName     string
	Breed       string
	Description string
	PhotoURL    string
	LastSeenAt  time.Time
	Location    geo.Point
}

func (in ReportInput) validate() error {
	if strings.TrimSpace(in.PetName) == "" {
		return ErrInvalidInput
	}
	if in.LastSeenAt.IsZero() {
		return ErrInvalidInput
	}
	if !in.Location.Valid() {
		return ErrInvalidInput
	}
	return nil
}

func (s *Service) Create(ctx context.Context, callerID string, in ReportInput) (Report, error) {
	callerID = strings.TrimSpace(callerID)
	if callerID == "" {
		return Report{}, ErrUnauthenticated
	}
	if err := in.validate(); err != nil {
		return Report{}, err
	}

	now := s.now()
	rep := Report{
		ID:          uuid.NewString(),
		OwnerID:     callerID,
		PetName:     strings.TrimSpace(in.PetName),
		Breed:       strings.TrimSpace(in.Breed),
		Description: strings.TrimSpace(in.Description),
		PhotoURL:    strings.TrimSpace(in.PhotoURL),
		LastSeenAt:  in.LastSeenAt,
		Location:    in.Location,
		Found:       false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, rep); err != nil {
		return Report{}, storeErr(err)
	}

	s.changed(ctx)
	return rep, nil
}

// Update reemplaza los campos editables. Solo el dueño del aviso.
// El flag Found no entra por acá, solo por SetFound.
func (s *Service) Update(ctx context.Context, id, callerID string, in ReportInput) (Report, error) {
	id = strings.TrimSpace(id)
	callerID = strings.TrimSpace(callerID)
	if callerID == "" {
		return Report{}, ErrUnauthenticated
	}
	if id == "" {
		return Report{}, ErrInvalidInput
	}
	if err := in.validate(); err != nil {
		return Report{}, err
	}

	cur, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Report{}, storeErr(err)
	}
	if cur.OwnerID != callerID {
		return Report{}, ErrForbidden
	}

	cur.PetName = strings.TrimSpace(in.PetName)
	cur.Breed = strings.TrimSpace(in.Breed)
	cur.Description = strings.TrimSpace(in.Description)
	cur.PhotoURL = strings.TrimSpace(in.PhotoURL)
	cur.LastSeenAt = in.LastSeenAt
	cur.Location = in.Location
	cur.UpdatedAt = s.now()

	if err := s.repo.Replace(ctx, cur); err != nil {
		return Report{}, storeErr(err)
	}

	s.changed(ctx)
	return cur, nil
}

// SetFound marca (o desmarca) el aviso como encontrado. Idempotente:
// repetir el mismo valor no muta nada y no es error.
func (s *Service) SetFound(ctx context.Context, id, callerID string, found bool) (Report, error) {
	id = strings.TrimSpace(id)
	callerID = strings.TrimSpace(callerID)
	if callerID == "" {
		return Report{}, ErrUnauthenticated
	}
	if id == "" {
		return Report{}, ErrInvalidInput
	}

	cur, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Report{}, storeErr(err)
	}
	if cur.OwnerID != callerID {
		return Report{}, ErrForbidden
	}

	if cur.Found == found {
		return cur, nil
	}

	cur.Found = found
	cur.UpdatedAt = s.now()

	if err := s.repo.Replace(ctx, cur); err != nil {
		return Report{}, storeErr(err)
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
	if cur.OwnerID != callerID {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return storeErr(err)
	}

	s.changed(ctx)
	return nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Report, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Report{}, ErrInvalidInput
	}
	rep, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Report{}, storeErr(err)
	}
	return rep, nil
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Report, error) {
	out, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, storeErr(err)
	}
	return out, nil
}

// Watch entrega el listado completo en cada cambio (replace, no diffs).
func (s *Service) Watch(ctx context.Context, f ListFilter) (*watch.Subscription[Report], error) {
	return s.hub.Subscribe(ctx, func(ctx context.Context) ([]Report, error) {
		return s.List(ctx, f)
	})
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
		_ = s.notifier.Publish(ctx, bus.TopicLostPets)
	}
}

func storeErr(err error) error {
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
