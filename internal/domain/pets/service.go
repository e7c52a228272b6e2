package pets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

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
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name      string
	Breed     string
	Sex       string
	BirthDate *time.Time
	PhotoURL  string
	Notes     string
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Pet, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return Pet{}, ErrUnauthenticated
	}
	if strings.TrimSpace(in.Name) == "" {
		return Pet{}, ErrInvalidInput
	}

	sex := Sex(strings.TrimSpace(in.Sex))
	if sex == "" {
		sex = SexUnknown
	}

	now := s.now()
	p := Pet{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		Name:        strings.TrimSpace(in.Name),
		Breed:       strings.TrimSpace(in.Breed),
		Sex:         sex,
		BirthDate:   in.BirthDate,
		PhotoURL:    strings.TrimSpace(in.PhotoURL),
		Notes:       strings.TrimSpace(in.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, storeErr(err)
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Pet{}, ErrInvalidInput
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Pet{}, storeErr(err)
	}
	return p, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error) {
	out, err := s.repo.ListByOwner(ctx, strings.TrimSpace(ownerUserID))
	if err != nil {
		return nil, storeErr(err)
	}
	return out, nil
}

// UpdateInput es un patch: nil = no tocar ese campo.
type UpdateInput struct {
	Name     *string
	Breed    *string
	Sex      *string
	PhotoURL *string
	Notes    *string

	// BirthDate solo se aplica si SetBirthDate es true (permite limpiar con nil).
	SetBirthDate bool
	BirthDate    *time.Time
}

func (s *Service) Update(ctx context.Context, id, callerID string, in UpdateInput) (Pet, error) {
	id = strings.TrimSpace(id)
	callerID = strings.TrimSpace(callerID)
	if callerID == "" {
		return Pet{}, ErrUnauthenticated
	}
	if id == "" {
		return Pet{}, ErrInvalidInput
	}

	cur, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Pet{}, storeErr(err)
	}
	if cur.OwnerUserID != callerID {
		return Pet{}, ErrForbidden
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return Pet{}, ErrInvalidInput
		}
		cur.Name = strings.TrimSpace(*in.Name)
	}
	if in.Breed != nil {
		cur.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.Sex != nil {
		sex := Sex(strings.TrimSpace(*in.Sex))
		if sex == "" {
			sex = SexUnknown
		}
		cur.Sex = sex
	}
	if in.PhotoURL != nil {
		cur.PhotoURL = strings.TrimSpace(*in.PhotoURL)
	}
	if in.Notes != nil {
		cur.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.SetBirthDate {
		cur.BirthDate = in.BirthDate
	}
	cur.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, cur); err != nil {
		return Pet{}, storeErr(err)
	}
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
	if cur.OwnerUserID != callerID {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return storeErr(err)
	}
	return nil
}

// OwnerOf expone el dueño de una mascota sin exponer el modelo entero.
// Evita ciclos de imports entre módulos.
func (s *Service) OwnerOf(ctx context.Context, petID string) (string, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return "", err
	}
	return p.OwnerUserID, nil
}

func storeErr(err error) error {
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
