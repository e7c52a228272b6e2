package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthenticated = errors.New("unauthenticated")
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

type UpsertInput struct {
	DisplayName string
	Bio         string
	City        string
	PhotoURL    string
}

// Upsert crea o actualiza el perfil propio del caller.
// PetIDs no entra por acá: solo se mueve vía AttachPet/DetachPet.
func (s *Service) Upsert(ctx context.Context, callerID string, in UpsertInput) (Profile, error) {
	callerID = strings.TrimSpace(callerID)
	if callerID == "" {
		return Profile{}, ErrUnauthenticated
	}
	if strings.TrimSpace(in.DisplayName) == "" {
		return Profile{}, ErrInvalidInput
	}

	now := s.now()

	cur, err := s.repo.GetByUserID(ctx, callerID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return Profile{}, storeErr(err)
		}
		cur = Profile{
			UserID:    callerID,
			PetIDs:    []string{},
			CreatedAt: now,
		}
	}

	cur.DisplayName = strings.TrimSpace(in.DisplayName)
	cur.Bio = strings.TrimSpace(in.Bio)
	cur.City = strings.TrimSpace(in.City)
	cur.PhotoURL = strings.TrimSpace(in.PhotoURL)
	cur.UpdatedAt = now

	if err := s.repo.Save(ctx, cur); err != nil {
		return Profile{}, storeErr(err)
	}
	return cur, nil
}

func (s *Service) GetByUserID(ctx context.Context, userID string) (Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Profile{}, ErrInvalidInput
	}
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return Profile{}, storeErr(err)
	}
	return p, nil
}

// AttachPet agrega petID a la lista del usuario. Idempotente.
// Si el perfil no existe todavía (usuario registró mascota antes de
// completar su perfil), se crea un esqueleto.
func (s *Service) AttachPet(ctx context.Context, userID, petID string) (Profile, error) {
	userID = strings.TrimSpace(userID)
	petID = strings.TrimSpace(petID)
	if userID == "" || petID == "" {
		return Profile{}, ErrInvalidInput
	}

	now := s.now()

	cur, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return Profile{}, storeErr(err)
		}
		cur = Profile{
			UserID:    userID,
			PetIDs:    []string{},
			CreatedAt: now,
		}
	}

	if cur.HasPet(petID) {
		return cur, nil
	}

	cur.PetIDs = append(cur.PetIDs, petID)
	cur.UpdatedAt = now

	if err := s.repo.Save(ctx, cur); err != nil {
		return Profile{}, storeErr(err)
	}
	return cur, nil
}

// DetachPet saca petID de la lista. Idempotente.
func (s *Service) DetachPet(ctx context.Context, userID, petID string) (Profile, error) {
	userID = strings.TrimSpace(userID)
	petID = strings.TrimSpace(petID)
	if userID == "" || petID == "" {
		return Profile{}, ErrInvalidInput
	}

	cur, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Profile{}, nil
		}
		return Profile{}, storeErr(err)
	}

	if !cur.HasPet(petID) {
		return cur, nil
	}

	ids := make([]string, 0, len(cur.PetIDs)-1)
	for _, id := range cur.PetIDs {
		if id == petID {
			continue
		}
		ids = append(ids, id)
	}
	cur.PetIDs = ids
	cur.UpdatedAt = s.now()

	if err := s.repo.Save(ctx, cur); err != nil {
		return Profile{}, storeErr(err)
	}
	return cur, nil
}

func storeErr(err error) error {
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
