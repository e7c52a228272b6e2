package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrEmailTaken     = errors.New("email already registered")
	ErrWeakPassword   = errors.New("password too short")
	ErrBadCredentials = errors.New("invalid email or password")
	ErrNotFound       = errors.New("not found")
	ErrUnavailable    = errors.New("store unavailable")
)

type Service struct {
	repo      Repository
	jwtSecret string
	jwtExpiry time.Duration
	now       func() time.Time
}

func NewService(repo Repository, jwtSecret string, jwtExpiry time.Duration) *Service {
	if jwtExpiry <= 0 {
		jwtExpiry = 24 * time.Hour
	}
	return &Service{
		repo:      repo,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
		now:       time.Now,
	}
}

func (s *Service) Register(ctx context.Context, email, password string) (Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return Account{}, ErrInvalidInput
	}

	// Chequeo de unicidad read-then-write, igual que el resto de la app.
	// Si hay carrera real, el índice único del adapter la corta.
	_, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return Account{}, ErrEmailTaken
	}
	if !errors.Is(err, ErrNotFound) {
		return Account{}, storeErr(err)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return Account{}, err
	}

	a := Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Account{}, storeErr(err)
	}
	return a, nil
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	UserID    string
}

func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return LoginResult{}, ErrBadCredentials
	}

	a, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return LoginResult{}, ErrBadCredentials
		}
		return LoginResult{}, storeErr(err)
	}

	if !checkPassword(a.PasswordHash, password) {
		return LoginResult{}, ErrBadCredentials
	}

	now := s.now()
	expiresAt := now.Add(s.jwtExpiry)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   a.ID,
		"email": a.Email,
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	})

	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return LoginResult{}, fmt.Errorf("sign token: %w", err)
	}

	return LoginResult{
		Token:     signed,
		ExpiresAt: expiresAt,
		UserID:    a.ID,
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Account, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Account{}, ErrInvalidInput
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Account{}, storeErr(err)
	}
	return a, nil
}

func storeErr(err error) error {
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
