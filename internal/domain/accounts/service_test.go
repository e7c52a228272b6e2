package accounts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	byID    map[string]Account
	byEmail map[string]Account
}

func newTestRepo() *testRepo {
	return &testRepo{
		byID:    map[string]Account{},
		byEmail: map[string]Account{},
	}
}

func (r *testRepo) Create(ctx context.Context, a Account) error {
	r.byID[a.ID] = a
	r.byEmail[a.Email] = a
	return nil
}

func (r *testRepo) GetByEmail(ctx context.Context, email string) (Account, error) {
	a, ok := r.byEmail[email]
	if !ok {
		return Account{}, ErrNotFound
	}
	return a, nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Account, error) {
	a, ok := r.byID[id]
	if !ok {
		return Account{}, ErrNotFound
	}
	return a, nil
}

func TestService_Register_HashesPassword(t *testing.T) {
	svc := NewService(newTestRepo(), "test-secret", time.Hour)

	a, err := svc.Register(context.Background(), "Fer@Example.com", "superclave123")
	require.NoError(t, err)

	assert.Equal(t, "fer@example.com", a.Email, "email gets normalized")
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, "superclave123", a.PasswordHash)
	assert.True(t, checkPassword(a.PasswordHash, "superclave123"))
}

func TestService_Register_RejectsDuplicateEmail(t *testing.T) {
	svc := NewService(newTestRepo(), "test-secret", time.Hour)
	ctx := context.Background()

	_, err := svc.Register(ctx, "fer@example.com", "superclave123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "FER@example.com", "otraclave456")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestService_Register_RejectsWeakPassword(t *testing.T) {
	svc := NewService(newTestRepo(), "test-secret", time.Hour)

	_, err := svc.Register(context.Background(), "fer@example.com", "corta")
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestService_Login_IssuesToken(t *testing.T) {
	svc := NewService(newTestRepo(), "test-secret", time.Hour)
	ctx := context.Background()

	a, err := svc.Register(ctx, "fer@example.com", "superclave123")
	require.NoError(t, err)

	res, err := svc.Login(ctx, "fer@example.com", "superclave123")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, a.ID, res.UserID)
	assert.True(t, res.ExpiresAt.After(time.Now()))
}

func TestService_Login_BadCredentials(t *testing.T) {
	svc := NewService(newTestRepo(), "test-secret", time.Hour)
	ctx := context.Background()

	_, err := svc.Register(ctx, "fer@example.com", "superclave123")
	require.NoError(t, err)

	// Password incorrecto y usuario inexistente devuelven el mismo error.
	_, err = svc.Login(ctx, "fer@example.com", "equivocada999")
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, err = svc.Login(ctx, "nadie@example.com", "superclave123")
	assert.ErrorIs(t, err, ErrBadCredentials)
}
