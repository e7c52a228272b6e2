package postgres

import (
	"context"
	"database/sql"
	"errors"

	"doggo-community/internal/domain/accounts"

	"github.com/jackc/pgx/v5/pgconn"
)

type AccountRepo struct {
	db *sql.DB
}

func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{db: db}
}

func (r *AccountRepo) Create(ctx context.Context, a accounts.Account) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (id, email, password_hash, created_at)
		VALUES ($1,$2,$3,$4)
	`,
		a.ID,
		a.Email,
		a.PasswordHash,
		a.CreatedAt,
	)
	if err != nil {
		// unique_violation en el índice de email
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return accounts.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (accounts.Account, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at
		FROM accounts
		WHERE email = $1
	`, email)
	return scanAccount(row)
}

func (r *AccountRepo) GetByID(ctx context.Context, id string) (accounts.Account, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at
		FROM accounts
		WHERE id = $1
	`, id)
	return scanAccount(row)
}

func scanAccount(row rowScanner) (accounts.Account, error) {
	var a accounts.Account
	if err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return accounts.Account{}, accounts.ErrNotFound
		}
		return accounts.Account{}, err
	}
	return a, nil
}
