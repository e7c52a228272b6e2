package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"doggo-community/internal/domain/profiles"
)

type ProfileRepo struct {
	db *sql.DB
}

func NewProfileRepo(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

func (r *ProfileRepo) GetByUserID(ctx context.Context, userID string) (profiles.Profile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			user_id, display_name, bio, city, photo_url,
			pet_ids, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`, userID)

	var p profiles.Profile
	var petIDs []byte
	if err := row.Scan(
		&p.UserID,
		&p.DisplayName,
		&p.Bio,
		&p.City,
		&p.PhotoURL,
		&petIDs,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return profiles.Profile{}, profiles.ErrNotFound
		}
		return profiles.Profile{}, err
	}

	p.PetIDs = []string{}
	if len(petIDs) > 0 {
		if err := json.Unmarshal(petIDs, &p.PetIDs); err != nil {
			return profiles.Profile{}, err
		}
	}
	return p, nil
}

func (r *ProfileRepo) Save(ctx context.Context, p profiles.Profile) error {
	petIDs, err := json.Marshal(p.PetIDs)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO profiles (
			user_id, display_name, bio, city, photo_url,
			pet_ids, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (user_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			bio = EXCLUDED.bio,
			city = EXCLUDED.city,
			photo_url = EXCLUDED.photo_url,
			pet_ids = EXCLUDED.pet_ids,
			updated_at = EXCLUDED.updated_at
	`,
		p.UserID,
		p.DisplayName,
		p.Bio,
		p.City,
		p.PhotoURL,
		petIDs,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}
