package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"doggo-community/internal/domain/lostpets"
)

type LostPetRepo struct {
	db *sql.DB
}

func NewLostPetRepo(db *sql.DB) *LostPetRepo {
	return &LostPetRepo{db: db}
}

func (r *LostPetRepo) Create(ctx context.Context, rep lostpets.Report) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO lostpet_reports (
			id, owner_id,
			pet_name, breed, description, photo_url,
			last_seen_at, lat, lng,
			found, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		rep.ID,
		rep.OwnerID,
		rep.PetName,
		rep.Breed,
		rep.Description,
		rep.PhotoURL,
		rep.LastSeenAt,
		rep.Location.Lat,
		rep.Location.Lng,
		rep.Found,
		rep.CreatedAt,
		rep.UpdatedAt,
	)
	return err
}

func (r *LostPetRepo) GetByID(ctx context.Context, id string) (lostpets.Report, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return lostpets.Report{}, lostpets.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, owner_id,
			pet_name, breed, description, photo_url,
			last_seen_at, lat, lng,
			found, created_at, updated_at
		FROM lostpet_reports
		WHERE id = $1
	`, id)

	return scanReport(row)
}

func (r *LostPetRepo) Replace(ctx context.Context, rep lostpets.Report) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE lostpet_reports SET
			owner_id = $2,
			pet_name = $3, breed = $4, description = $5, photo_url = $6,
			last_seen_at = $7, lat = $8, lng = $9,
			found = $10, created_at = $11, updated_at = $12
		WHERE id = $1
	`,
		rep.ID,
		rep.OwnerID,
		rep.PetName,
		rep.Breed,
		rep.Description,
		rep.PhotoURL,
		rep.LastSeenAt,
		rep.Location.Lat,
		rep.Location.Lng,
		rep.Found,
		rep.CreatedAt,
		rep.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireRow(res, lostpets.ErrNotFound)
}

func (r *LostPetRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM lostpet_reports WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res, lostpets.ErrNotFound)
}

func (r *LostPetRepo) List(ctx context.Context, f lostpets.ListFilter) ([]lostpets.Report, error) {
	sb := strings.Builder{}
	sb.WriteString(`
		SELECT
			id, owner_id,
			pet_name, breed, description, photo_url,
			last_seen_at, lat, lng,
			found, created_at, updated_at
		FROM lostpet_reports
		WHERE 1=1
	`)

	args := []any{}
	argN := 1

	if f.OwnerID != "" {
		sb.WriteString(fmt.Sprintf(" AND owner_id = $%d", argN))
		args = append(args, f.OwnerID)
		argN++
	}
	if f.OnlyOpen {
		sb.WriteString(" AND found = false")
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	sb.WriteString(" ORDER BY created_at DESC")
	sb.WriteString(fmt.Sprintf(" LIMIT $%d", argN))
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []lostpets.Report{}
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

func scanReport(row rowScanner) (lostpets.Report, error) {
	var rep lostpets.Report
	if err := row.Scan(
		&rep.ID,
		&rep.OwnerID,
		&rep.PetName,
		&rep.Breed,
		&rep.Description,
		&rep.PhotoURL,
		&rep.LastSeenAt,
		&rep.Location.Lat,
		&rep.Location.Lng,
		&rep.Found,
		&rep.CreatedAt,
		&rep.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return lostpets.Report{}, lostpets.ErrNotFound
		}
		return lostpets.Report{}, err
	}
	return rep, nil
}
