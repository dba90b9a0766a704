package postgres

import (
	"context"

	"github.com/frontandrew/fleet/internal/domain"
	"github.com/google/uuid"
)

const renterColumns = `id, name, phone, email, passport, notes, created_at`

type renterRepository struct {
	db querier
}

func scanRenter(row scanner) (*domain.Renter, error) {
	renter := &domain.Renter{}
	err := row.Scan(
		&renter.ID,
		&renter.Name,
		&renter.Phone,
		&renter.Email,
		&renter.Passport,
		&renter.Notes,
		&renter.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return renter, nil
}

func (r *renterRepository) Create(ctx context.Context, renter *domain.Renter) error {
	query := `
		INSERT INTO renters (id, name, phone, email, passport, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if renter.ID == uuid.Nil {
		renter.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx, query,
		renter.ID,
		renter.Name,
		renter.Phone,
		renter.Email,
		renter.Passport,
		renter.Notes,
		renter.CreatedAt,
	)
	return mapError(err)
}

func (r *renterRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Renter, error) {
	query := `SELECT ` + renterColumns + ` FROM renters WHERE id = $1`

	renter, err := scanRenter(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err, domain.ErrRenterNotFound)
	}
	return renter, nil
}

func (r *renterRepository) GetByPhone(ctx context.Context, phone string) (*domain.Renter, error) {
	query := `SELECT ` + renterColumns + ` FROM renters WHERE phone = $1`

	renter, err := scanRenter(r.db.QueryRow(ctx, query, phone))
	if err != nil {
		return nil, notFound(err, domain.ErrRenterNotFound)
	}
	return renter, nil
}

func (r *renterRepository) List(ctx context.Context, limit, offset int) ([]*domain.Renter, error) {
	query := `
		SELECT ` + renterColumns + `
		FROM renters
		ORDER BY created_at DESC
		LIMIT NULLIF($1, 0) OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	renters := make([]*domain.Renter, 0)
	for rows.Next() {
		renter, err := scanRenter(rows)
		if err != nil {
			return nil, err
		}
		renters = append(renters, renter)
	}

	return renters, rows.Err()
}
