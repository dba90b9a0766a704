package postgres

import (
	"context"

	"github.com/frontandrew/fleet/internal/domain"
	"github.com/frontandrew/fleet/internal/repository"
	"github.com/google/uuid"
)

// scanner - общее подмножество pgx.Row и pgx.Rows
type scanner interface {
	Scan(dest ...any) error
}

const carColumns = `id, brand, model, vin, license_plate, daily_rate, status, photo_path, created_at`

type carRepository struct {
	db querier
}

func scanCar(row scanner) (*domain.Car, error) {
	car := &domain.Car{}
	err := row.Scan(
		&car.ID,
		&car.Brand,
		&car.Model,
		&car.VIN,
		&car.LicensePlate,
		&car.DailyRate,
		&car.Status,
		&car.PhotoPath,
		&car.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return car, nil
}

func (r *carRepository) Create(ctx context.Context, car *domain.Car) error {
	query := `
		INSERT INTO cars (id, brand, model, vin, license_plate, daily_rate, status, photo_path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	if car.ID == uuid.Nil {
		car.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx, query,
		car.ID,
		car.Brand,
		car.Model,
		car.VIN,
		car.LicensePlate,
		car.DailyRate,
		car.Status,
		car.PhotoPath,
		car.CreatedAt,
	)
	return mapError(err)
}

func (r *carRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = $1`

	car, err := scanCar(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err, domain.ErrCarNotFound)
	}
	return car, nil
}

func (r *carRepository) List(ctx context.Context, filter repository.CarFilter) ([]*domain.Car, error) {
	query := `
		SELECT ` + carColumns + `
		FROM cars
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY created_at, id
		LIMIT NULLIF($2, 0) OFFSET $3
	`

	var status *string
	if filter.Status != nil {
		s := string(*filter.Status)
		status = &s
	}

	rows, err := r.db.Query(ctx, query, status, filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cars := make([]*domain.Car, 0)
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, car)
	}

	return cars, rows.Err()
}

func (r *carRepository) CountByStatus(ctx context.Context) (map[domain.CarStatus]int, error) {
	query := `SELECT status, COUNT(*) FROM cars GROUP BY status`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.CarStatus]int)
	for rows.Next() {
		var status domain.CarStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}

	return counts, rows.Err()
}

func (r *carRepository) CompareAndSetStatus(ctx context.Context, id uuid.UUID, from, to domain.CarStatus) error {
	query := `UPDATE cars SET status = $3 WHERE id = $1 AND status = $2`

	tag, err := r.db.Exec(ctx, query, id, from, to)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	exists, err := r.exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrCarNotFound
	}
	return domain.ErrNotAvailable
}

func (r *carRepository) SetStatus(ctx context.Context, id uuid.UUID, status domain.CarStatus) error {
	query := `UPDATE cars SET status = $2 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCarNotFound
	}
	return nil
}

func (r *carRepository) exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM cars WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}
