package postgres

import (
	"context"

	"github.com/frontandrew/fleet/internal/domain"
	"github.com/frontandrew/fleet/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const rentalColumns = `id, car_id, renter_id, rental_type, start_date, end_date, daily_rate,
	total_amount, paid_amount, deposit, is_active, is_overdue, overdue_days, contract_notes, created_at`

type rentalRepository struct {
	db querier
}

func scanRental(row scanner) (*domain.Rental, error) {
	rental := &domain.Rental{}
	err := row.Scan(
		&rental.ID,
		&rental.CarID,
		&rental.RenterID,
		&rental.RentalType,
		&rental.StartDate,
		&rental.EndDate,
		&rental.DailyRate,
		&rental.TotalAmount,
		&rental.PaidAmount,
		&rental.Deposit,
		&rental.IsActive,
		&rental.IsOverdue,
		&rental.OverdueDays,
		&rental.ContractNotes,
		&rental.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return rental, nil
}

func (r *rentalRepository) Create(ctx context.Context, rental *domain.Rental) error {
	query := `
		INSERT INTO rentals (` + rentalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	if rental.ID == uuid.Nil {
		rental.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx, query,
		rental.ID,
		rental.CarID,
		rental.RenterID,
		rental.RentalType,
		rental.StartDate,
		rental.EndDate,
		rental.DailyRate,
		rental.TotalAmount,
		rental.PaidAmount,
		rental.Deposit,
		rental.IsActive,
		rental.IsOverdue,
		rental.OverdueDays,
		rental.ContractNotes,
		rental.CreatedAt,
	)
	return mapError(err)
}

func (r *rentalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1`

	rental, err := scanRental(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err, domain.ErrRentalNotFound)
	}
	return rental, nil
}

func (r *rentalRepository) GetActiveByCar(ctx context.Context, carID uuid.UUID) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE car_id = $1 AND is_active`

	rental, err := scanRental(r.db.QueryRow(ctx, query, carID))
	if err != nil {
		return nil, notFound(err, domain.ErrRentalNotFound)
	}
	return rental, nil
}

func (r *rentalRepository) List(ctx context.Context, filter repository.RentalFilter) ([]*domain.Rental, error) {
	query := `
		SELECT ` + rentalColumns + `
		FROM rentals
		WHERE (NOT $1::boolean OR is_active)
		  AND ($2::uuid IS NULL OR car_id = $2)
		  AND ($3::uuid IS NULL OR renter_id = $3)
		ORDER BY start_date DESC, created_at DESC
	`

	rows, err := r.db.Query(ctx, query, filter.ActiveOnly, filter.CarID, filter.RenterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rentals := make([]*domain.Rental, 0)
	for rows.Next() {
		rental, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, rental)
	}

	return rentals, rows.Err()
}

func (r *rentalRepository) AddPaid(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	query := `UPDATE rentals SET paid_amount = paid_amount + $2 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, amount)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRentalNotFound
	}
	return nil
}

func (r *rentalRepository) End(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE rentals SET is_active = FALSE WHERE id = $1 AND is_active`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM rentals WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.ErrRentalNotFound
	}
	return domain.ErrAlreadyEnded
}

func (r *rentalRepository) UpdateOverdue(ctx context.Context, id uuid.UUID, isOverdue bool, overdueDays int) error {
	query := `UPDATE rentals SET is_overdue = $2, overdue_days = $3 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, isOverdue, overdueDays)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRentalNotFound
	}
	return nil
}
