package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frontandrew/fleet/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// foreignKeyViolation - ссылка на несуществующий договор или автомобиль
const foreignKeyViolation = "23503"

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}

type paymentRepository struct {
	db querier
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (id, rental_id, amount, payment_date, notes)
		VALUES ($1, $2, $3, $4, $5)
	`

	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx, query,
		payment.ID,
		payment.RentalID,
		payment.Amount,
		payment.PaymentDate,
		payment.Notes,
	)
	if isForeignKeyViolation(err) {
		return domain.ErrRentalNotFound
	}
	return err
}

func (r *paymentRepository) ListByRental(ctx context.Context, rentalID uuid.UUID) ([]*domain.Payment, error) {
	query := `
		SELECT id, rental_id, amount, payment_date, notes
		FROM payments
		WHERE rental_id = $1
		ORDER BY payment_date, id
	`

	rows, err := r.db.Query(ctx, query, rentalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]*domain.Payment, 0)
	for rows.Next() {
		p := &domain.Payment{}
		if err := rows.Scan(&p.ID, &p.RentalID, &p.Amount, &p.PaymentDate, &p.Notes); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}

	return payments, rows.Err()
}

func (r *paymentRepository) SumByCar(ctx context.Context, carID uuid.UUID) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(p.amount), 0)
		FROM payments p
		JOIN rentals r ON r.id = p.rental_id
		WHERE r.car_id = $1
	`
	return sum(ctx, r.db, query, carID)
}

func (r *paymentRepository) SumInPeriod(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM payments
		WHERE payment_date >= $1 AND payment_date < $2
	`
	return sum(ctx, r.db, query, from, to)
}

type fineRepository struct {
	db querier
}

func (r *fineRepository) Create(ctx context.Context, fine *domain.Fine) error {
	query := `
		INSERT INTO fines (id, rental_id, amount, reason, fine_date, is_paid)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if fine.ID == uuid.Nil {
		fine.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx, query,
		fine.ID,
		fine.RentalID,
		fine.Amount,
		fine.Reason,
		fine.FineDate,
		fine.IsPaid,
	)
	if isForeignKeyViolation(err) {
		return domain.ErrRentalNotFound
	}
	return err
}

func (r *fineRepository) ListByRental(ctx context.Context, rentalID uuid.UUID) ([]*domain.Fine, error) {
	query := `
		SELECT id, rental_id, amount, reason, fine_date, is_paid
		FROM fines
		WHERE rental_id = $1
		ORDER BY fine_date, id
	`

	rows, err := r.db.Query(ctx, query, rentalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fines := make([]*domain.Fine, 0)
	for rows.Next() {
		f := &domain.Fine{}
		if err := rows.Scan(&f.ID, &f.RentalID, &f.Amount, &f.Reason, &f.FineDate, &f.IsPaid); err != nil {
			return nil, err
		}
		fines = append(fines, f)
	}

	return fines, rows.Err()
}

type expenseRepository struct {
	db querier
}

func (r *expenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	query := `
		INSERT INTO expenses (id, car_id, expense_type, amount, description, expense_date)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx, query,
		expense.ID,
		expense.CarID,
		expense.ExpenseType,
		expense.Amount,
		expense.Description,
		expense.ExpenseDate,
	)
	if isForeignKeyViolation(err) {
		return domain.ErrCarNotFound
	}
	return err
}

func (r *expenseRepository) ListByCar(ctx context.Context, carID uuid.UUID) ([]*domain.Expense, error) {
	query := `
		SELECT id, car_id, expense_type, amount, description, expense_date
		FROM expenses
		WHERE car_id = $1
		ORDER BY expense_date DESC, id
	`
	return r.list(ctx, query, carID)
}

func (r *expenseRepository) ListInPeriod(ctx context.Context, from, to time.Time) ([]*domain.Expense, error) {
	query := `
		SELECT id, car_id, expense_type, amount, description, expense_date
		FROM expenses
		WHERE expense_date >= $1 AND expense_date < $2
		ORDER BY expense_date DESC, id
	`
	return r.list(ctx, query, from, to)
}

func (r *expenseRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Expense, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := make([]*domain.Expense, 0)
	for rows.Next() {
		e := &domain.Expense{}
		if err := rows.Scan(&e.ID, &e.CarID, &e.ExpenseType, &e.Amount, &e.Description, &e.ExpenseDate); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}

	return expenses, rows.Err()
}

func (r *expenseRepository) SumByCar(ctx context.Context, carID uuid.UUID) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE car_id = $1`
	return sum(ctx, r.db, query, carID)
}

func (r *expenseRepository) SumInPeriod(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE expense_date >= $1 AND expense_date < $2
	`
	return sum(ctx, r.db, query, from, to)
}

// sum выполняет агрегирующий запрос, возвращающий одно значение NUMERIC
func sum(ctx context.Context, db querier, query string, args ...any) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
