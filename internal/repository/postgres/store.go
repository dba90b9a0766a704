package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/frontandrew/fleet/internal/domain"
	"github.com/frontandrew/fleet/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// Ограничения уникальности из schema.sql и соответствующие доменные ошибки
var constraintErrors = map[string]error{
	"cars_vin_key":               domain.ErrDuplicateVIN,
	"cars_license_plate_key":     domain.ErrDuplicateLicensePlate,
	"renters_phone_key":          domain.ErrDuplicatePhone,
	"rentals_one_active_per_car": domain.ErrNotAvailable,
}

// querier - общее подмножество pgxpool.Pool и pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store - хранилище на PostgreSQL
type Store struct {
	pool *pgxpool.Pool
	db   querier
	inTx bool
}

// NewStore создает хранилище поверх пула подключений
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, db: pool}
}

func (s *Store) Cars() repository.CarRepository         { return &carRepository{db: s.db} }
func (s *Store) Renters() repository.RenterRepository   { return &renterRepository{db: s.db} }
func (s *Store) Rentals() repository.RentalRepository   { return &rentalRepository{db: s.db} }
func (s *Store) Payments() repository.PaymentRepository { return &paymentRepository{db: s.db} }
func (s *Store) Fines() repository.FineRepository       { return &fineRepository{db: s.db} }
func (s *Store) Expenses() repository.ExpenseRepository { return &expenseRepository{db: s.db} }

// WithinTx выполняет fn в транзакции pgx. Ошибка fn откатывает транзакцию.
func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(&Store{pool: s.pool, db: tx, inTx: true})
	})
}

// mapError преобразует ошибки PostgreSQL в доменные
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		if mapped, ok := constraintErrors[pgErr.ConstraintName]; ok {
			return mapped
		}
		return fmt.Errorf("%w: %s", domain.ErrDuplicateKey, pgErr.ConstraintName)
	}
	return err
}

// notFound возвращает notFoundErr для pgx.ErrNoRows, иначе исходную ошибку
func notFound(err, notFoundErr error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return notFoundErr
	}
	return err
}
