package repository

import (
	"context"
	"time"

	"github.com/frontandrew/fleet/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CarFilter - фильтр списка автомобилей
type CarFilter struct {
	Status *domain.CarStatus
	Limit  int // 0 - без ограничения
	Offset int
}

// RentalFilter - фильтр списка договоров
type RentalFilter struct {
	ActiveOnly bool
	CarID      *uuid.UUID
	RenterID   *uuid.UUID
}

// CarRepository определяет методы для работы с автомобилями
type CarRepository interface {
	// Create создает автомобиль. Дубликат VIN или номера - ErrDuplicateVIN / ErrDuplicateLicensePlate
	Create(ctx context.Context, car *domain.Car) error

	// GetByID возвращает автомобиль по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Car, error)

	// List возвращает автомобили, отсортированные по дате создания
	List(ctx context.Context, filter CarFilter) ([]*domain.Car, error)

	// CountByStatus возвращает количество автомобилей в каждом статусе
	CountByStatus(ctx context.Context) (map[domain.CarStatus]int, error)

	// CompareAndSetStatus переводит автомобиль из from в to одной операцией.
	// Если текущий статус отличается от from - ErrNotAvailable.
	CompareAndSetStatus(ctx context.Context, id uuid.UUID, from, to domain.CarStatus) error

	// SetStatus устанавливает статус безусловно
	SetStatus(ctx context.Context, id uuid.UUID, status domain.CarStatus) error
}

// RenterRepository определяет методы для работы с арендаторами
type RenterRepository interface {
	// Create создает арендатора. Дубликат телефона - ErrDuplicatePhone
	Create(ctx context.Context, renter *domain.Renter) error

	// GetByID возвращает арендатора по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Renter, error)

	// GetByPhone возвращает арендатора по нормализованному телефону
	GetByPhone(ctx context.Context, phone string) (*domain.Renter, error)

	// List возвращает арендаторов, новые первыми
	List(ctx context.Context, limit, offset int) ([]*domain.Renter, error)
}

// RentalRepository определяет методы для работы с договорами аренды
type RentalRepository interface {
	// Create создает договор. Второй активный договор на автомобиль - ErrNotAvailable
	Create(ctx context.Context, rental *domain.Rental) error

	// GetByID возвращает договор по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Rental, error)

	// GetActiveByCar возвращает активный договор автомобиля
	GetActiveByCar(ctx context.Context, carID uuid.UUID) (*domain.Rental, error)

	// List возвращает договоры, новые первыми
	List(ctx context.Context, filter RentalFilter) ([]*domain.Rental, error)

	// AddPaid увеличивает paid_amount на amount
	AddPaid(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error

	// End снимает флаг активности. Уже завершенный договор - ErrAlreadyEnded
	End(ctx context.Context, id uuid.UUID) error

	// UpdateOverdue записывает результат пересчета просрочки
	UpdateOverdue(ctx context.Context, id uuid.UUID, isOverdue bool, overdueDays int) error
}

// PaymentRepository определяет методы для работы с платежами
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error

	// ListByRental возвращает платежи договора в хронологическом порядке
	ListByRental(ctx context.Context, rentalID uuid.UUID) ([]*domain.Payment, error)

	// SumByCar возвращает сумму платежей по всем договорам автомобиля
	SumByCar(ctx context.Context, carID uuid.UUID) (decimal.Decimal, error)

	// SumInPeriod возвращает сумму платежей с датой в [from, to)
	SumInPeriod(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
}

// FineRepository определяет методы для работы со штрафами
type FineRepository interface {
	Create(ctx context.Context, fine *domain.Fine) error

	// ListByRental возвращает штрафы договора в хронологическом порядке
	ListByRental(ctx context.Context, rentalID uuid.UUID) ([]*domain.Fine, error)
}

// ExpenseRepository определяет методы для работы с расходами
type ExpenseRepository interface {
	Create(ctx context.Context, expense *domain.Expense) error

	// ListByCar возвращает расходы автомобиля, новые первыми
	ListByCar(ctx context.Context, carID uuid.UUID) ([]*domain.Expense, error)

	// ListInPeriod возвращает расходы с датой в [from, to), новые первыми
	ListInPeriod(ctx context.Context, from, to time.Time) ([]*domain.Expense, error)

	// SumByCar возвращает сумму расходов автомобиля
	SumByCar(ctx context.Context, carID uuid.UUID) (decimal.Decimal, error)

	// SumInPeriod возвращает сумму расходов с датой в [from, to)
	SumInPeriod(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
}

// Store - хранилище сущностей и единица работы.
// Репозитории, полученные от Store внутри WithinTx, работают в одной транзакции:
// либо фиксируются все изменения, либо ни одного.
type Store interface {
	Cars() CarRepository
	Renters() RenterRepository
	Rentals() RentalRepository
	Payments() PaymentRepository
	Fines() FineRepository
	Expenses() ExpenseRepository

	// WithinTx выполняет fn в транзакции. Ошибка fn откатывает транзакцию.
	// Вложенный вызов выполняется в уже открытой транзакции.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}
