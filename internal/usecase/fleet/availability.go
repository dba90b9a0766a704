package fleet

import (
	"context"
	"errors"

	"github.com/frontandrew/fleet/internal/domain"
	"github.com/frontandrew/fleet/internal/repository"
	"github.com/google/uuid"
)

// Конечный автомат доступности автомобиля.
// Функции принимают репозиторий, чтобы вызывающая сторона могла выполнить переход
// в своей транзакции вместе с записью договора.

// Reserve переводит автомобиль Available -> Rented.
// Если автомобиль не свободен - ErrNotAvailable, если не найден - ErrCarNotFound.
func Reserve(ctx context.Context, cars repository.CarRepository, carID uuid.UUID) error {
	return cars.CompareAndSetStatus(ctx, carID, domain.CarStatusAvailable, domain.CarStatusRented)
}

// Release возвращает автомобиль в Available безусловно.
// Повторный вызов для свободного автомобиля не является ошибкой.
func Release(ctx context.Context, cars repository.CarRepository, carID uuid.UUID) error {
	return cars.SetStatus(ctx, carID, domain.CarStatusAvailable)
}

// SetMaintenance переключает Available <-> Maintenance.
// Арендованный автомобиль на обслуживание не переводится.
func SetMaintenance(ctx context.Context, cars repository.CarRepository, carID uuid.UUID, enabled bool) error {
	from, to := domain.CarStatusMaintenance, domain.CarStatusAvailable
	if enabled {
		from, to = domain.CarStatusAvailable, domain.CarStatusMaintenance
	}

	err := cars.CompareAndSetStatus(ctx, carID, from, to)
	if errors.Is(err, domain.ErrNotAvailable) {
		car, getErr := cars.GetByID(ctx, carID)
		if getErr != nil {
			return getErr
		}
		// Уже в нужном состоянии
		if car.Status == to {
			return nil
		}
		return domain.ErrInvalidStatusTransition
	}
	return err
}
