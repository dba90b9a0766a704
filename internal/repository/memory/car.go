package memory

import (
	"context"
	"sort"

	"github.com/frontandrew/fleet/internal/domain"
	"github.com/frontandrew/fleet/internal/repository"
	"github.com/google/uuid"
)

type carRepository struct {
	s *Store
}

func (r *carRepository) Create(ctx context.Context, car *domain.Car) error {
	defer r.s.lock()()
	d := r.s.state.data

	for _, existing := range d.cars {
		if existing.VIN == car.VIN {
			return domain.ErrDuplicateVIN
		}
		if existing.LicensePlate == car.LicensePlate {
			return domain.ErrDuplicateLicensePlate
		}
	}

	if car.ID == uuid.Nil {
		car.ID = uuid.New()
	}
	d.cars[car.ID] = *car
	return nil
}

func (r *carRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Car, error) {
	defer r.s.lock()()

	car, ok := r.s.state.data.cars[id]
	if !ok {
		return nil, domain.ErrCarNotFound
	}
	return &car, nil
}

func (r *carRepository) List(ctx context.Context, filter repository.CarFilter) ([]*domain.Car, error) {
	defer r.s.lock()()

	cars := make([]*domain.Car, 0, len(r.s.state.data.cars))
	for _, car := range r.s.state.data.cars {
		if filter.Status != nil && car.Status != *filter.Status {
			continue
		}
		c := car
		cars = append(cars, &c)
	}
	sort.Slice(cars, func(i, j int) bool {
		if cars[i].CreatedAt.Equal(cars[j].CreatedAt) {
			return cars[i].ID.String() < cars[j].ID.String()
		}
		return cars[i].CreatedAt.Before(cars[j].CreatedAt)
	})

	return paginate(cars, filter.Limit, filter.Offset), nil
}

func (r *carRepository) CountByStatus(ctx context.Context) (map[domain.CarStatus]int, error) {
	defer r.s.lock()()

	counts := make(map[domain.CarStatus]int)
	for _, car := range r.s.state.data.cars {
		counts[car.Status]++
	}
	return counts, nil
}

func (r *carRepository) CompareAndSetStatus(ctx context.Context, id uuid.UUID, from, to domain.CarStatus) error {
	defer r.s.lock()()

	car, ok := r.s.state.data.cars[id]
	if !ok {
		return domain.ErrCarNotFound
	}
	if car.Status != from {
		return domain.ErrNotAvailable
	}
	car.Status = to
	r.s.state.data.cars[id] = car
	return nil
}

func (r *carRepository) SetStatus(ctx context.Context, id uuid.UUID, status domain.CarStatus) error {
	defer r.s.lock()()

	car, ok := r.s.state.data.cars[id]
	if !ok {
		return domain.ErrCarNotFound
	}
	car.Status = status
	r.s.state.data.cars[id] = car
	return nil
}

// paginate применяет limit/offset к уже отсортированному списку
func paginate[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return items[:0]
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
