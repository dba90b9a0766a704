package memory

import (
	"context"
	"sort"

	"github.com/frontandrew/fleet/internal/domain"
	"github.com/frontandrew/fleet/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type rentalRepository struct {
	s *Store
}

func (r *rentalRepository) Create(ctx context.Context, rental *domain.Rental) error {
	defer r.s.lock()()
	d := r.s.state.data

	if _, ok := d.cars[rental.CarID]; !ok {
		return domain.ErrCarNotFound
	}
	if _, ok := d.renters[rental.RenterID]; !ok {
		return domain.ErrRenterNotFound
	}
	// Аналог частичного уникального индекса rentals(car_id) WHERE is_active
	if rental.IsActive {
		for _, existing := range d.rentals {
			if existing.IsActive && existing.CarID == rental.CarID {
				return domain.ErrNotAvailable
			}
		}
	}

	if rental.ID == uuid.Nil {
		rental.ID = uuid.New()
	}
	d.rentals[rental.ID] = *rental
	return nil
}

func (r *rentalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Rental, error) {
	defer r.s.lock()()

	rental, ok := r.s.state.data.rentals[id]
	if !ok {
		return nil, domain.ErrRentalNotFound
	}
	return &rental, nil
}

func (r *rentalRepository) GetActiveByCar(ctx context.Context, carID uuid.UUID) (*domain.Rental, error) {
	defer r.s.lock()()

	for _, rental := range r.s.state.data.rentals {
		if rental.IsActive && rental.CarID == carID {
			found := rental
			return &found, nil
		}
	}
	return nil, domain.ErrRentalNotFound
}

func (r *rentalRepository) List(ctx context.Context, filter repository.RentalFilter) ([]*domain.Rental, error) {
	defer r.s.lock()()

	rentals := make([]*domain.Rental, 0)
	for _, rental := range r.s.state.data.rentals {
		if filter.ActiveOnly && !rental.IsActive {
			continue
		}
		if filter.CarID != nil && rental.CarID != *filter.CarID {
			continue
		}
		if filter.RenterID != nil && rental.RenterID != *filter.RenterID {
			continue
		}
		rr := rental
		rentals = append(rentals, &rr)
	}
	sort.Slice(rentals, func(i, j int) bool {
		if !rentals[i].StartDate.Equal(rentals[j].StartDate) {
			return rentals[i].StartDate.After(rentals[j].StartDate)
		}
		return rentals[i].CreatedAt.After(rentals[j].CreatedAt)
	})
	return rentals, nil
}

func (r *rentalRepository) AddPaid(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	defer r.s.lock()()

	rental, ok := r.s.state.data.rentals[id]
	if !ok {
		return domain.ErrRentalNotFound
	}
	rental.PaidAmount = rental.PaidAmount.Add(amount)
	r.s.state.data.rentals[id] = rental
	return nil
}

func (r *rentalRepository) End(ctx context.Context, id uuid.UUID) error {
	defer r.s.lock()()

	rental, ok := r.s.state.data.rentals[id]
	if !ok {
		return domain.ErrRentalNotFound
	}
	if !rental.IsActive {
		return domain.ErrAlreadyEnded
	}
	rental.IsActive = false
	r.s.state.data.rentals[id] = rental
	return nil
}

func (r *rentalRepository) UpdateOverdue(ctx context.Context, id uuid.UUID, isOverdue bool, overdueDays int) error {
	defer r.s.lock()()

	rental, ok := r.s.state.data.rentals[id]
	if !ok {
		return domain.ErrRentalNotFound
	}
	rental.IsOverdue = isOverdue
	rental.OverdueDays = overdueDays
	r.s.state.data.rentals[id] = rental
	return nil
}
