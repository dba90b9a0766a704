package memory

import (
	"context"
	"sort"

	"github.com/frontandrew/fleet/internal/domain"
	"github.com/google/uuid"
)

type renterRepository struct {
	s *Store
}

func (r *renterRepository) Create(ctx context.Context, renter *domain.Renter) error {
	defer r.s.lock()()
	d := r.s.state.data

	for _, existing := range d.renters {
		if existing.Phone == renter.Phone {
			return domain.ErrDuplicatePhone
		}
	}

	if renter.ID == uuid.Nil {
		renter.ID = uuid.New()
	}
	d.renters[renter.ID] = *renter
	return nil
}

func (r *renterRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Renter, error) {
	defer r.s.lock()()

	renter, ok := r.s.state.data.renters[id]
	if !ok {
		return nil, domain.ErrRenterNotFound
	}
	return &renter, nil
}

func (r *renterRepository) GetByPhone(ctx context.Context, phone string) (*domain.Renter, error) {
	defer r.s.lock()()

	for _, renter := range r.s.state.data.renters {
		if renter.Phone == phone {
			found := renter
			return &found, nil
		}
	}
	return nil, domain.ErrRenterNotFound
}

func (r *renterRepository) List(ctx context.Context, limit, offset int) ([]*domain.Renter, error) {
	defer r.s.lock()()

	renters := make([]*domain.Renter, 0, len(r.s.state.data.renters))
	for _, renter := range r.s.state.data.renters {
		rr := renter
		renters = append(renters, &rr)
	}
	sort.Slice(renters, func(i, j int) bool {
		return renters[i].CreatedAt.After(renters[j].CreatedAt)
	})

	return paginate(renters, limit, offset), nil
}
