package memory

import (
	"context"
	"sort"
	"time"

	"github.com/frontandrew/fleet/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// inPeriod проверяет попадание в полуоткрытый интервал [from, to)
func inPeriod(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

type paymentRepository struct {
	s *Store
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	defer r.s.lock()()
	d := r.s.state.data

	if _, ok := d.rentals[payment.RentalID]; !ok {
		return domain.ErrRentalNotFound
	}
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	d.payments = append(d.payments, *payment)
	return nil
}

func (r *paymentRepository) ListByRental(ctx context.Context, rentalID uuid.UUID) ([]*domain.Payment, error) {
	defer r.s.lock()()

	payments := make([]*domain.Payment, 0)
	for _, p := range r.s.state.data.payments {
		if p.RentalID == rentalID {
			pp := p
			payments = append(payments, &pp)
		}
	}
	sort.SliceStable(payments, func(i, j int) bool {
		return payments[i].PaymentDate.Before(payments[j].PaymentDate)
	})
	return payments, nil
}

func (r *paymentRepository) SumByCar(ctx context.Context, carID uuid.UUID) (decimal.Decimal, error) {
	defer r.s.lock()()
	d := r.s.state.data

	total := decimal.Zero
	for _, p := range d.payments {
		if rental, ok := d.rentals[p.RentalID]; ok && rental.CarID == carID {
			total = total.Add(p.Amount)
		}
	}
	return total, nil
}

func (r *paymentRepository) SumInPeriod(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	defer r.s.lock()()

	total := decimal.Zero
	for _, p := range r.s.state.data.payments {
		if inPeriod(p.PaymentDate, from, to) {
			total = total.Add(p.Amount)
		}
	}
	return total, nil
}

type fineRepository struct {
	s *Store
}

func (r *fineRepository) Create(ctx context.Context, fine *domain.Fine) error {
	defer r.s.lock()()
	d := r.s.state.data

	if _, ok := d.rentals[fine.RentalID]; !ok {
		return domain.ErrRentalNotFound
	}
	if fine.ID == uuid.Nil {
		fine.ID = uuid.New()
	}
	d.fines = append(d.fines, *fine)
	return nil
}

func (r *fineRepository) ListByRental(ctx context.Context, rentalID uuid.UUID) ([]*domain.Fine, error) {
	defer r.s.lock()()

	fines := make([]*domain.Fine, 0)
	for _, f := range r.s.state.data.fines {
		if f.RentalID == rentalID {
			ff := f
			fines = append(fines, &ff)
		}
	}
	sort.SliceStable(fines, func(i, j int) bool {
		return fines[i].FineDate.Before(fines[j].FineDate)
	})
	return fines, nil
}

type expenseRepository struct {
	s *Store
}

func (r *expenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	defer r.s.lock()()
	d := r.s.state.data

	if _, ok := d.cars[expense.CarID]; !ok {
		return domain.ErrCarNotFound
	}
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	d.expenses = append(d.expenses, *expense)
	return nil
}

func (r *expenseRepository) ListByCar(ctx context.Context, carID uuid.UUID) ([]*domain.Expense, error) {
	return r.list(func(e domain.Expense) bool { return e.CarID == carID })
}

func (r *expenseRepository) ListInPeriod(ctx context.Context, from, to time.Time) ([]*domain.Expense, error) {
	return r.list(func(e domain.Expense) bool { return inPeriod(e.ExpenseDate, from, to) })
}

func (r *expenseRepository) list(match func(domain.Expense) bool) ([]*domain.Expense, error) {
	defer r.s.lock()()

	expenses := make([]*domain.Expense, 0)
	for _, e := range r.s.state.data.expenses {
		if match(e) {
			ee := e
			expenses = append(expenses, &ee)
		}
	}
	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].ExpenseDate.After(expenses[j].ExpenseDate)
	})
	return expenses, nil
}

func (r *expenseRepository) SumByCar(ctx context.Context, carID uuid.UUID) (decimal.Decimal, error) {
	expenses, err := r.ListByCar(ctx, carID)
	if err != nil {
		return decimal.Zero, err
	}
	return domain.SumExpenses(expenses), nil
}

func (r *expenseRepository) SumInPeriod(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	expenses, err := r.ListInPeriod(ctx, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	return domain.SumExpenses(expenses), nil
}
