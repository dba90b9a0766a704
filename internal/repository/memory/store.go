package memory

import (
	"context"
	"sync"

	"github.com/frontandrew/fleet/internal/domain"
	"github.com/frontandrew/fleet/internal/repository"
	"github.com/google/uuid"
)

// data - содержимое хранилища. Сущности хранятся по значению, наружу отдаются копии.
type data struct {
	cars     map[uuid.UUID]domain.Car
	renters  map[uuid.UUID]domain.Renter
	rentals  map[uuid.UUID]domain.Rental
	payments []domain.Payment
	fines    []domain.Fine
	expenses []domain.Expense
}

func newData() *data {
	return &data{
		cars:    make(map[uuid.UUID]domain.Car),
		renters: make(map[uuid.UUID]domain.Renter),
		rentals: make(map[uuid.UUID]domain.Rental),
	}
}

// clone делает снимок для отката транзакции
func (d *data) clone() *data {
	c := &data{
		cars:     make(map[uuid.UUID]domain.Car, len(d.cars)),
		renters:  make(map[uuid.UUID]domain.Renter, len(d.renters)),
		rentals:  make(map[uuid.UUID]domain.Rental, len(d.rentals)),
		payments: append([]domain.Payment(nil), d.payments...),
		fines:    append([]domain.Fine(nil), d.fines...),
		expenses: append([]domain.Expense(nil), d.expenses...),
	}
	for k, v := range d.cars {
		c.cars[k] = v
	}
	for k, v := range d.renters {
		c.renters[k] = v
	}
	for k, v := range d.rentals {
		c.rentals[k] = v
	}
	return c
}

type state struct {
	mu   sync.Mutex
	data *data
}

// Store - хранилище в памяти для тестов и DB_DRIVER=memory.
// Все операции сериализуются одним мьютексом; транзакция держит его целиком.
type Store struct {
	state *state
	inTx  bool
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{state: &state{data: newData()}}
}

// lock захватывает хранилище, если вызов не внутри транзакции
func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.state.mu.Lock()
	return s.state.mu.Unlock
}

func (s *Store) Cars() repository.CarRepository         { return &carRepository{s: s} }
func (s *Store) Renters() repository.RenterRepository   { return &renterRepository{s: s} }
func (s *Store) Rentals() repository.RentalRepository   { return &rentalRepository{s: s} }
func (s *Store) Payments() repository.PaymentRepository { return &paymentRepository{s: s} }
func (s *Store) Fines() repository.FineRepository       { return &fineRepository{s: s} }
func (s *Store) Expenses() repository.ExpenseRepository { return &expenseRepository{s: s} }

// WithinTx выполняет fn под мьютексом хранилища; при ошибке данные восстанавливаются из снимка
func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.state.mu.Lock()
	snapshot := s.state.data.clone()
	committed := false
	defer func() {
		if !committed {
			s.state.data = snapshot
		}
		s.state.mu.Unlock()
	}()

	if err := fn(&Store{state: s.state, inTx: true}); err != nil {
		return err
	}
	committed = true
	return nil
}
