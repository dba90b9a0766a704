package rental

import (
	"context"
	"fmt"
	"time"

	"github.com/frontandrew/fleet/internal/domain"
	"github.com/frontandrew/fleet/internal/pkg/clock"
	"github.com/frontandrew/fleet/internal/pkg/logger"
	"github.com/frontandrew/fleet/internal/repository"
	"github.com/frontandrew/fleet/internal/usecase/fleet"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateRentalRequest - запрос на заключение договора аренды
type CreateRentalRequest struct {
	CarID      uuid.UUID       `json:"car_id"`
	RenterID   uuid.UUID       `json:"renter_id"`
	RentalType string          `json:"rental_type"`
	StartDate  time.Time       `json:"start_date"`
	EndDate    time.Time       `json:"end_date"`
	Deposit    decimal.Decimal `json:"deposit"`
	Notes      string          `json:"contract_notes,omitempty"`
}

// RecordPaymentRequest - запрос на регистрацию платежа
type RecordPaymentRequest struct {
	RentalID    uuid.UUID       `json:"-"`
	Amount      decimal.Decimal `json:"amount"`
	Notes       string          `json:"notes,omitempty"`
	PaymentDate *time.Time      `json:"payment_date,omitempty"` // По умолчанию - текущее время
}

// RecordFineRequest - запрос на регистрацию штрафа
type RecordFineRequest struct {
	RentalID uuid.UUID       `json:"-"`
	Amount   decimal.Decimal `json:"amount"`
	Reason   string          `json:"reason"`
	FineDate *time.Time      `json:"fine_date,omitempty"`
}

// Details - договор со связанными сущностями и остатками
type Details struct {
	Rental     *domain.Rental    `json:"rental"`
	Car        *domain.Car       `json:"car"`
	Renter     *domain.Renter    `json:"renter"`
	Payments   []*domain.Payment `json:"payments"`
	Fines      []*domain.Fine    `json:"fines"`
	Remaining  decimal.Decimal   `json:"remaining"`
	FinesTotal decimal.Decimal   `json:"fines_total"`
}

// Service - журнал договоров аренды: создание, платежи, штрафы, завершение и просрочки
type Service struct {
	store  repository.Store
	clock  clock.Clock
	logger logger.Logger
}

// NewService создает новый экземпляр rental.Service
func NewService(store repository.Store, clk clock.Clock, logger logger.Logger) *Service {
	return &Service{
		store:  store,
		clock:  clk,
		logger: logger,
	}
}

// CreateRental заключает договор и переводит автомобиль в Rented.
// Резервирование автомобиля и запись договора фиксируются одной транзакцией.
func (s *Service) CreateRental(ctx context.Context, req *CreateRentalRequest) (*domain.Rental, error) {
	s.logger.Info("Creating rental", map[string]interface{}{
		"car_id":    req.CarID,
		"renter_id": req.RenterID,
	})

	rentalType, err := domain.ParseRentalType(req.RentalType)
	if err != nil {
		return nil, err
	}

	var rental *domain.Rental
	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		car, err := tx.Cars().GetByID(ctx, req.CarID)
		if err != nil {
			return err
		}
		if _, err := tx.Renters().GetByID(ctx, req.RenterID); err != nil {
			return err
		}
		if !car.IsAvailable() {
			return domain.ErrNotAvailable
		}

		rental, err = domain.NewRental(car, req.RenterID, rentalType, req.StartDate, req.EndDate, req.Deposit, req.Notes)
		if err != nil {
			return err
		}
		rental.CreatedAt = s.clock.Now()

		// Сравнение со статусом выполняется атомарно: из двух параллельных
		// резервирований успешным будет только одно
		if err := fleet.Reserve(ctx, tx.Cars(), car.ID); err != nil {
			return err
		}
		return tx.Rentals().Create(ctx, rental)
	})
	if err != nil {
		s.logger.Warn("Failed to create rental", map[string]interface{}{
			"car_id": req.CarID,
			"error":  err.Error(),
		})
		return nil, fmt.Errorf("failed to create rental: %w", err)
	}

	s.logger.Info("Rental created", map[string]interface{}{
		"rental_id":    rental.ID,
		"car_id":       rental.CarID,
		"total_amount": rental.TotalAmount.String(),
	})

	return rental, nil
}

// RecordPayment записывает платеж и увеличивает paid_amount договора одной транзакцией.
// Переплата допускается и отражается отрицательным остатком.
func (s *Service) RecordPayment(ctx context.Context, req *RecordPaymentRequest) (*domain.Payment, error) {
	payment := &domain.Payment{
		RentalID:    req.RentalID,
		Amount:      req.Amount,
		Notes:       req.Notes,
		PaymentDate: s.clock.Now(),
	}
	if req.PaymentDate != nil {
		payment.PaymentDate = *req.PaymentDate
	}

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Rentals().GetByID(ctx, req.RentalID); err != nil {
			return err
		}
		if err := payment.Validate(); err != nil {
			return err
		}
		if err := tx.Payments().Create(ctx, payment); err != nil {
			return err
		}
		return tx.Rentals().AddPaid(ctx, payment.RentalID, payment.Amount)
	})
	if err != nil {
		s.logger.Warn("Failed to record payment", map[string]interface{}{
			"rental_id": req.RentalID,
			"error":     err.Error(),
		})
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	s.logger.Info("Payment recorded", map[string]interface{}{
		"rental_id":  payment.RentalID,
		"payment_id": payment.ID,
		"amount":     payment.Amount.String(),
	})

	return payment, nil
}

// RecordFine записывает штраф. Суммы договора и статус автомобиля не меняются.
func (s *Service) RecordFine(ctx context.Context, req *RecordFineRequest) (*domain.Fine, error) {
	fine := &domain.Fine{
		RentalID: req.RentalID,
		Amount:   req.Amount,
		Reason:   req.Reason,
		FineDate: s.clock.Now(),
	}
	if req.FineDate != nil {
		fine.FineDate = *req.FineDate
	}

	if err := fine.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.store.Rentals().GetByID(ctx, req.RentalID); err != nil {
		return nil, err
	}

	if err := s.store.Fines().Create(ctx, fine); err != nil {
		return nil, fmt.Errorf("failed to record fine: %w", err)
	}

	s.logger.Info("Fine recorded", map[string]interface{}{
		"rental_id": fine.RentalID,
		"fine_id":   fine.ID,
		"amount":    fine.Amount.String(),
	})

	return fine, nil
}

// EndRental завершает договор и освобождает автомобиль одной транзакцией.
// Повторное завершение - ErrAlreadyEnded.
func (s *Service) EndRental(ctx context.Context, id uuid.UUID) (*domain.Rental, error) {
	var rental *domain.Rental
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if err := tx.Rentals().End(ctx, id); err != nil {
			return err
		}

		var err error
		rental, err = tx.Rentals().GetByID(ctx, id)
		if err != nil {
			return err
		}
		return fleet.Release(ctx, tx.Cars(), rental.CarID)
	})
	if err != nil {
		s.logger.Warn("Failed to end rental", map[string]interface{}{
			"rental_id": id,
			"error":     err.Error(),
		})
		return nil, fmt.Errorf("failed to end rental: %w", err)
	}

	s.logger.Info("Rental ended", map[string]interface{}{
		"rental_id": rental.ID,
		"car_id":    rental.CarID,
		"remaining": rental.Remaining().String(),
	})

	return rental, nil
}

// SweepOverdue пересчитывает просрочку всех активных договоров на дату asOf
// и возвращает просроченные. Повторный вызов с той же датой ничего не меняет.
// Поля просрочки актуальны только на момент последнего вызова.
func (s *Service) SweepOverdue(ctx context.Context, asOf time.Time) ([]*domain.Rental, error) {
	var overdue []*domain.Rental
	updated := 0

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		active, err := tx.Rentals().List(ctx, repository.RentalFilter{ActiveOnly: true})
		if err != nil {
			return err
		}

		overdue = make([]*domain.Rental, 0)
		for _, rental := range active {
			if rental.ApplyOverdue(asOf) {
				if err := tx.Rentals().UpdateOverdue(ctx, rental.ID, rental.IsOverdue, rental.OverdueDays); err != nil {
					return err
				}
				updated++
			}
			if rental.IsOverdue {
				overdue = append(overdue, rental)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Overdue sweep failed", map[string]interface{}{
			"as_of": asOf.Format(time.DateOnly),
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to sweep overdue rentals: %w", err)
	}

	s.logger.Info("Overdue sweep completed", map[string]interface{}{
		"as_of":   asOf.Format(time.DateOnly),
		"overdue": len(overdue),
		"updated": updated,
	})

	return overdue, nil
}

// SweepOverdueNow выполняет проход по просрочкам на текущую дату часов
func (s *Service) SweepOverdueNow(ctx context.Context) ([]*domain.Rental, error) {
	return s.SweepOverdue(ctx, s.clock.Now())
}

// GetRental возвращает договор по ID
func (s *Service) GetRental(ctx context.Context, id uuid.UUID) (*domain.Rental, error) {
	return s.store.Rentals().GetByID(ctx, id)
}

// GetRentalDetails возвращает договор с автомобилем, арендатором, платежами и штрафами
func (s *Service) GetRentalDetails(ctx context.Context, id uuid.UUID) (*Details, error) {
	rental, err := s.store.Rentals().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	car, err := s.store.Cars().GetByID(ctx, rental.CarID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rental car: %w", err)
	}
	renter, err := s.store.Renters().GetByID(ctx, rental.RenterID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rental renter: %w", err)
	}
	payments, err := s.store.Payments().ListByRental(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	fines, err := s.store.Fines().ListByRental(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list fines: %w", err)
	}

	return &Details{
		Rental:     rental,
		Car:        car,
		Renter:     renter,
		Payments:   payments,
		Fines:      fines,
		Remaining:  rental.Remaining(),
		FinesTotal: domain.SumFines(fines),
	}, nil
}

// ListRentals возвращает все договоры или только активные
func (s *Service) ListRentals(ctx context.Context, activeOnly bool) ([]*domain.Rental, error) {
	return s.store.Rentals().List(ctx, repository.RentalFilter{ActiveOnly: activeOnly})
}

// ListPayments возвращает платежи договора
func (s *Service) ListPayments(ctx context.Context, rentalID uuid.UUID) ([]*domain.Payment, error) {
	if _, err := s.store.Rentals().GetByID(ctx, rentalID); err != nil {
		return nil, err
	}
	return s.store.Payments().ListByRental(ctx, rentalID)
}

// ListFines возвращает штрафы договора
func (s *Service) ListFines(ctx context.Context, rentalID uuid.UUID) ([]*domain.Fine, error) {
	if _, err := s.store.Rentals().GetByID(ctx, rentalID); err != nil {
		return nil, err
	}
	return s.store.Fines().ListByRental(ctx, rentalID)
}
