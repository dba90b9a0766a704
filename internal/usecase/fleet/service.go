package fleet

import (
	"context"
	"fmt"
	"time"

	"github.com/frontandrew/fleet/internal/domain"
	"github.com/frontandrew/fleet/internal/pkg/clock"
	"github.com/frontandrew/fleet/internal/pkg/logger"
	"github.com/frontandrew/fleet/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCarRequest - запрос на добавление автомобиля в автопарк
type CreateCarRequest struct {
	Brand        string          `json:"brand"`
	Model        string          `json:"model"`
	VIN          string          `json:"vin"`
	LicensePlate string          `json:"license_plate"`
	DailyRate    decimal.Decimal `json:"daily_rate"`
	PhotoPath    string          `json:"photo_path,omitempty"`
}

// AddExpenseRequest - запрос на добавление расхода по автомобилю
type AddExpenseRequest struct {
	CarID       uuid.UUID       `json:"-"`
	ExpenseType string          `json:"expense_type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	ExpenseDate *time.Time      `json:"expense_date,omitempty"` // По умолчанию - текущее время
}

// CarDetails - автомобиль с финансовыми итогами
type CarDetails struct {
	*domain.Car
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	RentalCount   int             `json:"rental_count"`
	ActiveRental  *domain.Rental  `json:"active_rental,omitempty"`
}

// HistoryItem - договор из истории автомобиля с данными арендатора
type HistoryItem struct {
	*domain.Rental
	RenterName  string `json:"renter_name"`
	RenterPhone string `json:"renter_phone"`
}

// Service содержит бизнес-логику работы с автопарком
type Service struct {
	store  repository.Store
	clock  clock.Clock
	logger logger.Logger
}

// NewService создает новый экземпляр fleet.Service
func NewService(store repository.Store, clk clock.Clock, logger logger.Logger) *Service {
	return &Service{
		store:  store,
		clock:  clk,
		logger: logger,
	}
}

// CreateCar добавляет автомобиль в статусе Available
func (s *Service) CreateCar(ctx context.Context, req *CreateCarRequest) (*domain.Car, error) {
	s.logger.Info("Creating new car", map[string]interface{}{
		"license_plate": req.LicensePlate,
		"vin":           req.VIN,
	})

	car := &domain.Car{
		Brand:        req.Brand,
		Model:        req.Model,
		VIN:          req.VIN,
		LicensePlate: req.LicensePlate,
		DailyRate:    req.DailyRate,
		Status:       domain.CarStatusAvailable,
		PhotoPath:    req.PhotoPath,
		CreatedAt:    s.clock.Now(),
	}

	if err := car.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.Cars().Create(ctx, car); err != nil {
		s.logger.Warn("Failed to create car", map[string]interface{}{
			"license_plate": car.LicensePlate,
			"error":         err.Error(),
		})
		return nil, fmt.Errorf("failed to create car: %w", err)
	}

	s.logger.Info("Car created successfully", map[string]interface{}{
		"car_id": car.ID,
	})

	return car, nil
}

// GetCar возвращает автомобиль
func (s *Service) GetCar(ctx context.Context, id uuid.UUID) (*domain.Car, error) {
	return s.store.Cars().GetByID(ctx, id)
}

// GetCarDetails возвращает автомобиль с доходами, расходами и количеством договоров
func (s *Service) GetCarDetails(ctx context.Context, id uuid.UUID) (*CarDetails, error) {
	car, err := s.store.Cars().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	income, err := s.store.Payments().SumByCar(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to sum car income: %w", err)
	}
	expenses, err := s.store.Expenses().SumByCar(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to sum car expenses: %w", err)
	}
	rentals, err := s.store.Rentals().List(ctx, repository.RentalFilter{CarID: &id})
	if err != nil {
		return nil, fmt.Errorf("failed to list car rentals: %w", err)
	}

	details := &CarDetails{
		Car:           car,
		TotalIncome:   income,
		TotalExpenses: expenses,
		RentalCount:   len(rentals),
	}
	for _, r := range rentals {
		if r.IsActive {
			details.ActiveRental = r
			break
		}
	}

	return details, nil
}

// ListCars возвращает автомобили с необязательным фильтром по статусу
func (s *Service) ListCars(ctx context.Context, status string, limit, offset int) ([]*domain.Car, error) {
	filter := repository.CarFilter{Limit: limit, Offset: offset}
	if status != "" {
		st, err := domain.ParseCarStatus(status)
		if err != nil {
			return nil, err
		}
		filter.Status = &st
	}
	return s.store.Cars().List(ctx, filter)
}

// ListAvailable возвращает свободные автомобили
func (s *Service) ListAvailable(ctx context.Context) ([]*domain.Car, error) {
	status := domain.CarStatusAvailable
	return s.store.Cars().List(ctx, repository.CarFilter{Status: &status})
}

// CarHistory возвращает историю аренд автомобиля, новые первыми
func (s *Service) CarHistory(ctx context.Context, carID uuid.UUID) ([]*HistoryItem, error) {
	if _, err := s.store.Cars().GetByID(ctx, carID); err != nil {
		return nil, err
	}

	rentals, err := s.store.Rentals().List(ctx, repository.RentalFilter{CarID: &carID})
	if err != nil {
		return nil, fmt.Errorf("failed to list car rentals: %w", err)
	}

	renters := make(map[uuid.UUID]*domain.Renter)
	history := make([]*HistoryItem, 0, len(rentals))
	for _, rental := range rentals {
		renter, ok := renters[rental.RenterID]
		if !ok {
			renter, err = s.store.Renters().GetByID(ctx, rental.RenterID)
			if err != nil {
				return nil, fmt.Errorf("failed to get renter: %w", err)
			}
			renters[rental.RenterID] = renter
		}
		history = append(history, &HistoryItem{
			Rental:      rental,
			RenterName:  renter.Name,
			RenterPhone: renter.Phone,
		})
	}

	return history, nil
}

// SetMaintenance включает или выключает режим обслуживания
func (s *Service) SetMaintenance(ctx context.Context, carID uuid.UUID, enabled bool) (*domain.Car, error) {
	s.logger.Info("Switching car maintenance", map[string]interface{}{
		"car_id":  carID,
		"enabled": enabled,
	})

	if err := SetMaintenance(ctx, s.store.Cars(), carID, enabled); err != nil {
		s.logger.Warn("Failed to switch maintenance", map[string]interface{}{
			"car_id": carID,
			"error":  err.Error(),
		})
		return nil, err
	}

	return s.store.Cars().GetByID(ctx, carID)
}

// AddExpense записывает расход по автомобилю
func (s *Service) AddExpense(ctx context.Context, req *AddExpenseRequest) (*domain.Expense, error) {
	expenseType, err := domain.ParseExpenseType(req.ExpenseType)
	if err != nil {
		return nil, err
	}

	expense := &domain.Expense{
		CarID:       req.CarID,
		ExpenseType: expenseType,
		Amount:      req.Amount,
		Description: req.Description,
		ExpenseDate: s.clock.Now(),
	}
	if req.ExpenseDate != nil {
		expense.ExpenseDate = *req.ExpenseDate
	}

	if err := expense.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.store.Cars().GetByID(ctx, req.CarID); err != nil {
		return nil, err
	}

	if err := s.store.Expenses().Create(ctx, expense); err != nil {
		s.logger.Error("Failed to add expense", map[string]interface{}{
			"car_id": req.CarID,
			"error":  err.Error(),
		})
		return nil, fmt.Errorf("failed to add expense: %w", err)
	}

	s.logger.Info("Expense added", map[string]interface{}{
		"car_id":     expense.CarID,
		"expense_id": expense.ID,
		"type":       expense.ExpenseType,
		"amount":     expense.Amount.String(),
	})

	return expense, nil
}

// ListExpenses возвращает расходы автомобиля
func (s *Service) ListExpenses(ctx context.Context, carID uuid.UUID) ([]*domain.Expense, error) {
	if _, err := s.store.Cars().GetByID(ctx, carID); err != nil {
		return nil, err
	}
	return s.store.Expenses().ListByCar(ctx, carID)
}

// ListExpensesInPeriod возвращает расходы всего автопарка за [from, to)
func (s *Service) ListExpensesInPeriod(ctx context.Context, from, to time.Time) ([]*domain.Expense, error) {
	if !to.After(from) {
		return nil, domain.ErrInvalidDateRange
	}
	return s.store.Expenses().ListInPeriod(ctx, from, to)
}
