package http

import (
	"context"
	"time"

	"github.com/frontandrew/fleet/internal/domain"
	"github.com/frontandrew/fleet/internal/usecase/auth"
	"github.com/frontandrew/fleet/internal/usecase/fleet"
	"github.com/frontandrew/fleet/internal/usecase/renter"
	"github.com/frontandrew/fleet/internal/usecase/rental"
	"github.com/frontandrew/fleet/internal/usecase/report"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockAuthService - мок для auth service
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, req *auth.LoginRequest) (*auth.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.LoginResponse), args.Error(1)
}

// MockFleetService - мок для fleet service
type MockFleetService struct {
	mock.Mock
}

func (m *MockFleetService) CreateCar(ctx context.Context, req *fleet.CreateCarRequest) (*domain.Car, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Car), args.Error(1)
}

func (m *MockFleetService) GetCarDetails(ctx context.Context, id uuid.UUID) (*fleet.CarDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fleet.CarDetails), args.Error(1)
}

func (m *MockFleetService) ListCars(ctx context.Context, status string, limit, offset int) ([]*domain.Car, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Car), args.Error(1)
}

func (m *MockFleetService) ListAvailable(ctx context.Context) ([]*domain.Car, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Car), args.Error(1)
}

func (m *MockFleetService) CarHistory(ctx context.Context, carID uuid.UUID) ([]*fleet.HistoryItem, error) {
	args := m.Called(ctx, carID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*fleet.HistoryItem), args.Error(1)
}

func (m *MockFleetService) SetMaintenance(ctx context.Context, carID uuid.UUID, enabled bool) (*domain.Car, error) {
	args := m.Called(ctx, carID, enabled)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Car), args.Error(1)
}

func (m *MockFleetService) AddExpense(ctx context.Context, req *fleet.AddExpenseRequest) (*domain.Expense, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockFleetService) ListExpenses(ctx context.Context, carID uuid.UUID) ([]*domain.Expense, error) {
	args := m.Called(ctx, carID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Expense), args.Error(1)
}

// MockRenterService - мок для renter service
type MockRenterService struct {
	mock.Mock
}

func (m *MockRenterService) CreateRenter(ctx context.Context, req *renter.CreateRenterRequest) (*domain.Renter, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Renter), args.Error(1)
}

func (m *MockRenterService) GetRenter(ctx context.Context, id uuid.UUID) (*domain.Renter, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Renter), args.Error(1)
}

func (m *MockRenterService) FindByPhone(ctx context.Context, phone string) (*domain.Renter, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Renter), args.Error(1)
}

func (m *MockRenterService) ListRenters(ctx context.Context, limit, offset int) ([]*renter.Summary, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*renter.Summary), args.Error(1)
}

// MockRentalService - мок для rental service
type MockRentalService struct {
	mock.Mock
}

func (m *MockRentalService) CreateRental(ctx context.Context, req *rental.CreateRentalRequest) (*domain.Rental, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}

func (m *MockRentalService) GetRentalDetails(ctx context.Context, id uuid.UUID) (*rental.Details, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rental.Details), args.Error(1)
}

func (m *MockRentalService) ListRentals(ctx context.Context, activeOnly bool) ([]*domain.Rental, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Rental), args.Error(1)
}

func (m *MockRentalService) EndRental(ctx context.Context, id uuid.UUID) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}

func (m *MockRentalService) RecordPayment(ctx context.Context, req *rental.RecordPaymentRequest) (*domain.Payment, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockRentalService) RecordFine(ctx context.Context, req *rental.RecordFineRequest) (*domain.Fine, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fine), args.Error(1)
}

func (m *MockRentalService) SweepOverdueNow(ctx context.Context) ([]*domain.Rental, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Rental), args.Error(1)
}

// MockReportService - мок для report service
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) CarProfitability(ctx context.Context, carID uuid.UUID) (*report.Profitability, error) {
	args := m.Called(ctx, carID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Profitability), args.Error(1)
}

func (m *MockReportService) FleetProfitability(ctx context.Context) (*report.FleetProfitability, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.FleetProfitability), args.Error(1)
}

func (m *MockReportService) MonthlySummary(ctx context.Context, year int, month time.Month) (*report.MonthSummary, error) {
	args := m.Called(ctx, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.MonthSummary), args.Error(1)
}

func (m *MockReportService) FleetFinancialReport(ctx context.Context, asOf time.Time) (*report.FleetReport, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.FleetReport), args.Error(1)
}

func (m *MockReportService) FinancialHistory(ctx context.Context, months int) (*report.FinancialHistory, error) {
	args := m.Called(ctx, months)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.FinancialHistory), args.Error(1)
}

func (m *MockReportService) Dashboard(ctx context.Context) (*report.Dashboard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Dashboard), args.Error(1)
}
