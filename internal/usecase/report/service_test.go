package report

import (
	"context"
	"testing"
	"time"

	"github.com/frontandrew/fleet/internal/domain"
	"github.com/frontandrew/fleet/internal/pkg/clock"
	"github.com/frontandrew/fleet/internal/pkg/logger"
	"github.com/frontandrew/fleet/internal/repository/memory"
	"github.com/frontandrew/fleet/internal/usecase/rental"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func at(y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, time.UTC)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

type fleetFixture struct {
	ctx     context.Context
	store   *memory.Store
	service *Service
	cars    map[string]*domain.Car
}

func newService(store *memory.Store, clk clock.Clock) *Service {
	log := logger.NewNoop()
	return NewService(store, rental.NewService(store, clk, log), clk, log)
}

func (f *fleetFixture) car(t *testing.T, name, vin, plate string, rate int64) *domain.Car {
	t.Helper()
	car := &domain.Car{
		Brand:        "Hyundai",
		Model:        name,
		VIN:          vin,
		LicensePlate: plate,
		DailyRate:    decimal.NewFromInt(rate),
		Status:       domain.CarStatusAvailable,
		CreatedAt:    now,
	}
	require.NoError(t, f.store.Cars().Create(f.ctx, car))
	f.cars[name] = car
	return car
}

func (f *fleetFixture) rent(t *testing.T, car *domain.Car, renterID uuid.UUID, start, end time.Time) *domain.Rental {
	t.Helper()
	r, err := domain.NewRental(car, renterID, domain.RentalTypeShortTerm, start, end, decimal.Zero, "")
	require.NoError(t, err)
	require.NoError(t, f.store.Rentals().Create(f.ctx, r))
	return r
}

func (f *fleetFixture) pay(t *testing.T, rentalID uuid.UUID, amount int64, when time.Time) {
	t.Helper()
	require.NoError(t, f.store.Payments().Create(f.ctx, &domain.Payment{
		RentalID:    rentalID,
		Amount:      decimal.NewFromInt(amount),
		PaymentDate: when,
	}))
}

func (f *fleetFixture) spend(t *testing.T, carID uuid.UUID, amount int64, when time.Time) {
	t.Helper()
	require.NoError(t, f.store.Expenses().Create(f.ctx, &domain.Expense{
		CarID:       carID,
		ExpenseType: domain.ExpenseTypeRepair,
		Amount:      decimal.NewFromInt(amount),
		ExpenseDate: when,
	}))
}

// newFleetFixture собирает автопарк:
// Solaris - доход 800, расход 200, в аренде с просрочкой;
// Creta - только расход 100;
// Tucson - доход 200 без расходов, на обслуживании.
func newFleetFixture(t *testing.T) *fleetFixture {
	t.Helper()

	f := &fleetFixture{
		ctx:   context.Background(),
		store: memory.NewStore(),
		cars:  make(map[string]*domain.Car),
	}
	f.service = newService(f.store, clock.NewFixed(now))

	renter := &domain.Renter{Name: "Сергей", Phone: "79995550000", CreatedAt: now}
	require.NoError(t, f.store.Renters().Create(f.ctx, renter))

	solaris := f.car(t, "Solaris", "Z94CT41DBER000001", "A100AA77", 100)
	creta := f.car(t, "Creta", "Z94CT41DBER000002", "A200AA77", 50)
	tucson := f.car(t, "Tucson", "Z94CT41DBER000003", "A300AA77", 150)

	active := f.rent(t, solaris, renter.ID, at(2024, 3, 1, 0, 0, 0), at(2024, 3, 10, 0, 0, 0))
	require.NoError(t, f.store.Cars().SetStatus(f.ctx, solaris.ID, domain.CarStatusRented))
	f.pay(t, active.ID, 300, at(2024, 2, 10, 10, 0, 0))
	f.pay(t, active.ID, 500, at(2024, 3, 5, 10, 0, 0))
	f.spend(t, solaris.ID, 200, at(2024, 3, 2, 10, 0, 0))

	f.spend(t, creta.ID, 100, at(2024, 2, 20, 10, 0, 0))

	ended := f.rent(t, tucson, renter.ID, at(2024, 1, 20, 0, 0, 0), at(2024, 1, 25, 0, 0, 0))
	require.NoError(t, f.store.Rentals().End(f.ctx, ended.ID))
	f.pay(t, ended.ID, 200, at(2024, 1, 31, 23, 59, 59))
	require.NoError(t, f.store.Cars().SetStatus(f.ctx, tucson.ID, domain.CarStatusMaintenance))

	return f
}

func TestService_CarProfitability(t *testing.T) {
	f := newFleetFixture(t)

	p, err := f.service.CarProfitability(f.ctx, f.cars["Solaris"].ID)
	require.NoError(t, err)
	assertDecimal(t, "800", p.TotalIncome)
	assertDecimal(t, "200", p.TotalExpenses)
	assertDecimal(t, "600", p.NetProfit)
	assert.True(t, p.ROIDefined)
	assertDecimal(t, "300", p.ROI)

	// Без расходов ROI не определен
	p, err = f.service.CarProfitability(f.ctx, f.cars["Tucson"].ID)
	require.NoError(t, err)
	assertDecimal(t, "200", p.NetProfit)
	assert.False(t, p.ROIDefined)
	assert.True(t, p.ROI.IsZero())

	p, err = f.service.CarProfitability(f.ctx, f.cars["Creta"].ID)
	require.NoError(t, err)
	assertDecimal(t, "-100", p.NetProfit)
	assertDecimal(t, "-100", p.ROI)

	p, err = f.service.CarProfitability(f.ctx, uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestService_FleetProfitability(t *testing.T) {
	f := newFleetFixture(t)

	report, err := f.service.FleetProfitability(f.ctx)
	require.NoError(t, err)
	require.Len(t, report.Cars, 3)

	assert.Equal(t, f.cars["Solaris"].ID, report.Cars[0].CarID)
	assert.Equal(t, f.cars["Tucson"].ID, report.Cars[1].CarID)
	assert.Equal(t, f.cars["Creta"].ID, report.Cars[2].CarID)

	assertDecimal(t, "1000", report.Totals.TotalIncome)
	assertDecimal(t, "300", report.Totals.TotalExpenses)
	assertDecimal(t, "700", report.Totals.NetProfit)
}

func TestService_MonthlySummary(t *testing.T) {
	f := newFleetFixture(t)

	tests := []struct {
		name     string
		month    time.Month
		income   string
		expenses string
		profit   string
	}{
		{name: "январь: платеж в последнюю секунду месяца", month: time.January, income: "200", expenses: "0", profit: "200"},
		{name: "февраль", month: time.February, income: "300", expenses: "100", profit: "200"},
		{name: "март", month: time.March, income: "500", expenses: "200", profit: "300"},
		{name: "пустой месяц", month: time.July, income: "0", expenses: "0", profit: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := f.service.MonthlySummary(f.ctx, 2024, tt.month)
			require.NoError(t, err)
			assertDecimal(t, tt.income, summary.Income)
			assertDecimal(t, tt.expenses, summary.Expenses)
			assertDecimal(t, tt.profit, summary.Profit)
		})
	}

	_, err := f.service.MonthlyIncome(f.ctx, 2024, 13)
	assert.ErrorIs(t, err, domain.ErrInvalidReportPeriod)
	_, err = f.service.MonthlyExpenses(f.ctx, 2024, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidReportPeriod)
}

func TestService_MonthlyIncome_YearBoundary(t *testing.T) {
	f := &fleetFixture{ctx: context.Background(), store: memory.NewStore(), cars: map[string]*domain.Car{}}
	f.service = newService(f.store, clock.NewFixed(now))

	renter := &domain.Renter{Name: "Сергей", Phone: "79995550000", CreatedAt: now}
	require.NoError(t, f.store.Renters().Create(f.ctx, renter))
	car := f.car(t, "Solaris", "Z94CT41DBER000001", "A100AA77", 100)
	r := f.rent(t, car, renter.ID, at(2024, 12, 20, 0, 0, 0), at(2025, 1, 5, 0, 0, 0))

	f.pay(t, r.ID, 100, at(2024, 12, 31, 23, 59, 0))
	f.pay(t, r.ID, 40, at(2025, 1, 1, 0, 0, 0))

	december, err := f.service.MonthlyIncome(f.ctx, 2024, time.December)
	require.NoError(t, err)
	assertDecimal(t, "100", december)

	january, err := f.service.MonthlyIncome(f.ctx, 2025, time.January)
	require.NoError(t, err)
	assertDecimal(t, "40", january)
}

func TestService_MonthlyIncome_ClockZone(t *testing.T) {
	zone := time.FixedZone("EST", -5*60*60)
	f := &fleetFixture{ctx: context.Background(), store: memory.NewStore(), cars: map[string]*domain.Car{}}
	f.service = newService(f.store, clock.NewFixed(time.Date(2025, 1, 10, 12, 0, 0, 0, zone)))

	renter := &domain.Renter{Name: "Сергей", Phone: "79995550000", CreatedAt: now}
	require.NoError(t, f.store.Renters().Create(f.ctx, renter))
	car := f.car(t, "Solaris", "Z94CT41DBER000001", "A100AA77", 100)
	r := f.rent(t, car, renter.ID, at(2024, 12, 20, 0, 0, 0), at(2025, 1, 5, 0, 0, 0))

	// 2025-01-01 00:00 EST = 2025-01-01 05:00 UTC
	f.pay(t, r.ID, 100, time.Date(2025, 1, 1, 0, 0, 0, 0, zone))
	// 2025-01-01 03:00 UTC = 2024-12-31 22:00 EST
	f.pay(t, r.ID, 40, at(2025, 1, 1, 3, 0, 0))

	tests := []struct {
		name  string
		year  int
		month time.Month
		want  string
	}{
		{name: "декабрь", year: 2024, month: time.December, want: "40"},
		{name: "январь", year: 2025, month: time.January, want: "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			income, err := f.service.MonthlyIncome(f.ctx, tt.year, tt.month)
			require.NoError(t, err)
			assertDecimal(t, tt.want, income)
		})
	}
}

func TestService_FleetFinancialReport(t *testing.T) {
	f := newFleetFixture(t)

	report, err := f.service.FleetFinancialReport(f.ctx, now)
	require.NoError(t, err)

	assert.Equal(t, time.March, report.CurrentMonth.Month)
	assertDecimal(t, "500", report.CurrentMonth.Income)
	assert.Equal(t, time.February, report.PreviousMonth.Month)
	assertDecimal(t, "300", report.PreviousMonth.Income)

	assertDecimal(t, "1000", report.YearToDate.TotalIncome)
	assertDecimal(t, "300", report.YearToDate.TotalExpenses)
	assertDecimal(t, "700", report.YearToDate.NetProfit)

	assert.Equal(t, FleetCounts{
		TotalCars:       3,
		AvailableCars:   1,
		RentedCars:      1,
		MaintenanceCars: 1,
		ActiveRentals:   1,
		OverdueRentals:  1,
	}, report.Fleet)

	require.Len(t, report.Overdue, 1)
	assert.Equal(t, 5, report.Overdue[0].OverdueDays)
}

func TestService_FinancialHistory(t *testing.T) {
	f := newFleetFixture(t)

	history, err := f.service.FinancialHistory(f.ctx, 3)
	require.NoError(t, err)
	require.Len(t, history.Months, 3)

	assert.Equal(t, time.January, history.Months[0].Month)
	assert.Equal(t, time.February, history.Months[1].Month)
	assert.Equal(t, time.March, history.Months[2].Month)
	assertDecimal(t, "1000", history.Totals.TotalIncome)
	assertDecimal(t, "300", history.Totals.TotalExpenses)

	// Переход через границу года
	history, err = f.service.FinancialHistory(f.ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, 2023, history.Months[0].Year)
	assert.Equal(t, time.December, history.Months[0].Month)

	for _, months := range []int{0, -1, MaxHistoryMonths + 1} {
		_, err := f.service.FinancialHistory(f.ctx, months)
		assert.ErrorIs(t, err, domain.ErrInvalidReportPeriod)
	}
}

func TestService_Dashboard(t *testing.T) {
	f := newFleetFixture(t)

	dashboard, err := f.service.Dashboard(f.ctx)
	require.NoError(t, err)

	require.NotNil(t, dashboard.IncomeChange)
	assertDecimal(t, "66.7", *dashboard.IncomeChange)
	require.NotNil(t, dashboard.ExpensesChange)
	assertDecimal(t, "100", *dashboard.ExpensesChange)
	require.NotNil(t, dashboard.ProfitChange)
	assertDecimal(t, "50", *dashboard.ProfitChange)

	require.Len(t, dashboard.TopCars, 2, "в топ попадают только прибыльные автомобили")
	assert.Equal(t, f.cars["Solaris"].ID, dashboard.TopCars[0].CarID)
	assert.Equal(t, f.cars["Tucson"].ID, dashboard.TopCars[1].CarID)

	assert.Equal(t, 1, dashboard.Fleet.OverdueRentals)
}

func TestPercentChange(t *testing.T) {
	tests := []struct {
		name string
		cur  int64
		prev int64
		want string
	}{
		{name: "рост", cur: 150, prev: 100, want: "50"},
		{name: "падение", cur: 50, prev: 200, want: "-75"},
		{name: "отрицательная база", cur: -50, prev: -100, want: "50"},
		{name: "округление до десятых", cur: 1, prev: 3, want: "-66.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := percentChange(decimal.NewFromInt(tt.cur), decimal.NewFromInt(tt.prev))
			require.NotNil(t, got)
			assertDecimal(t, tt.want, *got)
		})
	}

	assert.Nil(t, percentChange(decimal.NewFromInt(10), decimal.Zero), "база 0 - изменение не определено")
}
