package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/frontandrew/fleet/internal/domain"
	"github.com/frontandrew/fleet/internal/pkg/clock"
	"github.com/frontandrew/fleet/internal/pkg/logger"
	"github.com/frontandrew/fleet/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// MaxHistoryMonths - максимальная глубина финансовой истории
	MaxHistoryMonths = 24
	// TopCarsLimit - количество самых прибыльных автомобилей в сводке
	TopCarsLimit = 5
)

var hundred = decimal.NewFromInt(100)

// OverdueSweeper - проход по просрочкам, который отчеты вызывают перед подсчетом
type OverdueSweeper interface {
	SweepOverdue(ctx context.Context, asOf time.Time) ([]*domain.Rental, error)
}

// Profitability - доходность автомобиля.
// Если расходов нет, ROI не определен: ROIDefined = false, ROI = 0.
type Profitability struct {
	CarID         uuid.UUID        `json:"car_id"`
	Title         string           `json:"title"`
	LicensePlate  string           `json:"license_plate"`
	Status        domain.CarStatus `json:"status"`
	TotalIncome   decimal.Decimal  `json:"total_income"`
	TotalExpenses decimal.Decimal  `json:"total_expenses"`
	NetProfit     decimal.Decimal  `json:"net_profit"`
	ROI           decimal.Decimal  `json:"roi"`
	ROIDefined    bool             `json:"roi_defined"`
}

// Totals - итоги по доходам и расходам
type Totals struct {
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetProfit     decimal.Decimal `json:"net_profit"`
}

func (t *Totals) add(income, expenses decimal.Decimal) {
	t.TotalIncome = t.TotalIncome.Add(income)
	t.TotalExpenses = t.TotalExpenses.Add(expenses)
	t.NetProfit = t.TotalIncome.Sub(t.TotalExpenses)
}

// FleetProfitability - доходность всех автомобилей, по убыванию чистой прибыли
type FleetProfitability struct {
	Cars   []*Profitability `json:"cars"`
	Totals Totals           `json:"totals"`
}

// MonthSummary - доходы и расходы за календарный месяц
type MonthSummary struct {
	Year     int             `json:"year"`
	Month    time.Month      `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Profit   decimal.Decimal `json:"profit"`
}

// FinancialHistory - помесячная история, старые месяцы первыми
type FinancialHistory struct {
	Months []*MonthSummary `json:"months"`
	Totals Totals          `json:"totals"`
}

// FleetCounts - состояние автопарка
type FleetCounts struct {
	TotalCars       int `json:"total_cars"`
	AvailableCars   int `json:"available_cars"`
	RentedCars      int `json:"rented_cars"`
	MaintenanceCars int `json:"maintenance_cars"`
	ActiveRentals   int `json:"active_rentals"`
	OverdueRentals  int `json:"overdue_rentals"`
}

// FleetReport - сводный финансовый отчет на дату
type FleetReport struct {
	AsOf          time.Time        `json:"as_of"`
	CurrentMonth  *MonthSummary    `json:"current_month"`
	PreviousMonth *MonthSummary    `json:"previous_month"`
	YearToDate    Totals           `json:"year_to_date"`
	Fleet         FleetCounts      `json:"fleet"`
	Overdue       []*domain.Rental `json:"overdue"`
}

// Dashboard - сводка для главной страницы
type Dashboard struct {
	Fleet          FleetCounts      `json:"fleet"`
	CurrentMonth   *MonthSummary    `json:"current_month"`
	PreviousMonth  *MonthSummary    `json:"previous_month"`
	IncomeChange   *decimal.Decimal `json:"income_change"`   // %, nil если в прошлом месяце 0
	ExpensesChange *decimal.Decimal `json:"expenses_change"` // %, nil если в прошлом месяце 0
	ProfitChange   *decimal.Decimal `json:"profit_change"`   // %, nil если в прошлом месяце 0
	TopCars        []*Profitability `json:"top_cars"`
}

// Service - агрегаты по данным хранилища. Сам ничего не изменяет, кроме прохода по просрочкам.
type Service struct {
	store   repository.Store
	sweeper OverdueSweeper
	clock   clock.Clock
	logger  logger.Logger
}

// NewService создает новый экземпляр report.Service
func NewService(store repository.Store, sweeper OverdueSweeper, clk clock.Clock, logger logger.Logger) *Service {
	return &Service{
		store:   store,
		sweeper: sweeper,
		clock:   clk,
		logger:  logger,
	}
}

// CarProfitability считает доходность автомобиля.
// Для несуществующего автомобиля возвращает (nil, nil): это отсутствие данных, а не ошибка.
func (s *Service) CarProfitability(ctx context.Context, carID uuid.UUID) (*Profitability, error) {
	car, err := s.store.Cars().GetByID(ctx, carID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return s.profitability(ctx, car)
}

func (s *Service) profitability(ctx context.Context, car *domain.Car) (*Profitability, error) {
	income, err := s.store.Payments().SumByCar(ctx, car.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum car income: %w", err)
	}
	expenses, err := s.store.Expenses().SumByCar(ctx, car.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum car expenses: %w", err)
	}

	p := &Profitability{
		CarID:         car.ID,
		Title:         car.Brand + " " + car.Model,
		LicensePlate:  car.LicensePlate,
		Status:        car.Status,
		TotalIncome:   income,
		TotalExpenses: expenses,
		NetProfit:     income.Sub(expenses),
		ROI:           decimal.Zero,
	}
	if expenses.IsPositive() {
		p.ROI = p.NetProfit.Div(expenses).Mul(hundred).Round(2)
		p.ROIDefined = true
	}
	return p, nil
}

// FleetProfitability считает доходность всех автомобилей с итогами
func (s *Service) FleetProfitability(ctx context.Context) (*FleetProfitability, error) {
	cars, err := s.store.Cars().List(ctx, repository.CarFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}

	report := &FleetProfitability{Cars: make([]*Profitability, 0, len(cars))}
	for _, car := range cars {
		p, err := s.profitability(ctx, car)
		if err != nil {
			return nil, err
		}
		report.Cars = append(report.Cars, p)
		report.Totals.add(p.TotalIncome, p.TotalExpenses)
	}

	sort.SliceStable(report.Cars, func(i, j int) bool {
		return report.Cars[i].NetProfit.GreaterThan(report.Cars[j].NetProfit)
	})
	return report, nil
}

// MonthlyIncome возвращает сумму платежей за месяц. Месяц без платежей - 0.
func (s *Service) MonthlyIncome(ctx context.Context, year int, month time.Month) (decimal.Decimal, error) {
	if err := validMonth(month); err != nil {
		return decimal.Zero, err
	}
	from, to := domain.MonthRange(year, month, s.clock.Location())
	return s.store.Payments().SumInPeriod(ctx, from, to)
}

// MonthlyExpenses возвращает сумму расходов за месяц. Месяц без расходов - 0.
func (s *Service) MonthlyExpenses(ctx context.Context, year int, month time.Month) (decimal.Decimal, error) {
	if err := validMonth(month); err != nil {
		return decimal.Zero, err
	}
	from, to := domain.MonthRange(year, month, s.clock.Location())
	return s.store.Expenses().SumInPeriod(ctx, from, to)
}

// MonthlySummary возвращает доходы, расходы и прибыль за месяц
func (s *Service) MonthlySummary(ctx context.Context, year int, month time.Month) (*MonthSummary, error) {
	income, err := s.MonthlyIncome(ctx, year, month)
	if err != nil {
		return nil, err
	}
	expenses, err := s.MonthlyExpenses(ctx, year, month)
	if err != nil {
		return nil, err
	}
	return &MonthSummary{
		Year:     year,
		Month:    month,
		Income:   income,
		Expenses: expenses,
		Profit:   income.Sub(expenses),
	}, nil
}

// FleetFinancialReport собирает текущий и прошлый месяц, итоги с начала года и состояние автопарка.
// Перед подсчетом выполняется проход по просрочкам на дату asOf.
func (s *Service) FleetFinancialReport(ctx context.Context, asOf time.Time) (*FleetReport, error) {
	overdue, err := s.sweeper.SweepOverdue(ctx, asOf)
	if err != nil {
		return nil, err
	}

	year, month := asOf.Year(), asOf.Month()
	report := &FleetReport{AsOf: asOf, Overdue: overdue}

	if report.CurrentMonth, err = s.MonthlySummary(ctx, year, month); err != nil {
		return nil, err
	}
	prevYear, prevMonth := domain.PreviousMonth(year, month)
	if report.PreviousMonth, err = s.MonthlySummary(ctx, prevYear, prevMonth); err != nil {
		return nil, err
	}

	for m := time.January; m <= month; m++ {
		summary, err := s.MonthlySummary(ctx, year, m)
		if err != nil {
			return nil, err
		}
		report.YearToDate.add(summary.Income, summary.Expenses)
	}

	if report.Fleet, err = s.fleetCounts(ctx, len(overdue)); err != nil {
		return nil, err
	}

	s.logger.Info("Fleet financial report built", map[string]interface{}{
		"as_of":   asOf.Format(time.DateOnly),
		"overdue": len(overdue),
	})

	return report, nil
}

// FinancialHistory возвращает историю за последние months месяцев (1..24), старые первыми
func (s *Service) FinancialHistory(ctx context.Context, months int) (*FinancialHistory, error) {
	if months < 1 || months > MaxHistoryMonths {
		return nil, domain.ErrInvalidReportPeriod
	}

	now := s.clock.Now()
	year, month := now.Year(), now.Month()

	history := &FinancialHistory{Months: make([]*MonthSummary, months)}
	for i := months - 1; i >= 0; i-- {
		summary, err := s.MonthlySummary(ctx, year, month)
		if err != nil {
			return nil, err
		}
		history.Months[i] = summary
		history.Totals.add(summary.Income, summary.Expenses)
		year, month = domain.PreviousMonth(year, month)
	}

	return history, nil
}

// Dashboard возвращает сводку: автопарк, текущий и прошлый месяц с изменением в процентах,
// самые прибыльные автомобили
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	now := s.clock.Now()

	overdue, err := s.sweeper.SweepOverdue(ctx, now)
	if err != nil {
		return nil, err
	}

	dashboard := &Dashboard{}
	if dashboard.Fleet, err = s.fleetCounts(ctx, len(overdue)); err != nil {
		return nil, err
	}

	if dashboard.CurrentMonth, err = s.MonthlySummary(ctx, now.Year(), now.Month()); err != nil {
		return nil, err
	}
	prevYear, prevMonth := domain.PreviousMonth(now.Year(), now.Month())
	if dashboard.PreviousMonth, err = s.MonthlySummary(ctx, prevYear, prevMonth); err != nil {
		return nil, err
	}

	cur, prev := dashboard.CurrentMonth, dashboard.PreviousMonth
	dashboard.IncomeChange = percentChange(cur.Income, prev.Income)
	dashboard.ExpensesChange = percentChange(cur.Expenses, prev.Expenses)
	dashboard.ProfitChange = percentChange(cur.Profit, prev.Profit)

	fleet, err := s.FleetProfitability(ctx)
	if err != nil {
		return nil, err
	}
	dashboard.TopCars = make([]*Profitability, 0, TopCarsLimit)
	for _, p := range fleet.Cars {
		if len(dashboard.TopCars) == TopCarsLimit {
			break
		}
		if p.NetProfit.IsPositive() {
			dashboard.TopCars = append(dashboard.TopCars, p)
		}
	}

	return dashboard, nil
}

func (s *Service) fleetCounts(ctx context.Context, overdue int) (FleetCounts, error) {
	byStatus, err := s.store.Cars().CountByStatus(ctx)
	if err != nil {
		return FleetCounts{}, fmt.Errorf("failed to count cars: %w", err)
	}
	active, err := s.store.Rentals().List(ctx, repository.RentalFilter{ActiveOnly: true})
	if err != nil {
		return FleetCounts{}, fmt.Errorf("failed to list active rentals: %w", err)
	}

	counts := FleetCounts{
		AvailableCars:   byStatus[domain.CarStatusAvailable],
		RentedCars:      byStatus[domain.CarStatusRented],
		MaintenanceCars: byStatus[domain.CarStatusMaintenance],
		ActiveRentals:   len(active),
		OverdueRentals:  overdue,
	}
	for _, n := range byStatus {
		counts.TotalCars += n
	}
	return counts, nil
}

// percentChange возвращает изменение в процентах относительно prev с точностью 0.1
func percentChange(cur, prev decimal.Decimal) *decimal.Decimal {
	if prev.IsZero() {
		return nil
	}
	change := cur.Sub(prev).Div(prev.Abs()).Mul(hundred).Round(1)
	return &change
}

func validMonth(month time.Month) error {
	if month < time.January || month > time.December {
		return domain.ErrInvalidReportPeriod
	}
	return nil
}
