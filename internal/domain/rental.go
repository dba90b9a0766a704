package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RentalType - тип аренды (информационное поле, на цену не влияет)
type RentalType string

const (
	RentalTypeShortTerm RentalType = "short_term" // Краткосрочная
	RentalTypeLongTerm  RentalType = "long_term"  // Долгосрочная
)

// IsValid проверяет, что тип аренды входит в закрытый набор значений
func (t RentalType) IsValid() bool {
	return t == RentalTypeShortTerm || t == RentalTypeLongTerm
}

// ParseRentalType преобразует строковое значение на границе системы в RentalType
func ParseRentalType(value string) (RentalType, error) {
	t := RentalType(strings.ToLower(strings.TrimSpace(value)))
	if !t.IsValid() {
		return "", ErrInvalidRentalType
	}
	return t, nil
}

// Rental - договор аренды автомобиля
//
// Поля IsOverdue и OverdueDays - производные: их пишет только проход по просрочкам
// (SweepOverdue). Между проходами они могут устареть, поэтому вызывающая сторона
// обязана выполнить проход перед тем, как доверять этим полям.
type Rental struct {
	ID            uuid.UUID       `json:"id"`
	CarID         uuid.UUID       `json:"car_id"`
	RenterID      uuid.UUID       `json:"renter_id"`
	RentalType    RentalType      `json:"rental_type"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
	DailyRate     decimal.Decimal `json:"daily_rate"`   // Ставка на момент заключения договора
	TotalAmount   decimal.Decimal `json:"total_amount"` // DailyRate * количество дней включительно
	PaidAmount    decimal.Decimal `json:"paid_amount"`  // Только растет
	Deposit       decimal.Decimal `json:"deposit"`      // Залог, в расчетах не участвует
	IsActive      bool            `json:"is_active"`
	IsOverdue     bool            `json:"is_overdue"`
	OverdueDays   int             `json:"overdue_days"`
	ContractNotes string          `json:"contract_notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// RentalDays возвращает количество дней аренды включительно с обеих сторон
func RentalDays(start, end time.Time) int {
	return DaysBetween(start, end) + 1
}

// RentalTotal рассчитывает полную стоимость аренды
func RentalTotal(dailyRate decimal.Decimal, start, end time.Time) decimal.Decimal {
	return dailyRate.Mul(decimal.NewFromInt(int64(RentalDays(start, end))))
}

// NewRental создает договор по снимку ставки автомобиля.
// Проверяет диапазон дат, тип и залог; доступность автомобиля проверяет вызывающая сторона.
func NewRental(car *Car, renterID uuid.UUID, rentalType RentalType, start, end time.Time, deposit decimal.Decimal, notes string) (*Rental, error) {
	if car == nil || renterID == uuid.Nil {
		return nil, ErrInvalidCarData
	}
	if !rentalType.IsValid() {
		return nil, ErrInvalidRentalType
	}

	start, end = DateOf(start), DateOf(end)
	if !end.After(start) {
		return nil, ErrEndBeforeStart
	}
	if deposit.IsNegative() {
		return nil, ErrInvalidDeposit
	}

	return &Rental{
		CarID:         car.ID,
		RenterID:      renterID,
		RentalType:    rentalType,
		StartDate:     start,
		EndDate:       end,
		DailyRate:     car.DailyRate,
		TotalAmount:   RentalTotal(car.DailyRate, start, end),
		PaidAmount:    decimal.Zero,
		Deposit:       deposit,
		IsActive:      true,
		IsOverdue:     false,
		OverdueDays:   0,
		ContractNotes: strings.TrimSpace(notes),
	}, nil
}

// Days возвращает длительность договора в днях включительно
func (r *Rental) Days() int {
	return RentalDays(r.StartDate, r.EndDate)
}

// Remaining возвращает остаток к оплате. При переплате значение отрицательное.
func (r *Rental) Remaining() decimal.Decimal {
	return r.TotalAmount.Sub(r.PaidAmount)
}

// OverdueAsOf вычисляет состояние просрочки на дату asOf без изменения договора.
// Для завершенных договоров просрочка не имеет смысла и не пересчитывается.
func (r *Rental) OverdueAsOf(asOf time.Time) (bool, int) {
	if !r.IsActive {
		return r.IsOverdue, r.OverdueDays
	}
	days := DaysBetween(r.EndDate, asOf)
	if days > 0 {
		return true, days
	}
	return false, 0
}

// ApplyOverdue пересчитывает поля просрочки на дату asOf.
// Возвращает true, если значения изменились.
func (r *Rental) ApplyOverdue(asOf time.Time) bool {
	overdue, days := r.OverdueAsOf(asOf)
	if overdue == r.IsOverdue && days == r.OverdueDays {
		return false
	}
	r.IsOverdue = overdue
	r.OverdueDays = days
	return true
}
