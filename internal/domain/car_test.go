package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to CarStatus
		allowed  bool
	}{
		{CarStatusAvailable, CarStatusRented, true},
		{CarStatusAvailable, CarStatusMaintenance, true},
		{CarStatusRented, CarStatusAvailable, true},
		{CarStatusMaintenance, CarStatusAvailable, true},
		{CarStatusRented, CarStatusMaintenance, false},
		{CarStatusMaintenance, CarStatusRented, false},
		{CarStatusRented, CarStatusRented, false},
		{CarStatus("broken"), CarStatusAvailable, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestCar_Validate(t *testing.T) {
	valid := func() *Car {
		return &Car{
			Brand:        " Kia ",
			Model:        "Rio",
			VIN:          "xwef11hk103000001",
			LicensePlate: "a 123 bc 77",
			DailyRate:    decimal.NewFromInt(45),
		}
	}

	t.Run("нормализация полей", func(t *testing.T) {
		c := valid()
		require.NoError(t, c.Validate())
		assert.Equal(t, "Kia", c.Brand)
		assert.Equal(t, "XWEF11HK103000001", c.VIN)
		assert.Equal(t, "A123BC77", c.LicensePlate)
		assert.Equal(t, CarStatusAvailable, c.Status)
	})

	tests := []struct {
		name   string
		modify func(*Car)
		err    error
	}{
		{"короткий VIN", func(c *Car) { c.VIN = "ABC123" }, ErrInvalidVIN},
		{"VIN со спецсимволом", func(c *Car) { c.VIN = "XWEF11HK10300000-" }, ErrInvalidVIN},
		{"пустая марка", func(c *Car) { c.Brand = " " }, ErrInvalidCarData},
		{"короткий номер", func(c *Car) { c.LicensePlate = "A1" }, ErrInvalidLicensePlate},
		{"нулевая ставка", func(c *Car) { c.DailyRate = decimal.Zero }, ErrInvalidDailyRate},
		{"неизвестный статус", func(c *Car) { c.Status = "sold" }, ErrInvalidCarStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.modify(c)
			err := c.Validate()
			assert.ErrorIs(t, err, tt.err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestRenter_Validate(t *testing.T) {
	r := &Renter{Name: " Иван ", Phone: "+7 (999) 123-45-67"}
	require.NoError(t, r.Validate())
	assert.Equal(t, "Иван", r.Name)
	assert.Equal(t, "79991234567", r.Phone)

	short := &Renter{Name: "Петр", Phone: "12-34"}
	assert.ErrorIs(t, short.Validate(), ErrInvalidPhone)

	badEmail := &Renter{Name: "Петр", Phone: "123456789", Email: "nope"}
	assert.ErrorIs(t, badEmail.Validate(), ErrInvalidRenterData)
}

func TestMonthRange(t *testing.T) {
	from, to := MonthRange(2024, time.December, time.UTC)
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), to)

	lastMinute := time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC)
	newYear := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, !lastMinute.Before(from) && lastMinute.Before(to))
	assert.False(t, newYear.Before(to))

	y, m := PreviousMonth(2025, time.January)
	assert.Equal(t, 2024, y)
	assert.Equal(t, time.December, m)
}

func TestPaymentAndFine_Validate(t *testing.T) {
	p := &Payment{Amount: decimal.NewFromInt(10)}
	assert.ErrorIs(t, p.Validate(), ErrNotFound)

	r := testCar(1).ID
	p = &Payment{RentalID: r, Amount: decimal.Zero}
	assert.ErrorIs(t, p.Validate(), ErrInvalidAmount)

	f := &Fine{RentalID: r, Amount: decimal.NewFromInt(5), Reason: "  "}
	assert.ErrorIs(t, f.Validate(), ErrInvalidReason)

	f = &Fine{RentalID: r, Amount: decimal.NewFromInt(-5), Reason: "скорость"}
	assert.ErrorIs(t, f.Validate(), ErrInvalidAmount)

	e := &Expense{CarID: r, ExpenseType: "tuning", Amount: decimal.NewFromInt(5)}
	assert.ErrorIs(t, e.Validate(), ErrInvalidExpenseType)
}
