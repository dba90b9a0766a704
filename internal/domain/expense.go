package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseType - категория расхода по автомобилю
type ExpenseType string

const (
	ExpenseTypeMaintenance ExpenseType = "maintenance" // ТО
	ExpenseTypeRepair      ExpenseType = "repair"      // Ремонт
	ExpenseTypeInsurance   ExpenseType = "insurance"   // Страховка
	ExpenseTypeFuel        ExpenseType = "fuel"        // Бензин
	ExpenseTypeOther       ExpenseType = "other"       // Другое
)

// IsValid проверяет, что категория входит в закрытый набор значений
func (t ExpenseType) IsValid() bool {
	switch t {
	case ExpenseTypeMaintenance, ExpenseTypeRepair, ExpenseTypeInsurance, ExpenseTypeFuel, ExpenseTypeOther:
		return true
	}
	return false
}

// ParseExpenseType преобразует строковое значение на границе системы в ExpenseType
func ParseExpenseType(value string) (ExpenseType, error) {
	t := ExpenseType(strings.ToLower(strings.TrimSpace(value)))
	if !t.IsValid() {
		return "", ErrInvalidExpenseType
	}
	return t, nil
}

// Expense - расход по автомобилю. Неизменяем после создания.
type Expense struct {
	ID          uuid.UUID       `json:"id"`
	CarID       uuid.UUID       `json:"car_id"`
	ExpenseType ExpenseType     `json:"expense_type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	ExpenseDate time.Time       `json:"expense_date"`
}

// Validate проверяет корректность расхода
func (e *Expense) Validate() error {
	if e.CarID == uuid.Nil {
		return ErrCarNotFound
	}
	if !e.ExpenseType.IsValid() {
		return ErrInvalidExpenseType
	}
	if !e.Amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	e.Description = strings.TrimSpace(e.Description)
	return nil
}

// SumExpenses суммирует расходы
func SumExpenses(expenses []*Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}
