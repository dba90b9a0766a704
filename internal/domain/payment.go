package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment - платеж по договору аренды. Неизменяем после создания.
type Payment struct {
	ID          uuid.UUID       `json:"id"`
	RentalID    uuid.UUID       `json:"rental_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"payment_date"`
	Notes       string          `json:"notes,omitempty"`
}

// Validate проверяет корректность платежа
func (p *Payment) Validate() error {
	if p.RentalID == uuid.Nil {
		return ErrRentalNotFound
	}
	if !p.Amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	p.Notes = strings.TrimSpace(p.Notes)
	return nil
}

// Fine - штраф по договору аренды.
// Флаг IsPaid информационный и не сверяется с платежами.
type Fine struct {
	ID       uuid.UUID       `json:"id"`
	RentalID uuid.UUID       `json:"rental_id"`
	Amount   decimal.Decimal `json:"amount"`
	Reason   string          `json:"reason"`
	FineDate time.Time       `json:"fine_date"`
	IsPaid   bool            `json:"is_paid"`
}

// Validate проверяет корректность штрафа
func (f *Fine) Validate() error {
	if f.RentalID == uuid.Nil {
		return ErrRentalNotFound
	}
	if !f.Amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	f.Reason = strings.TrimSpace(f.Reason)
	if f.Reason == "" {
		return ErrEmptyFineReason
	}
	return nil
}

// SumPayments суммирует платежи
func SumPayments(payments []*Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}

// SumFines суммирует штрафы
func SumFines(fines []*Fine) decimal.Decimal {
	total := decimal.Zero
	for _, f := range fines {
		total = total.Add(f.Amount)
	}
	return total
}
