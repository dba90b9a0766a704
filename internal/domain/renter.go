package domain

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// MinPhoneDigits - минимальное количество цифр в телефоне арендатора
const MinPhoneDigits = 9

// Renter - арендатор (физическое лицо, заключающее договор)
type Renter struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"` // Только цифры, уникальный
	Email     string    `json:"email,omitempty"`
	Passport  string    `json:"passport,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NormalizePhone оставляет в номере телефона только цифры
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Contact возвращает строку "Имя (телефон)" для отчетов
func (r *Renter) Contact() string {
	return r.Name + " (" + r.Phone + ")"
}

// Validate проверяет данные арендатора и нормализует телефон
func (r *Renter) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return ErrInvalidRenterData
	}

	r.Phone = NormalizePhone(r.Phone)
	if len(r.Phone) < MinPhoneDigits {
		return ErrInvalidPhone
	}

	r.Email = strings.TrimSpace(r.Email)
	if r.Email != "" && !strings.Contains(r.Email, "@") {
		return ErrInvalidRenterData
	}
	return nil
}
