package domain

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CarStatus - состояние доступности автомобиля
type CarStatus string

const (
	CarStatusAvailable   CarStatus = "available"
	CarStatusRented      CarStatus = "rented"
	CarStatusMaintenance CarStatus = "maintenance"
)

// carTransitions - разрешенные переходы конечного автомата доступности.
// Available -> Rented только при создании аренды, Rented -> Available только при завершении,
// Available <-> Maintenance вручную.
var carTransitions = map[CarStatus]map[CarStatus]struct{}{
	CarStatusAvailable: {
		CarStatusRented:      {},
		CarStatusMaintenance: {},
	},
	CarStatusRented: {
		CarStatusAvailable: {},
	},
	CarStatusMaintenance: {
		CarStatusAvailable: {},
	},
}

// IsValid проверяет, что статус входит в закрытый набор значений
func (s CarStatus) IsValid() bool {
	_, ok := carTransitions[s]
	return ok
}

// ParseCarStatus преобразует строковое значение на границе системы в CarStatus
func ParseCarStatus(value string) (CarStatus, error) {
	status := CarStatus(strings.ToLower(strings.TrimSpace(value)))
	if !status.IsValid() {
		return "", ErrInvalidCarStatus
	}
	return status, nil
}

// CanTransition возвращает, допустим ли переход автомобиля из from в to
func CanTransition(from, to CarStatus) bool {
	allowed, ok := carTransitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// Car - автомобиль автопарка
// ВАЖНО: у автомобиля может быть не больше одной активной аренды
type Car struct {
	ID           uuid.UUID       `json:"id"`
	Brand        string          `json:"brand"`
	Model        string          `json:"model"`
	VIN          string          `json:"vin"`           // 17 символов, уникальный
	LicensePlate string          `json:"license_plate"` // Госномер (уникальный)
	DailyRate    decimal.Decimal `json:"daily_rate"`    // Текущая стоимость суток
	Status       CarStatus       `json:"status"`
	PhotoPath    string          `json:"photo_path,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Title возвращает краткое описание автомобиля для отчетов
func (c *Car) Title() string {
	return c.Brand + " " + c.Model + " (" + c.LicensePlate + ")"
}

// IsAvailable проверяет, можно ли начать новую аренду
func (c *Car) IsAvailable() bool {
	return c.Status == CarStatusAvailable
}

// NormalizeLicensePlate нормализует номер автомобиля (убирает пробелы, приводит к верхнему регистру)
func NormalizeLicensePlate(plate string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(plate), " ", ""))
}

// NormalizeVIN приводит VIN к верхнему регистру без пробелов по краям
func NormalizeVIN(vin string) string {
	return strings.ToUpper(strings.TrimSpace(vin))
}

// ValidVIN проверяет, что VIN состоит ровно из 17 букв и цифр
func ValidVIN(vin string) bool {
	if len([]rune(vin)) != 17 {
		return false
	}
	for _, r := range vin {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Validate проверяет корректность данных автомобиля и нормализует ключевые поля
func (c *Car) Validate() error {
	c.Brand = strings.TrimSpace(c.Brand)
	c.Model = strings.TrimSpace(c.Model)
	if c.Brand == "" || c.Model == "" {
		return ErrInvalidCarData
	}

	c.VIN = NormalizeVIN(c.VIN)
	if !ValidVIN(c.VIN) {
		return ErrInvalidVIN
	}

	c.LicensePlate = NormalizeLicensePlate(c.LicensePlate)
	if len(c.LicensePlate) < 3 || len(c.LicensePlate) > 20 {
		return ErrInvalidLicensePlate
	}

	if !c.DailyRate.IsPositive() {
		return ErrInvalidDailyRate
	}

	if c.Status == "" {
		c.Status = CarStatusAvailable
	}
	if !c.Status.IsValid() {
		return ErrInvalidCarStatus
	}
	return nil
}
