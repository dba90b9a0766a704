package domain

import (
	"errors"
	"fmt"
)

// Доменные ошибки - используются во всех слоях приложения.
// Корневые ошибки образуют таксономию, конкретные ошибки сущностей оборачивают их,
// поэтому проверка выполняется через errors.Is.

// Корневые ошибки
var (
	ErrNotFound         = errors.New("not found")
	ErrNotAvailable     = errors.New("car is not available")
	ErrInvalidDateRange = errors.New("invalid date range")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidReason    = errors.New("invalid reason")
	ErrAlreadyEnded     = errors.New("rental already ended")
	ErrDuplicateKey     = errors.New("duplicate key")
	ErrValidation       = errors.New("validation failed")
)

// Car errors
var (
	ErrCarNotFound             = fmt.Errorf("car %w", ErrNotFound)
	ErrDuplicateVIN            = fmt.Errorf("%w: car with this VIN already exists", ErrDuplicateKey)
	ErrDuplicateLicensePlate   = fmt.Errorf("%w: car with this license plate already exists", ErrDuplicateKey)
	ErrInvalidVIN              = fmt.Errorf("%w: VIN must be exactly 17 alphanumeric characters", ErrValidation)
	ErrInvalidLicensePlate     = fmt.Errorf("%w: invalid license plate", ErrValidation)
	ErrInvalidDailyRate        = fmt.Errorf("%w: daily rate must be positive", ErrValidation)
	ErrInvalidCarData          = fmt.Errorf("%w: invalid car data", ErrValidation)
	ErrInvalidCarStatus        = fmt.Errorf("%w: invalid car status", ErrValidation)
	ErrInvalidStatusTransition = fmt.Errorf("%w: invalid car status transition", ErrNotAvailable)
)

// Renter errors
var (
	ErrRenterNotFound    = fmt.Errorf("renter %w", ErrNotFound)
	ErrDuplicatePhone    = fmt.Errorf("%w: renter with this phone already exists", ErrDuplicateKey)
	ErrInvalidPhone      = fmt.Errorf("%w: phone must contain at least 9 digits", ErrValidation)
	ErrInvalidRenterData = fmt.Errorf("%w: invalid renter data", ErrValidation)
)

// Rental errors
var (
	ErrRentalNotFound    = fmt.Errorf("rental %w", ErrNotFound)
	ErrInvalidRentalType = fmt.Errorf("%w: invalid rental type", ErrValidation)
	ErrInvalidDeposit    = fmt.Errorf("%w: deposit must not be negative", ErrValidation)
	ErrEndBeforeStart    = fmt.Errorf("%w: end date must be after start date", ErrInvalidDateRange)
)

// Payment, fine and expense errors
var (
	ErrNonPositiveAmount   = fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	ErrEmptyFineReason     = fmt.Errorf("%w: fine reason is required", ErrInvalidReason)
	ErrInvalidExpenseType  = fmt.Errorf("%w: invalid expense type", ErrValidation)
	ErrInvalidReportPeriod = fmt.Errorf("%w: invalid report period", ErrValidation)
)

// Authorization errors
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrInvalidToken       = errors.New("invalid token")
)
