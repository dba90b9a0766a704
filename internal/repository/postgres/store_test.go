package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/frontandrew/fleet/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{
			name:     "дубликат VIN",
			err:      &pgconn.PgError{Code: uniqueViolation, ConstraintName: "cars_vin_key"},
			expected: domain.ErrDuplicateVIN,
		},
		{
			name:     "дубликат телефона в обертке",
			err:      fmt.Errorf("exec: %w", &pgconn.PgError{Code: uniqueViolation, ConstraintName: "renters_phone_key"}),
			expected: domain.ErrDuplicatePhone,
		},
		{
			name:     "второй активный договор",
			err:      &pgconn.PgError{Code: uniqueViolation, ConstraintName: "rentals_one_active_per_car"},
			expected: domain.ErrNotAvailable,
		},
		{
			name:     "неизвестное ограничение",
			err:      &pgconn.PgError{Code: uniqueViolation, ConstraintName: "other_key"},
			expected: domain.ErrDuplicateKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapError(tt.err), tt.expected)
		})
	}

	other := errors.New("connection reset")
	assert.Equal(t, other, mapError(other))
	assert.NoError(t, mapError(nil))
}

func TestNotFound(t *testing.T) {
	assert.ErrorIs(t, notFound(pgx.ErrNoRows, domain.ErrCarNotFound), domain.ErrNotFound)

	other := errors.New("timeout")
	assert.Equal(t, other, notFound(other, domain.ErrCarNotFound))
}

func TestIsForeignKeyViolation(t *testing.T) {
	assert.True(t, isForeignKeyViolation(&pgconn.PgError{Code: foreignKeyViolation}))
	assert.False(t, isForeignKeyViolation(&pgconn.PgError{Code: uniqueViolation}))
	assert.False(t, isForeignKeyViolation(nil))
}
