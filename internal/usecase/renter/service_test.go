package renter

import (
	"context"
	"testing"
	"time"

	"github.com/frontandrew/fleet/internal/domain"
	"github.com/frontandrew/fleet/internal/pkg/clock"
	"github.com/frontandrew/fleet/internal/pkg/logger"
	"github.com/frontandrew/fleet/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func TestService_CreateRenter(t *testing.T) {
	tests := []struct {
		name      string
		req       *CreateRenterRequest
		wantPhone string
		err       error
	}{
		{
			name:      "телефон нормализуется",
			req:       &CreateRenterRequest{Name: "Олег", Phone: "+7 (999) 123-45-67"},
			wantPhone: "79991234567",
		},
		{
			name: "короткий телефон",
			req:  &CreateRenterRequest{Name: "Олег", Phone: "12-34"},
			err:  domain.ErrInvalidPhone,
		},
		{
			name: "пустое имя",
			req:  &CreateRenterRequest{Name: " ", Phone: "79991234567"},
			err:  domain.ErrValidation,
		},
		{
			name: "некорректный email",
			req:  &CreateRenterRequest{Name: "Олег", Phone: "79991234567", Email: "oleg"},
			err:  domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewService(memory.NewStore(), clock.NewFixed(now), logger.NewNoop())

			renter, err := service.CreateRenter(context.Background(), tt.req)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPhone, renter.Phone)
			assert.Equal(t, now, renter.CreatedAt)
		})
	}
}

func TestService_DuplicatePhone(t *testing.T) {
	service := NewService(memory.NewStore(), clock.NewFixed(now), logger.NewNoop())
	ctx := context.Background()

	_, err := service.CreateRenter(ctx, &CreateRenterRequest{Name: "Олег", Phone: "8 999 123 45 67"})
	require.NoError(t, err)

	_, err = service.CreateRenter(ctx, &CreateRenterRequest{Name: "Другой Олег", Phone: "8(999)1234567"})
	assert.ErrorIs(t, err, domain.ErrDuplicateKey)

	found, err := service.FindByPhone(ctx, "8-999-123-45-67")
	require.NoError(t, err)
	assert.Equal(t, "Олег", found.Name)

	_, err = service.FindByPhone(ctx, "79990000000")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = service.FindByPhone(ctx, "123")
	assert.ErrorIs(t, err, domain.ErrInvalidPhone)
}

func TestService_ListRenters(t *testing.T) {
	store := memory.NewStore()
	service := NewService(store, clock.NewFixed(now), logger.NewNoop())
	ctx := context.Background()

	busy, err := service.CreateRenter(ctx, &CreateRenterRequest{Name: "Мария", Phone: "79990000001"})
	require.NoError(t, err)
	_, err = service.CreateRenter(ctx, &CreateRenterRequest{Name: "Петр", Phone: "79990000002"})
	require.NoError(t, err)

	car := &domain.Car{
		Brand:        "Skoda",
		Model:        "Octavia",
		VIN:          "TMBJJ7NE0L0000001",
		LicensePlate: "K001KK77",
		DailyRate:    decimal.NewFromInt(3000),
		Status:       domain.CarStatusRented,
		CreatedAt:    now,
	}
	require.NoError(t, store.Cars().Create(ctx, car))
	rental, err := domain.NewRental(car, busy.ID, domain.RentalTypeLongTerm, now, now.AddDate(0, 1, 0), decimal.Zero, "")
	require.NoError(t, err)
	require.NoError(t, store.Rentals().Create(ctx, rental))

	summaries, err := service.ListRenters(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	counts := map[string]int{}
	for _, s := range summaries {
		counts[s.Name] = s.ActiveRentals
	}
	assert.Equal(t, 1, counts["Мария"])
	assert.Equal(t, 0, counts["Петр"])

	page, err := service.ListRenters(ctx, 1, 1)
	require.NoError(t, err)
	assert.Len(t, page, 1)
}
