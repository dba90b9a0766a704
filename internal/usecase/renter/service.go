package renter

import (
	"context"
	"fmt"

	"github.com/frontandrew/fleet/internal/domain"
	"github.com/frontandrew/fleet/internal/pkg/clock"
	"github.com/frontandrew/fleet/internal/pkg/logger"
	"github.com/frontandrew/fleet/internal/repository"
	"github.com/google/uuid"
)

// CreateRenterRequest - запрос на регистрацию арендатора
type CreateRenterRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email,omitempty"`
	Passport string `json:"passport,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// Summary - арендатор с количеством активных договоров
type Summary struct {
	*domain.Renter
	ActiveRentals int `json:"active_rentals"`
}

// Service содержит бизнес-логику работы с арендаторами
type Service struct {
	store  repository.Store
	clock  clock.Clock
	logger logger.Logger
}

// NewService создает новый экземпляр renter.Service
func NewService(store repository.Store, clk clock.Clock, logger logger.Logger) *Service {
	return &Service{
		store:  store,
		clock:  clk,
		logger: logger,
	}
}

// CreateRenter регистрирует арендатора. Телефон нормализуется до цифр и должен быть уникальным.
func (s *Service) CreateRenter(ctx context.Context, req *CreateRenterRequest) (*domain.Renter, error) {
	renter := &domain.Renter{
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		Passport:  req.Passport,
		Notes:     req.Notes,
		CreatedAt: s.clock.Now(),
	}

	if err := renter.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.Renters().Create(ctx, renter); err != nil {
		s.logger.Warn("Failed to create renter", map[string]interface{}{
			"phone": renter.Phone,
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to create renter: %w", err)
	}

	s.logger.Info("Renter created", map[string]interface{}{
		"renter_id": renter.ID,
	})

	return renter, nil
}

// GetRenter возвращает арендатора по ID
func (s *Service) GetRenter(ctx context.Context, id uuid.UUID) (*domain.Renter, error) {
	return s.store.Renters().GetByID(ctx, id)
}

// FindByPhone ищет арендатора по телефону в любом формате
func (s *Service) FindByPhone(ctx context.Context, phone string) (*domain.Renter, error) {
	normalized := domain.NormalizePhone(phone)
	if len(normalized) < domain.MinPhoneDigits {
		return nil, domain.ErrInvalidPhone
	}
	return s.store.Renters().GetByPhone(ctx, normalized)
}

// ListRenters возвращает арендаторов с количеством активных договоров
func (s *Service) ListRenters(ctx context.Context, limit, offset int) ([]*Summary, error) {
	renters, err := s.store.Renters().List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list renters: %w", err)
	}

	active, err := s.store.Rentals().List(ctx, repository.RentalFilter{ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list active rentals: %w", err)
	}

	counts := make(map[uuid.UUID]int, len(active))
	for _, r := range active {
		counts[r.RenterID]++
	}

	result := make([]*Summary, 0, len(renters))
	for _, r := range renters {
		result = append(result, &Summary{Renter: r, ActiveRentals: counts[r.ID]})
	}
	return result, nil
}
