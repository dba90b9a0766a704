package http

import (
	"context"
	"net/http"

	"github.com/frontandrew/fleet/internal/domain"
	"github.com/frontandrew/fleet/internal/pkg/logger"
	"github.com/frontandrew/fleet/internal/usecase/renter"
	"github.com/google/uuid"
)

// RenterService определяет интерфейс для сервиса арендаторов
type RenterService interface {
	CreateRenter(ctx context.Context, req *renter.CreateRenterRequest) (*domain.Renter, error)
	GetRenter(ctx context.Context, id uuid.UUID) (*domain.Renter, error)
	FindByPhone(ctx context.Context, phone string) (*domain.Renter, error)
	ListRenters(ctx context.Context, limit, offset int) ([]*renter.Summary, error)
}

// RenterHandler обрабатывает запросы связанные с арендаторами
type RenterHandler struct {
	renterService RenterService
	logger        logger.Logger
}

// NewRenterHandler создает новый handler
func NewRenterHandler(renterService RenterService, logger logger.Logger) *RenterHandler {
	return &RenterHandler{
		renterService: renterService,
		logger:        logger,
	}
}

// CreateRenter регистрирует арендатора
// POST /api/v1/renters
func (h *RenterHandler) CreateRenter(w http.ResponseWriter, r *http.Request) {
	var req renter.CreateRenterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.renterService.CreateRenter(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to create renter")
		return
	}

	respondSuccess(w, http.StatusCreated, created)
}

// ListRenters возвращает арендаторов; ?phone= ищет одного по телефону
// GET /api/v1/renters
func (h *RenterHandler) ListRenters(w http.ResponseWriter, r *http.Request) {
	if phone := r.URL.Query().Get("phone"); phone != "" {
		found, err := h.renterService.FindByPhone(r.Context(), phone)
		if err != nil {
			respondServiceError(w, h.logger, err, "Failed to find renter")
			return
		}
		respondSuccess(w, http.StatusOK, found)
		return
	}

	limit, err := queryInt(r, "limit", 0)
	if err != nil || limit < 0 {
		respondError(w, http.StatusBadRequest, "Invalid limit")
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		respondError(w, http.StatusBadRequest, "Invalid offset")
		return
	}

	renters, err := h.renterService.ListRenters(r.Context(), limit, offset)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to list renters")
		return
	}

	respondSuccess(w, http.StatusOK, renters)
}

// GetRenter возвращает арендатора по ID
// GET /api/v1/renters/{id}
func (h *RenterHandler) GetRenter(w http.ResponseWriter, r *http.Request) {
	renterID, err := getIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid renter ID")
		return
	}

	found, err := h.renterService.GetRenter(r.Context(), renterID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to get renter")
		return
	}

	respondSuccess(w, http.StatusOK, found)
}
