package http

import (
	"context"
	"net/http"

	"github.com/frontandrew/fleet/internal/domain"
	"github.com/frontandrew/fleet/internal/pkg/clock"
	"github.com/frontandrew/fleet/internal/pkg/logger"
	"github.com/frontandrew/fleet/internal/usecase/fleet"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FleetService определяет интерфейс для сервиса автопарка
type FleetService interface {
	CreateCar(ctx context.Context, req *fleet.CreateCarRequest) (*domain.Car, error)
	GetCarDetails(ctx context.Context, id uuid.UUID) (*fleet.CarDetails, error)
	ListCars(ctx context.Context, status string, limit, offset int) ([]*domain.Car, error)
	ListAvailable(ctx context.Context) ([]*domain.Car, error)
	CarHistory(ctx context.Context, carID uuid.UUID) ([]*fleet.HistoryItem, error)
	SetMaintenance(ctx context.Context, carID uuid.UUID, enabled bool) (*domain.Car, error)
	AddExpense(ctx context.Context, req *fleet.AddExpenseRequest) (*domain.Expense, error)
	ListExpenses(ctx context.Context, carID uuid.UUID) ([]*domain.Expense, error)
}

// CarHandler обрабатывает запросы связанные с автомобилями и их расходами
type CarHandler struct {
	fleetService FleetService
	clock        clock.Clock
	logger       logger.Logger
}

// NewCarHandler создает новый handler
func NewCarHandler(fleetService FleetService, clk clock.Clock, logger logger.Logger) *CarHandler {
	return &CarHandler{
		fleetService: fleetService,
		clock:        clk,
		logger:       logger,
	}
}

type maintenanceBody struct {
	Enabled bool `json:"enabled"`
}

type expenseBody struct {
	ExpenseType string          `json:"expense_type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	ExpenseDate string          `json:"expense_date"`
}

// CreateCar добавляет автомобиль
// POST /api/v1/cars
func (h *CarHandler) CreateCar(w http.ResponseWriter, r *http.Request) {
	var req fleet.CreateCarRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	car, err := h.fleetService.CreateCar(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to create car")
		return
	}

	respondSuccess(w, http.StatusCreated, car)
}

// ListCars возвращает автомобили, ?status= фильтрует по статусу
// GET /api/v1/cars
func (h *CarHandler) ListCars(w http.ResponseWriter, r *http.Request) {
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

	cars, err := h.fleetService.ListCars(r.Context(), r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to list cars")
		return
	}

	respondSuccess(w, http.StatusOK, cars)
}

// ListAvailable возвращает свободные автомобили
// GET /api/v1/cars/available
func (h *CarHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	cars, err := h.fleetService.ListAvailable(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to list available cars")
		return
	}

	respondSuccess(w, http.StatusOK, cars)
}

// GetCar возвращает автомобиль с финансовыми итогами
// GET /api/v1/cars/{id}
func (h *CarHandler) GetCar(w http.ResponseWriter, r *http.Request) {
	carID, err := getIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid car ID")
		return
	}

	details, err := h.fleetService.GetCarDetails(r.Context(), carID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to get car")
		return
	}

	respondSuccess(w, http.StatusOK, details)
}

// GetHistory возвращает историю аренд автомобиля
// GET /api/v1/cars/{id}/history
func (h *CarHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	carID, err := getIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid car ID")
		return
	}

	history, err := h.fleetService.CarHistory(r.Context(), carID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to get car history")
		return
	}

	respondSuccess(w, http.StatusOK, history)
}

// SetMaintenance включает или выключает обслуживание
// PUT /api/v1/cars/{id}/maintenance
func (h *CarHandler) SetMaintenance(w http.ResponseWriter, r *http.Request) {
	carID, err := getIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid car ID")
		return
	}

	var body maintenanceBody
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	car, err := h.fleetService.SetMaintenance(r.Context(), carID, body.Enabled)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to switch maintenance")
		return
	}

	respondSuccess(w, http.StatusOK, car)
}

// AddExpense записывает расход по автомобилю
// POST /api/v1/cars/{id}/expenses
func (h *CarHandler) AddExpense(w http.ResponseWriter, r *http.Request) {
	carID, err := getIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid car ID")
		return
	}

	var body expenseBody
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	expenseDate, err := parseOptionalDate(body.ExpenseDate, h.clock.Location())
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid expense_date")
		return
	}

	expense, err := h.fleetService.AddExpense(r.Context(), &fleet.AddExpenseRequest{
		CarID:       carID,
		ExpenseType: body.ExpenseType,
		Amount:      body.Amount,
		Description: body.Description,
		ExpenseDate: expenseDate,
	})
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to add expense")
		return
	}

	respondSuccess(w, http.StatusCreated, expense)
}

// ListExpenses возвращает расходы автомобиля
// GET /api/v1/cars/{id}/expenses
func (h *CarHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	carID, err := getIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid car ID")
		return
	}

	expenses, err := h.fleetService.ListExpenses(r.Context(), carID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to list expenses")
		return
	}

	respondSuccess(w, http.StatusOK, expenses)
}
