package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/frontandrew/fleet/internal/domain"
	"github.com/frontandrew/fleet/internal/pkg/clock"
	"github.com/frontandrew/fleet/internal/pkg/logger"
	"github.com/frontandrew/fleet/internal/usecase/rental"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RentalService определяет интерфейс журнала договоров
type RentalService interface {
	CreateRental(ctx context.Context, req *rental.CreateRentalRequest) (*domain.Rental, error)
	GetRentalDetails(ctx context.Context, id uuid.UUID) (*rental.Details, error)
	ListRentals(ctx context.Context, activeOnly bool) ([]*domain.Rental, error)
	EndRental(ctx context.Context, id uuid.UUID) (*domain.Rental, error)
	RecordPayment(ctx context.Context, req *rental.RecordPaymentRequest) (*domain.Payment, error)
	RecordFine(ctx context.Context, req *rental.RecordFineRequest) (*domain.Fine, error)
	SweepOverdueNow(ctx context.Context) ([]*domain.Rental, error)
}

// RentalHandler обрабатывает запросы по договорам аренды
type RentalHandler struct {
	rentalService RentalService
	clock         clock.Clock
	logger        logger.Logger
}

// NewRentalHandler создает новый handler
func NewRentalHandler(rentalService RentalService, clk clock.Clock, logger logger.Logger) *RentalHandler {
	return &RentalHandler{
		rentalService: rentalService,
		clock:         clk,
		logger:        logger,
	}
}

type createRentalBody struct {
	CarID      uuid.UUID       `json:"car_id"`
	RenterID   uuid.UUID       `json:"renter_id"`
	RentalType string          `json:"rental_type"`
	StartDate  string          `json:"start_date"`
	EndDate    string          `json:"end_date"`
	Deposit    decimal.Decimal `json:"deposit"`
	Notes      string          `json:"contract_notes"`
}

type paymentBody struct {
	Amount      decimal.Decimal `json:"amount"`
	Notes       string          `json:"notes"`
	PaymentDate string          `json:"payment_date"`
}

type fineBody struct {
	Amount   decimal.Decimal `json:"amount"`
	Reason   string          `json:"reason"`
	FineDate string          `json:"fine_date"`
}

// CreateRental заключает договор
// POST /api/v1/rentals
func (h *RentalHandler) CreateRental(w http.ResponseWriter, r *http.Request) {
	var body createRentalBody
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	start, err := parseDate(body.StartDate, h.clock.Location())
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid start_date")
		return
	}
	end, err := parseDate(body.EndDate, h.clock.Location())
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid end_date")
		return
	}

	created, err := h.rentalService.CreateRental(r.Context(), &rental.CreateRentalRequest{
		CarID:      body.CarID,
		RenterID:   body.RenterID,
		RentalType: body.RentalType,
		StartDate:  start,
		EndDate:    end,
		Deposit:    body.Deposit,
		Notes:      body.Notes,
	})
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to create rental")
		return
	}

	respondSuccess(w, http.StatusCreated, created)
}

// ListRentals возвращает договоры, ?active=true - только активные
// GET /api/v1/rentals
func (h *RentalHandler) ListRentals(w http.ResponseWriter, r *http.Request) {
	activeOnly := false
	if raw := r.URL.Query().Get("active"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid active flag")
			return
		}
		activeOnly = parsed
	}

	rentals, err := h.rentalService.ListRentals(r.Context(), activeOnly)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to list rentals")
		return
	}

	respondSuccess(w, http.StatusOK, rentals)
}

// GetRental возвращает договор с платежами, штрафами и остатком
// GET /api/v1/rentals/{id}
func (h *RentalHandler) GetRental(w http.ResponseWriter, r *http.Request) {
	rentalID, err := getIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid rental ID")
		return
	}

	details, err := h.rentalService.GetRentalDetails(r.Context(), rentalID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to get rental")
		return
	}

	respondSuccess(w, http.StatusOK, details)
}

// EndRental завершает договор и освобождает автомобиль
// PUT /api/v1/rentals/{id}/end
func (h *RentalHandler) EndRental(w http.ResponseWriter, r *http.Request) {
	rentalID, err := getIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid rental ID")
		return
	}

	ended, err := h.rentalService.EndRental(r.Context(), rentalID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to end rental")
		return
	}

	respondSuccess(w, http.StatusOK, ended)
}

// RecordPayment записывает платеж по договору
// POST /api/v1/rentals/{id}/payments
func (h *RentalHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	rentalID, err := getIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid rental ID")
		return
	}

	var body paymentBody
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	paymentDate, err := parseOptionalDate(body.PaymentDate, h.clock.Location())
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payment_date")
		return
	}

	payment, err := h.rentalService.RecordPayment(r.Context(), &rental.RecordPaymentRequest{
		RentalID:    rentalID,
		Amount:      body.Amount,
		Notes:       body.Notes,
		PaymentDate: paymentDate,
	})
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to record payment")
		return
	}

	respondSuccess(w, http.StatusCreated, payment)
}

// RecordFine записывает штраф по договору
// POST /api/v1/rentals/{id}/fines
func (h *RentalHandler) RecordFine(w http.ResponseWriter, r *http.Request) {
	rentalID, err := getIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid rental ID")
		return
	}

	var body fineBody
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	fineDate, err := parseOptionalDate(body.FineDate, h.clock.Location())
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid fine_date")
		return
	}

	fine, err := h.rentalService.RecordFine(r.Context(), &rental.RecordFineRequest{
		RentalID: rentalID,
		Amount:   body.Amount,
		Reason:   body.Reason,
		FineDate: fineDate,
	})
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to record fine")
		return
	}

	respondSuccess(w, http.StatusCreated, fine)
}

// SweepOverdue пересчитывает просрочки на текущую дату
// POST /api/v1/rentals/overdue/sweep
func (h *RentalHandler) SweepOverdue(w http.ResponseWriter, r *http.Request) {
	overdue, err := h.rentalService.SweepOverdueNow(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to sweep overdue rentals")
		return
	}

	respondSuccess(w, http.StatusOK, overdue)
}
