package http

import (
	"context"
	"net/http"
	"time"

	"github.com/frontandrew/fleet/internal/pkg/clock"
	"github.com/frontandrew/fleet/internal/pkg/logger"
	"github.com/frontandrew/fleet/internal/usecase/report"
	"github.com/google/uuid"
)

// ReportService определяет интерфейс отчетов
type ReportService interface {
	CarProfitability(ctx context.Context, carID uuid.UUID) (*report.Profitability, error)
	FleetProfitability(ctx context.Context) (*report.FleetProfitability, error)
	MonthlySummary(ctx context.Context, year int, month time.Month) (*report.MonthSummary, error)
	FleetFinancialReport(ctx context.Context, asOf time.Time) (*report.FleetReport, error)
	FinancialHistory(ctx context.Context, months int) (*report.FinancialHistory, error)
	Dashboard(ctx context.Context) (*report.Dashboard, error)
}

// ReportHandler обрабатывает запросы отчетов
type ReportHandler struct {
	reportService ReportService
	clock         clock.Clock
	logger        logger.Logger
}

// NewReportHandler создает новый handler
func NewReportHandler(reportService ReportService, clk clock.Clock, logger logger.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		clock:         clk,
		logger:        logger,
	}
}

// CarProfitability возвращает доходность автомобиля
// GET /api/v1/cars/{id}/profitability
func (h *ReportHandler) CarProfitability(w http.ResponseWriter, r *http.Request) {
	carID, err := getIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid car ID")
		return
	}

	p, err := h.reportService.CarProfitability(r.Context(), carID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to calculate profitability")
		return
	}
	if p == nil {
		respondError(w, http.StatusNotFound, "Car not found")
		return
	}

	respondSuccess(w, http.StatusOK, p)
}

// FleetProfitability возвращает доходность всего автопарка
// GET /api/v1/reports/profitability
func (h *ReportHandler) FleetProfitability(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.FleetProfitability(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to calculate profitability")
		return
	}

	respondSuccess(w, http.StatusOK, result)
}

// Monthly возвращает итоги за месяц, по умолчанию текущий
// GET /api/v1/reports/monthly?year=&month=
func (h *ReportHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	now := h.clock.Now()

	year, err := queryInt(r, "year", now.Year())
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid year")
		return
	}
	month, err := queryInt(r, "month", int(now.Month()))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid month")
		return
	}

	summary, err := h.reportService.MonthlySummary(r.Context(), year, time.Month(month))
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to build monthly report")
		return
	}

	respondSuccess(w, http.StatusOK, summary)
}

// Financial возвращает помесячную историю
// GET /api/v1/reports/financial?months=
func (h *ReportHandler) Financial(w http.ResponseWriter, r *http.Request) {
	months, err := queryInt(r, "months", 12)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid months")
		return
	}

	history, err := h.reportService.FinancialHistory(r.Context(), months)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to build financial history")
		return
	}

	respondSuccess(w, http.StatusOK, history)
}

// Fleet возвращает сводный отчет на дату, ?as_of= по умолчанию сегодня
// GET /api/v1/reports/fleet
func (h *ReportHandler) Fleet(w http.ResponseWriter, r *http.Request) {
	asOf := h.clock.Now()
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		parsed, err := parseDate(raw, h.clock.Location())
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid as_of")
			return
		}
		asOf = parsed
	}

	result, err := h.reportService.FleetFinancialReport(r.Context(), asOf)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to build fleet report")
		return
	}

	respondSuccess(w, http.StatusOK, result)
}

// Dashboard возвращает сводку для главной страницы
// GET /api/v1/reports/dashboard
func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.Dashboard(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to build dashboard")
		return
	}

	respondSuccess(w, http.StatusOK, result)
}
