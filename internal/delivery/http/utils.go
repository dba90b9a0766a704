package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/frontandrew/fleet/internal/domain"
	"github.com/frontandrew/fleet/internal/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// respondJSON отправляет JSON ответ
func respondJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"error":"Failed to marshal response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondSuccess отправляет успешный ответ в формате {"success":true,"data":...}
func respondSuccess(w http.ResponseWriter, code int, data interface{}) {
	respondJSON(w, code, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

// respondError отправляет JSON ответ с ошибкой
func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// statusForError сопоставляет доменную ошибку HTTP статусу
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateKey),
		errors.Is(err, domain.ErrNotAvailable),
		errors.Is(err, domain.ErrAlreadyEnded):
		return http.StatusConflict
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidReason),
		errors.Is(err, domain.ErrInvalidDateRange):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrTokenExpired):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// respondServiceError отвечает статусом по доменной ошибке.
// Внутренние ошибки логируются, клиент получает только fallback.
func respondServiceError(w http.ResponseWriter, log logger.Logger, err error, fallback string) {
	code := statusForError(err)
	if code == http.StatusInternalServerError {
		log.Error(fallback, map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, code, fallback)
		return
	}
	respondError(w, code, err.Error())
}

// decodeJSON читает тело запроса в dst
func decodeJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// getIDParam извлекает UUID из параметра пути
func getIDParam(r *http.Request, param string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, param))
}

// queryInt читает целочисленный query параметр, def - если параметра нет
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// parseDate принимает "2006-01-02" или RFC3339.
// Дата без времени означает полночь в зоне loc, в которой считаются границы месяцев.
func parseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	value = strings.TrimSpace(value)
	if t, err := time.ParseInLocation(time.DateOnly, value, loc); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// parseOptionalDate возвращает nil для пустой строки
func parseOptionalDate(value string, loc *time.Location) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := parseDate(value, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
