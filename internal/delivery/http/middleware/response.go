package middleware

import (
	"encoding/json"
	"net/http"
)

// respondError отправляет JSON ответ с ошибкой в формате API
func respondError(w http.ResponseWriter, code int, message string) {
	body, _ := json.Marshal(map[string]interface{}{
		"success": false,
		"error":   message,
	})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}
