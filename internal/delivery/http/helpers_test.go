package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/frontandrew/fleet/internal/delivery/http/middleware"
	"github.com/frontandrew/fleet/internal/pkg/clock"
	"github.com/frontandrew/fleet/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// testClock - часы handler-тестов
func testClock() clock.Clock {
	return clock.NewFixed(time.Date(2024, 12, 20, 10, 0, 0, 0, time.UTC))
}

// newJSONRequest создает запрос с JSON телом; строка передается как есть
func newJSONRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// withURLParams подставляет параметры пути chi для прямого вызова handler
func withURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// withOperator добавляет claims оператора в контекст запроса
func withOperator(req *http.Request) *http.Request {
	claims := &jwt.Claims{
		Role: "admin",
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   "admin",
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	return req.WithContext(middleware.WithClaims(req.Context(), claims))
}

// decodeResponse разбирает тело ответа API
func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return response
}

// assertSuccess проверяет успешный ответ API
func assertSuccess(t *testing.T, response map[string]interface{}) {
	t.Helper()
	success, ok := response["success"].(bool)
	if !ok || !success {
		t.Errorf("Expected success=true, got %v", response)
	}
}

// assertFailure проверяет ошибочный ответ API
func assertFailure(t *testing.T, response map[string]interface{}) {
	t.Helper()
	success, ok := response["success"].(bool)
	if !ok || success {
		t.Errorf("Expected success=false, got %v", response)
	}
	if _, ok := response["error"].(string); !ok {
		t.Errorf("Expected error message, got %v", response)
	}
}
