package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/frontandrew/fleet/internal/pkg/logger"
	"github.com/frontandrew/fleet/internal/pkg/redis"
)

const (
	// IdempotencyKeyHeader - заголовок с ключом идемпотентности
	IdempotencyKeyHeader = "Idempotency-Key"
	// ReplayedHeader выставляется, когда ответ взят из хранилища
	ReplayedHeader = "Idempotent-Replayed"

	maxIdempotencyKeyLength = 255
	pendingMarker           = "pending"
)

// IdempotencyStore - хранилище ответов по ключу идемпотентности
type IdempotencyStore interface {
	SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// captureWriter пишет ответ клиенту и одновременно сохраняет его копию
type captureWriter struct {
	http.ResponseWriter
	status      int
	body        bytes.Buffer
	wroteHeader bool
}

func (cw *captureWriter) WriteHeader(code int) {
	if cw.wroteHeader {
		return
	}
	cw.status = code
	cw.wroteHeader = true
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if !cw.wroteHeader {
		cw.WriteHeader(http.StatusOK)
	}
	cw.body.Write(b)
	return cw.ResponseWriter.Write(b)
}

// Idempotency повторяет сохраненный ответ для уже обработанного Idempotency-Key.
// Пока первый запрос с ключом выполняется, повторы получают 409.
// Ответы 5xx не сохраняются, чтобы клиент мог повторить запрос.
// При недоступности хранилища запрос обрабатывается без защиты.
func Idempotency(store IdempotencyStore, ttl time.Duration, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
			if key == "" || store == nil {
				next.ServeHTTP(w, r)
				return
			}
			if len(key) > maxIdempotencyKeyLength {
				respondError(w, http.StatusBadRequest, "Idempotency key is too long")
				return
			}

			storeKey := "idem:" + r.Method + ":" + r.URL.Path + ":" + key
			ctx := r.Context()

			acquired, err := store.SetNX(ctx, storeKey, pendingMarker, ttl)
			if err != nil {
				log.Warn("Idempotency store unavailable", map[string]interface{}{
					"path":  r.URL.Path,
					"error": err.Error(),
				})
				next.ServeHTTP(w, r)
				return
			}

			if !acquired {
				replayStored(w, r, next, store, storeKey, log)
				return
			}

			cw := &captureWriter{ResponseWriter: w, status: http.StatusOK}
			bgCtx := context.WithoutCancel(ctx)
			completed := false
			defer func() {
				// panic в обработчике: ключ освобождается
				if !completed {
					_ = store.Del(bgCtx, storeKey)
				}
			}()

			next.ServeHTTP(cw, r)
			completed = true

			if cw.status >= http.StatusInternalServerError {
				if err := store.Del(bgCtx, storeKey); err != nil {
					log.Warn("Failed to release idempotency key", map[string]interface{}{
						"path":  r.URL.Path,
						"error": err.Error(),
					})
				}
				return
			}

			payload, err := json.Marshal(storedResponse{
				Status:      cw.status,
				ContentType: cw.Header().Get("Content-Type"),
				Body:        cw.body.Bytes(),
			})
			if err == nil {
				err = store.Set(bgCtx, storeKey, string(payload), ttl)
			}
			if err != nil {
				log.Warn("Failed to store idempotent response", map[string]interface{}{
					"path":  r.URL.Path,
					"error": err.Error(),
				})
			}
		})
	}
}

func replayStored(w http.ResponseWriter, r *http.Request, next http.Handler, store IdempotencyStore, storeKey string, log logger.Logger) {
	raw, err := store.Get(r.Context(), storeKey)
	switch {
	case errors.Is(err, redis.ErrKeyNotFound):
		// Ключ истек между SetNX и Get
		next.ServeHTTP(w, r)
		return
	case err != nil:
		log.Warn("Idempotency store unavailable", map[string]interface{}{
			"path":  r.URL.Path,
			"error": err.Error(),
		})
		next.ServeHTTP(w, r)
		return
	case raw == pendingMarker:
		respondError(w, http.StatusConflict, "Request with this idempotency key is in progress")
		return
	}

	var stored storedResponse
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		log.Error("Corrupted idempotent response", map[string]interface{}{
			"path":  r.URL.Path,
			"error": err.Error(),
		})
		respondError(w, http.StatusConflict, "Request with this idempotency key was already processed")
		return
	}

	if stored.ContentType != "" {
		w.Header().Set("Content-Type", stored.ContentType)
	}
	w.Header().Set(ReplayedHeader, "true")
	w.WriteHeader(stored.Status)
	_, _ = w.Write(stored.Body)
}
