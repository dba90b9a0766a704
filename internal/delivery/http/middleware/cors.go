package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORSConfig - настройки CORS
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// CORSMiddleware разрешает запросы с фронтенда оператора
func CORSMiddleware(cfg CORSConfig) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   []string{ReplayedHeader},
		AllowCredentials: true,
	})
	return c.Handler
}
