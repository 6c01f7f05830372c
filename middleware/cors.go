// middleware/cors.go
package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/onlyoffice/signupgate/config"
)

// CORSFromConfig applies the CORS section of cfg, or does nothing when
// CORS is disabled. Browser-based signup forms under local development
// are the only expected cross-origin callers.
func CORSFromConfig(cfg *config.CoreConfig) func(next http.Handler) http.Handler {
	if cfg == nil || !cfg.CORS.EnableCORS {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.CORSAllowedOrigins,
		AllowedMethods: cfg.CORS.CORSAllowedMethods,
		AllowedHeaders: []string{"Content-Type"},
	})
}
