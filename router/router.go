// router/router.go
package router

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/onlyoffice/signupgate/config"
	"github.com/onlyoffice/signupgate/logging"
	"github.com/onlyoffice/signupgate/metrics"
	"github.com/onlyoffice/signupgate/middleware"
	"go.uber.org/zap"
)

// New creates a chi.Router with the standard stack: request ID, panic
// recovery, body size limit, CORS, metrics, access logging and JSON
// 404/405 handlers. Routes are mounted by the caller.
func New(cfg *config.CoreConfig, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(logging.Recoverer(logger))
	r.Use(middleware.LimitBodySize(cfg.MaxRequestBodyBytes))
	r.Use(middleware.CORSFromConfig(cfg))
	r.Use(metrics.HTTPMetrics)
	r.Use(logging.RequestLogger(logger))

	r.NotFound(middleware.NotFoundHandler(logger))
	r.MethodNotAllowed(middleware.MethodNotAllowedHandler(logger))

	return r
}
