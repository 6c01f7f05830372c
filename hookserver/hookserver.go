// hookserver/hookserver.go
package hookserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/onlyoffice/signupgate/config"
	"github.com/onlyoffice/signupgate/gate"
	"github.com/onlyoffice/signupgate/health"
	"github.com/onlyoffice/signupgate/httputil"
	"github.com/onlyoffice/signupgate/metrics"
	"github.com/onlyoffice/signupgate/middleware"
	"github.com/onlyoffice/signupgate/router"
	"github.com/onlyoffice/signupgate/trigger"
	"github.com/onlyoffice/signupgate/version"
	"go.uber.org/zap"
)

// Path is where the PreSignUp hook is served.
const Path = "/presignup"

// Server exposes a trigger.Handler over HTTP the way Cognito would call it.
type Server struct {
	hook   *trigger.Handler
	logger *zap.Logger
}

// New wires a trigger.Handler whose decisions feed the Prometheus counter.
func New(logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		hook:   trigger.New(logger, trigger.WithObserver(metrics.ObserveDecision)),
		logger: logger,
	}
}

// Routes returns the full handler: hook, health, version and metrics.
func (s *Server) Routes(cfg *config.CoreConfig) http.Handler {
	r := router.New(cfg, s.logger)

	s.Mount(r)
	health.Mount(r, map[string]health.Check{"gate": selfCheck}, s.logger)
	version.Mount(r)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	return r
}

// presignup answers 200 with the request body on accept and 403 with the
// rejection message otherwise.
func (s *Server) presignup(w http.ResponseWriter, r *http.Request) {
	body, err := httputil.ReadBody(r)
	switch {
	case errors.Is(err, httputil.ErrBodyTooLarge):
		httputil.JSONError(w, http.StatusRequestEntityTooLarge, "request_too_large", err.Error())
		return
	case errors.Is(err, httputil.ErrEmptyBody):
		// An empty event cannot confirm the domain.
		body = nil
	case err != nil:
		httputil.JSONError(w, http.StatusBadRequest, "bad_request", "could not read request body")
		return
	}

	out, err := s.hook.Handle(r.Context(), json.RawMessage(body))
	if err != nil {
		if errors.Is(err, gate.ErrDomainRejected) {
			httputil.JSONError(w, http.StatusForbidden, "domain_rejected", err.Error())
			return
		}
		s.logger.Error("presignup hook failed", zap.Error(err))
		httputil.JSONError(w, http.StatusInternalServerError, "internal_error", "an internal error occurred")
		return
	}
	httputil.WriteRawJSON(w, http.StatusOK, out)
}

// selfCheck confirms the gate still admits an address on the allowed domain.
func selfCheck(context.Context) error {
	return gate.CheckEmail("healthcheck" + gate.AllowedSuffix)
}

// Mount attaches only the hook route, for embedding in another router.
func (s *Server) Mount(r chi.Router) {
	r.With(middleware.RequireJSON).Post(Path, s.presignup)
}
