// health/health.go
package health

import (
	"context"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/onlyoffice/signupgate/httputil"
	"go.uber.org/zap"
)

// Check is a single health check; nil means healthy.
type Check func(ctx context.Context) error

// Response is the JSON body returned by Handler.
type Response struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Handler runs every check per request. Any failure answers 503.
func Handler(checks map[string]Check, logger *zap.Logger) http.Handler {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(names) == 0 {
			httputil.WriteJSON(w, http.StatusOK, Response{Status: "ok"})
			return
		}

		resp := Response{Status: "ok", Checks: make(map[string]string, len(names))}
		for _, name := range names {
			check := checks[name]
			if check == nil {
				resp.Checks[name] = "ok"
				continue
			}
			if err := check(r.Context()); err != nil {
				resp.Status = "error"
				resp.Checks[name] = "error: " + err.Error()
				if logger != nil {
					logger.Warn("health check failed", zap.String("check", name), zap.Error(err))
				}
				continue
			}
			resp.Checks[name] = "ok"
		}

		status := http.StatusOK
		if resp.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		httputil.WriteJSON(w, status, resp)
	})
}

// Mount attaches GET /health.
func Mount(r chi.Router, checks map[string]Check, logger *zap.Logger) {
	r.Method(http.MethodGet, "/health", Handler(checks, logger))
}
