// middleware/notfound.go
package middleware

import (
	"net/http"

	"github.com/onlyoffice/signupgate/httputil"
	"go.uber.org/zap"
)

// NotFoundHandler answers unknown routes with a JSON 404.
func NotFoundHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("not_found", zap.String("method", r.Method), zap.String("path", r.URL.Path))
		httputil.JSONError(w, http.StatusNotFound, "not_found", "The requested resource was not found")
	}
}

// MethodNotAllowedHandler answers known routes hit with the wrong method with a JSON 405.
func MethodNotAllowedHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("method_not_allowed", zap.String("method", r.Method), zap.String("path", r.URL.Path))
		httputil.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed",
			"The requested HTTP method is not allowed for this resource")
	}
}
