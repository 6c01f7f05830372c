package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/onlyoffice/signupgate/config"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

var noContent = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestRequireJSON(t *testing.T) {
	tests := []struct {
		ct   string
		want int
	}{
		{"application/json", http.StatusNoContent},
		{"application/json; charset=utf-8", http.StatusNoContent},
		{"Application/JSON", http.StatusNoContent},
		{"application/x-amz-json-1.1+json", http.StatusNoContent},
		{"", http.StatusUnsupportedMediaType},
		{"text/plain", http.StatusUnsupportedMediaType},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{}"))
		if tt.ct != "" {
			req.Header.Set("Content-Type", tt.ct)
		}
		rec := httptest.NewRecorder()
		RequireJSON(noContent).ServeHTTP(rec, req)
		assert.Equal(t, tt.want, rec.Code, "Content-Type %q", tt.ct)
	}
}

func TestLimitBodySize(t *testing.T) {
	var readErr error
	h := LimitBodySize(4)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader("too long")))
	assert.Error(t, readErr)

	h = LimitBodySize(0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader("too long")))
	assert.NoError(t, readErr)
}

func TestNotFoundHandlers(t *testing.T) {
	rec := httptest.NewRecorder()
	NotFoundHandler(zap.NewNop())(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"not_found","message":"The requested resource was not found"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	MethodNotAllowedHandler(zap.NewNop())(rec, httptest.NewRequest(http.MethodGet, "/presignup", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCORSFromConfig(t *testing.T) {
	cfg := &config.CoreConfig{CORS: config.CORSConfig{
		EnableCORS:         true,
		CORSAllowedOrigins: []string{"http://localhost:3000"},
		CORSAllowedMethods: []string{"POST"},
	}}

	req := httptest.NewRequest(http.MethodOptions, "/presignup", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	CORSFromConfig(cfg)(noContent).ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	CORSFromConfig(&config.CoreConfig{})(noContent).ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
