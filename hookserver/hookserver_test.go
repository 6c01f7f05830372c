package hookserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/onlyoffice/signupgate/config"
	"github.com/onlyoffice/signupgate/gate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.CoreConfig{MaxRequestBodyBytes: 1024}
	return New(zap.NewNop()).Routes(cfg)
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, Path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPresignup(t *testing.T) {
	rejected := `{"error":"domain_rejected","message":"` + gate.RejectionMessage + `"}`

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantBody string
	}{
		{
			"accepted",
			`{"userName":"alice","request":{"userAttributes":{"email":"alice@onlyoffice.com"}}}`,
			http.StatusOK,
			`{"userName":"alice","request":{"userAttributes":{"email":"alice@onlyoffice.com"}}}`,
		},
		{"other domain", `{"request":{"userAttributes":{"email":"alice@evil.com"}}}`, http.StatusForbidden, rejected},
		{"suffix embedded", `{"request":{"userAttributes":{"email":"alice@onlyoffice.com.evil.com"}}}`, http.StatusForbidden, rejected},
		{"empty email", `{"request":{"userAttributes":{"email":""}}}`, http.StatusForbidden, rejected},
		{"missing email", `{"request":{"userAttributes":{}}}`, http.StatusForbidden, rejected},
		{
			"case variant request ignored",
			`{"request":{"userAttributes":{"email":"mallory@evil.com"}},"Request":{"userAttributes":{"email":"a@onlyoffice.com"}}}`,
			http.StatusForbidden, rejected,
		},
		{
			"case variant userAttributes ignored",
			`{"REQUEST":{"userattributes":{"email":"a@onlyoffice.com"}}}`,
			http.StatusForbidden, rejected,
		},
		{"malformed", `{"request":`, http.StatusForbidden, rejected},
		{"empty body", ``, http.StatusForbidden, rejected},
	}

	h := newTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, h, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestPresignup_AcceptEchoesBodyVerbatim(t *testing.T) {
	body := `{"request": {"userAttributes": {"email": "x@onlyoffice.com"}},   "extra": [1, 2]}`
	rec := post(t, newTestHandler(t), body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, body, rec.Body.String())
}

func TestPresignup_BodyTooLarge(t *testing.T) {
	body := `{"request":{"userAttributes":{"email":"a@onlyoffice.com","pad":"` + strings.Repeat("x", 2048) + `"}}}`
	rec := post(t, newTestHandler(t), body)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestPresignup_RequiresJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, Path, strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	newTestHandler(t).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestRoutes_Ancillary(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		method, path string
		wantCode     int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/version", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, Path, http.StatusMethodNotAllowed},
		{http.MethodGet, "/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, tt.wantCode, rec.Code, "%s %s", tt.method, tt.path)
	}
}
