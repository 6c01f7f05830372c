package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandler(t *testing.T) {
	tests := []struct {
		name     string
		checks   map[string]Check
		wantCode int
		wantBody string
	}{
		{"liveness only", nil, http.StatusOK, `{"status":"ok"}`},
		{
			"all healthy",
			map[string]Check{"gate": func(context.Context) error { return nil }, "noop": nil},
			http.StatusOK,
			`{"status":"ok","checks":{"gate":"ok","noop":"ok"}}`,
		},
		{
			"one failing",
			map[string]Check{
				"gate":  func(context.Context) error { return nil },
				"other": func(context.Context) error { return errors.New("down") },
			},
			http.StatusServiceUnavailable,
			`{"status":"error","checks":{"gate":"ok","other":"error: down"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Handler(tt.checks, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
