package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/stockhub/auth-service/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
		wantLog  bool
	}{
		{
			name:     "validation",
			err:      domain.NewValidationError("email is required", "password is required"),
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":"validation failed","errors":["email is required","password is required"]}`,
		},
		{
			name:     "email taken",
			err:      domain.ErrEmailTaken,
			wantCode: http.StatusConflict,
			wantBody: `{"error":"Email already registered"}`,
		},
		{
			name:     "invalid credentials",
			err:      domain.ErrInvalidCredentials,
			wantCode: http.StatusUnauthorized,
			wantBody: `{"error":"Invalid email or password"}`,
		},
		{
			name:     "unauthenticated with cause",
			err:      fmt.Errorf("%w: %w", domain.ErrUnauthenticated, domain.ErrTokenExpired),
			wantCode: http.StatusUnauthorized,
			wantBody: `{"error":"Invalid or expired token"}`,
		},
		{
			name:     "upstream",
			err:      fmt.Errorf("%w: find user: %w", domain.ErrUpstream, errors.New("dial tcp 10.0.0.1:5432: refused")),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"internal server error"}`,
			wantLog:  true,
		},
		{
			name:     "unknown",
			err:      errors.New("boom"),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"internal server error"}`,
			wantLog:  true,
		},
		{
			name:     "echo not found",
			err:      echo.ErrNotFound,
			wantCode: http.StatusNotFound,
			wantBody: `{"error":"Not Found"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logBuf bytes.Buffer
			h := NewHTTPErrorHandler(zerolog.New(&logBuf))

			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodPost, "/auth/login", nil), rec)

			h(tt.err, c)

			if rec.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d", rec.Code, tt.wantCode)
			}
			if got := strings.TrimSpace(rec.Body.String()); got != tt.wantBody {
				t.Fatalf("body = %s, want %s", got, tt.wantBody)
			}
			if logged := logBuf.Len() > 0; logged != tt.wantLog {
				t.Fatalf("logged = %v, want %v (%s)", logged, tt.wantLog, logBuf.String())
			}
			if strings.Contains(rec.Body.String(), "10.0.0.1") {
				t.Fatal("internal detail leaked to client")
			}
		})
	}
}

func TestHTTPErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.String(http.StatusOK, "done")

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("late"), c)

	if rec.Code != http.StatusOK || rec.Body.String() != "done" {
		t.Fatalf("committed response was modified: %d %q", rec.Code, rec.Body.String())
	}
}
