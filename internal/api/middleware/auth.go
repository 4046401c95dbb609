package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/stockhub/auth-service/internal/api/handler"
	"github.com/stockhub/auth-service/internal/api/metrics"
	"github.com/stockhub/auth-service/internal/core/domain"
	"github.com/stockhub/auth-service/internal/core/ports"
)

const (
	bearerPrefix = "Bearer "

	// UnauthenticatedMessage is the only body a rejected request ever sees.
	UnauthenticatedMessage = "Invalid or expired token"
)

// ExtractToken returns the token of an "Authorization: Bearer <token>"
// header. The scheme is matched exactly and case-sensitively and the
// remainder is taken as-is.
func ExtractToken(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := header[len(bearerPrefix):]
	if token == "" {
		return "", false
	}
	return token, true
}

// Auth gates echo routes. Every failure produces the same 401 response and
// next is not called.
func Auth(gate ports.Gate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			token, _ := ExtractToken(req.Header.Get(echo.HeaderAuthorization))

			id, err := gate.Gate(req.Context(), token)
			metrics.TokenVerificationsTotal.WithLabelValues(verificationResult(err)).Inc()
			if err != nil {
				return c.JSON(http.StatusUnauthorized, handler.ErrorResponse{Error: UnauthenticatedMessage})
			}

			c.Set(handler.ContextKeyIdentity, id)
			c.SetRequest(req.WithContext(domain.WithIdentity(req.Context(), id)))
			return next(c)
		}
	}
}

// HTTPAuth is Auth for plain net/http handlers and routers such as chi.
func HTTPAuth(gate ports.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, _ := ExtractToken(r.Header.Get("Authorization"))

			id, err := gate.Gate(r.Context(), token)
			metrics.TokenVerificationsTotal.WithLabelValues(verificationResult(err)).Inc()
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(handler.ErrorResponse{Error: UnauthenticatedMessage})
				return
			}

			next.ServeHTTP(w, r.WithContext(domain.WithIdentity(r.Context(), id)))
		})
	}
}

func verificationResult(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, domain.ErrTokenMissing):
		return "missing"
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenBadSignature):
		return "bad_signature"
	case errors.Is(err, domain.ErrTokenMalformed):
		return "malformed"
	default:
		return metrics.ResultError
	}
}
