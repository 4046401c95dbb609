package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/stockhub/auth-service/internal/api/handler"
	"github.com/stockhub/auth-service/internal/core/domain"
)

// Client-facing messages. One per error category so responses never reveal
// which check failed.
const (
	msgValidation         = "validation failed"
	msgEmailTaken         = "Email already registered"
	msgInvalidCredentials = "Invalid email or password"
	msgUnauthenticated    = "Invalid or expired token"
	msgInternal           = "internal server error"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps domain
// errors to status codes and renders them as {"error": "..."}. Unexpected
// errors are logged and answered with a generic 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, handler.ErrorResponse) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, handler.ErrorResponse{Error: msgValidation, Errors: verr.Errors}
	}

	switch {
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, handler.ErrorResponse{Error: msgEmailTaken}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, handler.ErrorResponse{Error: msgInvalidCredentials}
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrTokenInvalid):
		return http.StatusUnauthorized, handler.ErrorResponse{Error: msgUnauthenticated}
	}

	// Echo's own errors (unknown route, method not allowed, ...).
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code < http.StatusInternalServerError {
		return he.Code, handler.ErrorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	log.Error().
		Err(err).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Bool("upstream", errors.Is(err, domain.ErrUpstream)).
		Msg("unhandled error")

	return http.StatusInternalServerError, handler.ErrorResponse{Error: msgInternal}
}
