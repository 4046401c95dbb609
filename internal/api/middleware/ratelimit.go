package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/stockhub/auth-service/internal/api/handler"
	"github.com/stockhub/auth-service/internal/api/metrics"
	"github.com/stockhub/auth-service/internal/core/ports"
)

// RateLimitLogin limits login attempts per client IP. When the limiter
// itself fails the request is let through.
func RateLimitLogin(limiter ports.RateLimiter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			allowed, err := limiter.Allow(c.Request().Context(), ip)
			if err != nil {
				log.Warn().Err(err).Str("ip", ip).Msg("login rate limiter unavailable, allowing request")
				return next(c)
			}
			if !allowed {
				metrics.LoginsTotal.WithLabelValues(metrics.ResultRateLimited).Inc()
				return c.JSON(http.StatusTooManyRequests, handler.ErrorResponse{Error: "too many requests"})
			}
			return next(c)
		}
	}
}
