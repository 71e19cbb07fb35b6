// Package middleware holds echo middleware specific to the analytics API.
package middleware

import (
	"github.com/labstack/echo/v4"

	"Assemblief/internal/service/metrics"
	"Assemblief/internal/service/ratelimit"
	xhttp "Assemblief/pkg/http"
	"Assemblief/pkg/logger"
)

// RateLimit rejects a client with 429 once its token bucket is empty.
// Clients are keyed by real IP; the skip paths are never limited.
func RateLimit(l *ratelimit.Limiter, log *logger.Logger, skip ...string) echo.MiddlewareFunc {
	skipped := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		skipped[p] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := skipped[c.Path()]; ok {
				return next(c)
			}
			ip := c.RealIP()
			if !l.Allow(ip) {
				metrics.RateLimited.Inc()
				log.Warn("client rate limited", logger.String("remote", ip), logger.String("path", c.Path()))
				return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("Rate limit exceeded"))
			}
			return next(c)
		}
	}
}
