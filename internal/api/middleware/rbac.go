package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bancasrd/bancas-api/internal/core/domain"
	"github.com/bancasrd/bancas-api/internal/pkg/metrics"
)

// RBAC enforces a role allow-list. It must run after Auth: a request without
// a principal is answered with 401, never 403.
func RBAC(policy domain.Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := domain.Authorize(PrincipalFrom(c), policy)
			switch {
			case err == nil:
				return next(c)
			case errors.Is(err, domain.ErrUnauthenticated):
				metrics.AuthFailuresTotal.WithLabelValues("unauthenticated").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			default:
				metrics.AuthFailuresTotal.WithLabelValues("forbidden").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
		}
	}
}
