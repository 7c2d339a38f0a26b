package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bancasrd/bancas-api/internal/api/middleware"
	"github.com/bancasrd/bancas-api/internal/core/domain"
)

// ctxPrincipal returns the principal injected by the Auth middleware and
// fails fast with 401 when the route was mounted without it.
func ctxPrincipal(c echo.Context) (*domain.Principal, error) {
	p := middleware.PrincipalFrom(c)
	if p == nil || p.ID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return p, nil
}

// bindAndValidate decodes the request body into req and runs the validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
