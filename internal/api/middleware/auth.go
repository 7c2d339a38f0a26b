package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bancasrd/bancas-api/internal/core/domain"
	"github.com/bancasrd/bancas-api/internal/core/ports"
	"github.com/bancasrd/bancas-api/internal/pkg/metrics"
)

const (
	principalKey = "principal"
	tokenKey     = "token"
)

var errMalformedHeader = errors.New("invalid authorization header")

// Auth resolves the bearer credential into a principal and stores it, with
// the raw token, in the request context. Any failure is a 401.
func Auth(resolver ports.IdentityResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues("unauthenticated").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}

			principal, err := resolver.Resolve(c.Request().Context(), token)
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues("unauthenticated").Inc()
				if errors.Is(err, domain.ErrUnauthenticated) {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
				}
				return err
			}

			SetIdentity(c, principal, token)
			return next(c)
		}
	}
}

// BearerToken extracts the credential from an Authorization header value.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", errors.New("missing authorization header")
	}
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
		return "", errMalformedHeader
	}
	return token, nil
}

// PrincipalFrom returns the principal set by Auth, or nil.
func PrincipalFrom(c echo.Context) *domain.Principal {
	p, _ := c.Get(principalKey).(*domain.Principal)
	return p
}

// TokenFrom returns the bearer token accepted by Auth.
func TokenFrom(c echo.Context) string {
	t, _ := c.Get(tokenKey).(string)
	return t
}

// SetIdentity stores the principal and the token it was resolved from.
func SetIdentity(c echo.Context, p *domain.Principal, token string) {
	c.Set(principalKey, p)
	c.Set(tokenKey, token)
}
