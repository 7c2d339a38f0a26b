package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bancasrd/bancas-api/internal/api/handler"
	"github.com/bancasrd/bancas-api/internal/core/domain"
	"github.com/bancasrd/bancas-api/internal/pkg/metrics"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain errors to their HTTP status codes.
//   - Logs every error with the request id before responding.
//   - Never leaks the cause of unexpected errors to the client.
//   - Renders the envelope {"error": "<message>", "details": ...}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err)
		event := log.Warn()
		if code >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.Err(err).
			Int("status", code).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Str("request_id", requestID(c)).
			Msg("request failed")

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error) (int, handler.ErrorResponse) {
	// Echo's own errors (bind failures, unknown routes, rate limiter).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, handler.ErrorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, handler.ErrorResponse{Error: "validation failed", Details: ve.Fields}
	}

	var se *domain.StateError
	if errors.As(err, &se) {
		metrics.JugadasRejectedTotal.WithLabelValues(se.Code).Inc()
		return http.StatusBadRequest, handler.ErrorResponse{Error: se.Message, Code: se.Code}
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, handler.ErrorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, handler.ErrorResponse{Error: publicMessage(err, domain.ErrUnauthenticated)}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, handler.ErrorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, handler.ErrorResponse{Error: notFoundMessage(err)}
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, handler.ErrorResponse{Error: publicMessage(err, domain.ErrConflict)}
	}

	return http.StatusInternalServerError, handler.ErrorResponse{Error: "internal server error"}
}

// publicMessage prefers the known sentinel that err wraps, so operation
// prefixes added by services stay out of the response.
func publicMessage(err, fallback error) string {
	for _, known := range []error{
		domain.ErrInvalidCredentials,
		domain.ErrUserInactive,
		domain.ErrUserExists,
		domain.ErrBancaExists,
		domain.ErrVendedorExists,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return fallback.Error()
}

func notFoundMessage(err error) string {
	for _, known := range []error{
		domain.ErrJugadaNotFound,
		domain.ErrBancaNotFound,
		domain.ErrVendedorNotFound,
		domain.ErrUserNotFound,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return domain.ErrNotFound.Error()
}

func requestID(c echo.Context) string {
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}
