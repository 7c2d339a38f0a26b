package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bancasrd/bancas-api/internal/core/domain"
)

func renderError(t *testing.T, err error) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return rec, body
}

func TestErrorHandler_StatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"validation", domain.NewValidationError("nombre", "nombre is required"), http.StatusBadRequest, "validation failed"},
		{"state", domain.ErrBancaInactive, http.StatusBadRequest, "banca inactive"},
		{"wrapped state", fmt.Errorf("create: %w", domain.ErrVendedorNotAssigned), http.StatusBadRequest, "vendedor not assigned to banca"},
		{"unauthenticated", domain.ErrInvalidCredentials, http.StatusUnauthorized, "unauthenticated: invalid credentials"},
		{"forbidden", fmt.Errorf("%w: ip 1.2.3.4 not authorized", domain.ErrForbidden), http.StatusForbidden, "access forbidden: ip 1.2.3.4 not authorized"},
		{"not found", fmt.Errorf("get jugada: %w", domain.ErrJugadaNotFound), http.StatusNotFound, "jugada not found"},
		{"conflict", fmt.Errorf("create banca: %w", domain.ErrBancaExists), http.StatusConflict, "conflict: a banca with that name already exists"},
		{"echo error", echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded"), http.StatusTooManyRequests, "rate limit exceeded"},
		{"unexpected", errors.New("pq: connection reset"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, body := renderError(t, tc.err)
			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			if body["error"] != tc.msg {
				t.Fatalf("expected message %q, got %v", tc.msg, body["error"])
			}
		})
	}
}

func TestErrorHandler_ValidationDetails(t *testing.T) {
	err := &domain.ValidationError{Fields: []domain.FieldError{
		{Field: "nombre", Message: "nombre is required"},
		{Field: "ubicacion", Message: "ubicacion is required"},
	}}

	_, body := renderError(t, err)

	details, ok := body["details"].([]any)
	if !ok || len(details) != 2 {
		t.Fatalf("expected 2 details, got %v", body["details"])
	}
	first := details[0].(map[string]any)
	if first["field"] != "nombre" {
		t.Errorf("unexpected detail %v", first)
	}
}

func TestErrorHandler_StateErrorCode(t *testing.T) {
	_, body := renderError(t, domain.ErrCancelWindowExpired.WithMessage("cancellation window expired: 10 minutes"))
	if body["code"] != "cancellation_window_expired" {
		t.Fatalf("expected code, got %v", body["code"])
	}
}

func TestErrorHandler_HidesInternalCause(t *testing.T) {
	_, body := renderError(t, errors.New("password=hunter2 in dsn"))
	if body["error"] != "internal server error" {
		t.Fatalf("internal cause leaked: %v", body["error"])
	}
	if _, ok := body["details"]; ok {
		t.Fatalf("unexpected details on internal error")
	}
}
