package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bancasrd/bancas-api/internal/core/domain"
	"github.com/bancasrd/bancas-api/internal/core/ports"
	"github.com/bancasrd/bancas-api/internal/pkg/metrics"
)

// JugadaHandler exposes the wager lifecycle.
type JugadaHandler struct {
	service ports.JugadaService
	guard   ports.AccessGuard
	history ports.EventHistory
}

// NewJugadaHandler builds the handler. history may be nil, in which case the
// eventos endpoint answers 404.
func NewJugadaHandler(service ports.JugadaService, guard ports.AccessGuard, history ports.EventHistory) *JugadaHandler {
	return &JugadaHandler{service: service, guard: guard, history: history}
}

// List handles GET /jugadas.
//
// @Summary      List jugadas
// @Tags         jugadas
// @Produce      json
// @Security     BearerAuth
// @Param        page         query     int     false  "Page (1-based)"
// @Param        limit        query     int     false  "Page size (max 100)"
// @Param        fecha_desde  query     string  false  "From (YYYY-MM-DD or RFC 3339)"
// @Param        fecha_hasta  query     string  false  "To (YYYY-MM-DD or RFC 3339)"
// @Param        banca_id     query     string  false  "Banca id"
// @Param        vendedor_id  query     string  false  "Vendedor id"
// @Param        sorteo_id    query     string  false  "Sorteo id"
// @Param        estado       query     string  false  "valida | anulada"
// @Param        numero       query     int     false  "Number played (0-99)"
// @Success      200          {object}  dataResponse{data=[]domain.Jugada,meta=pageMeta,filters=jugadaFilters}
// @Failure      400          {object}  ErrorResponse
// @Failure      401          {object}  ErrorResponse
// @Router       /jugadas [get]
func (h *JugadaHandler) List(c echo.Context) error {
	var q listJugadasQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}
	filter, applied, err := toJugadaFilter(q)
	if err != nil {
		return err
	}

	res, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return respondPage(c, http.StatusOK, res, applied)
}

// Get handles GET /jugadas/:id.
//
// @Summary      Get a jugada
// @Tags         jugadas
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Jugada id"
// @Success      200  {object}  dataResponse{data=domain.Jugada}
// @Failure      404  {object}  ErrorResponse
// @Router       /jugadas/{id} [get]
func (h *JugadaHandler) Get(c echo.Context) error {
	j, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, j)
}

// Create handles POST /jugadas. The client IP must be whitelisted by the banca.
//
// @Summary      Register a jugada
// @Tags         jugadas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createJugadaRequest  true  "Jugada"
// @Success      201   {object}  dataResponse{data=domain.Jugada}
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Router       /jugadas [post]
func (h *JugadaHandler) Create(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	var req createJugadaRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err := h.guard.Check(ctx, c.RealIP(), req.BancaID); err != nil {
		return err
	}

	j, err := h.service.Create(ctx, p, toCreateJugadaInput(req))
	if err != nil {
		return err
	}
	metrics.JugadasCreatedTotal.WithLabelValues("single").Inc()
	return respond(c, http.StatusCreated, j)
}

// CreateBatch handles POST /jugadas/batch. Either every jugada is registered
// or none is.
//
// @Summary      Register a batch of jugadas
// @Tags         jugadas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      batchJugadasRequest  true  "Jugadas (1-100)"
// @Success      201   {object}  dataResponse{data=[]domain.Jugada}
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Router       /jugadas/batch [post]
func (h *JugadaHandler) CreateBatch(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	var req batchJugadasRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err := h.guard.Check(ctx, c.RealIP(), bancaIDsOf(req.Jugadas)...); err != nil {
		return err
	}

	js, err := h.service.CreateBatch(ctx, p, toCreateJugadaInputs(req.Jugadas))
	if err != nil {
		return err
	}
	metrics.JugadasCreatedTotal.WithLabelValues("batch").Add(float64(len(js)))
	return respond(c, http.StatusCreated, js)
}

// Cancel handles POST /jugadas/:id/anular.
//
// @Summary      Cancel a jugada
// @Description  Allowed only within the configured grace period and before the draw result is published.
// @Tags         jugadas
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Jugada id"
// @Success      200  {object}  dataResponse{data=domain.Jugada}
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /jugadas/{id}/anular [post]
func (h *JugadaHandler) Cancel(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	j, err := h.service.Cancel(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	metrics.JugadasCancelledTotal.Inc()
	return respond(c, http.StatusOK, j)
}

// Events handles GET /jugadas/:id/eventos.
//
// @Summary      Lifecycle history of a jugada
// @Tags         jugadas
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Jugada id"
// @Success      200  {object}  dataResponse{data=[]domain.JugadaEvent}
// @Failure      404  {object}  ErrorResponse
// @Router       /jugadas/{id}/eventos [get]
func (h *JugadaHandler) Events(c echo.Context) error {
	if h.history == nil {
		return echo.NewHTTPError(http.StatusNotFound, "event history not available")
	}

	ctx := c.Request().Context()
	id := c.Param("id")
	if _, err := h.service.Get(ctx, id); err != nil {
		return err
	}

	events, err := h.history.History(ctx, id)
	if err != nil {
		return err
	}
	if events == nil {
		events = []domain.JugadaEvent{}
	}
	return respond(c, http.StatusOK, events)
}
