package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bancasrd/bancas-api/internal/core/domain"
	"github.com/bancasrd/bancas-api/internal/core/ports"
)

// BancaHandler serves the outlet backoffice endpoints.
type BancaHandler struct {
	service ports.BancaService
}

func NewBancaHandler(service ports.BancaService) *BancaHandler {
	return &BancaHandler{service: service}
}

type createBancaRequest struct {
	Name        string   `json:"nombre"       validate:"required,max=120"`
	Location    string   `json:"ubicacion"    validate:"required,max=255"`
	IPWhitelist []string `json:"ip_whitelist" validate:"omitempty,dive,ip"`
}

// updateBancaRequest uses pointers so absent fields are left untouched.
type updateBancaRequest struct {
	Name        *string   `json:"nombre"       validate:"omitempty,min=1,max=120"`
	Location    *string   `json:"ubicacion"    validate:"omitempty,min=1,max=255"`
	Status      *string   `json:"estado"       validate:"omitempty,oneof=activa inactiva"`
	IPWhitelist *[]string `json:"ip_whitelist" validate:"omitempty,dive,ip"`
}

type listBancasQuery struct {
	Page   int    `query:"page"   json:"page"   validate:"omitempty,gte=1,lte=100000"`
	Limit  int    `query:"limit"  json:"limit"  validate:"omitempty,gte=1,lte=100"`
	Status string `query:"estado" json:"estado" validate:"omitempty,oneof=activa inactiva"`
}

type bancaFilters struct {
	Status string `json:"estado,omitempty"`
}

func (r updateBancaRequest) toPatch() domain.BancaPatch {
	patch := domain.BancaPatch{Name: r.Name, Location: r.Location}
	if r.Status != nil {
		s := domain.BancaStatus(*r.Status)
		patch.Status = &s
	}
	if r.IPWhitelist != nil {
		patch.SetIPs = true
		patch.IPWhitelist = *r.IPWhitelist
	}
	return patch
}

// List handles GET /bancas.
//
// @Summary      List bancas
// @Tags         bancas
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page (1-based)"
// @Param        limit   query     int     false  "Page size (max 100)"
// @Param        estado  query     string  false  "activa | inactiva"
// @Success      200     {object}  dataResponse{data=[]domain.Banca,meta=pageMeta}
// @Failure      400     {object}  ErrorResponse
// @Failure      401     {object}  ErrorResponse
// @Failure      403     {object}  ErrorResponse
// @Router       /bancas [get]
func (h *BancaHandler) List(c echo.Context) error {
	var q listBancasQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	res, err := h.service.List(c.Request().Context(), ports.BancaFilter{
		Status: domain.BancaStatus(q.Status),
		Page:   toPage(q.Page, q.Limit),
	})
	if err != nil {
		return err
	}
	return respondPage(c, http.StatusOK, res, bancaFilters{Status: q.Status})
}

// Get handles GET /bancas/:id.
//
// @Summary      Get a banca
// @Tags         bancas
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Banca id"
// @Success      200  {object}  dataResponse{data=domain.Banca}
// @Failure      404  {object}  ErrorResponse
// @Router       /bancas/{id} [get]
func (h *BancaHandler) Get(c echo.Context) error {
	b, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, b)
}

// Create handles POST /bancas.
//
// @Summary      Create a banca
// @Tags         bancas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createBancaRequest  true  "Banca"
// @Success      201   {object}  dataResponse{data=domain.Banca}
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /bancas [post]
func (h *BancaHandler) Create(c echo.Context) error {
	var req createBancaRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	b, err := h.service.Create(c.Request().Context(), ports.CreateBancaInput{
		Name:        req.Name,
		Location:    req.Location,
		IPWhitelist: req.IPWhitelist,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, b)
}

// Update handles PATCH /bancas/:id.
//
// @Summary      Update a banca
// @Tags         bancas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Banca id"
// @Param        body  body      updateBancaRequest  true  "Fields to change"
// @Success      200   {object}  dataResponse{data=domain.Banca}
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /bancas/{id} [patch]
func (h *BancaHandler) Update(c echo.Context) error {
	var req updateBancaRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	b, err := h.service.Update(c.Request().Context(), c.Param("id"), req.toPatch())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, b)
}

// Activate handles POST /bancas/:id/activar.
//
// @Summary      Activate a banca
// @Tags         bancas
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Banca id"
// @Success      200  {object}  dataResponse{data=domain.Banca}
// @Failure      404  {object}  ErrorResponse
// @Router       /bancas/{id}/activar [post]
func (h *BancaHandler) Activate(c echo.Context) error {
	b, err := h.service.Activate(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, b)
}

// Deactivate handles POST /bancas/:id/desactivar.
//
// @Summary      Deactivate a banca
// @Tags         bancas
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Banca id"
// @Success      200  {object}  dataResponse{data=domain.Banca}
// @Failure      404  {object}  ErrorResponse
// @Router       /bancas/{id}/desactivar [post]
func (h *BancaHandler) Deactivate(c echo.Context) error {
	b, err := h.service.Deactivate(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, b)
}
