package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bancasrd/bancas-api/internal/core/domain"
	"github.com/bancasrd/bancas-api/internal/core/ports"
)

// VendedorHandler serves the seller endpoints and their banca assignments.
type VendedorHandler struct {
	service ports.VendedorService
}

func NewVendedorHandler(service ports.VendedorService) *VendedorHandler {
	return &VendedorHandler{service: service}
}

type createVendedorRequest struct {
	Name   string `json:"nombre"   validate:"required,max=120"`
	Cedula string `json:"cedula"   validate:"required,max=20"`
	Phone  string `json:"telefono" validate:"omitempty,max=20"`
}

type updateVendedorRequest struct {
	Name   *string `json:"nombre"   validate:"omitempty,min=1,max=120"`
	Cedula *string `json:"cedula"   validate:"omitempty,min=1,max=20"`
	Phone  *string `json:"telefono" validate:"omitempty,max=20"`
	Status *string `json:"estado"   validate:"omitempty,oneof=activo inactivo"`
}

type assignBancasRequest struct {
	BancaIDs []string `json:"banca_ids" validate:"required,dive,required"`
}

type listVendedoresQuery struct {
	Page   int    `query:"page"   json:"page"   validate:"omitempty,gte=1,lte=100000"`
	Limit  int    `query:"limit"  json:"limit"  validate:"omitempty,gte=1,lte=100"`
	Status string `query:"estado" json:"estado" validate:"omitempty,oneof=activo inactivo"`
}

type vendedorFilters struct {
	Status string `json:"estado,omitempty"`
}

func (r updateVendedorRequest) toPatch() domain.VendedorPatch {
	patch := domain.VendedorPatch{Name: r.Name, Cedula: r.Cedula, Phone: r.Phone}
	if r.Status != nil {
		s := domain.VendedorStatus(*r.Status)
		patch.Status = &s
	}
	return patch
}

// List handles GET /vendedores.
//
// @Summary      List vendedores
// @Tags         vendedores
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page (1-based)"
// @Param        limit   query     int     false  "Page size (max 100)"
// @Param        estado  query     string  false  "activo | inactivo"
// @Success      200     {object}  dataResponse{data=[]domain.Vendedor,meta=pageMeta}
// @Failure      400     {object}  ErrorResponse
// @Router       /vendedores [get]
func (h *VendedorHandler) List(c echo.Context) error {
	var q listVendedoresQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	res, err := h.service.List(c.Request().Context(), ports.VendedorFilter{
		Status: domain.VendedorStatus(q.Status),
		Page:   toPage(q.Page, q.Limit),
	})
	if err != nil {
		return err
	}
	return respondPage(c, http.StatusOK, res, vendedorFilters{Status: q.Status})
}

// Get handles GET /vendedores/:id.
//
// @Summary      Get a vendedor
// @Tags         vendedores
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Vendedor id"
// @Success      200  {object}  dataResponse{data=domain.Vendedor}
// @Failure      404  {object}  ErrorResponse
// @Router       /vendedores/{id} [get]
func (h *VendedorHandler) Get(c echo.Context) error {
	v, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, v)
}

// Create handles POST /vendedores.
//
// @Summary      Create a vendedor
// @Tags         vendedores
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createVendedorRequest  true  "Vendedor"
// @Success      201   {object}  dataResponse{data=domain.Vendedor}
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /vendedores [post]
func (h *VendedorHandler) Create(c echo.Context) error {
	var req createVendedorRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	v, err := h.service.Create(c.Request().Context(), ports.CreateVendedorInput{
		Name:   req.Name,
		Cedula: req.Cedula,
		Phone:  req.Phone,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, v)
}

// Update handles PATCH /vendedores/:id.
//
// @Summary      Update a vendedor
// @Tags         vendedores
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Vendedor id"
// @Param        body  body      updateVendedorRequest  true  "Fields to change"
// @Success      200   {object}  dataResponse{data=domain.Vendedor}
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /vendedores/{id} [patch]
func (h *VendedorHandler) Update(c echo.Context) error {
	var req updateVendedorRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	v, err := h.service.Update(c.Request().Context(), c.Param("id"), req.toPatch())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, v)
}

// ListBancas handles GET /vendedores/:id/bancas.
//
// @Summary      Bancas assigned to a vendedor
// @Tags         vendedores
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Vendedor id"
// @Success      200  {object}  dataResponse{data=[]domain.Banca}
// @Failure      404  {object}  ErrorResponse
// @Router       /vendedores/{id}/bancas [get]
func (h *VendedorHandler) ListBancas(c echo.Context) error {
	bancas, err := h.service.ListBancas(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if bancas == nil {
		bancas = []*domain.Banca{}
	}
	return respond(c, http.StatusOK, bancas)
}

// AssignBancas handles POST /vendedores/:id/bancas. The given set replaces
// the current assignments.
//
// @Summary      Assign bancas to a vendedor
// @Tags         vendedores
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Vendedor id"
// @Param        body  body      assignBancasRequest  true  "Banca ids"
// @Success      200   {object}  dataResponse{data=[]domain.Banca}
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /vendedores/{id}/bancas [post]
func (h *VendedorHandler) AssignBancas(c echo.Context) error {
	var req assignBancasRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	id := c.Param("id")
	if err := h.service.AssignBancas(ctx, id, req.BancaIDs); err != nil {
		return err
	}

	bancas, err := h.service.ListBancas(ctx, id)
	if err != nil {
		return err
	}
	if bancas == nil {
		bancas = []*domain.Banca{}
	}
	return respond(c, http.StatusOK, bancas)
}

// RemoveBanca handles DELETE /vendedores/:id/bancas/:bancaId.
//
// @Summary      Remove a banca assignment
// @Tags         vendedores
// @Security     BearerAuth
// @Param        id       path  string  true  "Vendedor id"
// @Param        bancaId  path  string  true  "Banca id"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Router       /vendedores/{id}/bancas/{bancaId} [delete]
func (h *VendedorHandler) RemoveBanca(c echo.Context) error {
	if err := h.service.RemoveBanca(c.Request().Context(), c.Param("id"), c.Param("bancaId")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
