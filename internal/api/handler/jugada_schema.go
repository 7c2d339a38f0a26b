package handler

import (
	"time"

	"github.com/shopspring/decimal"
)

// --- Request types ---

type createJugadaRequest struct {
	BancaID    string          `json:"banca_id"    validate:"required,uuid"`
	VendedorID string          `json:"vendedor_id" validate:"required,uuid"`
	SorteoID   string          `json:"sorteo_id"   validate:"required"`
	Numbers    []int           `json:"numeros"     validate:"required,min=1,max=10,dive,gte=0,lte=99"`
	Amount     decimal.Decimal `json:"monto"       validate:"required,gt=0,maxdecimals=2" swaggertype:"number"`
}

type batchJugadasRequest struct {
	Jugadas []createJugadaRequest `json:"jugadas" validate:"required,min=1,max=100,dive"`
}

// listJugadasQuery keeps dates and the number as strings; they are parsed
// by toJugadaFilter so a malformed value is reported as a field error.
type listJugadasQuery struct {
	Page       int    `query:"page"        json:"page"        validate:"omitempty,gte=1,lte=100000"`
	Limit      int    `query:"limit"       json:"limit"       validate:"omitempty,gte=1,lte=100"`
	From       string `query:"fecha_desde" json:"fecha_desde"`
	To         string `query:"fecha_hasta" json:"fecha_hasta"`
	BancaID    string `query:"banca_id"    json:"banca_id"    validate:"omitempty,uuid"`
	VendedorID string `query:"vendedor_id" json:"vendedor_id" validate:"omitempty,uuid"`
	SorteoID   string `query:"sorteo_id"   json:"sorteo_id"`
	Status     string `query:"estado"      json:"estado"      validate:"omitempty,oneof=valida anulada"`
	Number     string `query:"numero"      json:"numero"`
}

// --- Response types ---

// jugadaFilters echoes the applied filters back to the client.
type jugadaFilters struct {
	From       *time.Time `json:"fecha_desde,omitempty"`
	To         *time.Time `json:"fecha_hasta,omitempty"`
	BancaID    string     `json:"banca_id,omitempty"`
	VendedorID string     `json:"vendedor_id,omitempty"`
	SorteoID   string     `json:"sorteo_id,omitempty"`
	Status     string     `json:"estado,omitempty"`
	Number     *int       `json:"numero,omitempty"`
}
