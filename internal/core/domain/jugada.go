package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// JugadaStatus represents the lifecycle state of a wager.
type JugadaStatus string

const (
	JugadaValid     JugadaStatus = "valida"
	JugadaCancelled JugadaStatus = "anulada"
)

// validTransitions defines the allowed state machine transitions.
// anulada is terminal.
var validTransitions = map[JugadaStatus][]JugadaStatus{
	JugadaValid: {JugadaCancelled},
}

var ErrJugadaNotFound = fmt.Errorf("jugada %w", ErrNotFound)

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s JugadaStatus) CanTransitionTo(next JugadaStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

const (
	MinNumero = 0
	MaxNumero = 99
)

// MontoDecimals is the scale of stored amounts (NUMERIC(12,2)).
const MontoDecimals = 2

// Jugada is a wager registered by a vendedor at a banca for one draw.
type Jugada struct {
	ID         string          `json:"id"`
	BancaID    string          `json:"banca_id"`
	VendedorID string          `json:"vendedor_id"`
	SorteoID   string          `json:"sorteo_id"`
	Numbers    []int           `json:"numeros"`
	Amount     decimal.Decimal `json:"monto"`
	PlacedAt   time.Time       `json:"fecha_hora"`
	Status     JugadaStatus    `json:"estado"`
	Prize      decimal.Decimal `json:"premio"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// DrawDate is the calendar date (UTC) used to look up the draw result.
func (j *Jugada) DrawDate() time.Time {
	t := j.PlacedAt.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Resultado is the outcome of a draw on a given date.
type Resultado struct {
	SorteoID  string    `json:"sorteo_id"`
	Date      time.Time `json:"fecha"`
	Published bool      `json:"publicado"`
}

var ErrResultadoNotFound = fmt.Errorf("resultado %w", ErrNotFound)
