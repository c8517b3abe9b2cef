package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una asignación lote→pedido.
const (
	AllocationStateReserved   = "reserved"
	AllocationStateDispatched = "dispatched"
)

// Allocation reserva peso de una categoría de un lote contra un pedido de
// venta. La suma de asignaciones de un (lote, categoría) nunca supera el peso
// clasificado original de esa categoría; el saldo disponible siempre se deriva
// sumando asignaciones, nunca se cachea.
type Allocation struct {
	ID        string
	LotID     string
	Category  string
	OrderID   string
	Weight    decimal.Decimal
	State     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
