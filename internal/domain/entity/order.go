package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un pedido de venta (solo lo necesario para asignar y despachar).
const (
	OrderStateOpen      = "open"
	OrderStateFulfilled = "fulfilled"
)

// Order es un pedido de venta contra el que se reservan categorías de lotes.
type Order struct {
	ID             string
	CustomerName   string
	Product        string
	RequiredWeight decimal.Decimal
	State          string
	CreatedAt      time.Time
}
