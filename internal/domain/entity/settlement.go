package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de pago de una liquidación.
const (
	SettlementStatePending = "pending"
	SettlementStatePaid    = "paid"
	SettlementStateVoided  = "voided"
)

// Advertencias no fatales que acompañan un resultado exitoso.
// No son errores: el cálculo procede y el resultado queda marcado para revisión.
const (
	WarningMissingPrice       = "MISSING_PRICE"
	WarningNegativeSettlement = "NEGATIVE_SETTLEMENT"
)

// SettlementLine es la foto de una línea de clasificación al momento de
// liquidar. Copia, no referencia: cambios posteriores de precio o reclasificación
// no alteran una liquidación ya emitida.
type SettlementLine struct {
	Category       string
	OriginalWeight decimal.Decimal
	AdjustedWeight decimal.Decimal
	UnitPrice      decimal.Decimal
	Subtotal       decimal.Decimal
}

// Settlement es la liquidación de un lote: valor bruto de las categorías
// clasificadas menos costos fijos y adelantos descontados (FIFO).
// NetPayable puede ser negativo; es un estado válido marcado con advertencia,
// no un error. Una sola liquidación activa por lote.
type Settlement struct {
	ID                 string
	LotID              string
	ProducerID         string
	Lines              []SettlementLine
	FreightCost        decimal.Decimal
	HarvestCost        decimal.Decimal
	TollProcessingCost decimal.Decimal // maquila
	GrossValue         decimal.Decimal
	TotalFixedCosts    decimal.Decimal
	TotalAdvances      decimal.Decimal
	NetPayable         decimal.Decimal
	State              string
	PaidAccount        string // bank o cash; vacío mientras esté pendiente
	Warnings           []string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
