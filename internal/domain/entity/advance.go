package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un adelanto. Derivados del monto aplicado, nunca editados a mano.
const (
	AdvanceStatePending          = "pending"
	AdvanceStatePartiallyApplied = "partially_applied"
	AdvanceStateFullyApplied     = "fully_applied"
)

// Advance es un adelanto de efectivo entregado a un productor antes de la
// liquidación. Registro append-only: solo AppliedAmount y State cambian, y
// únicamente vía descuentos (o su reversión al anular una liquidación).
type Advance struct {
	ID            string
	ProducerID    string
	Amount        decimal.Decimal
	AppliedAmount decimal.Decimal
	Date          time.Time
	State         string
	CreatedAt     time.Time
}

// Remaining devuelve el saldo pendiente de descontar.
func (a *Advance) Remaining() decimal.Decimal {
	return a.Amount.Sub(a.AppliedAmount)
}

// RecomputeState deriva el estado a partir del monto aplicado.
func (a *Advance) RecomputeState() {
	switch {
	case a.AppliedAmount.IsZero():
		a.State = AdvanceStatePending
	case a.AppliedAmount.GreaterThanOrEqual(a.Amount):
		a.State = AdvanceStateFullyApplied
	default:
		a.State = AdvanceStatePartiallyApplied
	}
}

// AdvanceDeduction registra cuánto de un adelanto se descontó en una
// liquidación. Inmutable: la anulación de la liquidación revierte el adelanto
// pero conserva el registro para auditoría.
type AdvanceDeduction struct {
	ID           string
	AdvanceID    string
	SettlementID string
	Amount       decimal.Decimal
	Date         time.Time
}
