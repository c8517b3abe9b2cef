package dto

import "github.com/shopspring/decimal"

// ManualAdjustmentRequest body para POST /api/kardex/adjustments.
// Físico: lot_id + category + weight_delta. Financiero: account + amount_delta.
// Reason es obligatorio siempre.
type ManualAdjustmentRequest struct {
	Ledger      string          `json:"ledger" validate:"required,oneof=physical financial"`
	LotID       string          `json:"lot_id,omitempty"`
	Category    string          `json:"category,omitempty"`
	WeightDelta decimal.Decimal `json:"weight_delta,omitempty"`
	Account     string          `json:"account,omitempty"`
	AmountDelta decimal.Decimal `json:"amount_delta,omitempty"`
	Reason      string          `json:"reason" validate:"required"`
}

// KardexMovementResponse asiento del kardex en respuestas.
type KardexMovementResponse struct {
	ID          string          `json:"id"`
	Ledger      string          `json:"ledger"`
	LotID       string          `json:"lot_id,omitempty"`
	Category    string          `json:"category,omitempty"`
	WeightDelta decimal.Decimal `json:"weight_delta,omitempty"`
	Account     string          `json:"account,omitempty"`
	AmountDelta decimal.Decimal `json:"amount_delta,omitempty"`
	RefType     string          `json:"ref_type"`
	RefID       string          `json:"ref_id,omitempty"`
	Reason      string          `json:"reason,omitempty"`
	CreatedAt   string          `json:"created_at"`
}

// StatementResponse estado de cuenta de un productor: ambos ledgers filtrados
// a sus lotes, liquidaciones y adelantos, en orden cronológico.
type StatementResponse struct {
	ProducerID string                   `json:"producer_id"`
	Movements  []KardexMovementResponse `json:"movements"`
}
