package dto

import "github.com/shopspring/decimal"

// ComputeSettlementRequest body para POST /api/lots/:id/settlement.
// Costos fijos de la liquidación; el descuento de jabas no va aquí (se aplica
// una sola vez, en la clasificación).
type ComputeSettlementRequest struct {
	FreightCost        decimal.Decimal `json:"freight_cost"`
	HarvestCost        decimal.Decimal `json:"harvest_cost"`
	TollProcessingCost decimal.Decimal `json:"toll_processing_cost"` // maquila
}

// SettlementLineResponse línea del snapshot de la liquidación.
type SettlementLineResponse struct {
	Category       string          `json:"category"`
	OriginalWeight decimal.Decimal `json:"original_weight"`
	AdjustedWeight decimal.Decimal `json:"adjusted_weight"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

// AdvanceDeductionResponse descuento aplicado sobre un adelanto.
type AdvanceDeductionResponse struct {
	AdvanceID string          `json:"advance_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// SettlementResponse liquidación calculada. NetPayable puede ser negativo y
// en ese caso Warnings incluye NEGATIVE_SETTLEMENT.
type SettlementResponse struct {
	ID              string                     `json:"id"`
	LotID           string                     `json:"lot_id"`
	ProducerID      string                     `json:"producer_id"`
	Lines           []SettlementLineResponse   `json:"lines"`
	GrossValue      decimal.Decimal            `json:"gross_value"`
	TotalFixedCosts decimal.Decimal            `json:"total_fixed_costs"`
	TotalAdvances   decimal.Decimal            `json:"total_advances"`
	NetPayable      decimal.Decimal            `json:"net_payable"`
	State           string                     `json:"state"`
	Deductions      []AdvanceDeductionResponse `json:"deductions,omitempty"`
	Warnings        []string                   `json:"warnings,omitempty"`
}

// PaySettlementRequest body para POST /api/settlements/:id/payment.
type PaySettlementRequest struct {
	Account string `json:"account" validate:"required,oneof=bank cash"`
}

// VoidSettlementResponse movimientos compensatorios generados por la anulación.
type VoidSettlementResponse struct {
	SettlementID          string                   `json:"settlement_id"`
	CompensatingMovements []KardexMovementResponse `json:"compensating_movements"`
}
