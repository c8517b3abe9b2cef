package dto

import "github.com/shopspring/decimal"

// DisburseAdvanceRequest body para POST /api/producers/:id/advances.
// Account indica de dónde sale el efectivo (bank o cash).
type DisburseAdvanceRequest struct {
	Amount  decimal.Decimal `json:"amount"`
	Date    string          `json:"date,omitempty"` // YYYY-MM-DD; vacío = hoy
	Account string          `json:"account" validate:"required,oneof=bank cash"`
}

// AdvanceResponse adelanto en respuestas.
type AdvanceResponse struct {
	ID            string          `json:"id"`
	ProducerID    string          `json:"producer_id"`
	Amount        decimal.Decimal `json:"amount"`
	AppliedAmount decimal.Decimal `json:"applied_amount"`
	Remaining     decimal.Decimal `json:"remaining"`
	Date          string          `json:"date"`
	State         string          `json:"state"`
}

// AdvanceBalanceResponse saldo de adelantos de un productor.
type AdvanceBalanceResponse struct {
	ProducerID string          `json:"producer_id"`
	Total      decimal.Decimal `json:"total"`
	Pending    decimal.Decimal `json:"pending"`
	Applied    decimal.Decimal `json:"applied"`
}
