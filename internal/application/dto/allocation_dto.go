package dto

import "github.com/shopspring/decimal"

// AllocateRequest body para POST /api/allocations (reserva lote→pedido).
type AllocateRequest struct {
	LotID    string          `json:"lot_id" validate:"required,uuid4"`
	Category string          `json:"category" validate:"required"`
	OrderID  string          `json:"order_id" validate:"required,uuid4"`
	Weight   decimal.Decimal `json:"weight"`
}

// AllocationResponse asignación creada/actualizada con el saldo restante.
type AllocationResponse struct {
	ID               string          `json:"id"`
	LotID            string          `json:"lot_id"`
	Category         string          `json:"category"`
	OrderID          string          `json:"order_id"`
	Weight           decimal.Decimal `json:"weight"`
	State            string          `json:"state"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
}

// DeallocateRequest body opcional para DELETE /api/allocations/:id.
// Weight nil = eliminar la asignación completa; con valor = reducirla.
type DeallocateRequest struct {
	Weight *decimal.Decimal `json:"weight,omitempty"`
}

// AvailableBalanceResponse saldo físico asignable de un (lote, categoría).
type AvailableBalanceResponse struct {
	LotID            string          `json:"lot_id"`
	Category         string          `json:"category"`
	OriginalWeight   decimal.Decimal `json:"original_weight"`
	Allocated        decimal.Decimal `json:"allocated"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
}

// DispatchRequest body para POST /api/allocations/:id/dispatch.
// SaleUnitPrice: precio de venta por kg pactado con el cliente del pedido.
type DispatchRequest struct {
	SaleUnitPrice decimal.Decimal `json:"sale_unit_price"`
}

// DispatchResponse resultado de despachar una asignación a su pedido.
type DispatchResponse struct {
	AllocationID string                   `json:"allocation_id"`
	OrderID      string                   `json:"order_id"`
	Movements    []KardexMovementResponse `json:"movements"`
}
