package dto

import "github.com/shopspring/decimal"

// CreateOrderRequest body para POST /api/orders.
type CreateOrderRequest struct {
	CustomerName   string          `json:"customer_name" validate:"required"`
	Product        string          `json:"product" validate:"required,oneof=kion curcuma"`
	RequiredWeight decimal.Decimal `json:"required_weight"`
}

// OrderResponse pedido en respuestas.
type OrderResponse struct {
	ID             string          `json:"id"`
	CustomerName   string          `json:"customer_name"`
	Product        string          `json:"product"`
	RequiredWeight decimal.Decimal `json:"required_weight"`
	State          string          `json:"state"`
}
