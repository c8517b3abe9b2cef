package dto

import "github.com/shopspring/decimal"

// PriceEntryDTO precio de una categoría dentro de una versión del tarifario.
type PriceEntryDTO struct {
	Category  string          `json:"category" validate:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// SavePricebookRequest body para PUT /api/pricebook: crea una nueva versión
// completa (las versiones previas quedan intactas para reproducibilidad).
type SavePricebookRequest struct {
	EffectiveDate string          `json:"effective_date,omitempty"` // YYYY-MM-DD; vacío = hoy
	Entries       []PriceEntryDTO `json:"entries" validate:"required,min=1,dive"`
}

// PricebookResponse versión del tarifario.
type PricebookResponse struct {
	Version       int             `json:"version"`
	EffectiveDate string          `json:"effective_date"`
	Entries       []PriceEntryDTO `json:"entries"`
}
