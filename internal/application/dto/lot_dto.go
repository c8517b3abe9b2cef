package dto

import "github.com/shopspring/decimal"

// CreateLotRequest body para POST /api/lots (ingreso de materia prima).
type CreateLotRequest struct {
	ProducerID         string          `json:"producer_id" validate:"required,uuid4"`
	Product            string          `json:"product" validate:"required,oneof=kion curcuma"`
	IntakeDate         string          `json:"intake_date,omitempty"` // YYYY-MM-DD; vacío = hoy
	GrossWeight        decimal.Decimal `json:"gross_weight"`
	CageDiscountWeight decimal.Decimal `json:"cage_discount_weight"` // kg de jabas
}

// LotResponse lote en respuestas.
type LotResponse struct {
	ID                 string          `json:"id"`
	ProducerID         string          `json:"producer_id"`
	Product            string          `json:"product"`
	IntakeDate         string          `json:"intake_date"`
	GrossWeight        decimal.Decimal `json:"gross_weight"`
	CageDiscountWeight decimal.Decimal `json:"cage_discount_weight"`
	State              string          `json:"state"`
}

// ClassifyLineRequest una categoría pesada en la clasificación.
// MoisturePercent opcional: si va nil se usa la humedad global del request.
type ClassifyLineRequest struct {
	Category        string           `json:"category" validate:"required"`
	Weight          decimal.Decimal  `json:"weight"`
	MoisturePercent *decimal.Decimal `json:"moisture_percent,omitempty"`
}

// ClassifyLotRequest body para POST /api/lots/:id/classification.
// PricebookVersion opcional: 0 = versión vigente.
type ClassifyLotRequest struct {
	GlobalMoisturePercent decimal.Decimal       `json:"global_moisture_percent"`
	PricebookVersion      int                   `json:"pricebook_version,omitempty"`
	Lines                 []ClassifyLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// CategoryWeightResponse línea de clasificación en respuestas.
type CategoryWeightResponse struct {
	Category        string          `json:"category"`
	OriginalWeight  decimal.Decimal `json:"original_weight"`
	MoisturePercent decimal.Decimal `json:"moisture_percent"`
	AdjustedWeight  decimal.Decimal `json:"adjusted_weight"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Subtotal        decimal.Decimal `json:"subtotal"`
}

// ClassificationResponse resultado de clasificar un lote. Warnings llegan en
// el cuerpo de éxito: la operación procede aunque falte un precio.
type ClassificationResponse struct {
	LotID            string                   `json:"lot_id"`
	PricebookVersion int                      `json:"pricebook_version"`
	Lines            []CategoryWeightResponse `json:"lines"`
	Warnings         []string                 `json:"warnings,omitempty"`
}
