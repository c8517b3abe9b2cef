package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías de clasificación para kion y cúrcuma.
const (
	CategoryExportable = "exportable"
	CategoryIndustrial = "industrial"
	CategoryNacional   = "nacional"
	CategoryJugo       = "jugo"
	CategoryDescarte   = "descarte"
	CategoryPrimera    = "primera"
	CategorySegunda    = "segunda"
	CategoryTercera    = "tercera"
	CategoryCuarta     = "cuarta"
	CategoryQuinta     = "quinta"
	CategoryDedos      = "dedos"
)

// CategoryWeight es una línea de clasificación de un lote: el peso de una
// categoría con su ajuste por humedad y valorización. Solo se materializan
// categorías con peso > 0. Inmutable una vez liquidado el lote.
type CategoryWeight struct {
	ID              string
	LotID           string
	Category        string
	OriginalWeight  decimal.Decimal // kg clasificados (ya descontada la jaba)
	MoisturePercent decimal.Decimal // % de merma por humedad aplicado
	AdjustedWeight  decimal.Decimal // OriginalWeight × (1 − MoisturePercent/100)
	UnitPrice       decimal.Decimal // precio por kg según pricebook vigente
	Subtotal        decimal.Decimal // AdjustedWeight × UnitPrice
	CreatedAt       time.Time
}
