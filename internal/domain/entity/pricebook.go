package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceEntry es el precio por kg de una categoría dentro de una versión del
// tarifario.
type PriceEntry struct {
	Category  string
	UnitPrice decimal.Decimal
}

// Pricebook es una foto versionada del tarifario por categoría. La
// clasificación recibe una versión explícita (no una consulta global viva)
// para que las liquidaciones sigan siendo reproducibles tras cambios de precio.
type Pricebook struct {
	Version       int
	Entries       []PriceEntry
	EffectiveDate time.Time
	CreatedAt     time.Time
}

// Price busca el precio de una categoría. ok=false si la categoría no está en
// el tarifario (la clasificación la trata como precio 0 con advertencia).
func (p *Pricebook) Price(category string) (decimal.Decimal, bool) {
	for _, e := range p.Entries {
		if e.Category == category {
			return e.UnitPrice, true
		}
	}
	return decimal.Zero, false
}
