package liquidacion

import (
	"github.com/shopspring/decimal"

	"github.com/agroselva/liquidacion-api/internal/domain/entity"
)

// Precisión: pesos a 3 decimales (kg con gramos), montos a 2 (céntimos).
const (
	weightPlaces = 3
	moneyPlaces  = 2
)

// cien para convertir porcentajes.
var cien = decimal.NewFromInt(100)

// AdjustedWeight calcula el peso neto tras la merma por humedad:
// original × (1 − humedad/100).
func AdjustedWeight(original, moisturePercent decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Sub(moisturePercent.Div(cien))
	return original.Mul(factor).Round(weightPlaces)
}

// RecomputeLine recalcula AdjustedWeight y Subtotal de una línea a partir de
// OriginalWeight, MoisturePercent y UnitPrice. Función pura: la usan igual el
// motor de liquidación y cualquier vista previa, así nunca divergen.
func RecomputeLine(line entity.CategoryWeight) entity.CategoryWeight {
	line.AdjustedWeight = AdjustedWeight(line.OriginalWeight, line.MoisturePercent)
	line.Subtotal = line.AdjustedWeight.Mul(line.UnitPrice).Round(moneyPlaces)
	return line
}

// ProrateCageDiscount reparte el peso de jabas del lote entre los pesos
// originales de las líneas, proporcional a la participación de cada una.
// El descuento es por lote (una sola vez, en la clasificación); prorratearlo
// mantiene la suma de líneas igual al peso neto de jabas. La última línea
// absorbe el residuo de redondeo.
func ProrateCageDiscount(weights []decimal.Decimal, cage decimal.Decimal) []decimal.Decimal {
	if cage.LessThanOrEqual(decimal.Zero) || len(weights) == 0 {
		return weights
	}
	total := decimal.Zero
	for _, w := range weights {
		total = total.Add(w)
	}
	if total.LessThanOrEqual(decimal.Zero) {
		return weights
	}
	out := make([]decimal.Decimal, len(weights))
	remaining := cage
	for i, w := range weights {
		var discount decimal.Decimal
		if i == len(weights)-1 {
			discount = remaining
		} else {
			discount = cage.Mul(w).Div(total).Round(weightPlaces)
			remaining = remaining.Sub(discount)
		}
		out[i] = w.Sub(discount)
	}
	return out
}

// GrossValue suma los subtotales de las líneas. Suma conmutativa: el orden de
// las categorías no altera el resultado.
func GrossValue(lines []entity.SettlementLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal)
	}
	return total
}

// NetPayable calcula el neto a pagar: bruto − costos fijos − adelantos.
// Puede ser negativo; eso es un resultado válido, no un error.
func NetPayable(gross, fixedCosts, advances decimal.Decimal) decimal.Decimal {
	return gross.Sub(fixedCosts).Sub(advances)
}
