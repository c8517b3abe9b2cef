package liquidacion_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agroselva/liquidacion-api/internal/domain/entity"
	"github.com/agroselva/liquidacion-api/internal/domain/liquidacion"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestAdjustedWeight_MermaPorHumedad(t *testing.T) {
	// 400 kg al 5% de humedad => 380 kg netos.
	got := liquidacion.AdjustedWeight(dec("400"), dec("5"))
	assert.True(t, dec("380").Equal(got), "400 kg al 5%% deben quedar en 380 kg, no %s", got)

	// 0% de humedad no altera el peso.
	got = liquidacion.AdjustedWeight(dec("123.456"), decimal.Zero)
	assert.True(t, dec("123.456").Equal(got), "sin humedad el peso no cambia")

	// 100% de humedad anula el peso.
	got = liquidacion.AdjustedWeight(dec("50"), dec("100"))
	assert.True(t, got.IsZero(), "100%% de humedad deja el peso en cero")
}

func TestAdjustedWeight_RedondeoATresDecimales(t *testing.T) {
	// 100 × (1 − 3.333/100) = 96.667 exacto a 3 decimales.
	got := liquidacion.AdjustedWeight(dec("100"), dec("3.333"))
	assert.True(t, dec("96.667").Equal(got), "el peso ajustado se redondea a 3 decimales, got %s", got)
}

func TestRecomputeLine_EjemploDeReferencia(t *testing.T) {
	// Línea exportable del caso de referencia: 400 kg, 5% humedad, 2.50/kg.
	line := liquidacion.RecomputeLine(entity.CategoryWeight{
		Category:        entity.CategoryExportable,
		OriginalWeight:  dec("400"),
		MoisturePercent: dec("5"),
		UnitPrice:       dec("2.50"),
	})
	assert.True(t, dec("380").Equal(line.AdjustedWeight), "peso ajustado esperado 380, got %s", line.AdjustedWeight)
	assert.True(t, dec("950.00").Equal(line.Subtotal), "subtotal esperado 950.00, got %s", line.Subtotal)

	// Línea industrial: 100 kg, 5% humedad, 1.80/kg.
	line = liquidacion.RecomputeLine(entity.CategoryWeight{
		Category:        entity.CategoryIndustrial,
		OriginalWeight:  dec("100"),
		MoisturePercent: dec("5"),
		UnitPrice:       dec("1.80"),
	})
	assert.True(t, dec("95").Equal(line.AdjustedWeight), "peso ajustado esperado 95, got %s", line.AdjustedWeight)
	assert.True(t, dec("171.00").Equal(line.Subtotal), "subtotal esperado 171.00, got %s", line.Subtotal)
}

func TestGrossValue_SumaConmutativa(t *testing.T) {
	a := entity.SettlementLine{Category: entity.CategoryExportable, Subtotal: dec("950.00")}
	b := entity.SettlementLine{Category: entity.CategoryIndustrial, Subtotal: dec("171.00")}

	directo := liquidacion.GrossValue([]entity.SettlementLine{a, b})
	invertido := liquidacion.GrossValue([]entity.SettlementLine{b, a})

	assert.True(t, dec("1121.00").Equal(directo), "bruto esperado 1121.00, got %s", directo)
	assert.True(t, directo.Equal(invertido), "el orden de las categorías no altera el bruto")
}

func TestNetPayable_PuedeSerNegativo(t *testing.T) {
	net := liquidacion.NetPayable(dec("1121.00"), dec("100.00"), dec("300.00"))
	assert.True(t, dec("721.00").Equal(net), "neto esperado 721.00, got %s", net)

	net = liquidacion.NetPayable(dec("1121.00"), dec("100.00"), dec("1500.00"))
	assert.True(t, net.LessThan(decimal.Zero), "un neto negativo es un resultado válido")
	assert.True(t, dec("-479.00").Equal(net), "neto esperado -479.00, got %s", net)
}

func TestProrateCageDiscount_ConservaElTotal(t *testing.T) {
	weights := []decimal.Decimal{dec("400"), dec("100"), dec("33.333")}
	cage := dec("12")

	out := liquidacion.ProrateCageDiscount(weights, cage)
	require.Len(t, out, 3)

	totalAntes := dec("533.333")
	totalDespues := decimal.Zero
	for _, w := range out {
		totalDespues = totalDespues.Add(w)
	}
	assert.True(t, totalAntes.Sub(cage).Equal(totalDespues),
		"la suma de líneas debe bajar exactamente el peso de jabas: %s", totalDespues)

	// El descuento es proporcional: la línea más pesada pierde más.
	assert.True(t, dec("400").Sub(out[0]).GreaterThan(dec("100").Sub(out[1])),
		"la línea de mayor peso absorbe mayor descuento")
}

func TestProrateCageDiscount_SinJabasNoTocaNada(t *testing.T) {
	weights := []decimal.Decimal{dec("400"), dec("100")}

	out := liquidacion.ProrateCageDiscount(weights, decimal.Zero)
	assert.True(t, weights[0].Equal(out[0]) && weights[1].Equal(out[1]),
		"con descuento cero los pesos quedan intactos")
}

func TestProrateCageDiscount_UltimaLineaAbsorbeResiduo(t *testing.T) {
	// Tres líneas iguales con descuento que no divide exacto a 3 decimales.
	weights := []decimal.Decimal{dec("10"), dec("10"), dec("10")}
	cage := dec("1")

	out := liquidacion.ProrateCageDiscount(weights, cage)
	total := decimal.Zero
	for _, w := range out {
		total = total.Add(w)
	}
	assert.True(t, dec("29").Equal(total), "el residuo de redondeo no puede perderse: total %s", total)
}
