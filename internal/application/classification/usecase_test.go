package classification_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agroselva/liquidacion-api/internal/application/classification"
	"github.com/agroselva/liquidacion-api/internal/application/dto"
	"github.com/agroselva/liquidacion-api/internal/domain"
	"github.com/agroselva/liquidacion-api/internal/domain/entity"
	"github.com/agroselva/liquidacion-api/internal/infrastructure/memory"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// seedLot crea productor, tarifario y un lote de kion listo para clasificar.
func seedLot(t *testing.T, store *memory.Store, cageDiscount decimal.Decimal) *entity.Lot {
	t.Helper()
	producer := &entity.Producer{ID: "prod-1", Name: "Aurelio Quispe", Document: "45678912"}
	require.NoError(t, store.Producers().Create(producer))

	require.NoError(t, store.Pricebooks().SaveVersion(&entity.Pricebook{
		Entries: []entity.PriceEntry{
			{Category: entity.CategoryExportable, UnitPrice: dec("2.50")},
			{Category: entity.CategoryIndustrial, UnitPrice: dec("1.80")},
		},
		EffectiveDate: time.Now(),
	}))

	lot := &entity.Lot{
		ID:                 "lot-1",
		ProducerID:         producer.ID,
		Product:            entity.ProductKion,
		IntakeDate:         time.Now(),
		GrossWeight:        dec("500"),
		CageDiscountWeight: cageDiscount,
		State:              entity.LotStateReceived,
	}
	require.NoError(t, store.Lots().Create(lot))
	return lot
}

func TestClassify_ValorizaYTransiciona(t *testing.T) {
	store := memory.NewStore()
	lot := seedLot(t, store, decimal.Zero)
	uc := classification.NewClassifyLotUseCase(store, store.Pricebooks())

	out, err := uc.Classify(context.Background(), lot.ID, dto.ClassifyLotRequest{
		GlobalMoisturePercent: dec("5"),
		Lines: []dto.ClassifyLineRequest{
			{Category: entity.CategoryExportable, Weight: dec("400")},
			{Category: entity.CategoryIndustrial, Weight: dec("100")},
		},
	})
	require.NoError(t, err)
	require.Len(t, out.Lines, 2)
	assert.Empty(t, out.Warnings, "con tarifario completo no hay advertencias")

	assert.True(t, dec("380").Equal(out.Lines[0].AdjustedWeight), "exportable ajustado a 380, got %s", out.Lines[0].AdjustedWeight)
	assert.True(t, dec("950.00").Equal(out.Lines[0].Subtotal), "subtotal exportable 950.00, got %s", out.Lines[0].Subtotal)
	assert.True(t, dec("95").Equal(out.Lines[1].AdjustedWeight), "industrial ajustado a 95, got %s", out.Lines[1].AdjustedWeight)
	assert.True(t, dec("171.00").Equal(out.Lines[1].Subtotal), "subtotal industrial 171.00, got %s", out.Lines[1].Subtotal)

	got, err := store.Lots().GetByID(lot.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.LotStateClassified, got.State, "el lote queda classified tras clasificar")
}

func TestClassify_HumedadDeLineaPisaLaGlobal(t *testing.T) {
	store := memory.NewStore()
	lot := seedLot(t, store, decimal.Zero)
	uc := classification.NewClassifyLotUseCase(store, store.Pricebooks())

	lineMoisture := dec("10")
	out, err := uc.Classify(context.Background(), lot.ID, dto.ClassifyLotRequest{
		GlobalMoisturePercent: dec("5"),
		Lines: []dto.ClassifyLineRequest{
			{Category: entity.CategoryExportable, Weight: dec("100"), MoisturePercent: &lineMoisture},
			{Category: entity.CategoryIndustrial, Weight: dec("100")},
		},
	})
	require.NoError(t, err)
	assert.True(t, dec("90").Equal(out.Lines[0].AdjustedWeight), "la humedad de línea (10%%) manda sobre la global")
	assert.True(t, dec("95").Equal(out.Lines[1].AdjustedWeight), "sin humedad de línea aplica la global (5%%)")
}

func TestClassify_DescuentaJabasUnaVez(t *testing.T) {
	store := memory.NewStore()
	lot := seedLot(t, store, dec("10"))
	uc := classification.NewClassifyLotUseCase(store, store.Pricebooks())

	out, err := uc.Classify(context.Background(), lot.ID, dto.ClassifyLotRequest{
		Lines: []dto.ClassifyLineRequest{
			{Category: entity.CategoryExportable, Weight: dec("100")},
		},
	})
	require.NoError(t, err)
	assert.True(t, dec("90").Equal(out.Lines[0].OriginalWeight),
		"los 10 kg de jabas se descuentan del peso clasificado: got %s", out.Lines[0].OriginalWeight)
}

func TestClassify_PrecioFaltanteAdvierteYNoBloquea(t *testing.T) {
	store := memory.NewStore()
	lot := seedLot(t, store, decimal.Zero)
	uc := classification.NewClassifyLotUseCase(store, store.Pricebooks())

	out, err := uc.Classify(context.Background(), lot.ID, dto.ClassifyLotRequest{
		Lines: []dto.ClassifyLineRequest{
			{Category: entity.CategoryExportable, Weight: dec("100")},
			{Category: entity.CategoryDescarte, Weight: dec("20")},
		},
	})
	require.NoError(t, err, "una categoría sin precio no bloquea la clasificación")
	assert.Contains(t, out.Warnings, "MISSING_PRICE:descarte")
	assert.True(t, out.Lines[1].UnitPrice.IsZero(), "la categoría sin precio se valoriza en cero")
	assert.True(t, out.Lines[1].Subtotal.IsZero())
}

func TestClassify_LineasEnCeroNoSeMaterializan(t *testing.T) {
	store := memory.NewStore()
	lot := seedLot(t, store, decimal.Zero)
	uc := classification.NewClassifyLotUseCase(store, store.Pricebooks())

	out, err := uc.Classify(context.Background(), lot.ID, dto.ClassifyLotRequest{
		Lines: []dto.ClassifyLineRequest{
			{Category: entity.CategoryExportable, Weight: dec("100")},
			{Category: entity.CategoryDescarte, Weight: decimal.Zero},
		},
	})
	require.NoError(t, err)
	assert.Len(t, out.Lines, 1, "las categorías con peso cero no generan línea")

	records, err := store.Weights().ListByLot(lot.ID)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestClassify_ReclasificarReemplazaLineas(t *testing.T) {
	store := memory.NewStore()
	lot := seedLot(t, store, decimal.Zero)
	uc := classification.NewClassifyLotUseCase(store, store.Pricebooks())

	_, err := uc.Classify(context.Background(), lot.ID, dto.ClassifyLotRequest{
		Lines: []dto.ClassifyLineRequest{
			{Category: entity.CategoryExportable, Weight: dec("400")},
			{Category: entity.CategoryIndustrial, Weight: dec("100")},
		},
	})
	require.NoError(t, err)

	out, err := uc.Classify(context.Background(), lot.ID, dto.ClassifyLotRequest{
		Lines: []dto.ClassifyLineRequest{
			{Category: entity.CategoryExportable, Weight: dec("450")},
		},
	})
	require.NoError(t, err, "un lote classified admite reclasificación")
	assert.Len(t, out.Lines, 1)

	records, err := store.Weights().ListByLot(lot.ID)
	require.NoError(t, err)
	require.Len(t, records, 1, "la reclasificación reemplaza, no acumula")
	assert.True(t, dec("450").Equal(records[0].OriginalWeight))
}

func TestClassify_ReclasificarNoReduceCategoriasAsignadas(t *testing.T) {
	store := memory.NewStore()
	lot := seedLot(t, store, decimal.Zero)
	uc := classification.NewClassifyLotUseCase(store, store.Pricebooks())

	_, err := uc.Classify(context.Background(), lot.ID, dto.ClassifyLotRequest{
		Lines: []dto.ClassifyLineRequest{
			{Category: entity.CategoryExportable, Weight: dec("100")},
			{Category: entity.CategoryIndustrial, Weight: dec("50")},
		},
	})
	require.NoError(t, err)

	// 100 kg de exportable ya reservados para un pedido.
	require.NoError(t, store.Allocations().Create(&entity.Allocation{
		ID: "alloc-1", LotID: lot.ID, Category: entity.CategoryExportable,
		OrderID: "ord-1", Weight: dec("100"), State: entity.AllocationStateReserved,
	}))

	// Bajar la categoría por debajo de lo asignado dejaría el saldo en negativo.
	_, err = uc.Classify(context.Background(), lot.ID, dto.ClassifyLotRequest{
		Lines: []dto.ClassifyLineRequest{
			{Category: entity.CategoryExportable, Weight: dec("50")},
			{Category: entity.CategoryIndustrial, Weight: dec("50")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	// Eliminar la categoría asignada también.
	_, err = uc.Classify(context.Background(), lot.ID, dto.ClassifyLotRequest{
		Lines: []dto.ClassifyLineRequest{
			{Category: entity.CategoryIndustrial, Weight: dec("150")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	// Las líneas originales quedan intactas tras los rechazos.
	records, err := store.Weights().ListByLot(lot.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Subir o mantener el peso asignado sí procede.
	out, err := uc.Classify(context.Background(), lot.ID, dto.ClassifyLotRequest{
		Lines: []dto.ClassifyLineRequest{
			{Category: entity.CategoryExportable, Weight: dec("120")},
		},
	})
	require.NoError(t, err)
	assert.Len(t, out.Lines, 1)
}

func TestClassify_RechazosDeEntrada(t *testing.T) {
	store := memory.NewStore()
	lot := seedLot(t, store, decimal.Zero)
	uc := classification.NewClassifyLotUseCase(store, store.Pricebooks())
	ctx := context.Background()

	// Categoría duplicada.
	_, err := uc.Classify(ctx, lot.ID, dto.ClassifyLotRequest{
		Lines: []dto.ClassifyLineRequest{
			{Category: entity.CategoryExportable, Weight: dec("10")},
			{Category: entity.CategoryExportable, Weight: dec("20")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// Peso negativo.
	_, err = uc.Classify(ctx, lot.ID, dto.ClassifyLotRequest{
		Lines: []dto.ClassifyLineRequest{{Category: entity.CategoryExportable, Weight: dec("-1")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Humedad fuera de rango.
	bad := dec("101")
	_, err = uc.Classify(ctx, lot.ID, dto.ClassifyLotRequest{
		Lines: []dto.ClassifyLineRequest{{Category: entity.CategoryExportable, Weight: dec("10"), MoisturePercent: &bad}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Sin líneas.
	_, err = uc.Classify(ctx, lot.ID, dto.ClassifyLotRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClassify_LoteLiquidadoNoSeReclasifica(t *testing.T) {
	store := memory.NewStore()
	lot := seedLot(t, store, decimal.Zero)
	require.NoError(t, store.Lots().UpdateState(lot.ID, entity.LotStateSettled))
	uc := classification.NewClassifyLotUseCase(store, store.Pricebooks())

	_, err := uc.Classify(context.Background(), lot.ID, dto.ClassifyLotRequest{
		Lines: []dto.ClassifyLineRequest{{Category: entity.CategoryExportable, Weight: dec("10")}},
	})
	assert.ErrorIs(t, err, domain.ErrAlreadySettled, "hay que anular la liquidación antes de reclasificar")
}

func TestClassify_VersionExplicitaDelTarifario(t *testing.T) {
	store := memory.NewStore()
	lot := seedLot(t, store, decimal.Zero)
	// Segunda versión con precio distinto.
	require.NoError(t, store.Pricebooks().SaveVersion(&entity.Pricebook{
		Entries:       []entity.PriceEntry{{Category: entity.CategoryExportable, UnitPrice: dec("3.00")}},
		EffectiveDate: time.Now(),
	}))
	uc := classification.NewClassifyLotUseCase(store, store.Pricebooks())

	out, err := uc.Classify(context.Background(), lot.ID, dto.ClassifyLotRequest{
		PricebookVersion: 1,
		Lines:            []dto.ClassifyLineRequest{{Category: entity.CategoryExportable, Weight: dec("100")}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, out.PricebookVersion, "se respeta la versión pedida, no la vigente")
	assert.True(t, dec("2.50").Equal(out.Lines[0].UnitPrice))
}
