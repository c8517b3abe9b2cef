package settlement_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agroselva/liquidacion-api/internal/application/advances"
	"github.com/agroselva/liquidacion-api/internal/application/dto"
	"github.com/agroselva/liquidacion-api/internal/application/settlement"
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

// Caso de referencia: lote de kion clasificado en 400 kg exportables y 100 kg
// industriales, ambos al 5% de humedad, a 2.50 y 1.80 por kg.
// Bruto = 380×2.50 + 95×1.80 = 950.00 + 171.00 = 1121.00.
func newEngine(t *testing.T, advanceAmount string) (*settlement.SettlementEngineUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.Producers().Create(&entity.Producer{
		ID: "prod-1", Name: "Aurelio Quispe", Document: "45678912",
	}))
	require.NoError(t, store.Lots().Create(&entity.Lot{
		ID: "lot-1", ProducerID: "prod-1", Product: entity.ProductKion,
		State: entity.LotStateClassified,
	}))
	require.NoError(t, store.Weights().ReplaceForLot("lot-1", []*entity.CategoryWeight{
		{
			ID: "cw-1", LotID: "lot-1", Category: entity.CategoryExportable,
			OriginalWeight: dec("400"), MoisturePercent: dec("5"),
			AdjustedWeight: dec("380"), UnitPrice: dec("2.50"), Subtotal: dec("950.00"),
		},
		{
			ID: "cw-2", LotID: "lot-1", Category: entity.CategoryIndustrial,
			OriginalWeight: dec("100"), MoisturePercent: dec("5"),
			AdjustedWeight: dec("95"), UnitPrice: dec("1.80"), Subtotal: dec("171.00"),
		},
	}))
	if advanceAmount != "" {
		require.NoError(t, store.Advances().Create(&entity.Advance{
			ID: "adv-1", ProducerID: "prod-1", Amount: dec(advanceAmount),
			AppliedAmount: decimal.Zero, Date: time.Now(), State: entity.AdvanceStatePending,
		}))
	}
	ledger := advances.NewAdvanceLedgerUseCase(store, store.Advances(), store.Producers())
	return settlement.NewSettlementEngineUseCase(store, ledger), store
}

func TestCompute_CasoDeReferencia(t *testing.T) {
	uc, store := newEngine(t, "300.00")

	out, err := uc.Compute(context.Background(), "lot-1", dto.ComputeSettlementRequest{
		FreightCost: dec("100.00"),
	})
	require.NoError(t, err)

	assert.True(t, dec("1121.00").Equal(out.GrossValue), "bruto 1121.00, got %s", out.GrossValue)
	assert.True(t, dec("100.00").Equal(out.TotalFixedCosts))
	assert.True(t, dec("300.00").Equal(out.TotalAdvances))
	assert.True(t, dec("721.00").Equal(out.NetPayable), "neto 1121 − 100 − 300 = 721.00, got %s", out.NetPayable)
	assert.Equal(t, entity.SettlementStatePending, out.State)
	assert.Empty(t, out.Warnings)
	require.Len(t, out.Deductions, 1)
	assert.Equal(t, "adv-1", out.Deductions[0].AdvanceID)

	lot, _ := store.Lots().GetByID("lot-1")
	assert.Equal(t, entity.LotStateSettled, lot.State)

	// Kardex: sale el peso liquidado y nacen las cuentas del productor.
	exportable, _ := store.Kardex().SumPhysical("lot-1", entity.CategoryExportable)
	industrial, _ := store.Kardex().SumPhysical("lot-1", entity.CategoryIndustrial)
	payable, _ := store.Kardex().SumFinancial(entity.AccountProducerPayable)
	receivable, _ := store.Kardex().SumFinancial(entity.AccountProducerReceivable)
	assert.True(t, dec("-380").Equal(exportable))
	assert.True(t, dec("-95").Equal(industrial))
	assert.True(t, dec("721.00").Equal(payable))
	assert.True(t, dec("-300.00").Equal(receivable), "los adelantos recuperados bajan la cuenta por cobrar")
}

func TestCompute_NetoNegativoAdvierteYProcede(t *testing.T) {
	uc, store := newEngine(t, "1500.00")

	out, err := uc.Compute(context.Background(), "lot-1", dto.ComputeSettlementRequest{
		FreightCost: dec("100.00"),
	})
	require.NoError(t, err, "un neto negativo es resultado válido, no error")

	// Se descuenta hasta el bruto (1121.00); el productor sigue debiendo 379.
	assert.True(t, dec("1121.00").Equal(out.TotalAdvances))
	assert.True(t, dec("-100.00").Equal(out.NetPayable), "neto 1121 − 100 − 1121 = −100.00, got %s", out.NetPayable)
	assert.Contains(t, out.Warnings, entity.WarningNegativeSettlement)

	adv, _ := store.Advances().GetByID("adv-1")
	assert.True(t, dec("379.00").Equal(adv.Remaining()), "queda deuda pendiente del productor: %s", adv.Remaining())
}

func TestCompute_RecalcularEstaProhibido(t *testing.T) {
	uc, _ := newEngine(t, "")
	ctx := context.Background()

	_, err := uc.Compute(ctx, "lot-1", dto.ComputeSettlementRequest{})
	require.NoError(t, err)

	_, err = uc.Compute(ctx, "lot-1", dto.ComputeSettlementRequest{})
	assert.ErrorIs(t, err, domain.ErrAlreadySettled, "liquidar dos veces exige anular primero")
}

func TestCompute_Rechazos(t *testing.T) {
	uc, store := newEngine(t, "")
	ctx := context.Background()

	// Lote sin clasificar.
	require.NoError(t, store.Lots().Create(&entity.Lot{
		ID: "lot-raw", ProducerID: "prod-1", Product: entity.ProductKion,
		State: entity.LotStateReceived,
	}))
	_, err := uc.Compute(ctx, "lot-raw", dto.ComputeSettlementRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	// Costos negativos.
	_, err = uc.Compute(ctx, "lot-1", dto.ComputeSettlementRequest{FreightCost: dec("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Lote inexistente.
	_, err = uc.Compute(ctx, "lot-x", dto.ComputeSettlementRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCompute_PrecioFaltantePropagaAdvertencia(t *testing.T) {
	uc, store := newEngine(t, "")
	require.NoError(t, store.Weights().ReplaceForLot("lot-1", []*entity.CategoryWeight{
		{
			ID: "cw-1", LotID: "lot-1", Category: entity.CategoryDescarte,
			OriginalWeight: dec("50"), AdjustedWeight: dec("50"),
			UnitPrice: decimal.Zero, Subtotal: decimal.Zero,
		},
	}))

	out, err := uc.Compute(context.Background(), "lot-1", dto.ComputeSettlementRequest{})
	require.NoError(t, err)
	assert.Contains(t, out.Warnings, "MISSING_PRICE:descarte")
	assert.True(t, out.GrossValue.IsZero())
}

func TestVoid_CompensaYRestauraTodo(t *testing.T) {
	uc, store := newEngine(t, "300.00")
	ctx := context.Background()

	out, err := uc.Compute(ctx, "lot-1", dto.ComputeSettlementRequest{FreightCost: dec("100.00")})
	require.NoError(t, err)

	void, err := uc.Void(ctx, out.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, void.CompensatingMovements, "la anulación postea compensatorios, no borra")
	for _, m := range void.CompensatingMovements {
		assert.Equal(t, entity.RefVoid, m.RefType)
	}

	// El adelanto recupera su saldo exacto.
	adv, _ := store.Advances().GetByID("adv-1")
	assert.True(t, dec("300.00").Equal(adv.Remaining()), "el adelanto vuelve a su saldo: %s", adv.Remaining())
	assert.Equal(t, entity.AdvanceStatePending, adv.State)

	// El lote vuelve a classified y los saldos del kardex quedan en cero.
	lot, _ := store.Lots().GetByID("lot-1")
	assert.Equal(t, entity.LotStateClassified, lot.State)
	exportable, _ := store.Kardex().SumPhysical("lot-1", entity.CategoryExportable)
	payable, _ := store.Kardex().SumFinancial(entity.AccountProducerPayable)
	receivable, _ := store.Kardex().SumFinancial(entity.AccountProducerReceivable)
	assert.True(t, exportable.IsZero(), "compensación física exacta: %s", exportable)
	assert.True(t, payable.IsZero())
	assert.True(t, receivable.IsZero())

	stl, _ := store.Settlements().GetByID(out.ID)
	assert.Equal(t, entity.SettlementStateVoided, stl.State)

	// Tras anular se puede volver a liquidar.
	again, err := uc.Compute(ctx, "lot-1", dto.ComputeSettlementRequest{FreightCost: dec("100.00")})
	require.NoError(t, err, "anular reabre el lote para una nueva liquidación")
	assert.True(t, dec("721.00").Equal(again.NetPayable))
}

func TestVoid_DosVecesFalla(t *testing.T) {
	uc, _ := newEngine(t, "")
	ctx := context.Background()

	out, err := uc.Compute(ctx, "lot-1", dto.ComputeSettlementRequest{})
	require.NoError(t, err)
	_, err = uc.Void(ctx, out.ID)
	require.NoError(t, err)

	_, err = uc.Void(ctx, out.ID)
	assert.ErrorIs(t, err, domain.ErrSettlementVoided)
}

func TestPay_ConfirmaElPago(t *testing.T) {
	uc, store := newEngine(t, "300.00")
	ctx := context.Background()

	out, err := uc.Compute(ctx, "lot-1", dto.ComputeSettlementRequest{FreightCost: dec("100.00")})
	require.NoError(t, err)

	paid, err := uc.Pay(ctx, out.ID, entity.AccountBank)
	require.NoError(t, err)
	assert.Equal(t, entity.SettlementStatePaid, paid.State)

	lot, _ := store.Lots().GetByID("lot-1")
	assert.Equal(t, entity.LotStatePaid, lot.State)

	// El pago salda la cuenta por pagar y saca el efectivo del banco.
	payable, _ := store.Kardex().SumFinancial(entity.AccountProducerPayable)
	bank, _ := store.Kardex().SumFinancial(entity.AccountBank)
	assert.True(t, payable.IsZero(), "la cuenta por pagar queda saldada: %s", payable)
	assert.True(t, dec("-721.00").Equal(bank))

	// Pagar dos veces no procede.
	_, err = uc.Pay(ctx, out.ID, entity.AccountBank)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestPay_NetoNoPositivoNoGeneraPago(t *testing.T) {
	uc, _ := newEngine(t, "1500.00")
	ctx := context.Background()

	out, err := uc.Compute(ctx, "lot-1", dto.ComputeSettlementRequest{FreightCost: dec("100.00")})
	require.NoError(t, err)

	_, err = uc.Pay(ctx, out.ID, entity.AccountCash)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "un neto negativo no se paga")
}

func TestVoid_DespuesDePagarCompensaElPagoTambien(t *testing.T) {
	uc, store := newEngine(t, "")
	ctx := context.Background()

	out, err := uc.Compute(ctx, "lot-1", dto.ComputeSettlementRequest{})
	require.NoError(t, err)
	_, err = uc.Pay(ctx, out.ID, entity.AccountBank)
	require.NoError(t, err)

	_, err = uc.Void(ctx, out.ID)
	require.NoError(t, err)

	bank, _ := store.Kardex().SumFinancial(entity.AccountBank)
	payable, _ := store.Kardex().SumFinancial(entity.AccountProducerPayable)
	assert.True(t, bank.IsZero(), "el pago compensado devuelve el efectivo: %s", bank)
	assert.True(t, payable.IsZero())

	lot, _ := store.Lots().GetByID("lot-1")
	assert.Equal(t, entity.LotStateClassified, lot.State)
}
