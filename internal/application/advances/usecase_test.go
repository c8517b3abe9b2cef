package advances_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agroselva/liquidacion-api/internal/application/advances"
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

func newLedger(t *testing.T) (*advances.AdvanceLedgerUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.Producers().Create(&entity.Producer{
		ID: "prod-1", Name: "Aurelio Quispe", Document: "45678912",
	}))
	return advances.NewAdvanceLedgerUseCase(store, store.Advances(), store.Producers()), store
}

// seedAdvance inserta un adelanto directamente, con fecha controlada.
func seedAdvance(t *testing.T, store *memory.Store, id, date, amount string) {
	t.Helper()
	day, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)
	require.NoError(t, store.Advances().Create(&entity.Advance{
		ID:            id,
		ProducerID:    "prod-1",
		Amount:        dec(amount),
		AppliedAmount: decimal.Zero,
		Date:          day,
		State:         entity.AdvanceStatePending,
	}))
}

func TestDisburse_PosteaElParFinanciero(t *testing.T) {
	uc, store := newLedger(t)

	out, err := uc.Disburse(context.Background(), "prod-1", dto.DisburseAdvanceRequest{
		Amount:  dec("500.00"),
		Account: entity.AccountBank,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.AdvanceStatePending, out.State)
	assert.True(t, dec("500.00").Equal(out.Remaining))

	bank, err := store.Kardex().SumFinancial(entity.AccountBank)
	require.NoError(t, err)
	assert.True(t, dec("-500.00").Equal(bank), "el efectivo sale del banco: %s", bank)

	receivable, err := store.Kardex().SumFinancial(entity.AccountProducerReceivable)
	require.NoError(t, err)
	assert.True(t, dec("500.00").Equal(receivable), "crece la cuenta por cobrar: %s", receivable)
}

func TestDisburse_Rechazos(t *testing.T) {
	uc, _ := newLedger(t)
	ctx := context.Background()

	_, err := uc.Disburse(ctx, "prod-1", dto.DisburseAdvanceRequest{Amount: decimal.Zero, Account: entity.AccountCash})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "monto cero no se desembolsa")

	_, err = uc.Disburse(ctx, "prod-1", dto.DisburseAdvanceRequest{Amount: dec("100"), Account: "wallet"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "solo bank o cash")

	_, err = uc.Disburse(ctx, "prod-x", dto.DisburseAdvanceRequest{Amount: dec("100"), Account: entity.AccountCash})
	assert.ErrorIs(t, err, domain.ErrNotFound, "productor inexistente")
}

func TestBalance_AgregaTotalesDelProductor(t *testing.T) {
	uc, store := newLedger(t)
	seedAdvance(t, store, "a1", "2026-05-01", "300.00")
	seedAdvance(t, store, "a2", "2026-05-10", "500.00")

	adv, err := store.Advances().GetByID("a1")
	require.NoError(t, err)
	adv.AppliedAmount = dec("120.00")
	adv.RecomputeState()
	require.NoError(t, store.Advances().UpdateApplied(adv))

	out, err := uc.Balance(context.Background(), "prod-1")
	require.NoError(t, err)
	assert.True(t, dec("800.00").Equal(out.Total))
	assert.True(t, dec("120.00").Equal(out.Applied))
	assert.True(t, dec("680.00").Equal(out.Pending))
}

func TestApplyDeduction_FIFOMasAntiguoPrimero(t *testing.T) {
	uc, store := newLedger(t)
	// a2 se inserta primero pero su fecha es posterior: el orden lo da la fecha.
	seedAdvance(t, store, "a2", "2026-05-10", "500.00")
	seedAdvance(t, store, "a1", "2026-05-01", "300.00")

	result, err := uc.ApplyDeductionInTx(store.Advances(), "prod-1", "stl-1", dec("400.00"), time.Now())
	require.NoError(t, err)

	assert.True(t, dec("400.00").Equal(result.TotalDeducted))
	require.Len(t, result.Deductions, 2)
	assert.Equal(t, "a1", result.Deductions[0].AdvanceID, "el más antiguo se consume primero")
	assert.True(t, dec("300.00").Equal(result.Deductions[0].Amount))
	assert.Equal(t, "a2", result.Deductions[1].AdvanceID)
	assert.True(t, dec("100.00").Equal(result.Deductions[1].Amount))

	a1, _ := store.Advances().GetByID("a1")
	a2, _ := store.Advances().GetByID("a2")
	assert.Equal(t, entity.AdvanceStateFullyApplied, a1.State)
	assert.Equal(t, entity.AdvanceStatePartiallyApplied, a2.State)
	assert.True(t, dec("400.00").Equal(a2.Remaining()))
}

func TestApplyDeduction_MenorQueElPrimeroNoTocaElSegundo(t *testing.T) {
	uc, store := newLedger(t)
	seedAdvance(t, store, "a1", "2026-05-01", "300.00")
	seedAdvance(t, store, "a2", "2026-05-10", "500.00")

	result, err := uc.ApplyDeductionInTx(store.Advances(), "prod-1", "stl-1", dec("150.00"), time.Now())
	require.NoError(t, err)

	require.Len(t, result.Deductions, 1, "solo el adelanto más antiguo se toca")
	assert.Equal(t, "a1", result.Deductions[0].AdvanceID)
	a2, _ := store.Advances().GetByID("a2")
	assert.True(t, a2.AppliedAmount.IsZero())
}

func TestApplyDeduction_NuncaExcedeElSaldo(t *testing.T) {
	uc, store := newLedger(t)
	seedAdvance(t, store, "a1", "2026-05-01", "300.00")

	result, err := uc.ApplyDeductionInTx(store.Advances(), "prod-1", "stl-1", dec("1000.00"), time.Now())
	require.NoError(t, err)

	assert.True(t, dec("300.00").Equal(result.TotalDeducted),
		"el descuento se detiene cuando se agotan los adelantos")
	a1, _ := store.Advances().GetByID("a1")
	assert.True(t, a1.Remaining().IsZero())
	assert.False(t, a1.AppliedAmount.GreaterThan(a1.Amount), "jamás se aplica más que el monto")
}

func TestApplyDeduction_SinPendientesEsNoOp(t *testing.T) {
	uc, store := newLedger(t)

	result, err := uc.ApplyDeductionInTx(store.Advances(), "prod-1", "stl-1", dec("100.00"), time.Now())
	require.NoError(t, err)
	assert.True(t, result.TotalDeducted.IsZero())
	assert.Empty(t, result.Deductions)
}

func TestRestoreDeductions_ReponeExactamenteLoDescontado(t *testing.T) {
	uc, store := newLedger(t)
	seedAdvance(t, store, "a1", "2026-05-01", "300.00")
	seedAdvance(t, store, "a2", "2026-05-10", "500.00")

	_, err := uc.ApplyDeductionInTx(store.Advances(), "prod-1", "stl-1", dec("400.00"), time.Now())
	require.NoError(t, err)

	restored, err := uc.RestoreDeductionsInTx(store.Advances(), "stl-1")
	require.NoError(t, err)
	assert.True(t, dec("400.00").Equal(restored))

	a1, _ := store.Advances().GetByID("a1")
	a2, _ := store.Advances().GetByID("a2")
	assert.True(t, a1.AppliedAmount.IsZero(), "a1 vuelve a su saldo original")
	assert.True(t, a2.AppliedAmount.IsZero(), "a2 vuelve a su saldo original")
	assert.Equal(t, entity.AdvanceStatePending, a1.State)
	assert.Equal(t, entity.AdvanceStatePending, a2.State)
}
