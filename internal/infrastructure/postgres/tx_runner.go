package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agroselva/liquidacion-api/internal/application/advances"
	"github.com/agroselva/liquidacion-api/internal/application/allocation"
	"github.com/agroselva/liquidacion-api/internal/application/classification"
	"github.com/agroselva/liquidacion-api/internal/application/kardex"
	"github.com/agroselva/liquidacion-api/internal/application/settlement"
	"github.com/agroselva/liquidacion-api/internal/domain/repository"
)

// Ensure TxRunner implements los runners de cada caso de uso.
var _ classification.TxRunner = (*TxRunner)(nil)
var _ advances.TxRunner = (*TxRunner)(nil)
var _ allocation.TxRunner = (*TxRunner)(nil)
var _ settlement.TxRunner = (*TxRunner)(nil)
var _ kardex.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL, pasando
// repositorios atados a esa tx. Garantiza que los asientos físicos y
// financieros de una operación se confirmen juntos o no se confirmen.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

func (r *TxRunner) inTx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Run transacción de clasificación: lote, líneas de categorías y las
// asignaciones vigentes contra las que se valida la reclasificación.
func (r *TxRunner) Run(ctx context.Context, fn func(
	lotRepo repository.LotRepository,
	weightRepo repository.CategoryWeightRepository,
	allocationRepo repository.AllocationRepository,
) error) error {
	return r.inTx(ctx, func(q Querier) error {
		return fn(NewLotRepository(q), NewCategoryWeightRepository(q), NewAllocationRepository(q))
	})
}

// RunAdvance transacción de desembolso: adelanto + asientos financieros.
func (r *TxRunner) RunAdvance(ctx context.Context, fn func(
	advanceRepo repository.AdvanceRepository,
	kardexRepo repository.KardexRepository,
) error) error {
	return r.inTx(ctx, func(q Querier) error {
		return fn(NewAdvanceRepository(q), NewKardexRepository(q))
	})
}

// RunAllocation transacción de asignación lote→pedido.
func (r *TxRunner) RunAllocation(ctx context.Context, fn func(
	lotRepo repository.LotRepository,
	weightRepo repository.CategoryWeightRepository,
	allocationRepo repository.AllocationRepository,
	orderRepo repository.OrderRepository,
) error) error {
	return r.inTx(ctx, func(q Querier) error {
		return fn(NewLotRepository(q), NewCategoryWeightRepository(q), NewAllocationRepository(q), NewOrderRepository(q))
	})
}

// RunSettlement transacción del motor de liquidación: lote, líneas,
// adelantos, liquidación y kardex en una sola unidad atómica.
func (r *TxRunner) RunSettlement(ctx context.Context, fn func(
	lotRepo repository.LotRepository,
	weightRepo repository.CategoryWeightRepository,
	advanceRepo repository.AdvanceRepository,
	settlementRepo repository.SettlementRepository,
	kardexRepo repository.KardexRepository,
) error) error {
	return r.inTx(ctx, func(q Querier) error {
		return fn(
			NewLotRepository(q),
			NewCategoryWeightRepository(q),
			NewAdvanceRepository(q),
			NewSettlementRepository(q),
			NewKardexRepository(q),
		)
	})
}

// RunKardex transacción del kardex: despacho de ventas, sus asientos y el
// agotamiento físico del lote.
func (r *TxRunner) RunKardex(ctx context.Context, fn func(
	lotRepo repository.LotRepository,
	weightRepo repository.CategoryWeightRepository,
	allocationRepo repository.AllocationRepository,
	orderRepo repository.OrderRepository,
	kardexRepo repository.KardexRepository,
) error) error {
	return r.inTx(ctx, func(q Querier) error {
		return fn(
			NewLotRepository(q),
			NewCategoryWeightRepository(q),
			NewAllocationRepository(q),
			NewOrderRepository(q),
			NewKardexRepository(q),
		)
	})
}
