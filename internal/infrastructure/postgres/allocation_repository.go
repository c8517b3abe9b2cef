package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/agroselva/liquidacion-api/internal/domain"
	"github.com/agroselva/liquidacion-api/internal/domain/entity"
	"github.com/agroselva/liquidacion-api/internal/domain/repository"
)

var _ repository.AllocationRepository = (*AllocationRepo)(nil)

// AllocationRepo implementación sobre PostgreSQL (usable con pool o tx).
type AllocationRepo struct {
	q Querier
}

// NewAllocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAllocationRepository(q Querier) *AllocationRepo {
	return &AllocationRepo{q: q}
}

const allocationColumns = `id, lot_id, category, order_id, weight, state, created_at, updated_at`

// Create persiste una asignación lote→pedido.
func (r *AllocationRepo) Create(allocation *entity.Allocation) error {
	query := `
		INSERT INTO allocations (` + allocationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		allocation.ID, allocation.LotID, allocation.Category, allocation.OrderID,
		allocation.Weight, allocation.State, allocation.CreatedAt, allocation.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert allocation: %w", err)
	}
	return nil
}

// GetByID obtiene una asignación por ID.
func (r *AllocationRepo) GetByID(id string) (*entity.Allocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM allocations WHERE id = $1`
	return r.scanAllocation(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate obtiene la asignación y bloquea la fila.
func (r *AllocationRepo) GetForUpdate(id string) (*entity.Allocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM allocations WHERE id = $1 FOR UPDATE`
	return r.scanAllocation(r.q.QueryRow(context.Background(), query, id))
}

// Update persiste peso y estado de la asignación.
func (r *AllocationRepo) Update(allocation *entity.Allocation) error {
	query := `UPDATE allocations SET weight = $2, state = $3, updated_at = $4 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		allocation.ID, allocation.Weight, allocation.State, allocation.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update allocation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una asignación (liberación total de la reserva).
func (r *AllocationRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM allocations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete allocation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SumByLotCategory suma el peso asignado de un (lote, categoría). Incluye las
// despachadas: el peso salió del lote de todos modos.
func (r *AllocationRepo) SumByLotCategory(lotID, category string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(weight), 0)
		FROM allocations WHERE lot_id = $1 AND category = $2`
	var sum decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, lotID, category).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum allocations: %w", err)
	}
	return sum, nil
}

// SumDispatchedByOrder suma el peso despachado contra un pedido, acumulado
// entre todos sus despachos parciales.
func (r *AllocationRepo) SumDispatchedByOrder(orderID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(weight), 0)
		FROM allocations WHERE order_id = $1 AND state = $2`
	var sum decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, orderID, entity.AllocationStateDispatched).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum dispatched allocations: %w", err)
	}
	return sum, nil
}

// ListByLot devuelve las asignaciones del lote.
func (r *AllocationRepo) ListByLot(lotID string) ([]*entity.Allocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM allocations WHERE lot_id = $1 ORDER BY created_at ASC`
	rows, err := r.q.Query(context.Background(), query, lotID)
	if err != nil {
		return nil, fmt.Errorf("list allocations: %w", err)
	}
	defer rows.Close()

	var out []*entity.Allocation
	for rows.Next() {
		var a entity.Allocation
		if err := rows.Scan(&a.ID, &a.LotID, &a.Category, &a.OrderID, &a.Weight, &a.State, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

func (r *AllocationRepo) scanAllocation(row pgx.Row) (*entity.Allocation, error) {
	var a entity.Allocation
	err := row.Scan(&a.ID, &a.LotID, &a.Category, &a.OrderID, &a.Weight, &a.State, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get allocation: %w", err)
	}
	return &a, nil
}
