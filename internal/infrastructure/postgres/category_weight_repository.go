package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/agroselva/liquidacion-api/internal/domain"
	"github.com/agroselva/liquidacion-api/internal/domain/entity"
	"github.com/agroselva/liquidacion-api/internal/domain/repository"
)

var _ repository.CategoryWeightRepository = (*CategoryWeightRepo)(nil)

// CategoryWeightRepo implementación sobre PostgreSQL (usable con pool o tx).
type CategoryWeightRepo struct {
	q Querier
}

// NewCategoryWeightRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCategoryWeightRepository(q Querier) *CategoryWeightRepo {
	return &CategoryWeightRepo{q: q}
}

const categoryWeightColumns = `id, lot_id, category, original_weight, moisture_percent, adjusted_weight, unit_price, subtotal, created_at`

// ReplaceForLot borra las líneas previas del lote e inserta las nuevas
// (reclasificación atómica; corre dentro de la tx del caller).
func (r *CategoryWeightRepo) ReplaceForLot(lotID string, lines []*entity.CategoryWeight) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM category_weights WHERE lot_id = $1`, lotID); err != nil {
		return fmt.Errorf("delete category weights: %w", err)
	}
	query := `
		INSERT INTO category_weights (` + categoryWeightColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, l := range lines {
		_, err := r.q.Exec(ctx, query,
			l.ID, l.LotID, l.Category, l.OriginalWeight, l.MoisturePercent,
			l.AdjustedWeight, l.UnitPrice, l.Subtotal, l.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert category weight: %w", err)
		}
	}
	return nil
}

// ListByLot devuelve las líneas de clasificación del lote.
func (r *CategoryWeightRepo) ListByLot(lotID string) ([]*entity.CategoryWeight, error) {
	query := `SELECT ` + categoryWeightColumns + ` FROM category_weights WHERE lot_id = $1 ORDER BY category`
	rows, err := r.q.Query(context.Background(), query, lotID)
	if err != nil {
		return nil, fmt.Errorf("list category weights: %w", err)
	}
	defer rows.Close()

	var out []*entity.CategoryWeight
	for rows.Next() {
		var cw entity.CategoryWeight
		if err := rows.Scan(
			&cw.ID, &cw.LotID, &cw.Category, &cw.OriginalWeight, &cw.MoisturePercent,
			&cw.AdjustedWeight, &cw.UnitPrice, &cw.Subtotal, &cw.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan category weight: %w", err)
		}
		out = append(out, &cw)
	}
	return out, rows.Err()
}

// GetByLotAndCategory obtiene una línea puntual; ErrNotFound si la categoría
// no fue clasificada en el lote.
func (r *CategoryWeightRepo) GetByLotAndCategory(lotID, category string) (*entity.CategoryWeight, error) {
	query := `SELECT ` + categoryWeightColumns + ` FROM category_weights WHERE lot_id = $1 AND category = $2`
	var cw entity.CategoryWeight
	err := r.q.QueryRow(context.Background(), query, lotID, category).Scan(
		&cw.ID, &cw.LotID, &cw.Category, &cw.OriginalWeight, &cw.MoisturePercent,
		&cw.AdjustedWeight, &cw.UnitPrice, &cw.Subtotal, &cw.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get category weight: %w", err)
	}
	return &cw, nil
}
