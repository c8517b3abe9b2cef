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

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo implementación de LotRepository sobre PostgreSQL (usable con pool o tx).
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

const lotColumns = `id, producer_id, product, intake_date, gross_weight, cage_discount_weight, state, created_at, updated_at`

// Create persiste un lote recibido.
func (r *LotRepo) Create(lot *entity.Lot) error {
	query := `
		INSERT INTO lots (` + lotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		lot.ID, lot.ProducerID, lot.Product, lot.IntakeDate,
		lot.GrossWeight, lot.CageDiscountWeight, lot.State, lot.CreatedAt, lot.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert lot: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID.
func (r *LotRepo) GetByID(id string) (*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE id = $1`
	return r.scanLot(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate obtiene el lote y bloquea la fila (SELECT FOR UPDATE). Es el
// candado de serialización de clasificación, liquidación y asignación.
func (r *LotRepo) GetForUpdate(id string) (*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE id = $1 FOR UPDATE`
	return r.scanLot(r.q.QueryRow(context.Background(), query, id))
}

// UpdateState cambia el estado del lote.
func (r *LotRepo) UpdateState(id, state string) error {
	query := `UPDATE lots SET state = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, state)
	if err != nil {
		return fmt.Errorf("update lot state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *LotRepo) scanLot(row pgx.Row) (*entity.Lot, error) {
	var l entity.Lot
	err := row.Scan(
		&l.ID, &l.ProducerID, &l.Product, &l.IntakeDate,
		&l.GrossWeight, &l.CageDiscountWeight, &l.State, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return &l, nil
}
