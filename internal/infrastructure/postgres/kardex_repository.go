package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/agroselva/liquidacion-api/internal/domain"
	"github.com/agroselva/liquidacion-api/internal/domain/entity"
	"github.com/agroselva/liquidacion-api/internal/domain/repository"
)

var _ repository.KardexRepository = (*KardexRepo)(nil)

// KardexRepo implementación sobre PostgreSQL (usable con pool o tx).
// Solo INSERT y SELECT: no hay UPDATE ni DELETE sobre kardex_movements.
type KardexRepo struct {
	q Querier
}

// NewKardexRepository construye el adaptador. Pasar pool o tx (Querier).
func NewKardexRepository(q Querier) *KardexRepo {
	return &KardexRepo{q: q}
}

const kardexColumns = `id, ledger, lot_id, category, weight_delta, account, amount_delta, producer_id, ref_type, ref_id, reason, created_at`

// Create postea un asiento inmutable.
func (r *KardexRepo) Create(m *entity.KardexMovement) error {
	query := `
		INSERT INTO kardex_movements (` + kardexColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.Ledger, nullIfEmpty(m.LotID), nullIfEmpty(m.Category), m.WeightDelta,
		nullIfEmpty(m.Account), m.AmountDelta, nullIfEmpty(m.ProducerID),
		m.RefType, nullIfEmpty(m.RefID), nullIfEmpty(m.Reason), m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert kardex movement: %w", err)
	}
	return nil
}

// GetByID obtiene un asiento por ID.
func (r *KardexRepo) GetByID(id string) (*entity.KardexMovement, error) {
	query := `SELECT ` + kardexColumns + ` FROM kardex_movements WHERE id = $1`
	rows, err := r.q.Query(context.Background(), query, id)
	if err != nil {
		return nil, fmt.Errorf("get kardex movement: %w", err)
	}
	defer rows.Close()
	out, err := scanMovements(rows)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, domain.ErrNotFound
	}
	return out[0], nil
}

// SumPhysical saldo de kg de un (lote, categoría), derivado por suma.
func (r *KardexRepo) SumPhysical(lotID, category string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(weight_delta), 0)
		FROM kardex_movements
		WHERE ledger = $1 AND lot_id = $2 AND category = $3`
	var sum decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, entity.LedgerPhysical, lotID, category).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum physical kardex: %w", err)
	}
	return sum, nil
}

// SumFinancial saldo de una cuenta, derivado por suma.
func (r *KardexRepo) SumFinancial(account string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount_delta), 0)
		FROM kardex_movements
		WHERE ledger = $1 AND account = $2`
	var sum decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, entity.LedgerFinancial, account).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum financial kardex: %w", err)
	}
	return sum, nil
}

// ListByProducer ambos ledgers del productor en orden cronológico.
func (r *KardexRepo) ListByProducer(producerID string) ([]*entity.KardexMovement, error) {
	query := `
		SELECT ` + kardexColumns + `
		FROM kardex_movements
		WHERE producer_id = $1
		ORDER BY created_at ASC, id ASC`
	rows, err := r.q.Query(context.Background(), query, producerID)
	if err != nil {
		return nil, fmt.Errorf("list kardex movements: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// ExistsVoidOf indica si ya existe el compensatorio de un asiento.
func (r *KardexRepo) ExistsVoidOf(movementID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM kardex_movements WHERE ref_type = $1 AND ref_id = $2)`
	var exists bool
	if err := r.q.QueryRow(context.Background(), query, entity.RefVoid, movementID).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists void movement: %w", err)
	}
	return exists, nil
}

func scanMovements(rows pgx.Rows) ([]*entity.KardexMovement, error) {
	var out []*entity.KardexMovement
	for rows.Next() {
		var m entity.KardexMovement
		var lotID, category, account, producerID, refID, reason *string
		if err := rows.Scan(
			&m.ID, &m.Ledger, &lotID, &category, &m.WeightDelta,
			&account, &m.AmountDelta, &producerID, &m.RefType, &refID, &reason, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan kardex movement: %w", err)
		}
		m.LotID = deref(lotID)
		m.Category = deref(category)
		m.Account = deref(account)
		m.ProducerID = deref(producerID)
		m.RefID = deref(refID)
		m.Reason = deref(reason)
		out = append(out, &m)
	}
	return out, rows.Err()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
