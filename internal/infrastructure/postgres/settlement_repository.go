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

var _ repository.SettlementRepository = (*SettlementRepo)(nil)

// SettlementRepo implementación sobre PostgreSQL (usable con pool o tx).
// El snapshot de líneas vive en settlement_lines; sin él, la liquidación no
// sería reproducible tras reclasificaciones o cambios de precio.
type SettlementRepo struct {
	q Querier
}

// NewSettlementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSettlementRepository(q Querier) *SettlementRepo {
	return &SettlementRepo{q: q}
}

const settlementColumns = `id, lot_id, producer_id, freight_cost, harvest_cost, toll_processing_cost, gross_value, total_fixed_costs, total_advances, net_payable, state, paid_account, warnings, created_at, updated_at`

// Create persiste la liquidación con su snapshot de líneas.
func (r *SettlementRepo) Create(stl *entity.Settlement) error {
	ctx := context.Background()
	query := `
		INSERT INTO settlements (` + settlementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		stl.ID, stl.LotID, stl.ProducerID,
		stl.FreightCost, stl.HarvestCost, stl.TollProcessingCost,
		stl.GrossValue, stl.TotalFixedCosts, stl.TotalAdvances, stl.NetPayable,
		stl.State, nullIfEmpty(stl.PaidAccount), stl.Warnings, stl.CreatedAt, stl.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadySettled // índice único: una liquidación activa por lote
		}
		return fmt.Errorf("insert settlement: %w", err)
	}

	lineQuery := `
		INSERT INTO settlement_lines (settlement_id, category, original_weight, adjusted_weight, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, l := range stl.Lines {
		if _, err := r.q.Exec(ctx, lineQuery,
			stl.ID, l.Category, l.OriginalWeight, l.AdjustedWeight, l.UnitPrice, l.Subtotal,
		); err != nil {
			return fmt.Errorf("insert settlement line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una liquidación con sus líneas.
func (r *SettlementRepo) GetByID(id string) (*entity.Settlement, error) {
	query := `SELECT ` + settlementColumns + ` FROM settlements WHERE id = $1`
	return r.getOne(query, id)
}

// GetForUpdate obtiene la liquidación y bloquea la fila (anulación y pago).
func (r *SettlementRepo) GetForUpdate(id string) (*entity.Settlement, error) {
	query := `SELECT ` + settlementColumns + ` FROM settlements WHERE id = $1 FOR UPDATE`
	return r.getOne(query, id)
}

// GetActiveByLot devuelve la liquidación no anulada del lote.
func (r *SettlementRepo) GetActiveByLot(lotID string) (*entity.Settlement, error) {
	query := `SELECT ` + settlementColumns + ` FROM settlements WHERE lot_id = $1 AND state <> $2`
	return r.getOne(query, lotID, entity.SettlementStateVoided)
}

// UpdateState cambia el estado de la liquidación.
func (r *SettlementRepo) UpdateState(id, state string) error {
	query := `UPDATE settlements SET state = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, state)
	if err != nil {
		return fmt.Errorf("update settlement state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkPaid cambia a paid y registra la cuenta de salida del efectivo.
func (r *SettlementRepo) MarkPaid(id, account string) error {
	query := `UPDATE settlements SET state = $2, paid_account = $3, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, entity.SettlementStatePaid, account)
	if err != nil {
		return fmt.Errorf("mark settlement paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SettlementRepo) getOne(query string, args ...any) (*entity.Settlement, error) {
	var s entity.Settlement
	var paidAccount *string
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&s.ID, &s.LotID, &s.ProducerID,
		&s.FreightCost, &s.HarvestCost, &s.TollProcessingCost,
		&s.GrossValue, &s.TotalFixedCosts, &s.TotalAdvances, &s.NetPayable,
		&s.State, &paidAccount, &s.Warnings, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get settlement: %w", err)
	}
	if paidAccount != nil {
		s.PaidAccount = *paidAccount
	}

	lines, err := r.listLines(s.ID)
	if err != nil {
		return nil, err
	}
	s.Lines = lines
	return &s, nil
}

func (r *SettlementRepo) listLines(settlementID string) ([]entity.SettlementLine, error) {
	query := `
		SELECT category, original_weight, adjusted_weight, unit_price, subtotal
		FROM settlement_lines WHERE settlement_id = $1 ORDER BY category`
	rows, err := r.q.Query(context.Background(), query, settlementID)
	if err != nil {
		return nil, fmt.Errorf("list settlement lines: %w", err)
	}
	defer rows.Close()

	var out []entity.SettlementLine
	for rows.Next() {
		var l entity.SettlementLine
		if err := rows.Scan(&l.Category, &l.OriginalWeight, &l.AdjustedWeight, &l.UnitPrice, &l.Subtotal); err != nil {
			return nil, fmt.Errorf("scan settlement line: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
