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

var _ repository.AdvanceRepository = (*AdvanceRepo)(nil)

// AdvanceRepo implementación sobre PostgreSQL (usable con pool o tx).
type AdvanceRepo struct {
	q Querier
}

// NewAdvanceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAdvanceRepository(q Querier) *AdvanceRepo {
	return &AdvanceRepo{q: q}
}

const advanceColumns = `id, producer_id, amount, applied_amount, date, state, created_at`

// Create persiste un adelanto desembolsado.
func (r *AdvanceRepo) Create(advance *entity.Advance) error {
	query := `
		INSERT INTO advances (` + advanceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		advance.ID, advance.ProducerID, advance.Amount, advance.AppliedAmount,
		advance.Date, advance.State, advance.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert advance: %w", err)
	}
	return nil
}

// GetByID obtiene un adelanto por ID.
func (r *AdvanceRepo) GetByID(id string) (*entity.Advance, error) {
	query := `SELECT ` + advanceColumns + ` FROM advances WHERE id = $1`
	return r.scanAdvance(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate obtiene un adelanto y bloquea su fila (reversión en anulación).
func (r *AdvanceRepo) GetForUpdate(id string) (*entity.Advance, error) {
	query := `SELECT ` + advanceColumns + ` FROM advances WHERE id = $1 FOR UPDATE`
	return r.scanAdvance(r.q.QueryRow(context.Background(), query, id))
}

// ListPendingForUpdate devuelve los adelantos con saldo del productor en
// orden FIFO (fecha ASC, ID ASC como desempate estable) con las filas
// bloqueadas: leer el saldo y consumirlo queda bajo el mismo candado.
func (r *AdvanceRepo) ListPendingForUpdate(producerID string) ([]*entity.Advance, error) {
	query := `
		SELECT ` + advanceColumns + `
		FROM advances
		WHERE producer_id = $1 AND state <> $2
		ORDER BY date ASC, id ASC
		FOR UPDATE`
	return r.listAdvances(query, producerID, entity.AdvanceStateFullyApplied)
}

// ListByProducer devuelve todos los adelantos del productor (fecha ASC).
func (r *AdvanceRepo) ListByProducer(producerID string) ([]*entity.Advance, error) {
	query := `
		SELECT ` + advanceColumns + `
		FROM advances
		WHERE producer_id = $1
		ORDER BY date ASC, id ASC`
	return r.listAdvances(query, producerID)
}

// UpdateApplied persiste el monto aplicado y el estado derivado.
func (r *AdvanceRepo) UpdateApplied(advance *entity.Advance) error {
	query := `UPDATE advances SET applied_amount = $2, state = $3 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, advance.ID, advance.AppliedAmount, advance.State)
	if err != nil {
		return fmt.Errorf("update advance applied: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CreateDeduction persiste el registro inmutable de un descuento.
func (r *AdvanceRepo) CreateDeduction(deduction *entity.AdvanceDeduction) error {
	query := `
		INSERT INTO advance_deductions (id, advance_id, settlement_id, amount, date)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		deduction.ID, deduction.AdvanceID, deduction.SettlementID, deduction.Amount, deduction.Date,
	)
	if err != nil {
		return fmt.Errorf("insert advance deduction: %w", err)
	}
	return nil
}

// ListDeductionsBySettlement devuelve los descuentos de una liquidación.
func (r *AdvanceRepo) ListDeductionsBySettlement(settlementID string) ([]*entity.AdvanceDeduction, error) {
	query := `
		SELECT id, advance_id, settlement_id, amount, date
		FROM advance_deductions WHERE settlement_id = $1 ORDER BY date ASC, id ASC`
	rows, err := r.q.Query(context.Background(), query, settlementID)
	if err != nil {
		return nil, fmt.Errorf("list advance deductions: %w", err)
	}
	defer rows.Close()

	var out []*entity.AdvanceDeduction
	for rows.Next() {
		var d entity.AdvanceDeduction
		if err := rows.Scan(&d.ID, &d.AdvanceID, &d.SettlementID, &d.Amount, &d.Date); err != nil {
			return nil, fmt.Errorf("scan advance deduction: %w", err)
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

func (r *AdvanceRepo) listAdvances(query string, args ...any) ([]*entity.Advance, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list advances: %w", err)
	}
	defer rows.Close()

	var out []*entity.Advance
	for rows.Next() {
		var a entity.Advance
		if err := rows.Scan(&a.ID, &a.ProducerID, &a.Amount, &a.AppliedAmount, &a.Date, &a.State, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan advance: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

func (r *AdvanceRepo) scanAdvance(row pgx.Row) (*entity.Advance, error) {
	var a entity.Advance
	err := row.Scan(&a.ID, &a.ProducerID, &a.Amount, &a.AppliedAmount, &a.Date, &a.State, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get advance: %w", err)
	}
	return &a, nil
}
