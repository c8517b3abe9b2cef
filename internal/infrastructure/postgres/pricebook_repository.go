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

var _ repository.PricebookRepository = (*PricebookRepo)(nil)

// PricebookRepo implementación sobre PostgreSQL (usable con pool o tx).
// Cada versión es inmutable: pricebook_versions + pricebook_entries.
type PricebookRepo struct {
	q Querier
}

// NewPricebookRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPricebookRepository(q Querier) *PricebookRepo {
	return &PricebookRepo{q: q}
}

// GetCurrent devuelve la versión vigente (mayor número de versión).
func (r *PricebookRepo) GetCurrent() (*entity.Pricebook, error) {
	query := `
		SELECT version, effective_date, created_at
		FROM pricebook_versions ORDER BY version DESC LIMIT 1`
	return r.getOne(query)
}

// GetVersion devuelve una versión puntual.
func (r *PricebookRepo) GetVersion(version int) (*entity.Pricebook, error) {
	query := `
		SELECT version, effective_date, created_at
		FROM pricebook_versions WHERE version = $1`
	return r.getOne(query, version)
}

// SaveVersion persiste una nueva versión completa asignando
// version = vigente + 1.
func (r *PricebookRepo) SaveVersion(pricebook *entity.Pricebook) error {
	ctx := context.Background()
	query := `
		INSERT INTO pricebook_versions (version, effective_date, created_at)
		VALUES ((SELECT COALESCE(MAX(version), 0) + 1 FROM pricebook_versions), $1, $2)
		RETURNING version`
	if err := r.q.QueryRow(ctx, query, pricebook.EffectiveDate, pricebook.CreatedAt).Scan(&pricebook.Version); err != nil {
		return fmt.Errorf("insert pricebook version: %w", err)
	}
	entryQuery := `
		INSERT INTO pricebook_entries (version, category, unit_price)
		VALUES ($1, $2, $3)`
	for _, e := range pricebook.Entries {
		if _, err := r.q.Exec(ctx, entryQuery, pricebook.Version, e.Category, e.UnitPrice); err != nil {
			return fmt.Errorf("insert pricebook entry: %w", err)
		}
	}
	return nil
}

func (r *PricebookRepo) getOne(query string, args ...any) (*entity.Pricebook, error) {
	var p entity.Pricebook
	err := r.q.QueryRow(context.Background(), query, args...).Scan(&p.Version, &p.EffectiveDate, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get pricebook version: %w", err)
	}

	entryQuery := `
		SELECT category, unit_price
		FROM pricebook_entries WHERE version = $1 ORDER BY category`
	rows, err := r.q.Query(context.Background(), entryQuery, p.Version)
	if err != nil {
		return nil, fmt.Errorf("list pricebook entries: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var e entity.PriceEntry
		if err := rows.Scan(&e.Category, &e.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan pricebook entry: %w", err)
		}
		p.Entries = append(p.Entries, e)
	}
	return &p, rows.Err()
}
