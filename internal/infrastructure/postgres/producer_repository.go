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

var _ repository.ProducerRepository = (*ProducerRepo)(nil)

// ProducerRepo implementación sobre PostgreSQL (usable con pool o tx).
type ProducerRepo struct {
	q Querier
}

// NewProducerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProducerRepository(q Querier) *ProducerRepo {
	return &ProducerRepo{q: q}
}

// Create da de alta un productor.
func (r *ProducerRepo) Create(producer *entity.Producer) error {
	query := `
		INSERT INTO producers (id, name, document, bank_account, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		producer.ID, producer.Name, producer.Document, nullIfEmpty(producer.BankAccount), producer.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert producer: %w", err)
	}
	return nil
}

// GetByID obtiene un productor por ID.
func (r *ProducerRepo) GetByID(id string) (*entity.Producer, error) {
	query := `SELECT id, name, document, bank_account, created_at FROM producers WHERE id = $1`
	var p entity.Producer
	var bankAccount *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(&p.ID, &p.Name, &p.Document, &bankAccount, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get producer: %w", err)
	}
	p.BankAccount = deref(bankAccount)
	return &p, nil
}
