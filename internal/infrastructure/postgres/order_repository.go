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

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create registra un pedido.
func (r *OrderRepo) Create(order *entity.Order) error {
	query := `
		INSERT INTO orders (id, customer_name, product, required_weight, state, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.CustomerName, order.Product, order.RequiredWeight, order.State, order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID obtiene un pedido por ID.
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	query := `SELECT id, customer_name, product, required_weight, state, created_at FROM orders WHERE id = $1`
	var o entity.Order
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&o.ID, &o.CustomerName, &o.Product, &o.RequiredWeight, &o.State, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

// UpdateState cambia el estado del pedido.
func (r *OrderRepo) UpdateState(id, state string) error {
	query := `UPDATE orders SET state = $2 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, state)
	if err != nil {
		return fmt.Errorf("update order state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
