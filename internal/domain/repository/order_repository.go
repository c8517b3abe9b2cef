package repository

import "github.com/agroselva/liquidacion-api/internal/domain/entity"

// OrderRepository define el puerto del directorio de pedidos de venta.
type OrderRepository interface {
	Create(order *entity.Order) error
	GetByID(id string) (*entity.Order, error)
	UpdateState(id, state string) error
}
