package repository

import (
	"github.com/shopspring/decimal"

	"github.com/agroselva/liquidacion-api/internal/domain/entity"
)

// AllocationRepository define el puerto de persistencia para asignaciones
// lote→pedido. El saldo disponible nunca se cachea: siempre se deriva con
// SumByLotCategory.
type AllocationRepository interface {
	Create(allocation *entity.Allocation) error
	GetByID(id string) (*entity.Allocation, error)
	GetForUpdate(id string) (*entity.Allocation, error)
	Update(allocation *entity.Allocation) error
	Delete(id string) error
	// SumByLotCategory suma el peso asignado vigente de un (lote, categoría).
	SumByLotCategory(lotID, category string) (decimal.Decimal, error)
	// SumDispatchedByOrder suma el peso ya despachado contra un pedido,
	// acumulado entre todos sus despachos parciales.
	SumDispatchedByOrder(orderID string) (decimal.Decimal, error)
	ListByLot(lotID string) ([]*entity.Allocation, error)
}
