package repository

import (
	"github.com/shopspring/decimal"

	"github.com/agroselva/liquidacion-api/internal/domain/entity"
)

// KardexRepository define el puerto de persistencia del kardex doble.
// Solo inserta y suma: los movimientos son inmutables y los saldos derivados.
type KardexRepository interface {
	Create(movement *entity.KardexMovement) error
	GetByID(id string) (*entity.KardexMovement, error)
	// SumPhysical suma los deltas de kg de un (lote, categoría).
	SumPhysical(lotID, category string) (decimal.Decimal, error)
	// SumFinancial suma los deltas de monto de una cuenta.
	SumFinancial(account string) (decimal.Decimal, error)
	// ListByProducer devuelve ambos ledgers filtrados al productor, ordenados
	// por fecha de creación ascendente (estado de cuenta).
	ListByProducer(producerID string) ([]*entity.KardexMovement, error)
	// ExistsVoidOf indica si ya se registró el compensatorio de un movimiento.
	ExistsVoidOf(movementID string) (bool, error)
}
