package allocation

import (
	"context"

	"github.com/agroselva/liquidacion-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios de asignación atados a esa tx. La fila del lote es el candado:
// leer el saldo disponible y consumirlo ocurre bajo la misma transacción.
type TxRunner interface {
	RunAllocation(ctx context.Context, fn func(
		lotRepo repository.LotRepository,
		weightRepo repository.CategoryWeightRepository,
		allocationRepo repository.AllocationRepository,
		orderRepo repository.OrderRepository,
	) error) error
}
