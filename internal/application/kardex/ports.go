package kardex

import (
	"context"

	"github.com/agroselva/liquidacion-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con los repos que
// necesita el kardex doble: el despacho de una venta consume la asignación y
// postea sus asientos en la misma transacción.
type TxRunner interface {
	RunKardex(ctx context.Context, fn func(
		lotRepo repository.LotRepository,
		weightRepo repository.CategoryWeightRepository,
		allocationRepo repository.AllocationRepository,
		orderRepo repository.OrderRepository,
		kardexRepo repository.KardexRepository,
	) error) error
}
