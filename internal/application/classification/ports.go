package classification

import (
	"context"

	"github.com/agroselva/liquidacion-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. La clasificación bloquea la fila del lote
// para serializar contra liquidación y asignación concurrentes, y consulta
// las asignaciones vigentes para no dejar ninguna categoría por debajo de
// su peso ya reservado.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		lotRepo repository.LotRepository,
		weightRepo repository.CategoryWeightRepository,
		allocationRepo repository.AllocationRepository,
	) error) error
}
