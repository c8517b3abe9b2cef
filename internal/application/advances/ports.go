package advances

import (
	"context"

	"github.com/agroselva/liquidacion-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios del ledger de adelantos atados a esa tx. El desembolso crea el
// adelanto y postea sus asientos financieros atómicamente.
type TxRunner interface {
	RunAdvance(ctx context.Context, fn func(
		advanceRepo repository.AdvanceRepository,
		kardexRepo repository.KardexRepository,
	) error) error
}
