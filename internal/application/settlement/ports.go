package settlement

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/agroselva/liquidacion-api/internal/application/advances"
	"github.com/agroselva/liquidacion-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción que incluye los
// repos del motor de liquidación. Los asientos físicos y financieros de una
// liquidación se confirman juntos o no se confirman: nunca queda un kardex a
// medias.
type TxRunner interface {
	RunSettlement(ctx context.Context, fn func(
		lotRepo repository.LotRepository,
		weightRepo repository.CategoryWeightRepository,
		advanceRepo repository.AdvanceRepository,
		settlementRepo repository.SettlementRepository,
		kardexRepo repository.KardexRepository,
	) error) error
}

// AdvanceLedger interfaz para integrar la liquidación con el ledger de
// adelantos. Ambos métodos corren con el repositorio del caller (misma
// transacción); si retornan error, el caller hace rollback.
type AdvanceLedger interface {
	ApplyDeductionInTx(
		advanceRepo repository.AdvanceRepository,
		producerID, settlementID string,
		needed decimal.Decimal,
		now time.Time,
	) (*advances.DeductionResult, error)
	RestoreDeductionsInTx(
		advanceRepo repository.AdvanceRepository,
		settlementID string,
	) (decimal.Decimal, error)
}
