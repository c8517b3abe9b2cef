package repository

import "github.com/agroselva/liquidacion-api/internal/domain/entity"

// SettlementRepository define el puerto de persistencia para liquidaciones.
type SettlementRepository interface {
	// Create persiste la liquidación con su snapshot de líneas.
	Create(settlement *entity.Settlement) error
	GetByID(id string) (*entity.Settlement, error)
	GetForUpdate(id string) (*entity.Settlement, error)
	// GetActiveByLot devuelve la liquidación no anulada del lote, o
	// domain.ErrNotFound si no existe.
	GetActiveByLot(lotID string) (*entity.Settlement, error)
	UpdateState(id, state string) error
	// MarkPaid cambia a paid y registra la cuenta de salida del efectivo.
	MarkPaid(id, account string) error
}
