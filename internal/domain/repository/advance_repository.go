package repository

import "github.com/agroselva/liquidacion-api/internal/domain/entity"

// AdvanceRepository define el puerto de persistencia para adelantos y sus
// descuentos. El orden FIFO (fecha ascendente, luego ID para estabilidad) es
// contrato del puerto, no un detalle de implementación.
type AdvanceRepository interface {
	Create(advance *entity.Advance) error
	GetByID(id string) (*entity.Advance, error)
	GetForUpdate(id string) (*entity.Advance, error)
	// ListPendingForUpdate devuelve los adelantos con saldo del productor,
	// ordenados por fecha ASC, ID ASC, con sus filas bloqueadas (FOR UPDATE)
	// para que la decisión de descuento y su escritura ocurran bajo el mismo
	// candado.
	ListPendingForUpdate(producerID string) ([]*entity.Advance, error)
	ListByProducer(producerID string) ([]*entity.Advance, error)
	// UpdateApplied persiste AppliedAmount y State tras un descuento o su
	// reversión.
	UpdateApplied(advance *entity.Advance) error

	CreateDeduction(deduction *entity.AdvanceDeduction) error
	ListDeductionsBySettlement(settlementID string) ([]*entity.AdvanceDeduction, error)
}
