package repository

import "github.com/agroselva/liquidacion-api/internal/domain/entity"

// LotRepository define el puerto de persistencia para lotes (DIP).
// GetForUpdate bloquea la fila del lote: es el ancla de serialización de
// clasificación, liquidación y asignación sobre un mismo lote.
type LotRepository interface {
	Create(lot *entity.Lot) error
	GetByID(id string) (*entity.Lot, error)
	GetForUpdate(id string) (*entity.Lot, error)
	UpdateState(id, state string) error
}
