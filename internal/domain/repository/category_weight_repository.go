package repository

import "github.com/agroselva/liquidacion-api/internal/domain/entity"

// CategoryWeightRepository define el puerto de persistencia para las líneas
// de clasificación de un lote.
type CategoryWeightRepository interface {
	// ReplaceForLot borra las líneas previas del lote e inserta las nuevas
	// (reclasificación atómica dentro de la tx del caller).
	ReplaceForLot(lotID string, lines []*entity.CategoryWeight) error
	ListByLot(lotID string) ([]*entity.CategoryWeight, error)
	// GetByLotAndCategory devuelve nil, domain.ErrNotFound si la categoría no
	// fue clasificada en el lote.
	GetByLotAndCategory(lotID, category string) (*entity.CategoryWeight, error)
}
