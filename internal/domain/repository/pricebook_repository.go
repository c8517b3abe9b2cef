package repository

import "github.com/agroselva/liquidacion-api/internal/domain/entity"

// PricebookRepository define el puerto del tarifario versionado.
type PricebookRepository interface {
	// GetCurrent devuelve la versión vigente (la de mayor número).
	GetCurrent() (*entity.Pricebook, error)
	GetVersion(version int) (*entity.Pricebook, error)
	// SaveVersion persiste una nueva versión completa del tarifario.
	SaveVersion(pricebook *entity.Pricebook) error
}
