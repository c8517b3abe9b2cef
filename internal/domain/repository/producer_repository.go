package repository

import "github.com/agroselva/liquidacion-api/internal/domain/entity"

// ProducerRepository define el puerto del directorio de productores.
type ProducerRepository interface {
	Create(producer *entity.Producer) error
	GetByID(id string) (*entity.Producer, error)
}
