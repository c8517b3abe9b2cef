package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/agroselva/liquidacion-api/internal/application/dto"
	"github.com/agroselva/liquidacion-api/internal/domain"
	"github.com/agroselva/liquidacion-api/internal/domain/entity"
	"github.com/agroselva/liquidacion-api/internal/domain/repository"
)

// ProducerUseCase directorio de productores.
type ProducerUseCase struct {
	repo repository.ProducerRepository
}

// NewProducerUseCase construye el caso de uso.
func NewProducerUseCase(repo repository.ProducerRepository) *ProducerUseCase {
	return &ProducerUseCase{repo: repo}
}

// Create da de alta un productor.
func (uc *ProducerUseCase) Create(in dto.CreateProducerRequest) (*dto.ProducerResponse, error) {
	if in.Name == "" || in.Document == "" {
		return nil, domain.ErrInvalidInput
	}
	producer := &entity.Producer{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Document:    in.Document,
		BankAccount: in.BankAccount,
		CreatedAt:   time.Now(),
	}
	if err := uc.repo.Create(producer); err != nil {
		return nil, err
	}
	return toProducerResponse(producer), nil
}

// GetByID obtiene un productor por ID.
func (uc *ProducerUseCase) GetByID(id string) (*dto.ProducerResponse, error) {
	producer, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if producer == nil {
		return nil, domain.ErrNotFound
	}
	return toProducerResponse(producer), nil
}

func toProducerResponse(p *entity.Producer) *dto.ProducerResponse {
	return &dto.ProducerResponse{
		ID:          p.ID,
		Name:        p.Name,
		Document:    p.Document,
		BankAccount: p.BankAccount,
	}
}
