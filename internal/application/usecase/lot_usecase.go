package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agroselva/liquidacion-api/internal/application/dto"
	"github.com/agroselva/liquidacion-api/internal/domain"
	"github.com/agroselva/liquidacion-api/internal/domain/entity"
	"github.com/agroselva/liquidacion-api/internal/domain/repository"
)

// LotUseCase ingreso y consulta de lotes. La clasificación y la liquidación
// viven en sus propios casos de uso; aquí solo se da de alta el lote recibido.
type LotUseCase struct {
	lotRepo      repository.LotRepository
	producerRepo repository.ProducerRepository
}

// NewLotUseCase construye el caso de uso.
func NewLotUseCase(lotRepo repository.LotRepository, producerRepo repository.ProducerRepository) *LotUseCase {
	return &LotUseCase{lotRepo: lotRepo, producerRepo: producerRepo}
}

// Create registra el ingreso de un lote en báscula (estado received).
func (uc *LotUseCase) Create(in dto.CreateLotRequest) (*dto.LotResponse, error) {
	if in.Product != entity.ProductKion && in.Product != entity.ProductCurcuma {
		return nil, domain.ErrInvalidInput
	}
	if !in.GrossWeight.GreaterThan(decimal.Zero) || in.CageDiscountWeight.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.CageDiscountWeight.GreaterThanOrEqual(in.GrossWeight) {
		return nil, domain.ErrInvalidInput
	}
	producer, err := uc.producerRepo.GetByID(in.ProducerID)
	if err != nil || producer == nil {
		return nil, domain.ErrNotFound
	}

	intakeDate := time.Now()
	if in.IntakeDate != "" {
		parsed, err := time.Parse("2006-01-02", in.IntakeDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		intakeDate = parsed
	}

	now := time.Now()
	lot := &entity.Lot{
		ID:                 uuid.New().String(),
		ProducerID:         in.ProducerID,
		Product:            in.Product,
		IntakeDate:         intakeDate,
		GrossWeight:        in.GrossWeight,
		CageDiscountWeight: in.CageDiscountWeight,
		State:              entity.LotStateReceived,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := uc.lotRepo.Create(lot); err != nil {
		return nil, err
	}
	return toLotResponse(lot), nil
}

// GetByID obtiene un lote por ID.
func (uc *LotUseCase) GetByID(id string) (*dto.LotResponse, error) {
	lot, err := uc.lotRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return toLotResponse(lot), nil
}

func toLotResponse(l *entity.Lot) *dto.LotResponse {
	return &dto.LotResponse{
		ID:                 l.ID,
		ProducerID:         l.ProducerID,
		Product:            l.Product,
		IntakeDate:         l.IntakeDate.Format("2006-01-02"),
		GrossWeight:        l.GrossWeight,
		CageDiscountWeight: l.CageDiscountWeight,
		State:              l.State,
	}
}
