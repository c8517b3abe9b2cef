package usecase

import (
	"time"

	"github.com/agroselva/liquidacion-api/internal/application/dto"
	"github.com/agroselva/liquidacion-api/internal/domain"
	"github.com/agroselva/liquidacion-api/internal/domain/entity"
	"github.com/agroselva/liquidacion-api/internal/domain/repository"
)

// PricebookUseCase tarifario versionado. Cada cambio crea una versión nueva
// completa; las anteriores quedan intactas y las clasificaciones que las
// usaron siguen siendo reproducibles.
type PricebookUseCase struct {
	repo repository.PricebookRepository
}

// NewPricebookUseCase construye el caso de uso.
func NewPricebookUseCase(repo repository.PricebookRepository) *PricebookUseCase {
	return &PricebookUseCase{repo: repo}
}

// GetCurrent devuelve la versión vigente del tarifario.
func (uc *PricebookUseCase) GetCurrent() (*dto.PricebookResponse, error) {
	pricebook, err := uc.repo.GetCurrent()
	if err != nil {
		return nil, err
	}
	return toPricebookResponse(pricebook), nil
}

// SaveVersion publica una nueva versión del tarifario.
func (uc *PricebookUseCase) SaveVersion(in dto.SavePricebookRequest) (*dto.PricebookResponse, error) {
	if len(in.Entries) == 0 {
		return nil, domain.ErrInvalidInput
	}
	seen := make(map[string]bool, len(in.Entries))
	entries := make([]entity.PriceEntry, 0, len(in.Entries))
	for _, e := range in.Entries {
		if e.Category == "" || e.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		if seen[e.Category] {
			return nil, domain.ErrDuplicate
		}
		seen[e.Category] = true
		entries = append(entries, entity.PriceEntry{Category: e.Category, UnitPrice: e.UnitPrice})
	}

	effective := time.Now()
	if in.EffectiveDate != "" {
		parsed, err := time.Parse("2006-01-02", in.EffectiveDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		effective = parsed
	}

	pricebook := &entity.Pricebook{
		Entries:       entries,
		EffectiveDate: effective,
		CreatedAt:     time.Now(),
	}
	// SaveVersion asigna Version = vigente + 1 de forma atómica.
	if err := uc.repo.SaveVersion(pricebook); err != nil {
		return nil, err
	}
	return toPricebookResponse(pricebook), nil
}

func toPricebookResponse(p *entity.Pricebook) *dto.PricebookResponse {
	entries := make([]dto.PriceEntryDTO, 0, len(p.Entries))
	for _, e := range p.Entries {
		entries = append(entries, dto.PriceEntryDTO{Category: e.Category, UnitPrice: e.UnitPrice})
	}
	return &dto.PricebookResponse{
		Version:       p.Version,
		EffectiveDate: p.EffectiveDate.Format("2006-01-02"),
		Entries:       entries,
	}
}
