package classification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agroselva/liquidacion-api/internal/application/dto"
	"github.com/agroselva/liquidacion-api/internal/domain"
	"github.com/agroselva/liquidacion-api/internal/domain/entity"
	"github.com/agroselva/liquidacion-api/internal/domain/liquidacion"
	"github.com/agroselva/liquidacion-api/internal/domain/repository"
)

// ClassifyLotUseCase clasifica el peso bruto de un lote en categorías con
// ajuste por humedad y valorización contra una versión del tarifario.
// La reclasificación reemplaza las líneas previas; un lote ya liquidado no se
// reclasifica (hay que anular la liquidación primero).
type ClassifyLotUseCase struct {
	txRunner      TxRunner
	pricebookRepo repository.PricebookRepository
}

// NewClassifyLotUseCase construye el caso de uso.
func NewClassifyLotUseCase(txRunner TxRunner, pricebookRepo repository.PricebookRepository) *ClassifyLotUseCase {
	return &ClassifyLotUseCase{txRunner: txRunner, pricebookRepo: pricebookRepo}
}

// Classify valida las líneas, prorratea el descuento de jabas del lote, aplica
// humedad (la de línea pisa a la global) y valoriza contra el tarifario.
// Categoría sin precio => precio 0 + advertencia MISSING_PRICE (no bloquea).
// Solo se materializan categorías con peso > 0.
func (uc *ClassifyLotUseCase) Classify(ctx context.Context, lotID string, in dto.ClassifyLotRequest) (*dto.ClassificationResponse, error) {
	if lotID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.GlobalMoisturePercent.LessThan(decimal.Zero) || in.GlobalMoisturePercent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, domain.ErrInvalidInput
	}

	// Descarta líneas en cero y valida rangos antes de tocar la BD.
	lines := make([]dto.ClassifyLineRequest, 0, len(in.Lines))
	seen := make(map[string]bool, len(in.Lines))
	for _, l := range in.Lines {
		if l.Category == "" || l.Weight.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if l.MoisturePercent != nil &&
			(l.MoisturePercent.LessThan(decimal.Zero) || l.MoisturePercent.GreaterThan(decimal.NewFromInt(100))) {
			return nil, domain.ErrInvalidInput
		}
		if seen[l.Category] {
			return nil, domain.ErrDuplicate
		}
		seen[l.Category] = true
		if l.Weight.IsZero() {
			continue // categorías en cero no se materializan
		}
		lines = append(lines, l)
	}
	if len(lines) == 0 {
		return nil, domain.ErrInvalidInput
	}

	// Tarifario: versión pedida o la vigente. Snapshot explícito, no consulta
	// global viva: la liquidación queda reproducible tras cambios de precio.
	var pricebook *entity.Pricebook
	var err error
	if in.PricebookVersion > 0 {
		pricebook, err = uc.pricebookRepo.GetVersion(in.PricebookVersion)
	} else {
		pricebook, err = uc.pricebookRepo.GetCurrent()
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var result *dto.ClassificationResponse

	err = uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		weightRepo repository.CategoryWeightRepository,
		allocationRepo repository.AllocationRepository,
	) error {
		lot, err := lotRepo.GetForUpdate(lotID)
		if err != nil {
			return err
		}
		if lot.State == entity.LotStateSettled || lot.State == entity.LotStatePaid {
			return domain.ErrAlreadySettled
		}
		if !lot.CanClassify() {
			return domain.ErrInvalidState
		}

		// Descuento de jabas: una sola vez por lote, prorrateado entre líneas.
		weights := make([]decimal.Decimal, len(lines))
		for i, l := range lines {
			weights[i] = l.Weight
		}
		weights = liquidacion.ProrateCageDiscount(weights, lot.CageDiscountWeight)

		var warnings []string
		records := make([]*entity.CategoryWeight, 0, len(lines))
		for i, l := range lines {
			moisture := in.GlobalMoisturePercent
			if l.MoisturePercent != nil {
				moisture = *l.MoisturePercent
			}
			price, ok := pricebook.Price(l.Category)
			if !ok {
				warnings = append(warnings, fmt.Sprintf("%s:%s", entity.WarningMissingPrice, l.Category))
			}
			record := liquidacion.RecomputeLine(entity.CategoryWeight{
				ID:              uuid.New().String(),
				LotID:           lot.ID,
				Category:        l.Category,
				OriginalWeight:  weights[i],
				MoisturePercent: moisture,
				UnitPrice:       price,
				CreatedAt:       now,
			})
			rec := record
			records = append(records, &rec)
		}

		// Una reclasificación no puede dejar una categoría por debajo de su
		// peso ya asignado a pedidos: Σ asignaciones ≤ peso original, siempre.
		if err := checkAllocations(allocationRepo, lot.ID, records); err != nil {
			return err
		}

		if err := weightRepo.ReplaceForLot(lot.ID, records); err != nil {
			return err
		}
		if lot.State == entity.LotStateReceived {
			if err := lotRepo.UpdateState(lot.ID, entity.LotStateClassified); err != nil {
				return err
			}
		}

		result = &dto.ClassificationResponse{
			LotID:            lot.ID,
			PricebookVersion: pricebook.Version,
			Lines:            toLineResponses(records),
			Warnings:         warnings,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// checkAllocations verifica que las líneas nuevas cubran todo el peso ya
// asignado por categoría. Reducir o eliminar una categoría con reservas
// vigentes dejaría el saldo disponible en negativo.
func checkAllocations(
	allocationRepo repository.AllocationRepository,
	lotID string,
	records []*entity.CategoryWeight,
) error {
	existing, err := allocationRepo.ListByLot(lotID)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		return nil
	}
	allocated := make(map[string]decimal.Decimal, len(existing))
	for _, a := range existing {
		allocated[a.Category] = allocated[a.Category].Add(a.Weight)
	}
	newWeight := make(map[string]decimal.Decimal, len(records))
	for _, r := range records {
		newWeight[r.Category] = r.OriginalWeight
	}
	for category, sum := range allocated {
		if newWeight[category].LessThan(sum) {
			return domain.ErrInsufficientBalance
		}
	}
	return nil
}

func toLineResponses(records []*entity.CategoryWeight) []dto.CategoryWeightResponse {
	out := make([]dto.CategoryWeightResponse, 0, len(records))
	for _, r := range records {
		out = append(out, dto.CategoryWeightResponse{
			Category:        r.Category,
			OriginalWeight:  r.OriginalWeight,
			MoisturePercent: r.MoisturePercent,
			AdjustedWeight:  r.AdjustedWeight,
			UnitPrice:       r.UnitPrice,
			Subtotal:        r.Subtotal,
		})
	}
	return out
}
