package allocation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agroselva/liquidacion-api/internal/application/dto"
	"github.com/agroselva/liquidacion-api/internal/domain"
	"github.com/agroselva/liquidacion-api/internal/domain/entity"
	"github.com/agroselva/liquidacion-api/internal/domain/repository"
)

// AllocationUseCase reserva saldo físico de un (lote, categoría) contra
// pedidos de venta. El saldo disponible siempre se deriva:
// peso clasificado original − Σ asignaciones. La liquidación consume valor
// monetario y la asignación consume stock físico; son saldos independientes
// y un lote puede asignarse antes, durante o después de liquidarse.
type AllocationUseCase struct {
	txRunner       TxRunner
	weightRepo     repository.CategoryWeightRepository
	allocationRepo repository.AllocationRepository
}

// NewAllocationUseCase construye el caso de uso.
func NewAllocationUseCase(
	txRunner TxRunner,
	weightRepo repository.CategoryWeightRepository,
	allocationRepo repository.AllocationRepository,
) *AllocationUseCase {
	return &AllocationUseCase{
		txRunner:       txRunner,
		weightRepo:     weightRepo,
		allocationRepo: allocationRepo,
	}
}

// Allocate reserva peso de la categoría de un lote para un pedido. Falla con
// ErrInsufficientBalance si el peso pedido supera el saldo disponible. Si el
// pedido ya tiene una reserva vigente sobre el mismo (lote, categoría), la
// incrementa en vez de duplicarla.
func (uc *AllocationUseCase) Allocate(ctx context.Context, in dto.AllocateRequest) (*dto.AllocationResponse, error) {
	if in.LotID == "" || in.Category == "" || in.OrderID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.Weight.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var result *dto.AllocationResponse

	err := uc.txRunner.RunAllocation(ctx, func(
		lotRepo repository.LotRepository,
		weightRepo repository.CategoryWeightRepository,
		allocationRepo repository.AllocationRepository,
		orderRepo repository.OrderRepository,
	) error {
		// Candado por lote: serializa asignaciones concurrentes sobre el
		// mismo saldo derivado.
		lot, err := lotRepo.GetForUpdate(in.LotID)
		if err != nil {
			return err
		}
		if lot.State == entity.LotStateReceived {
			return domain.ErrInvalidState // sin clasificar no hay saldo por categoría
		}
		record, err := weightRepo.GetByLotAndCategory(in.LotID, in.Category)
		if err != nil {
			return err
		}
		order, err := orderRepo.GetByID(in.OrderID)
		if err != nil {
			return err
		}
		if order.Product != lot.Product {
			return domain.ErrInvalidInput
		}

		allocated, err := allocationRepo.SumByLotCategory(in.LotID, in.Category)
		if err != nil {
			return err
		}
		available := record.OriginalWeight.Sub(allocated)
		if in.Weight.GreaterThan(available) {
			return domain.ErrInsufficientBalance
		}

		allocation, err := findReserved(allocationRepo, in)
		if err != nil {
			return err
		}
		if allocation != nil {
			allocation.Weight = allocation.Weight.Add(in.Weight)
			allocation.UpdatedAt = now
			if err := allocationRepo.Update(allocation); err != nil {
				return err
			}
		} else {
			allocation = &entity.Allocation{
				ID:        uuid.New().String(),
				LotID:     in.LotID,
				Category:  in.Category,
				OrderID:   in.OrderID,
				Weight:    in.Weight,
				State:     entity.AllocationStateReserved,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := allocationRepo.Create(allocation); err != nil {
				return err
			}
		}

		result = &dto.AllocationResponse{
			ID:               allocation.ID,
			LotID:            allocation.LotID,
			Category:         allocation.Category,
			OrderID:          allocation.OrderID,
			Weight:           allocation.Weight,
			State:            allocation.State,
			AvailableBalance: available.Sub(in.Weight),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// findReserved busca una reserva vigente del mismo pedido sobre el mismo
// (lote, categoría) para incrementarla en lugar de crear otra fila.
func findReserved(allocationRepo repository.AllocationRepository, in dto.AllocateRequest) (*entity.Allocation, error) {
	existing, err := allocationRepo.ListByLot(in.LotID)
	if err != nil {
		return nil, err
	}
	for _, a := range existing {
		if a.Category == in.Category && a.OrderID == in.OrderID && a.State == entity.AllocationStateReserved {
			return a, nil
		}
	}
	return nil, nil
}

// Deallocate elimina una asignación o, si weight viene con valor, la reduce.
// Una asignación inexistente devuelve ErrNotFound (el caller lo trata como
// no-op, no como falla). Una asignación ya despachada no se libera.
func (uc *AllocationUseCase) Deallocate(ctx context.Context, allocationID string, weight *decimal.Decimal) error {
	if allocationID == "" {
		return domain.ErrInvalidInput
	}
	if weight != nil && !weight.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.RunAllocation(ctx, func(
		lotRepo repository.LotRepository,
		weightRepo repository.CategoryWeightRepository,
		allocationRepo repository.AllocationRepository,
		orderRepo repository.OrderRepository,
	) error {
		allocation, err := allocationRepo.GetForUpdate(allocationID)
		if err != nil {
			return err
		}
		if allocation.State == entity.AllocationStateDispatched {
			return domain.ErrInvalidState
		}
		if weight == nil || weight.GreaterThanOrEqual(allocation.Weight) {
			return allocationRepo.Delete(allocation.ID)
		}
		allocation.Weight = allocation.Weight.Sub(*weight)
		allocation.UpdatedAt = time.Now()
		return allocationRepo.Update(allocation)
	})
}

// AvailableBalance devuelve el saldo asignable de un (lote, categoría),
// siempre recalculado por suma de asignaciones.
func (uc *AllocationUseCase) AvailableBalance(ctx context.Context, lotID, category string) (*dto.AvailableBalanceResponse, error) {
	record, err := uc.weightRepo.GetByLotAndCategory(lotID, category)
	if err != nil {
		return nil, err
	}
	allocated, err := uc.allocationRepo.SumByLotCategory(lotID, category)
	if err != nil {
		return nil, err
	}
	return &dto.AvailableBalanceResponse{
		LotID:            lotID,
		Category:         category,
		OriginalWeight:   record.OriginalWeight,
		Allocated:        allocated,
		AvailableBalance: record.OriginalWeight.Sub(allocated),
	}, nil
}
