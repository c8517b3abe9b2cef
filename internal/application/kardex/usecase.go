package kardex

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

// DualKardexUseCase opera el kardex doble: ajustes manuales, anulación de
// asientos por compensación, despacho de ventas, saldos derivados y estados
// de cuenta. Los movimientos son inmutables; un asiento errado se corrige con
// su opuesto, jamás editándolo o borrándolo.
type DualKardexUseCase struct {
	txRunner     TxRunner
	kardexRepo   repository.KardexRepository
	lotRepo      repository.LotRepository
	producerRepo repository.ProducerRepository
}

// NewDualKardexUseCase construye el caso de uso.
func NewDualKardexUseCase(
	txRunner TxRunner,
	kardexRepo repository.KardexRepository,
	lotRepo repository.LotRepository,
	producerRepo repository.ProducerRepository,
) *DualKardexUseCase {
	return &DualKardexUseCase{
		txRunner:     txRunner,
		kardexRepo:   kardexRepo,
		lotRepo:      lotRepo,
		producerRepo: producerRepo,
	}
}

// ManualAdjustment postea un asiento manual con motivo obligatorio del
// operador. Físico exige lote+categoría y delta de kg; financiero exige
// cuenta y delta de monto.
func (uc *DualKardexUseCase) ManualAdjustment(ctx context.Context, in dto.ManualAdjustmentRequest) (*dto.KardexMovementResponse, error) {
	if in.Reason == "" {
		return nil, domain.ErrInvalidInput
	}
	movement := &entity.KardexMovement{
		ID:        uuid.New().String(),
		Ledger:    in.Ledger,
		RefType:   entity.RefManual,
		Reason:    in.Reason,
		CreatedAt: time.Now(),
	}
	switch in.Ledger {
	case entity.LedgerPhysical:
		if in.LotID == "" || in.Category == "" || in.WeightDelta.IsZero() {
			return nil, domain.ErrInvalidInput
		}
		lot, err := uc.lotRepo.GetByID(in.LotID)
		if err != nil || lot == nil {
			return nil, domain.ErrNotFound
		}
		movement.LotID = in.LotID
		movement.Category = in.Category
		movement.WeightDelta = in.WeightDelta
		movement.ProducerID = lot.ProducerID
	case entity.LedgerFinancial:
		if in.Account == "" || in.AmountDelta.IsZero() {
			return nil, domain.ErrInvalidInput
		}
		movement.Account = in.Account
		movement.AmountDelta = in.AmountDelta
	default:
		return nil, domain.ErrInvalidInput
	}

	if err := uc.kardexRepo.Create(movement); err != nil {
		return nil, err
	}
	resp := toMovementResponse(movement)
	return &resp, nil
}

// VoidMovement anula un asiento posteando su opuesto exacto. Un asiento ya
// compensado no se vuelve a anular (eso lo re-reversaría).
func (uc *DualKardexUseCase) VoidMovement(ctx context.Context, movementID string) (*dto.KardexMovementResponse, error) {
	if movementID == "" {
		return nil, domain.ErrInvalidInput
	}
	original, err := uc.kardexRepo.GetByID(movementID)
	if err != nil {
		return nil, err
	}
	voided, err := uc.kardexRepo.ExistsVoidOf(movementID)
	if err != nil {
		return nil, err
	}
	if voided {
		return nil, domain.ErrDuplicate
	}
	inverse := &entity.KardexMovement{
		ID:          uuid.New().String(),
		Ledger:      original.Ledger,
		LotID:       original.LotID,
		Category:    original.Category,
		WeightDelta: original.WeightDelta.Neg(),
		Account:     original.Account,
		AmountDelta: original.AmountDelta.Neg(),
		ProducerID:  original.ProducerID,
		RefType:     entity.RefVoid,
		RefID:       original.ID,
		CreatedAt:   time.Now(),
	}
	if err := uc.kardexRepo.Create(inverse); err != nil {
		return nil, err
	}
	resp := toMovementResponse(inverse)
	return &resp, nil
}

// DispatchSale despacha una asignación reservada: sale el peso del lote y
// entra el valor de venta, en la misma transacción que marca la asignación
// como despachada. Despachar no libera el saldo asignado: el peso salió del
// lote de todos modos.
func (uc *DualKardexUseCase) DispatchSale(ctx context.Context, allocationID string, in dto.DispatchRequest) (*dto.DispatchResponse, error) {
	if allocationID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.SaleUnitPrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var result *dto.DispatchResponse

	err := uc.txRunner.RunKardex(ctx, func(
		lotRepo repository.LotRepository,
		weightRepo repository.CategoryWeightRepository,
		allocationRepo repository.AllocationRepository,
		orderRepo repository.OrderRepository,
		kardexRepo repository.KardexRepository,
	) error {
		allocation, err := allocationRepo.GetForUpdate(allocationID)
		if err != nil {
			return err
		}
		if allocation.State != entity.AllocationStateReserved {
			return domain.ErrInvalidState
		}
		lot, err := lotRepo.GetByID(allocation.LotID)
		if err != nil {
			return err
		}
		order, err := orderRepo.GetByID(allocation.OrderID)
		if err != nil {
			return err
		}

		allocation.State = entity.AllocationStateDispatched
		allocation.UpdatedAt = now
		if err := allocationRepo.Update(allocation); err != nil {
			return err
		}

		// El pedido se cierra cuando el total despachado lo cubre, no solo
		// este despacho: varios despachos parciales lo van completando.
		dispatched, err := allocationRepo.SumDispatchedByOrder(order.ID)
		if err != nil {
			return err
		}
		if dispatched.GreaterThanOrEqual(order.RequiredWeight) {
			if err := orderRepo.UpdateState(order.ID, entity.OrderStateFulfilled); err != nil {
				return err
			}
		}

		// Agotamiento físico: con la liquidación cerrada y todo el peso
		// clasificado despachado, el lote pasa a exhausted.
		if lot.State == entity.LotStateSettled || lot.State == entity.LotStatePaid {
			empty, err := fullyDispatched(weightRepo, allocationRepo, lot.ID)
			if err != nil {
				return err
			}
			if empty {
				if err := lotRepo.UpdateState(lot.ID, entity.LotStateExhausted); err != nil {
					return err
				}
			}
		}

		movements := []*entity.KardexMovement{
			{
				ID:          uuid.New().String(),
				Ledger:      entity.LedgerPhysical,
				LotID:       allocation.LotID,
				Category:    allocation.Category,
				WeightDelta: allocation.Weight.Neg(),
				ProducerID:  lot.ProducerID,
				RefType:     entity.RefOrder,
				RefID:       order.ID,
				CreatedAt:   now,
			},
			{
				ID:          uuid.New().String(),
				Ledger:      entity.LedgerFinancial,
				Account:     entity.AccountSales,
				AmountDelta: allocation.Weight.Mul(in.SaleUnitPrice).Round(2),
				RefType:     entity.RefOrder,
				RefID:       order.ID,
				CreatedAt:   now,
			},
		}
		for _, m := range movements {
			if err := kardexRepo.Create(m); err != nil {
				return err
			}
		}

		result = &dto.DispatchResponse{
			AllocationID: allocation.ID,
			OrderID:      order.ID,
			Movements:    toMovementResponses(movements),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// fullyDispatched indica si cada categoría clasificada del lote ya fue
// despachada por completo. Los despachos no se revierten, así que el
// agotamiento es terminal.
func fullyDispatched(
	weightRepo repository.CategoryWeightRepository,
	allocationRepo repository.AllocationRepository,
	lotID string,
) (bool, error) {
	records, err := weightRepo.ListByLot(lotID)
	if err != nil {
		return false, err
	}
	allocations, err := allocationRepo.ListByLot(lotID)
	if err != nil {
		return false, err
	}
	dispatched := make(map[string]decimal.Decimal, len(records))
	for _, a := range allocations {
		if a.State == entity.AllocationStateDispatched {
			dispatched[a.Category] = dispatched[a.Category].Add(a.Weight)
		}
	}
	for _, r := range records {
		if dispatched[r.Category].LessThan(r.OriginalWeight) {
			return false, nil
		}
	}
	return true, nil
}

// PhysicalBalance saldo de kg de un (lote, categoría), derivado por suma.
func (uc *DualKardexUseCase) PhysicalBalance(ctx context.Context, lotID, category string) (decimal.Decimal, error) {
	return uc.kardexRepo.SumPhysical(lotID, category)
}

// FinancialBalance saldo de una cuenta, derivado por suma.
func (uc *DualKardexUseCase) FinancialBalance(ctx context.Context, account string) (decimal.Decimal, error) {
	return uc.kardexRepo.SumFinancial(account)
}

// Statement estado de cuenta del productor: ambos ledgers filtrados a sus
// lotes, liquidaciones y adelantos, en orden cronológico.
func (uc *DualKardexUseCase) Statement(ctx context.Context, producerID string) (*dto.StatementResponse, error) {
	producer, err := uc.producerRepo.GetByID(producerID)
	if err != nil || producer == nil {
		return nil, domain.ErrNotFound
	}
	movements, err := uc.kardexRepo.ListByProducer(producerID)
	if err != nil {
		return nil, err
	}
	return &dto.StatementResponse{
		ProducerID: producerID,
		Movements:  toMovementResponses(movements),
	}, nil
}

func toMovementResponse(m *entity.KardexMovement) dto.KardexMovementResponse {
	return dto.KardexMovementResponse{
		ID:          m.ID,
		Ledger:      m.Ledger,
		LotID:       m.LotID,
		Category:    m.Category,
		WeightDelta: m.WeightDelta,
		Account:     m.Account,
		AmountDelta: m.AmountDelta,
		RefType:     m.RefType,
		RefID:       m.RefID,
		Reason:      m.Reason,
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
	}
}

func toMovementResponses(movements []*entity.KardexMovement) []dto.KardexMovementResponse {
	out := make([]dto.KardexMovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, toMovementResponse(m))
	}
	return out
}
