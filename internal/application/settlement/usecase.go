package settlement

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

// SettlementEngineUseCase calcula la liquidación de un lote: valor bruto de
// las categorías clasificadas, menos costos fijos, menos adelantos FIFO.
// Máquina de estados del lote: received → classified → settled → paid, lineal;
// la única vuelta atrás es la anulación explícita (Void), que compensa en el
// kardex y restaura los adelantos. Recalcular en el lugar está prohibido.
type SettlementEngineUseCase struct {
	txRunner      TxRunner
	advanceLedger AdvanceLedger
}

// NewSettlementEngineUseCase construye el motor.
func NewSettlementEngineUseCase(txRunner TxRunner, advanceLedger AdvanceLedger) *SettlementEngineUseCase {
	return &SettlementEngineUseCase{txRunner: txRunner, advanceLedger: advanceLedger}
}

// Compute liquida un lote clasificado.
//  1. bruto = Σ subtotales de las líneas clasificadas
//  2. costos fijos = flete + cosecha + maquila (la jaba ya se descontó en la
//     clasificación; repetirla aquí sería doble descuento)
//  3. adelantos = descuento FIFO pidiendo hasta el valor bruto
//  4. neto = bruto − costos fijos − adelantos
//
// El neto puede ser negativo: se devuelve con NEGATIVE_SETTLEMENT, no se
// rechaza, porque los adelantos pueden superar legítimamente el valor
// entregado. Todo (snapshot, estado del lote, asientos físicos y financieros)
// se confirma en una sola transacción.
func (uc *SettlementEngineUseCase) Compute(ctx context.Context, lotID string, in dto.ComputeSettlementRequest) (*dto.SettlementResponse, error) {
	if lotID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.FreightCost.LessThan(decimal.Zero) || in.HarvestCost.LessThan(decimal.Zero) || in.TollProcessingCost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var result *dto.SettlementResponse

	err := uc.txRunner.RunSettlement(ctx, func(
		lotRepo repository.LotRepository,
		weightRepo repository.CategoryWeightRepository,
		advanceRepo repository.AdvanceRepository,
		settlementRepo repository.SettlementRepository,
		kardexRepo repository.KardexRepository,
	) error {
		lot, err := lotRepo.GetForUpdate(lotID)
		if err != nil {
			return err
		}
		switch lot.State {
		case entity.LotStateClassified:
			// ok
		case entity.LotStateSettled, entity.LotStatePaid:
			return domain.ErrAlreadySettled
		default:
			return domain.ErrInvalidState
		}

		records, err := weightRepo.ListByLot(lot.ID)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return domain.ErrInvalidState
		}

		// Snapshot: copia de las líneas al momento de liquidar, no referencia.
		var warnings []string
		lines := make([]entity.SettlementLine, 0, len(records))
		for _, r := range records {
			lines = append(lines, entity.SettlementLine{
				Category:       r.Category,
				OriginalWeight: r.OriginalWeight,
				AdjustedWeight: r.AdjustedWeight,
				UnitPrice:      r.UnitPrice,
				Subtotal:       r.Subtotal,
			})
			if r.UnitPrice.IsZero() {
				warnings = append(warnings, fmt.Sprintf("%s:%s", entity.WarningMissingPrice, r.Category))
			}
		}

		gross := liquidacion.GrossValue(lines)
		fixedCosts := in.FreightCost.Add(in.HarvestCost).Add(in.TollProcessingCost)

		settlementID := uuid.New().String()
		deduction, err := uc.advanceLedger.ApplyDeductionInTx(advanceRepo, lot.ProducerID, settlementID, gross, now)
		if err != nil {
			return err
		}

		net := liquidacion.NetPayable(gross, fixedCosts, deduction.TotalDeducted)
		if net.LessThan(decimal.Zero) {
			warnings = append(warnings, entity.WarningNegativeSettlement)
		}

		stl := &entity.Settlement{
			ID:                 settlementID,
			LotID:              lot.ID,
			ProducerID:         lot.ProducerID,
			Lines:              lines,
			FreightCost:        in.FreightCost,
			HarvestCost:        in.HarvestCost,
			TollProcessingCost: in.TollProcessingCost,
			GrossValue:         gross,
			TotalFixedCosts:    fixedCosts,
			TotalAdvances:      deduction.TotalDeducted,
			NetPayable:         net,
			State:              entity.SettlementStatePending,
			Warnings:           warnings,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if err := settlementRepo.Create(stl); err != nil {
			return err
		}
		if err := lotRepo.UpdateState(lot.ID, entity.LotStateSettled); err != nil {
			return err
		}

		// Kardex: sale el peso liquidado de cada categoría y nace la cuenta
		// por pagar al productor; los adelantos recuperados bajan la cuenta
		// por cobrar. Misma tx: o se postea todo o nada.
		for _, m := range settlementMovements(stl, now) {
			if err := kardexRepo.Create(m); err != nil {
				return err
			}
		}

		result = toSettlementResponse(stl, deduction.Deductions)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Void anula una liquidación: restaura los saldos de los adelantos tocados,
// postea los asientos compensatorios (iguales y opuestos, nunca borra) y
// devuelve el lote a classified para permitir una nueva liquidación.
func (uc *SettlementEngineUseCase) Void(ctx context.Context, settlementID string) (*dto.VoidSettlementResponse, error) {
	if settlementID == "" {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var result *dto.VoidSettlementResponse

	err := uc.txRunner.RunSettlement(ctx, func(
		lotRepo repository.LotRepository,
		weightRepo repository.CategoryWeightRepository,
		advanceRepo repository.AdvanceRepository,
		settlementRepo repository.SettlementRepository,
		kardexRepo repository.KardexRepository,
	) error {
		stl, err := settlementRepo.GetForUpdate(settlementID)
		if err != nil {
			return err
		}
		if stl.State == entity.SettlementStateVoided {
			return domain.ErrSettlementVoided
		}
		if _, err := lotRepo.GetForUpdate(stl.LotID); err != nil {
			return err
		}

		if _, err := uc.advanceLedger.RestoreDeductionsInTx(advanceRepo, stl.ID); err != nil {
			return err
		}

		var movements []*entity.KardexMovement
		// Si ya se pagó, primero se compensa el pago.
		if stl.State == entity.SettlementStatePaid {
			movements = append(movements, reversedMovements(paymentMovements(stl, stl.PaidAccount, now), stl.ID, now)...)
		}
		movements = append(movements, reversedMovements(settlementMovements(stl, now), stl.ID, now)...)
		for _, m := range movements {
			if err := kardexRepo.Create(m); err != nil {
				return err
			}
		}

		if err := settlementRepo.UpdateState(stl.ID, entity.SettlementStateVoided); err != nil {
			return err
		}
		if err := lotRepo.UpdateState(stl.LotID, entity.LotStateClassified); err != nil {
			return err
		}

		result = &dto.VoidSettlementResponse{
			SettlementID:          stl.ID,
			CompensatingMovements: toMovementResponses(movements),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Pay confirma el pago de una liquidación pendiente con neto positivo:
// baja la cuenta por pagar y el banco/caja, y pasa lote y liquidación a paid.
func (uc *SettlementEngineUseCase) Pay(ctx context.Context, settlementID, account string) (*dto.SettlementResponse, error) {
	if settlementID == "" {
		return nil, domain.ErrInvalidInput
	}
	if account != entity.AccountBank && account != entity.AccountCash {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var result *dto.SettlementResponse

	err := uc.txRunner.RunSettlement(ctx, func(
		lotRepo repository.LotRepository,
		weightRepo repository.CategoryWeightRepository,
		advanceRepo repository.AdvanceRepository,
		settlementRepo repository.SettlementRepository,
		kardexRepo repository.KardexRepository,
	) error {
		stl, err := settlementRepo.GetForUpdate(settlementID)
		if err != nil {
			return err
		}
		if stl.State == entity.SettlementStateVoided {
			return domain.ErrSettlementVoided
		}
		if stl.State != entity.SettlementStatePending {
			return domain.ErrInvalidState
		}
		if !stl.NetPayable.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidState // neto ≤ 0 no genera pago
		}

		for _, m := range paymentMovements(stl, account, now) {
			if err := kardexRepo.Create(m); err != nil {
				return err
			}
		}
		if err := settlementRepo.MarkPaid(stl.ID, account); err != nil {
			return err
		}
		// Un lote ya agotado físicamente conserva ese estado: el pago queda
		// registrado en la liquidación.
		lot, err := lotRepo.GetByID(stl.LotID)
		if err != nil {
			return err
		}
		if lot.State == entity.LotStateSettled {
			if err := lotRepo.UpdateState(stl.LotID, entity.LotStatePaid); err != nil {
				return err
			}
		}

		stl.State = entity.SettlementStatePaid
		stl.PaidAccount = account
		result = toSettlementResponse(stl, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// settlementMovements arma los asientos que postea Compute: salida física del
// peso liquidado por categoría, alta de la cuenta por pagar al productor y
// baja de la cuenta por cobrar por los adelantos recuperados.
func settlementMovements(stl *entity.Settlement, now time.Time) []*entity.KardexMovement {
	var movements []*entity.KardexMovement
	for _, line := range stl.Lines {
		movements = append(movements, &entity.KardexMovement{
			ID:          uuid.New().String(),
			Ledger:      entity.LedgerPhysical,
			LotID:       stl.LotID,
			Category:    line.Category,
			WeightDelta: line.AdjustedWeight.Neg(),
			ProducerID:  stl.ProducerID,
			RefType:     entity.RefSettlement,
			RefID:       stl.ID,
			CreatedAt:   now,
		})
	}
	movements = append(movements, &entity.KardexMovement{
		ID:          uuid.New().String(),
		Ledger:      entity.LedgerFinancial,
		Account:     entity.AccountProducerPayable,
		AmountDelta: stl.NetPayable,
		ProducerID:  stl.ProducerID,
		RefType:     entity.RefSettlement,
		RefID:       stl.ID,
		CreatedAt:   now,
	})
	if stl.TotalAdvances.GreaterThan(decimal.Zero) {
		movements = append(movements, &entity.KardexMovement{
			ID:          uuid.New().String(),
			Ledger:      entity.LedgerFinancial,
			Account:     entity.AccountProducerReceivable,
			AmountDelta: stl.TotalAdvances.Neg(),
			ProducerID:  stl.ProducerID,
			RefType:     entity.RefSettlement,
			RefID:       stl.ID,
			CreatedAt:   now,
		})
	}
	return movements
}

// paymentMovements arma los asientos del pago confirmado: baja la cuenta por
// pagar y sale el efectivo de bank/cash.
func paymentMovements(stl *entity.Settlement, account string, now time.Time) []*entity.KardexMovement {
	return []*entity.KardexMovement{
		{
			ID:          uuid.New().String(),
			Ledger:      entity.LedgerFinancial,
			Account:     entity.AccountProducerPayable,
			AmountDelta: stl.NetPayable.Neg(),
			ProducerID:  stl.ProducerID,
			RefType:     entity.RefPayment,
			RefID:       stl.ID,
			CreatedAt:   now,
		},
		{
			ID:          uuid.New().String(),
			Ledger:      entity.LedgerFinancial,
			Account:     account,
			AmountDelta: stl.NetPayable.Neg(),
			ProducerID:  stl.ProducerID,
			RefType:     entity.RefPayment,
			RefID:       stl.ID,
			CreatedAt:   now,
		},
	}
}

// reversedMovements produce los compensatorios: mismos asientos con deltas
// negados, RefType=void y referencia a la liquidación anulada.
func reversedMovements(movements []*entity.KardexMovement, settlementID string, now time.Time) []*entity.KardexMovement {
	out := make([]*entity.KardexMovement, 0, len(movements))
	for _, m := range movements {
		out = append(out, &entity.KardexMovement{
			ID:          uuid.New().String(),
			Ledger:      m.Ledger,
			LotID:       m.LotID,
			Category:    m.Category,
			WeightDelta: m.WeightDelta.Neg(),
			Account:     m.Account,
			AmountDelta: m.AmountDelta.Neg(),
			ProducerID:  m.ProducerID,
			RefType:     entity.RefVoid,
			RefID:       settlementID,
			CreatedAt:   now,
		})
	}
	return out
}

func toSettlementResponse(stl *entity.Settlement, deductions []*entity.AdvanceDeduction) *dto.SettlementResponse {
	lines := make([]dto.SettlementLineResponse, 0, len(stl.Lines))
	for _, l := range stl.Lines {
		lines = append(lines, dto.SettlementLineResponse{
			Category:       l.Category,
			OriginalWeight: l.OriginalWeight,
			AdjustedWeight: l.AdjustedWeight,
			UnitPrice:      l.UnitPrice,
			Subtotal:       l.Subtotal,
		})
	}
	var ded []dto.AdvanceDeductionResponse
	for _, d := range deductions {
		ded = append(ded, dto.AdvanceDeductionResponse{AdvanceID: d.AdvanceID, Amount: d.Amount})
	}
	return &dto.SettlementResponse{
		ID:              stl.ID,
		LotID:           stl.LotID,
		ProducerID:      stl.ProducerID,
		Lines:           lines,
		GrossValue:      stl.GrossValue,
		TotalFixedCosts: stl.TotalFixedCosts,
		TotalAdvances:   stl.TotalAdvances,
		NetPayable:      stl.NetPayable,
		State:           stl.State,
		Deductions:      ded,
		Warnings:        stl.Warnings,
	}
}

func toMovementResponses(movements []*entity.KardexMovement) []dto.KardexMovementResponse {
	out := make([]dto.KardexMovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.KardexMovementResponse{
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
		})
	}
	return out
}
