package advances

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

// AdvanceLedgerUseCase maneja los adelantos de un productor: desembolso,
// saldo y descuento FIFO contra liquidaciones. El orden más-antiguo-primero
// es contrato, no casualidad: está fijado por ListPendingForUpdate y probado.
type AdvanceLedgerUseCase struct {
	txRunner     TxRunner
	advanceRepo  repository.AdvanceRepository
	producerRepo repository.ProducerRepository
}

// NewAdvanceLedgerUseCase construye el caso de uso.
func NewAdvanceLedgerUseCase(
	txRunner TxRunner,
	advanceRepo repository.AdvanceRepository,
	producerRepo repository.ProducerRepository,
) *AdvanceLedgerUseCase {
	return &AdvanceLedgerUseCase{
		txRunner:     txRunner,
		advanceRepo:  advanceRepo,
		producerRepo: producerRepo,
	}
}

// DeductionResult total descontado y los registros emitidos, uno por adelanto
// tocado.
type DeductionResult struct {
	TotalDeducted decimal.Decimal
	Deductions    []*entity.AdvanceDeduction
}

// Disburse registra la entrega de un adelanto y postea el par financiero
// (sale de bank/cash, crece producer_receivable) en una sola transacción.
func (uc *AdvanceLedgerUseCase) Disburse(ctx context.Context, producerID string, in dto.DisburseAdvanceRequest) (*dto.AdvanceResponse, error) {
	if !in.Amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.Account != entity.AccountBank && in.Account != entity.AccountCash {
		return nil, domain.ErrInvalidInput
	}
	producer, err := uc.producerRepo.GetByID(producerID)
	if err != nil || producer == nil {
		return nil, domain.ErrNotFound
	}

	date := time.Now()
	if in.Date != "" {
		parsed, err := time.Parse("2006-01-02", in.Date)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		date = parsed
	}

	advance := &entity.Advance{
		ID:            uuid.New().String(),
		ProducerID:    producerID,
		Amount:        in.Amount,
		AppliedAmount: decimal.Zero,
		Date:          date,
		State:         entity.AdvanceStatePending,
		CreatedAt:     time.Now(),
	}

	err = uc.txRunner.RunAdvance(ctx, func(
		advanceRepo repository.AdvanceRepository,
		kardexRepo repository.KardexRepository,
	) error {
		if err := advanceRepo.Create(advance); err != nil {
			return err
		}
		// Sale efectivo, crece la cuenta por cobrar al productor.
		out := &entity.KardexMovement{
			ID:          uuid.New().String(),
			Ledger:      entity.LedgerFinancial,
			Account:     in.Account,
			AmountDelta: in.Amount.Neg(),
			ProducerID:  producerID,
			RefType:     entity.RefAdvance,
			RefID:       advance.ID,
			CreatedAt:   time.Now(),
		}
		if err := kardexRepo.Create(out); err != nil {
			return err
		}
		receivable := &entity.KardexMovement{
			ID:          uuid.New().String(),
			Ledger:      entity.LedgerFinancial,
			Account:     entity.AccountProducerReceivable,
			AmountDelta: in.Amount,
			ProducerID:  producerID,
			RefType:     entity.RefAdvance,
			RefID:       advance.ID,
			CreatedAt:   time.Now(),
		}
		return kardexRepo.Create(receivable)
	})
	if err != nil {
		return nil, err
	}
	return toAdvanceResponse(advance), nil
}

// Balance devuelve el saldo de adelantos del productor: total entregado,
// pendiente de descontar y ya aplicado.
func (uc *AdvanceLedgerUseCase) Balance(ctx context.Context, producerID string) (*dto.AdvanceBalanceResponse, error) {
	producer, err := uc.producerRepo.GetByID(producerID)
	if err != nil || producer == nil {
		return nil, domain.ErrNotFound
	}
	advances, err := uc.advanceRepo.ListByProducer(producerID)
	if err != nil {
		return nil, err
	}
	total, applied := decimal.Zero, decimal.Zero
	for _, a := range advances {
		total = total.Add(a.Amount)
		applied = applied.Add(a.AppliedAmount)
	}
	return &dto.AdvanceBalanceResponse{
		ProducerID: producerID,
		Total:      total,
		Pending:    total.Sub(applied),
		Applied:    applied,
	}, nil
}

// ApplyDeductionInTx descuenta adelantos FIFO dentro de la transacción del
// caller (el motor de liquidación), usando el repositorio atado a esa tx.
// Recorre los adelantos pendientes del más antiguo al más reciente, toma
// min(saldo, faltante) de cada uno y se detiene cuando el faltante llega a
// cero o se agotan. Nunca descuenta más que el saldo de un adelanto.
func (uc *AdvanceLedgerUseCase) ApplyDeductionInTx(
	advanceRepo repository.AdvanceRepository,
	producerID, settlementID string,
	needed decimal.Decimal,
	now time.Time,
) (*DeductionResult, error) {
	result := &DeductionResult{TotalDeducted: decimal.Zero}
	if !needed.GreaterThan(decimal.Zero) {
		return result, nil
	}

	// FOR UPDATE: la lectura del saldo y su consumo quedan bajo el mismo
	// candado, sin doble descuento entre liquidaciones concurrentes.
	pending, err := advanceRepo.ListPendingForUpdate(producerID)
	if err != nil {
		return nil, err
	}

	remaining := needed
	for _, advance := range pending {
		if !remaining.GreaterThan(decimal.Zero) {
			break
		}
		take := decimal.Min(advance.Remaining(), remaining)
		if !take.GreaterThan(decimal.Zero) {
			continue
		}
		advance.AppliedAmount = advance.AppliedAmount.Add(take)
		advance.RecomputeState()
		if err := advanceRepo.UpdateApplied(advance); err != nil {
			return nil, err
		}
		deduction := &entity.AdvanceDeduction{
			ID:           uuid.New().String(),
			AdvanceID:    advance.ID,
			SettlementID: settlementID,
			Amount:       take,
			Date:         now,
		}
		if err := advanceRepo.CreateDeduction(deduction); err != nil {
			return nil, err
		}
		result.Deductions = append(result.Deductions, deduction)
		result.TotalDeducted = result.TotalDeducted.Add(take)
		remaining = remaining.Sub(take)
	}
	return result, nil
}

// RestoreDeductionsInTx revierte los descuentos de una liquidación (anulación)
// dentro de la transacción del caller. Devuelve el total restaurado.
func (uc *AdvanceLedgerUseCase) RestoreDeductionsInTx(
	advanceRepo repository.AdvanceRepository,
	settlementID string,
) (decimal.Decimal, error) {
	deductions, err := advanceRepo.ListDeductionsBySettlement(settlementID)
	if err != nil {
		return decimal.Zero, err
	}
	restored := decimal.Zero
	for _, d := range deductions {
		advance, err := advanceRepo.GetForUpdate(d.AdvanceID)
		if err != nil {
			return decimal.Zero, err
		}
		advance.AppliedAmount = advance.AppliedAmount.Sub(d.Amount)
		if advance.AppliedAmount.LessThan(decimal.Zero) {
			advance.AppliedAmount = decimal.Zero
		}
		advance.RecomputeState()
		if err := advanceRepo.UpdateApplied(advance); err != nil {
			return decimal.Zero, err
		}
		restored = restored.Add(d.Amount)
	}
	return restored, nil
}

func toAdvanceResponse(a *entity.Advance) *dto.AdvanceResponse {
	return &dto.AdvanceResponse{
		ID:            a.ID,
		ProducerID:    a.ProducerID,
		Amount:        a.Amount,
		AppliedAmount: a.AppliedAmount,
		Remaining:     a.Remaining(),
		Date:          a.Date.Format("2006-01-02"),
		State:         a.State,
	}
}
