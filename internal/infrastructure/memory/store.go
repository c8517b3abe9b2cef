// Package memory implementa los puertos de repositorio sobre mapas en
// memoria. Lo usan las pruebas de casos de uso; no hay transacciones reales:
// los TxRunner invocan la función con los repositorios del mismo Store.
package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/agroselva/liquidacion-api/internal/domain"
	"github.com/agroselva/liquidacion-api/internal/domain/entity"
	"github.com/agroselva/liquidacion-api/internal/domain/repository"
)

// Store contiene todo el estado. No es seguro para uso concurrente.
type Store struct {
	lots        map[string]*entity.Lot
	weights     map[string][]*entity.CategoryWeight
	advances    map[string]*entity.Advance
	deductions  []*entity.AdvanceDeduction
	settlements map[string]*entity.Settlement
	allocations map[string]*entity.Allocation
	movements   []*entity.KardexMovement
	producers   map[string]*entity.Producer
	orders      map[string]*entity.Order
	pricebooks  map[int]*entity.Pricebook
}

// NewStore crea un Store vacío.
func NewStore() *Store {
	return &Store{
		lots:        make(map[string]*entity.Lot),
		weights:     make(map[string][]*entity.CategoryWeight),
		advances:    make(map[string]*entity.Advance),
		settlements: make(map[string]*entity.Settlement),
		allocations: make(map[string]*entity.Allocation),
		producers:   make(map[string]*entity.Producer),
		orders:      make(map[string]*entity.Order),
		pricebooks:  make(map[int]*entity.Pricebook),
	}
}

// Repositorios atados al Store.

func (s *Store) Lots() repository.LotRepository                   { return &lotRepo{s} }
func (s *Store) Weights() repository.CategoryWeightRepository     { return &weightRepo{s} }
func (s *Store) Advances() repository.AdvanceRepository           { return &advanceRepo{s} }
func (s *Store) Settlements() repository.SettlementRepository     { return &settlementRepo{s} }
func (s *Store) Allocations() repository.AllocationRepository     { return &allocationRepo{s} }
func (s *Store) Kardex() repository.KardexRepository              { return &kardexRepo{s} }
func (s *Store) Producers() repository.ProducerRepository         { return &producerRepo{s} }
func (s *Store) Orders() repository.OrderRepository               { return &orderRepo{s} }
func (s *Store) Pricebooks() repository.PricebookRepository       { return &pricebookRepo{s} }

// TxRunner de cada caso de uso: misma firma, sin transacción real.

func (s *Store) Run(ctx context.Context, fn func(
	lotRepo repository.LotRepository,
	weightRepo repository.CategoryWeightRepository,
	allocationRepo repository.AllocationRepository,
) error) error {
	return fn(s.Lots(), s.Weights(), s.Allocations())
}

func (s *Store) RunAdvance(ctx context.Context, fn func(
	advanceRepo repository.AdvanceRepository,
	kardexRepo repository.KardexRepository,
) error) error {
	return fn(s.Advances(), s.Kardex())
}

func (s *Store) RunAllocation(ctx context.Context, fn func(
	lotRepo repository.LotRepository,
	weightRepo repository.CategoryWeightRepository,
	allocationRepo repository.AllocationRepository,
	orderRepo repository.OrderRepository,
) error) error {
	return fn(s.Lots(), s.Weights(), s.Allocations(), s.Orders())
}

func (s *Store) RunSettlement(ctx context.Context, fn func(
	lotRepo repository.LotRepository,
	weightRepo repository.CategoryWeightRepository,
	advanceRepo repository.AdvanceRepository,
	settlementRepo repository.SettlementRepository,
	kardexRepo repository.KardexRepository,
) error) error {
	return fn(s.Lots(), s.Weights(), s.Advances(), s.Settlements(), s.Kardex())
}

func (s *Store) RunKardex(ctx context.Context, fn func(
	lotRepo repository.LotRepository,
	weightRepo repository.CategoryWeightRepository,
	allocationRepo repository.AllocationRepository,
	orderRepo repository.OrderRepository,
	kardexRepo repository.KardexRepository,
) error) error {
	return fn(s.Lots(), s.Weights(), s.Allocations(), s.Orders(), s.Kardex())
}

type lotRepo struct{ s *Store }

func (r *lotRepo) Create(lot *entity.Lot) error {
	r.s.lots[lot.ID] = lot
	return nil
}

func (r *lotRepo) GetByID(id string) (*entity.Lot, error) {
	lot, ok := r.s.lots[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return lot, nil
}

func (r *lotRepo) GetForUpdate(id string) (*entity.Lot, error) { return r.GetByID(id) }

func (r *lotRepo) UpdateState(id, state string) error {
	lot, ok := r.s.lots[id]
	if !ok {
		return domain.ErrNotFound
	}
	lot.State = state
	return nil
}

type weightRepo struct{ s *Store }

func (r *weightRepo) ReplaceForLot(lotID string, lines []*entity.CategoryWeight) error {
	r.s.weights[lotID] = lines
	return nil
}

func (r *weightRepo) ListByLot(lotID string) ([]*entity.CategoryWeight, error) {
	return r.s.weights[lotID], nil
}

func (r *weightRepo) GetByLotAndCategory(lotID, category string) (*entity.CategoryWeight, error) {
	for _, w := range r.s.weights[lotID] {
		if w.Category == category {
			return w, nil
		}
	}
	return nil, domain.ErrNotFound
}

type advanceRepo struct{ s *Store }

func (r *advanceRepo) Create(advance *entity.Advance) error {
	r.s.advances[advance.ID] = advance
	return nil
}

func (r *advanceRepo) GetByID(id string) (*entity.Advance, error) {
	advance, ok := r.s.advances[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return advance, nil
}

func (r *advanceRepo) GetForUpdate(id string) (*entity.Advance, error) { return r.GetByID(id) }

func (r *advanceRepo) ListPendingForUpdate(producerID string) ([]*entity.Advance, error) {
	var out []*entity.Advance
	for _, a := range r.s.advances {
		if a.ProducerID == producerID && a.Remaining().GreaterThan(decimal.Zero) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *advanceRepo) ListByProducer(producerID string) ([]*entity.Advance, error) {
	var out []*entity.Advance
	for _, a := range r.s.advances {
		if a.ProducerID == producerID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *advanceRepo) UpdateApplied(advance *entity.Advance) error {
	if _, ok := r.s.advances[advance.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.advances[advance.ID] = advance
	return nil
}

func (r *advanceRepo) CreateDeduction(deduction *entity.AdvanceDeduction) error {
	r.s.deductions = append(r.s.deductions, deduction)
	return nil
}

func (r *advanceRepo) ListDeductionsBySettlement(settlementID string) ([]*entity.AdvanceDeduction, error) {
	var out []*entity.AdvanceDeduction
	for _, d := range r.s.deductions {
		if d.SettlementID == settlementID {
			out = append(out, d)
		}
	}
	return out, nil
}

type settlementRepo struct{ s *Store }

func (r *settlementRepo) Create(settlement *entity.Settlement) error {
	for _, existing := range r.s.settlements {
		if existing.LotID == settlement.LotID && existing.State != entity.SettlementStateVoided {
			return domain.ErrAlreadySettled
		}
	}
	r.s.settlements[settlement.ID] = settlement
	return nil
}

func (r *settlementRepo) GetByID(id string) (*entity.Settlement, error) {
	stl, ok := r.s.settlements[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return stl, nil
}

func (r *settlementRepo) GetForUpdate(id string) (*entity.Settlement, error) { return r.GetByID(id) }

func (r *settlementRepo) GetActiveByLot(lotID string) (*entity.Settlement, error) {
	for _, stl := range r.s.settlements {
		if stl.LotID == lotID && stl.State != entity.SettlementStateVoided {
			return stl, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *settlementRepo) UpdateState(id, state string) error {
	stl, ok := r.s.settlements[id]
	if !ok {
		return domain.ErrNotFound
	}
	stl.State = state
	return nil
}

func (r *settlementRepo) MarkPaid(id, account string) error {
	stl, ok := r.s.settlements[id]
	if !ok {
		return domain.ErrNotFound
	}
	stl.State = entity.SettlementStatePaid
	stl.PaidAccount = account
	return nil
}

type allocationRepo struct{ s *Store }

func (r *allocationRepo) Create(allocation *entity.Allocation) error {
	r.s.allocations[allocation.ID] = allocation
	return nil
}

func (r *allocationRepo) GetByID(id string) (*entity.Allocation, error) {
	a, ok := r.s.allocations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

func (r *allocationRepo) GetForUpdate(id string) (*entity.Allocation, error) { return r.GetByID(id) }

func (r *allocationRepo) Update(allocation *entity.Allocation) error {
	if _, ok := r.s.allocations[allocation.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.allocations[allocation.ID] = allocation
	return nil
}

func (r *allocationRepo) Delete(id string) error {
	if _, ok := r.s.allocations[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.allocations, id)
	return nil
}

func (r *allocationRepo) SumByLotCategory(lotID, category string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, a := range r.s.allocations {
		if a.LotID == lotID && a.Category == category {
			total = total.Add(a.Weight)
		}
	}
	return total, nil
}

func (r *allocationRepo) SumDispatchedByOrder(orderID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, a := range r.s.allocations {
		if a.OrderID == orderID && a.State == entity.AllocationStateDispatched {
			total = total.Add(a.Weight)
		}
	}
	return total, nil
}

func (r *allocationRepo) ListByLot(lotID string) ([]*entity.Allocation, error) {
	var out []*entity.Allocation
	for _, a := range r.s.allocations {
		if a.LotID == lotID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type kardexRepo struct{ s *Store }

func (r *kardexRepo) Create(movement *entity.KardexMovement) error {
	r.s.movements = append(r.s.movements, movement)
	return nil
}

func (r *kardexRepo) GetByID(id string) (*entity.KardexMovement, error) {
	for _, m := range r.s.movements {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *kardexRepo) SumPhysical(lotID, category string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, m := range r.s.movements {
		if m.Ledger == entity.LedgerPhysical && m.LotID == lotID && m.Category == category {
			total = total.Add(m.WeightDelta)
		}
	}
	return total, nil
}

func (r *kardexRepo) SumFinancial(account string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, m := range r.s.movements {
		if m.Ledger == entity.LedgerFinancial && m.Account == account {
			total = total.Add(m.AmountDelta)
		}
	}
	return total, nil
}

func (r *kardexRepo) ListByProducer(producerID string) ([]*entity.KardexMovement, error) {
	var out []*entity.KardexMovement
	for _, m := range r.s.movements {
		if m.ProducerID == producerID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *kardexRepo) ExistsVoidOf(movementID string) (bool, error) {
	for _, m := range r.s.movements {
		if m.RefType == entity.RefVoid && m.RefID == movementID {
			return true, nil
		}
	}
	return false, nil
}

type producerRepo struct{ s *Store }

func (r *producerRepo) Create(producer *entity.Producer) error {
	for _, p := range r.s.producers {
		if p.Document == producer.Document {
			return domain.ErrDuplicate
		}
	}
	r.s.producers[producer.ID] = producer
	return nil
}

func (r *producerRepo) GetByID(id string) (*entity.Producer, error) {
	p, ok := r.s.producers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

type orderRepo struct{ s *Store }

func (r *orderRepo) Create(order *entity.Order) error {
	r.s.orders[order.ID] = order
	return nil
}

func (r *orderRepo) GetByID(id string) (*entity.Order, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

func (r *orderRepo) UpdateState(id, state string) error {
	o, ok := r.s.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.State = state
	return nil
}

type pricebookRepo struct{ s *Store }

func (r *pricebookRepo) GetCurrent() (*entity.Pricebook, error) {
	current := 0
	for v := range r.s.pricebooks {
		if v > current {
			current = v
		}
	}
	if current == 0 {
		return nil, domain.ErrNotFound
	}
	return r.s.pricebooks[current], nil
}

func (r *pricebookRepo) GetVersion(version int) (*entity.Pricebook, error) {
	p, ok := r.s.pricebooks[version]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (r *pricebookRepo) SaveVersion(pricebook *entity.Pricebook) error {
	next := 1
	for v := range r.s.pricebooks {
		if v >= next {
			next = v + 1
		}
	}
	pricebook.Version = next
	r.s.pricebooks[next] = pricebook
	return nil
}
