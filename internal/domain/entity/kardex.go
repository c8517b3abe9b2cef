package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ledgers del kardex doble.
const (
	LedgerPhysical  = "physical"  // kg por lote/categoría
	LedgerFinancial = "financial" // soles por cuenta
)

// Cuentas del ledger financiero.
const (
	AccountBank               = "bank"
	AccountCash               = "cash"
	AccountSales              = "sales"
	AccountProducerPayable    = "producer_payable"    // pasivo: liquidaciones por pagar
	AccountProducerReceivable = "producer_receivable" // activo: adelantos por descontar
)

// Documentos que originan un movimiento.
const (
	RefSettlement = "settlement"
	RefOrder      = "order"
	RefAdvance    = "advance"
	RefPayment    = "payment"
	RefManual     = "manual"
	RefVoid       = "void" // movimiento compensatorio; RefID apunta al movimiento anulado
)

// KardexMovement es un asiento inmutable del kardex. Físico (lote, categoría,
// delta de kg con signo) o financiero (cuenta, delta de monto con signo).
// Los saldos jamás se almacenan: se derivan sumando deltas. Un asiento errado
// se corrige con un asiento opuesto, nunca editándolo.
type KardexMovement struct {
	ID          string
	Ledger      string
	LotID       string          // solo físico
	Category    string          // solo físico
	WeightDelta decimal.Decimal // solo físico, kg con signo
	Account     string          // solo financiero
	AmountDelta decimal.Decimal // solo financiero, con signo
	ProducerID  string          // para estados de cuenta; vacío si no aplica
	RefType     string
	RefID       string
	Reason      string // obligatorio en ajustes manuales
	CreatedAt   time.Time
}
