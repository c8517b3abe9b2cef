package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de un lote de acopio.
// Lineal: received → classified → settled → paid. exhausted es terminal: con
// la liquidación cerrada, todo el peso clasificado ya fue despachado. No hay
// retrocesos salvo la anulación explícita de la liquidación, que devuelve el
// lote a classified.
const (
	LotStateReceived   = "received"
	LotStateClassified = "classified"
	LotStateSettled    = "settled"
	LotStatePaid       = "paid"
	LotStateExhausted  = "exhausted"
)

// Productos que maneja la planta.
const (
	ProductKion    = "kion"    // jengibre fresco
	ProductCurcuma = "curcuma" // cúrcuma fresca
)

// Lot representa un lote de materia prima recibido de un productor.
// Nunca se elimina; solo cambia de estado.
type Lot struct {
	ID                 string
	ProducerID         string
	Product            string // kion, curcuma
	IntakeDate         time.Time
	GrossWeight        decimal.Decimal // kg brutos en báscula
	CageDiscountWeight decimal.Decimal // kg de jabas/envases, se descuenta en la clasificación
	State              string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// CanClassify indica si el lote admite (re)clasificación.
// Un lote liquidado solo se reclasifica tras anular su liquidación.
func (l *Lot) CanClassify() bool {
	return l.State == LotStateReceived || l.State == LotStateClassified
}
