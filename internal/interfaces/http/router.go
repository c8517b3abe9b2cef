package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agroselva/liquidacion-api/internal/application/advances"
	"github.com/agroselva/liquidacion-api/internal/application/allocation"
	"github.com/agroselva/liquidacion-api/internal/application/classification"
	"github.com/agroselva/liquidacion-api/internal/application/kardex"
	"github.com/agroselva/liquidacion-api/internal/application/settlement"
	"github.com/agroselva/liquidacion-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	LotUC        *usecase.LotUseCase
	ProducerUC   *usecase.ProducerUseCase
	OrderUC      *usecase.OrderUseCase
	PricebookUC  *usecase.PricebookUseCase
	ClassifyUC   *classification.ClassifyLotUseCase
	SettlementUC *settlement.SettlementEngineUseCase
	AdvancesUC   *advances.AdvanceLedgerUseCase
	AllocationUC *allocation.AllocationUseCase
	KardexUC     *kardex.DualKardexUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Lotes: ingreso, clasificación y liquidación
	lots := api.Group("/lots")
	lotHandler := NewLotHandler(deps.LotUC, deps.ClassifyUC)
	settlementHandler := NewSettlementHandler(deps.SettlementUC)
	kardexHandler := NewKardexHandler(deps.KardexUC)
	allocationHandler := NewAllocationHandler(deps.AllocationUC, deps.KardexUC)
	lots.Post("/", lotHandler.Create)
	lots.Get("/:id", lotHandler.GetByID)
	lots.Post("/:id/classification", lotHandler.Classify)
	lots.Post("/:id/settlement", settlementHandler.Compute)
	lots.Get("/:id/categories/:category/balance", allocationHandler.AvailableBalance)
	lots.Get("/:id/categories/:category/kardex", kardexHandler.PhysicalBalance)

	// Liquidaciones
	settlements := api.Group("/settlements")
	settlements.Post("/:id/void", settlementHandler.Void)
	settlements.Post("/:id/payment", settlementHandler.Pay)

	// Productores y adelantos
	producers := api.Group("/producers")
	producerHandler := NewProducerHandler(deps.ProducerUC, deps.AdvancesUC, deps.KardexUC)
	producers.Post("/", producerHandler.Create)
	producers.Get("/:id", producerHandler.GetByID)
	producers.Post("/:id/advances", producerHandler.Disburse)
	producers.Get("/:id/advances/balance", producerHandler.AdvanceBalance)
	producers.Get("/:id/statement", producerHandler.Statement)

	// Pedidos de venta
	orders := api.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Post("/", orderHandler.Create)
	orders.Get("/:id", orderHandler.GetByID)

	// Asignaciones lote→pedido
	allocations := api.Group("/allocations")
	allocations.Post("/", allocationHandler.Allocate)
	allocations.Delete("/:id", allocationHandler.Deallocate)
	allocations.Post("/:id/dispatch", allocationHandler.Dispatch)

	// Kardex doble
	kardexGroup := api.Group("/kardex")
	kardexGroup.Post("/adjustments", kardexHandler.ManualAdjustment)
	kardexGroup.Post("/movements/:id/void", kardexHandler.VoidMovement)
	kardexGroup.Get("/accounts/:account/balance", kardexHandler.FinancialBalance)

	// Tarifario
	pricebook := api.Group("/pricebook")
	pricebookHandler := NewPricebookHandler(deps.PricebookUC)
	pricebook.Get("/", pricebookHandler.GetCurrent)
	pricebook.Put("/", pricebookHandler.SaveVersion)
}
