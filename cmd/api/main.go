package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/agroselva/liquidacion-api/internal/application/advances"
	"github.com/agroselva/liquidacion-api/internal/application/allocation"
	"github.com/agroselva/liquidacion-api/internal/application/classification"
	"github.com/agroselva/liquidacion-api/internal/application/kardex"
	"github.com/agroselva/liquidacion-api/internal/application/settlement"
	"github.com/agroselva/liquidacion-api/internal/application/usecase"
	"github.com/agroselva/liquidacion-api/internal/infrastructure/postgres"
	httpRouter "github.com/agroselva/liquidacion-api/internal/interfaces/http"
	"github.com/agroselva/liquidacion-api/pkg/config"
	"github.com/agroselva/liquidacion-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	lotRepo := postgres.NewLotRepository(pool)
	weightRepo := postgres.NewCategoryWeightRepository(pool)
	advanceRepo := postgres.NewAdvanceRepository(pool)
	allocationRepo := postgres.NewAllocationRepository(pool)
	kardexRepo := postgres.NewKardexRepository(pool)
	producerRepo := postgres.NewProducerRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	pricebookRepo := postgres.NewPricebookRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	lotUC := usecase.NewLotUseCase(lotRepo, producerRepo)
	producerUC := usecase.NewProducerUseCase(producerRepo)
	orderUC := usecase.NewOrderUseCase(orderRepo)
	pricebookUC := usecase.NewPricebookUseCase(pricebookRepo)
	classifyUC := classification.NewClassifyLotUseCase(txRunner, pricebookRepo)
	advancesUC := advances.NewAdvanceLedgerUseCase(txRunner, advanceRepo, producerRepo)
	settlementUC := settlement.NewSettlementEngineUseCase(txRunner, advancesUC)
	allocationUC := allocation.NewAllocationUseCase(txRunner, weightRepo, allocationRepo)
	kardexUC := kardex.NewDualKardexUseCase(txRunner, kardexRepo, lotRepo, producerRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Liquidación API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		LotUC:        lotUC,
		ProducerUC:   producerUC,
		OrderUC:      orderUC,
		PricebookUC:  pricebookUC,
		ClassifyUC:   classifyUC,
		SettlementUC: settlementUC,
		AdvancesUC:   advancesUC,
		AllocationUC: allocationUC,
		KardexUC:     kardexUC,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
