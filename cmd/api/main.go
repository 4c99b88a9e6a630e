package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/vendedores-api/internal/application/accounting"
	"github.com/jhoicas/vendedores-api/internal/application/inventory"
	"github.com/jhoicas/vendedores-api/internal/application/ports"
	"github.com/jhoicas/vendedores-api/internal/application/sales"
	"github.com/jhoicas/vendedores-api/internal/infrastructure/memory"
	"github.com/jhoicas/vendedores-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/vendedores-api/internal/interfaces/http"
	"github.com/jhoicas/vendedores-api/pkg/config"
	"github.com/jhoicas/vendedores-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	var txRunner ports.TxRunner
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		txRunner = memory.New()
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			if err := postgres.ApplySchema(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("schema")
			}
			log.Info().Msg("schema aplicado")
		}
		txRunner = postgres.NewTxRunner(pool, log)
	}

	loc := cfg.App.Location()
	ledgerUC := inventory.NewLedgerUseCase(txRunner, cfg.Inventory.TxMaxRetries, log)
	queryUC := inventory.NewQueryUseCase(txRunner)
	saleUC := sales.NewRecordSaleUseCase(txRunner, cfg.Inventory.TxMaxRetries, log)
	statementUC := accounting.NewStatementUseCase(txRunner, loc, cfg.Accounting.BatchConcurrency, log)
	prorationUC := accounting.NewProrationUseCase(txRunner)
	expenseUC := accounting.NewExpenseUseCase(txRunner, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ledger:     ledgerUC,
		Query:      queryUC,
		Sales:      saleUC,
		Statements: statementUC,
		Proration:  prorationUC,
		Expenses:   expenseUC,
		Location:   loc,
		JWTSecret:  cfg.JWT.Secret,
		JWTIssuer:  cfg.JWT.Issuer,
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
