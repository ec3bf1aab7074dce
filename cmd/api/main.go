package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Gestionale-api/internal/application/inventory"
	"github.com/jhoicas/Gestionale-api/internal/application/payments"
	"github.com/jhoicas/Gestionale-api/internal/application/posting"
	"github.com/jhoicas/Gestionale-api/internal/application/valuation"
	domaininv "github.com/jhoicas/Gestionale-api/internal/domain/inventory"
	"github.com/jhoicas/Gestionale-api/internal/domain/reconciliation"
	"github.com/jhoicas/Gestionale-api/internal/infrastructure/cache"
	"github.com/jhoicas/Gestionale-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Gestionale-api/internal/interfaces/http"
	"github.com/jhoicas/Gestionale-api/pkg/config"
	"github.com/jhoicas/Gestionale-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	// La tabla de tipos y la política INTERNAL se validan al arrancar: una configuración
	// inconsistente no debe descubrirse contabilizando un documento.
	overrides := make([]domaininv.KindOverride, 0, len(cfg.Ledger.MovementKinds))
	for _, o := range cfg.Ledger.MovementKinds {
		overrides = append(overrides, domaininv.KindOverride{Code: o.Code, Sign: o.Sign, Kind: o.Kind})
	}
	kinds, err := domaininv.NewMovementKindTable(overrides)
	if err != nil {
		log.Fatal().Err(err).Msg("LEDGER_MOVEMENT_KINDS")
	}
	policy, err := reconciliation.ParseInternalPolicy(cfg.Ledger.InternalDirection)
	if err != nil {
		log.Fatal().Err(err).Msg("LEDGER_INTERNAL_DIRECTION")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.MigrateOnStart {
		migrator, err := postgres.NewMigrator(pool, log)
		if err != nil {
			log.Fatal().Err(err).Msg("preparar migraciones")
		}
		if err := migrator.Up(); err != nil {
			log.Fatal().Err(err).Msg("aplicar migraciones")
		}
		// devuelve al pool la conexión que retiene el migrador
		if err := migrator.Close(); err != nil {
			log.Warn().Err(err).Msg("cerrar migrador")
		}
	}

	store := postgres.NewStore(pool)
	txRunner := postgres.NewTxRunner(pool, cfg.Ledger.TxMaxRetries, log)

	ledgerUC := inventory.NewLedgerUseCase(store, txRunner, kinds, log)
	valuationUC := valuation.NewUseCase(store, txRunner, log)
	postingUC := posting.NewPostDocumentUseCase(txRunner, ledgerUC, valuationUC, log)

	var paymentOpts []payments.Option
	if cfg.Redis.Enabled() {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		paymentOpts = append(paymentOpts, payments.WithIdempotency(
			cache.NewRedisIdempotencyStore(client, cfg.App.Name+":idempotency:"), cfg.Redis.IdempotencyTTL))
		log.Info().Str("addr", cfg.Redis.Addr).Msg("idempotencia de conciliaciones activada")
	}
	paymentsUC := payments.NewUseCase(store, txRunner, policy, log, paymentOpts...)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ledger:    ledgerUC,
		Valuation: valuationUC,
		Posting:   postingUC,
		Payments:  paymentsUC,
		JWTSecret: cfg.JWT.Secret,
		Log:       log,
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
