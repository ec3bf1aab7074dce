// recalc_stats reconstruye las estadísticas de valoración de un año desde los documentos.
//
// Uso: go run ./cmd/recalc_stats -org <organization_id> -year 2024
// Usa la misma configuración (DB_*, DATABASE_URL) que la API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/Gestionale-api/internal/application/valuation"
	"github.com/jhoicas/Gestionale-api/internal/domain"
	"github.com/jhoicas/Gestionale-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Gestionale-api/pkg/config"
	"github.com/jhoicas/Gestionale-api/pkg/logger"
)

func main() {
	org := flag.String("org", "", "organization_id")
	year := flag.Int("year", time.Now().Year(), "año a recalcular")
	timeout := flag.Duration("timeout", 10*time.Minute, "tiempo máximo")
	flag.Parse()

	if *org == "" {
		fmt.Fprintln(os.Stderr, "falta -org")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	uc := valuation.NewUseCase(postgres.NewStore(pool), postgres.NewTxRunner(pool, cfg.Ledger.TxMaxRetries, log), log)
	actor := domain.Actor{OrganizationID: *org, UserID: "recalc_stats", CanWrite: true}

	res, err := uc.RecalculateStatsForYear(ctx, actor, *year)
	if err != nil {
		log.Error().Err(err).Str("organization_id", *org).Int("year", *year).Msg("recálculo fallido")
		pool.Close()
		os.Exit(1)
	}
	fmt.Printf("año %d: %d documentos, %d filas borradas, %d filas escritas\n",
		res.Year, res.DocumentsProcessed, res.RowsDeleted, res.RowsWritten)
}
