// Command monitor checks the live product state against a trusted snapshot
// file and optionally restores rows that disappeared. Run it from cron or by
// hand after anything that smells like data loss.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/Muhammet-Aksoy/stokv1/internal/config"
	"github.com/Muhammet-Aksoy/stokv1/internal/infra"
	"github.com/Muhammet-Aksoy/stokv1/internal/integrity"
	"github.com/Muhammet-Aksoy/stokv1/internal/repository"
	"github.com/Muhammet-Aksoy/stokv1/internal/service"
	"github.com/Muhammet-Aksoy/stokv1/internal/snapshot"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	trustedPath := flag.String("trusted", "", "path to the trusted snapshot file (required)")
	livePath := flag.String("live", "", "optional live snapshot file; omit to export from the store")
	repair := flag.Bool("repair", false, "restore missing rows from the trusted snapshot")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if *trustedPath == "" {
		log.Fatal().Msg("-trusted is required")
	}

	trusted, err := snapshot.Read(*trustedPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read trusted snapshot")
	}

	// File-vs-file mode needs no store at all.
	if *livePath != "" {
		live, err := snapshot.Read(*livePath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to read live snapshot")
		}
		diff := integrity.Check(trusted, live)
		logDiff(diff)
		if !diff.Clean() {
			os.Exit(1)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("failed to connect to database")
	}

	productRepo := repository.NewProductRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	debtRepo := repository.NewDebtRepository(db)
	snapshotSvc := service.NewSnapshotService(productRepo, saleRepo, customerRepo, debtRepo)

	monitor := integrity.NewMonitor(productRepo, snapshotSvc)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	report, err := monitor.CheckAndRepair(ctx, trusted, *repair)
	if err != nil {
		log.Fatal().Err(err).Msg("integrity check failed")
	}

	logDiff(report.Diff)
	log.Info().
		Int("restored", report.Restored).
		Int("unresolved", len(report.Unresolved)).
		Time("checked_at", report.CheckedAt).
		Msg("integrity report")

	if len(report.Unresolved) > 0 {
		for _, key := range report.Unresolved {
			log.Error().Str("key", key).Msg("still missing after repair")
		}
		os.Exit(1)
	}
}

func logDiff(d integrity.Diff) {
	for _, key := range d.Missing {
		log.Warn().Str("key", key).Msg("missing from live state")
	}
	for _, key := range d.Extra {
		log.Info().Str("key", key).Msg("present live, absent from trusted snapshot")
	}
	if d.Clean() {
		log.Info().Msg("no missing rows")
	}
}
