package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/aliskhannn/fact-quiz/internal/config"
	"github.com/aliskhannn/fact-quiz/internal/infra/postgres"
	pgrepo "github.com/aliskhannn/fact-quiz/internal/infra/postgres/repository"
	"github.com/aliskhannn/fact-quiz/internal/logger"
	"github.com/aliskhannn/fact-quiz/internal/repository"
)

// Loads a records file and upserts it into quiz_records.
func main() {
	flags := pflag.NewFlagSet("import", pflag.ExitOnError)
	flags.StringP("records", "r", "", "CSV or YAML records file")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load(config.Options{Flags: flags, RequireDatabase: true})
	if err != nil {
		log.Fatal(err)
	}

	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fileRepo, err := repository.NewRecordRepository(cfg.Records.Path, logger.NewZap(zl))
	if err != nil {
		zl.Fatal("failed to load records", zap.String("path", cfg.Records.Path), zap.Error(err))
	}

	records, _ := fileRepo.GetAll(ctx)

	pool, err := postgres.NewPool(ctx, cfg.DB.URL, postgres.PoolConfig{
		MaxConns:        int32(cfg.DB.MaxConnections),
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		zl.Fatal("failed to connect database", zap.Error(err))
	}
	defer pool.Close()

	if err := pgrepo.NewRecordRepository(pool).Upsert(ctx, records); err != nil {
		zl.Fatal("failed to import records", zap.Error(err))
	}

	zl.Info("records imported",
		zap.String("path", cfg.Records.Path),
		zap.Int("count", len(records)),
	)
}
