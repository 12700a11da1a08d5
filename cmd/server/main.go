package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/aliskhannn/fact-quiz/internal/app"
	"github.com/aliskhannn/fact-quiz/internal/config"
	"github.com/aliskhannn/fact-quiz/internal/delivery/httpapi"
	"github.com/aliskhannn/fact-quiz/internal/logger"
	"github.com/aliskhannn/fact-quiz/internal/storage"
)

func main() {
	flags := pflag.NewFlagSet("server", pflag.ExitOnError)
	flags.String("addr", ":8080", "listen address")
	flags.String("records", "", "CSV or YAML records file")
	flags.String("source", "", "records source: file or postgres")
	flags.Int("size", 0, "questions per session")
	flags.Bool("debug", false, "verbose logging")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load(config.Options{Flags: flags})
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

	a, err := app.New(ctx, cfg, zl, nil)
	if err != nil {
		zl.Fatal("failed to initialize application", zap.Error(err))
	}
	defer a.Close()

	api := httpapi.NewAPI(a.Quiz, storage.NewSessionStorage[string](), a.Validator, zl)

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           httpapi.NewRouter(api, cfg.HTTP.AllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zl.Warn("http shutdown", zap.Error(err))
		}
	}()

	zl.Info("http server listening", zap.String("addr", cfg.HTTP.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zl.Fatal("http server failed", zap.Error(err))
	}

	zl.Info("shutdown signal received")
}
