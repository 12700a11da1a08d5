package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/aliskhannn/fact-quiz/internal/app"
	"github.com/aliskhannn/fact-quiz/internal/config"
	"github.com/aliskhannn/fact-quiz/internal/delivery/console"
	"github.com/aliskhannn/fact-quiz/internal/logger"
)

func main() {
	flags := pflag.NewFlagSet("quiz", pflag.ExitOnError)
	flags.StringP("records", "r", "", "CSV or YAML records file")
	flags.StringP("source", "s", "", "records source: file or postgres")
	flags.IntP("size", "n", 0, "questions per session")
	flags.Uint64("seed", 0, "random seed (0 seeds from the clock)")
	flags.Int("retry-gap", 0, "questions asked before a missed one returns")
	flags.Bool("no-retry", false, "do not ask missed questions again")
	flags.Bool("debug", false, "show generator log lines in a panel")
	noColor := flags.Bool("no-color", false, "disable colors")
	_ = flags.Parse(os.Args[1:])

	if err := run(flags, *noColor); err != nil && !errors.Is(err, console.ErrQuit) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(flags *pflag.FlagSet, noColor bool) error {
	cfg, err := config.Load(config.Options{Flags: flags})
	if err != nil {
		return err
	}

	// Keep zap quiet on the terminal; the debug panel shows quiz messages instead.
	zl := zap.NewNop()
	var quizLog logger.Logger = logger.Nop
	var panel *console.Panel
	if cfg.Debug {
		if zl, err = logger.New(cfg); err != nil {
			return err
		}
		defer func() { _ = zl.Sync() }()

		panel = console.NewPanel(8)
		quizLog = logger.NewMirror(logger.NewZap(zl), panel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, zl, quizLog)
	if err != nil {
		return err
	}
	defer a.Close()

	_, err = console.NewApp(a.Quiz, a.Validator, console.Options{
		In:      os.Stdin,
		Out:     os.Stdout,
		NoColor: noColor,
		Panel:   panel,
	}).Run(ctx)

	return err
}
