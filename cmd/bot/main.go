package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/fact-quiz/internal/app"
	"github.com/aliskhannn/fact-quiz/internal/config"
	"github.com/aliskhannn/fact-quiz/internal/delivery/telegram"
	"github.com/aliskhannn/fact-quiz/internal/logger"
	"github.com/aliskhannn/fact-quiz/internal/storage"
)

func main() {
	cfg, err := config.Load(config.Options{RequireTelegram: true})
	if err != nil {
		log.Fatal(err)
	}

	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zl.Sync() }()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		zl.Fatal("failed to create bot", zap.Error(err))
	}

	// Set commands.
	commands := []tgbotapi.BotCommand{
		{
			Command:     "start",
			Description: "Start the bot",
		},
		{
			Command:     "quiz",
			Description: "Start a new quiz",
		},
		{
			Command:     "stop",
			Description: "Stop the current quiz",
		},
		{
			Command:     "stats",
			Description: "Show your results",
		},
		{
			Command:     "help",
			Description: "Help",
		},
	}

	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		zl.Warn("failed to set bot commands", zap.Error(err))
	}

	bot.Debug = cfg.Debug
	zl.Info("authorized on account", zap.String("username", bot.Self.UserName))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, zl, nil)
	if err != nil {
		zl.Fatal("failed to initialize application", zap.Error(err))
	}
	defer a.Close()

	handler := telegram.NewHandler(
		bot,
		zl,
		a.Quiz,
		a.Results,
		storage.NewSessionStorage[int64](),
		a.Validator,
	)
	if err := handler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		zl.Error("telegram handler stopped", zap.Error(err))
	}

	zl.Info("shutdown signal received")
}
