package telegram

import (
	"context"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/fact-quiz/internal/domain/entities"
)

// Bot is the part of *tgbotapi.BotAPI the handler uses.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

type QuizService interface {
	StartSession(ctx context.Context, owner string) (entities.Session, error)
	Answer(ctx context.Context, session entities.Session, option int) (entities.Session, error)
	Next(ctx context.Context, session entities.Session) (entities.Session, error)
}

type ResultReader interface {
	ByOwner(ctx context.Context, owner string) ([]*entities.SessionResult, error)
}

type SessionStorage interface {
	Store(chatID int64, session entities.Session)
	Get(chatID int64) (entities.Session, bool)
	Delete(chatID int64)
}

type AnswerValidator interface {
	Resolve(item entities.QuizItem, input string) (int, error)
}

type Handler struct {
	bot         Bot
	logger      *zap.Logger
	quizService QuizService
	results     ResultReader
	sessions    SessionStorage
	validator   AnswerValidator
}

func NewHandler(
	bot Bot,
	logger *zap.Logger,
	quizService QuizService,
	results ResultReader,
	sessions SessionStorage,
	validator AnswerValidator,
) *Handler {
	return &Handler{
		bot:         bot,
		logger:      logger,
		quizService: quizService,
		results:     results,
		sessions:    sessions,
		validator:   validator,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	chatID := update.Message.Chat.ID

	if update.Message.IsCommand() {
		switch update.Message.Command() {
		case "start", "help":
			_ = h.send(newMessage(chatID, msgWelcome()))

		case "quiz":
			_ = h.withErrorHandling("quiz", h.handleQuiz())(ctx, chatID)

		case "stop":
			_ = h.withErrorHandling("stop", h.handleStop())(ctx, chatID)

		case "stats":
			_ = h.withErrorHandling("stats", h.handleStats())(ctx, chatID)

		default:
			_ = h.send(newPlainMessage(chatID, msgUnknownCommand))
		}

		return
	}

	_ = h.withErrorHandling("text_answer", h.handleTextAnswer(update.Message.Text))(ctx, chatID)
}

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	// Remove the user's "clock".
	defer func() {
		if _, err := h.bot.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
			h.logger.Warn("callback answer error", zap.Error(err))
		}
	}()

	if cb.Message == nil {
		return
	}

	chatID := cb.Message.Chat.ID
	data := decodeCallback(cb.Data)

	if data.Action != actionQuiz || len(data.Params) == 0 {
		h.logger.Debug("unknown callback", zap.String("data", cb.Data))
		return
	}

	switch data.Params[0] {
	case quizStart:
		_ = h.withErrorHandling("quiz", h.handleQuiz())(ctx, chatID)

	case quizAnswer:
		ref, option, ok := data.answerParams()
		if !ok {
			h.logger.Debug("invalid answer callback", zap.String("data", cb.Data))
			return
		}
		_ = h.withErrorHandling("answer", h.handleAnswer(cb.Message.MessageID, ref, option))(ctx, chatID)

	case quizNext:
		ref, ok := data.refParam()
		if !ok {
			h.logger.Debug("invalid next callback", zap.String("data", cb.Data))
			return
		}
		_ = h.withErrorHandling("next", h.handleNext(ref))(ctx, chatID)
	}
}

func (h *Handler) sendError(chatID int64, err string) {
	msg := newPlainMessage(chatID, err)
	_ = h.send(msg)
}

func (h *Handler) send(c tgbotapi.Chattable) error {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
		return err
	}
	return nil
}

func ownerOf(chatID int64) string {
	return "tg:" + strconv.FormatInt(chatID, 10)
}
