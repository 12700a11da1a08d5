package telegram

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/aliskhannn/fact-quiz/internal/domain/entities"
	"github.com/aliskhannn/fact-quiz/internal/service"
)

// handleQuiz starts a new quiz, replacing any session in progress.
func (h *Handler) handleQuiz() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		session, err := h.quizService.StartSession(ctx, ownerOf(chatID))
		if err != nil {
			if errors.Is(err, service.ErrNoQuestionsAvailable) {
				return h.send(newPlainMessage(chatID, msgNoAvailableQuestions))
			}
			h.logger.Error("failed to start quiz session",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			return h.send(newPlainMessage(chatID, msgQuizUnavailable))
		}

		h.logger.Debug("quiz session created",
			zap.String("session_id", session.ID),
			zap.Int("total", session.Score.Total),
		)

		h.sessions.Store(chatID, session)

		if err := h.send(newMessage(chatID, buildQuizStartMessage(session))); err != nil {
			return err
		}

		return h.sendCurrent(chatID, session)
	}
}

// handleAnswer applies an answer given with an inline button and replaces
// the question message with feedback.
func (h *Handler) handleAnswer(messageID int, ref itemRef, option int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		session, ok := h.presenting(chatID, ref)
		if !ok {
			return nil
		}

		return h.answer(ctx, chatID, messageID, session, option)
	}
}

// handleTextAnswer resolves a typed answer ("a", "2", "true", option text)
// against the item currently shown.
func (h *Handler) handleTextAnswer(text string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		session, ok := h.sessions.Get(chatID)
		if !ok || session.State != entities.StatePresenting {
			return h.send(newPlainMessage(chatID, msgNoActiveQuiz))
		}

		option, err := h.validator.Resolve(session.Current.Item, text)
		if err != nil {
			return h.send(newPlainMessage(chatID, msgUnknownAnswer))
		}

		return h.answer(ctx, chatID, 0, session, option)
	}
}

func (h *Handler) answer(ctx context.Context, chatID int64, messageID int, session entities.Session, option int) error {
	answered, err := h.quizService.Answer(ctx, session, option)
	if err != nil {
		if errors.Is(err, service.ErrInvalidOption) {
			return h.send(newPlainMessage(chatID, msgUnknownAnswer))
		}
		return err
	}

	h.sessions.Store(chatID, answered)

	text := formatAnswerFeedback(answered)
	kb := buildQuizNextKeyboard(refOf(answered), answered.Remaining() == 0)

	// Typed answers have no message to edit.
	if messageID == 0 {
		msg := newMessage(chatID, text)
		msg.ReplyMarkup = kb
		return h.send(msg)
	}

	edit := newEdit(chatID, messageID, text)
	edit.ReplyMarkup = &kb
	return h.send(edit)
}

// handleNext moves past the referenced item.
func (h *Handler) handleNext(ref itemRef) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		session, ok := h.sessions.Get(chatID)
		if !ok || session.State != entities.StateAnswered || !ref.matches(session) {
			h.logger.Debug("stale next callback",
				zap.Int64("chat_id", chatID),
				zap.String("session_tag", ref.Tag),
				zap.Int("seq", ref.Seq),
			)
			return nil
		}

		next, err := h.quizService.Next(ctx, session)
		if err != nil && !next.Done() {
			return err
		}
		if err != nil {
			// The session is over; failing to store the result must not hide it.
			h.logger.Error("failed to save quiz result",
				zap.String("session_id", next.ID),
				zap.Error(err),
			)
		}

		if next.Done() {
			h.sessions.Delete(chatID)
			msg := newMessage(chatID, formatQuizResult(next.Score))
			msg.ReplyMarkup = buildQuizResultKeyboard()
			return h.send(msg)
		}

		h.sessions.Store(chatID, next)
		return h.sendCurrent(chatID, next)
	}
}

// handleStop abandons the current quiz and reports the score so far.
func (h *Handler) handleStop() HandlerFunc {
	return func(_ context.Context, chatID int64) error {
		session, ok := h.sessions.Get(chatID)
		if !ok {
			return h.send(newPlainMessage(chatID, msgNoActiveQuiz))
		}

		h.sessions.Delete(chatID)

		h.logger.Debug("quiz session stopped",
			zap.String("session_id", session.ID),
			zap.Int("answered", session.Score.Answered),
		)

		return h.send(newMessage(chatID, formatQuizResult(session.Score)))
	}
}

// handleStats shows the history of finished quizzes.
func (h *Handler) handleStats() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		results, err := h.results.ByOwner(ctx, ownerOf(chatID))
		if err != nil {
			h.logger.Error("failed to load results",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			return h.send(newPlainMessage(chatID, msgStatsUnavailable))
		}

		return h.send(newMessage(chatID, formatStats(results)))
	}
}

// presenting returns the chat's session if it is showing the referenced
// item. Buttons of older messages and older quizzes are ignored.
func (h *Handler) presenting(chatID int64, ref itemRef) (entities.Session, bool) {
	session, ok := h.sessions.Get(chatID)
	if !ok || session.State != entities.StatePresenting || !ref.matches(session) {
		h.logger.Debug("stale answer callback",
			zap.Int64("chat_id", chatID),
			zap.String("session_tag", ref.Tag),
			zap.Int("seq", ref.Seq),
		)
		return entities.Session{}, false
	}
	return session, true
}

func (h *Handler) sendCurrent(chatID int64, session entities.Session) error {
	msg := newMessage(chatID, formatQuizQuestion(session))
	msg.ReplyMarkup = buildQuizAnswerKeyboard(session)
	return h.send(msg)
}
