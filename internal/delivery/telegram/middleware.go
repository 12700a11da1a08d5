package telegram

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

// withErrorHandling runs a named handler, turning a returned error or a
// panic into a log entry and a generic reply to the chat.
func (h *Handler) withErrorHandling(name string, fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) (err error) {
		started := time.Now()

		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}

			if err == nil {
				h.logger.Debug("handled",
					zap.String("handler", name),
					zap.Int64("chat_id", chatID),
					zap.Duration("took", time.Since(started)),
				)
				return
			}

			h.logger.Error("handle error",
				zap.String("handler", name),
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			h.sendError(chatID, msgInternalError)
			err = nil
		}()

		return fn(ctx, chatID)
	}
}
