package telegram

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/aliskhannn/revision-tracker-bot/internal/domain/entities"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

// withErrorHandling answers the chat with a short message for every failed handler.
// Input errors are shown to the user as is, anything else is logged.
func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		err := fn(ctx, chatID)
		if err == nil {
			return nil
		}

		var (
			text  string
			usage usageError
		)
		switch {
		case errors.As(err, &usage):
			text = string(usage)
		case errors.Is(err, entities.ErrInvalidArgument):
			text = "⚠️ " + userMessage(err, entities.ErrInvalidArgument)
		case errors.Is(err, entities.ErrNotFound):
			text = msgNotFound
		case errors.Is(err, entities.ErrUnauthorized):
			text = msgForbidden
		default:
			h.logger.Error("handle error",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			text = msgInternalError
		}

		_ = h.send(newPlainMessage(chatID, text))
		return nil
	}
}

// usageError carries a usage hint shown to the user verbatim.
type usageError string

func (e usageError) Error() string { return string(e) }

// userMessage drops the wrapping context and the kind prefix from err.
func userMessage(err, kind error) string {
	msg := err.Error()
	prefix := kind.Error() + ": "
	if i := strings.LastIndex(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return msg
}
