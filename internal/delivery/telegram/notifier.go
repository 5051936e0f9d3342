package telegram

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/revision-tracker-bot/internal/domain/entities"
	"github.com/aliskhannn/revision-tracker-bot/internal/service"
)

// Notifier delivers daily digests and replaces the previous digest in the chat.
type Notifier struct {
	bot     BotAPI
	logger  *zap.Logger
	digests DigestStorage
	now     service.Clock
}

var _ service.DigestNotifier = (*Notifier)(nil)

func NewNotifier(bot BotAPI, logger *zap.Logger, digests DigestStorage, now service.Clock) *Notifier {
	return &Notifier{
		bot:     bot,
		logger:  logger,
		digests: digests,
		now:     now,
	}
}

func (n *Notifier) SendDigest(ctx context.Context, chatID int64, payload entities.DigestPayload, loc *time.Location) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := newMessage(chatID, renderDigest(payload, loc))
	msg.ReplyMarkup = buildTodayKeyboard(payload.Summary)

	sent, err := n.bot.Send(msg)
	if err != nil {
		return fmt.Errorf("send digest: %w", err)
	}

	prev, hadPrev := n.digests.UpsertAndGetPrev(chatID, sent.MessageID, n.now())
	if hadPrev {
		if _, err := n.bot.Request(tgbotapi.NewDeleteMessage(chatID, prev.MessageID)); err != nil {
			n.logger.Debug("failed to delete previous digest",
				zap.Int64("chat_id", chatID),
				zap.Int("message_id", prev.MessageID),
				zap.Error(err),
			)
		}
	}
	return nil
}
