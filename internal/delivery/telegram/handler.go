package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Handler struct {
	bot      BotAPI
	logger   *zap.Logger
	services Services
	listings ListingStorage
}

func NewHandler(bot BotAPI, logger *zap.Logger, services Services, listings ListingStorage) *Handler {
	return &Handler{
		bot:      bot,
		logger:   logger,
		services: services,
		listings: listings,
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

	if update.Message == nil || update.Message.From == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	from := update.Message.From
	chatID := update.Message.Chat.ID
	if _, err := h.services.Users.EnsureUser(ctx, from.ID, chatID, from.UserName); err != nil {
		h.logger.Error("failed to ensure user",
			zap.Int64("user_id", from.ID),
			zap.Error(err),
		)
	}

	if !update.Message.IsCommand() {
		_ = h.send(newPlainMessage(chatID, msgUnknownCommand))
		return
	}

	args := update.Message.CommandArguments()
	var fn HandlerFunc
	switch update.Message.Command() {
	case "start":
		fn = h.handleStart()
	case "help":
		fn = h.handleHelp()
	case "topics":
		fn = h.handleTopics(from.ID)
	case "addtopic":
		fn = h.handleAddTopic(from.ID, args)
	case "addsub":
		fn = h.handleAddSubTopic(from.ID, args)
	case "today":
		fn = h.handleToday(from.ID)
	case "calendar":
		fn = h.handleCalendar(from.ID)
	case "settings":
		fn = h.handleSettings(from.ID)
	case "intervals":
		fn = h.handleIntervals(from.ID, args)
	case "timezone":
		fn = h.handleTimezone(from.ID, args)
	case "reminders":
		fn = h.handleReminders(from.ID, args)
	case "reset":
		fn = h.handleReset()
	default:
		_ = h.send(newPlainMessage(chatID, msgUnknownCommand))
		return
	}

	_ = h.withErrorHandling(fn)(ctx, chatID)
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
