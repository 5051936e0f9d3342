package telegram

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/revision-tracker-bot/internal/domain/entities"
)

func (h *Handler) handleStart() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		return h.send(newPlainMessage(chatID, msgWelcome))
	}
}

func (h *Handler) handleHelp() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		return h.send(newPlainMessage(chatID, msgHelp))
	}
}

// handleTopics lists the hierarchy and remembers the numbering for /addsub.
func (h *Handler) handleTopics(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		nodes, err := h.services.Topics.Hierarchy(ctx, userID)
		if err != nil {
			return err
		}
		if len(nodes) == 0 {
			return h.send(newPlainMessage(chatID, msgNoTopics))
		}

		text, ids, subs := renderTopics(nodes)
		h.listings.Store(chatID, ids)

		msg := newMessage(chatID, text)
		if kb := buildTopicsKeyboard(subs); kb != nil {
			msg.ReplyMarkup = kb
		}
		return h.send(msg)
	}
}

func (h *Handler) handleAddTopic(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		title, description, err := parseAddTopic(args)
		if err != nil {
			return err
		}

		topic, err := h.services.Topics.CreateMainTopic(ctx, userID, title, description)
		if err != nil {
			return err
		}

		h.logger.Info("topic created",
			zap.Int64("user_id", userID),
			zap.String("topic_id", topic.ID.String()),
		)
		return h.send(newPlainMessage(chatID, fmt.Sprintf("✅ Topic %q created. Send /topics to see its number.", topic.Title)))
	}
}

func (h *Handler) handleAddSubTopic(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		loc, err := h.services.Agenda.Location(ctx, userID)
		if err != nil {
			return err
		}

		n, in, err := parseAddSubTopic(args, h.services.Agenda.Now(), loc)
		if err != nil {
			return err
		}

		topicID, ok := h.listings.Resolve(chatID, n)
		if !ok {
			return usageError(msgUnknownTopic)
		}

		sub, err := h.services.Topics.CreateSubTopic(ctx, userID, topicID, in)
		if err != nil {
			return err
		}

		h.logger.Info("subtopic created",
			zap.Int64("user_id", userID),
			zap.String("sub_topic_id", sub.ID.String()),
			zap.String("difficulty", sub.Difficulty.String()),
		)
		return h.sendSchedule(ctx, chatID, userID, sub.ID)
	}
}

func (h *Handler) handleToday(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		text, kb, err := h.todayView(ctx, userID)
		if err != nil {
			return err
		}

		msg := newMessage(chatID, text)
		msg.ReplyMarkup = kb
		return h.send(msg)
	}
}

func (h *Handler) handleCalendar(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		loc, err := h.services.Agenda.Location(ctx, userID)
		if err != nil {
			return err
		}
		now := h.services.Agenda.Now().In(loc)

		text, kb, err := h.calendarView(ctx, userID, now.Year(), now.Month())
		if err != nil {
			return err
		}

		msg := newMessage(chatID, text)
		msg.ReplyMarkup = kb
		return h.send(msg)
	}
}

func (h *Handler) handleSettings(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		settings, err := h.services.Settings.Get(ctx, userID)
		if err != nil {
			return err
		}
		reminder, err := h.services.Reminders.Get(ctx, userID)
		if err != nil {
			return err
		}
		return h.send(newMessage(chatID, renderSettings(settings, reminder)))
	}
}

func (h *Handler) handleIntervals(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		d, days, err := parseIntervals(args)
		if err != nil {
			return err
		}

		settings, err := h.services.Settings.SetDifficultyIntervals(ctx, userID, d, days)
		if err != nil {
			return err
		}
		return h.send(newPlainMessage(chatID, fmt.Sprintf("✅ %s intervals: %s", d, joinInts(settings.Intervals.For(d)))))
	}
}

func (h *Handler) handleTimezone(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if args == "" {
			return usageError(msgUseTimezone)
		}

		settings, err := h.services.Settings.SetTimezone(ctx, userID, args)
		if err != nil {
			return err
		}
		return h.send(newPlainMessage(chatID, "✅ Timezone set to "+settings.Timezone))
	}
}

func (h *Handler) handleReminders(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		cmd, err := parseReminders(args)
		if err != nil {
			return err
		}

		var reminder *entities.DigestReminder
		switch {
		case cmd.hour != nil:
			reminder, err = h.services.Reminders.SetHour(ctx, userID, *cmd.hour)
		case cmd.enabled != nil:
			reminder, err = h.services.Reminders.SetEnabled(ctx, userID, *cmd.enabled)
		default:
			reminder, err = h.services.Reminders.Get(ctx, userID)
		}
		if err != nil {
			return err
		}
		return h.send(newPlainMessage(chatID, formatReminderStatus(reminder)))
	}
}

func (h *Handler) handleReset() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		msg := newPlainMessage(chatID, msgResetPrompt)
		msg.ReplyMarkup = buildResetKeyboard()
		return h.send(msg)
	}
}

func (h *Handler) sendSchedule(ctx context.Context, chatID, userID int64, id uuid.UUID) error {
	text, kb, err := h.scheduleView(ctx, userID, id)
	if err != nil {
		return err
	}

	msg := newMessage(chatID, text)
	msg.ReplyMarkup = kb
	return h.send(msg)
}
