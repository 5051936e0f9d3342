package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/revision-tracker-bot/internal/domain/entities"
)

// callbackResult is what a callback handler wants shown: the edited message and a toast.
type callbackResult struct {
	text  string
	kb    *tgbotapi.InlineKeyboardMarkup
	toast string
}

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		h.answerCallback(cb.ID, "")
		return
	}

	userID := cb.From.ID
	cd := decodeCallback(cb.Data)

	var (
		res callbackResult
		err error
	)
	switch cd.Action {
	case actionSchedule:
		res, err = h.scheduleCallback(ctx, userID, cd)
	case actionReview:
		res, err = h.reviewCallback(ctx, userID, cd)
	case actionReschedule:
		res, err = h.rescheduleCallback(ctx, userID, cd)
	case actionToggle:
		res, err = h.toggleCallback(ctx, userID, cd)
	case actionComplete:
		res, err = h.completeCallback(ctx, userID, cd)
	case actionToday:
		res, err = h.todayCallback(ctx, userID)
	case actionCalendar:
		res, err = h.calendarCallback(ctx, userID, cd)
	case actionReset:
		res, err = h.resetCallback(ctx, userID, cd)
	default:
		err = errBadCallback
	}

	if err != nil {
		h.answerCallback(cb.ID, h.callbackErrorText(userID, cd, err))
		return
	}

	if res.text != "" {
		_ = h.send(newEdit(cb.Message.Chat.ID, cb.Message.MessageID, res.text, res.kb))
	}
	h.answerCallback(cb.ID, res.toast)
}

func (h *Handler) callbackErrorText(userID int64, cd callbackData, err error) string {
	switch {
	case errors.Is(err, errBadCallback):
		h.logger.Warn("malformed callback", zap.Int64("user_id", userID), zap.String("data", cd.Raw))
		return msgInternalError
	case errors.Is(err, entities.ErrInvalidArgument):
		return userMessage(err, entities.ErrInvalidArgument)
	case errors.Is(err, entities.ErrNotFound):
		return msgNotFound
	case errors.Is(err, entities.ErrUnauthorized):
		return msgForbidden
	default:
		h.logger.Error("callback failed",
			zap.Int64("user_id", userID),
			zap.String("data", cd.Raw),
			zap.Error(err),
		)
		return msgInternalError
	}
}

// answerCallback removes the client's loading indicator, optionally with a toast.
func (h *Handler) answerCallback(id, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		h.logger.Warn("callback answer error", zap.Error(err))
	}
}

func (h *Handler) scheduleCallback(ctx context.Context, userID int64, cd callbackData) (callbackResult, error) {
	id, err := cd.subTopicID()
	if err != nil {
		return callbackResult{}, err
	}
	return h.scheduleResult(ctx, userID, id, "")
}

func (h *Handler) reviewCallback(ctx context.Context, userID int64, cd callbackData) (callbackResult, error) {
	id, err := cd.subTopicID()
	if err != nil {
		return callbackResult{}, err
	}

	number, err := h.services.Revisions.MarkNextReviewed(ctx, userID, id)
	if err != nil {
		return callbackResult{}, err
	}

	toast := msgAllReviewed
	if number > 0 {
		toast = fmt.Sprintf("✅ Revision #%d done", number)
	}
	return h.scheduleResult(ctx, userID, id, toast)
}

func (h *Handler) rescheduleCallback(ctx context.Context, userID int64, cd callbackData) (callbackResult, error) {
	id, err := cd.subTopicID()
	if err != nil {
		return callbackResult{}, err
	}

	shifted, err := h.services.Revisions.RescheduleToNextDay(ctx, userID, id)
	if err != nil {
		return callbackResult{}, err
	}

	toast := msgNothingToShift
	if shifted {
		toast = msgShifted
	}
	return h.scheduleResult(ctx, userID, id, toast)
}

func (h *Handler) toggleCallback(ctx context.Context, userID int64, cd callbackData) (callbackResult, error) {
	id, number, done, err := cd.toggle()
	if err != nil {
		return callbackResult{}, err
	}

	if done {
		err = h.services.Revisions.MarkRevision(ctx, userID, id, number)
	} else {
		err = h.services.Revisions.UnmarkRevision(ctx, userID, id, number)
	}
	if err != nil {
		return callbackResult{}, err
	}
	return h.scheduleResult(ctx, userID, id, "")
}

func (h *Handler) completeCallback(ctx context.Context, userID int64, cd callbackData) (callbackResult, error) {
	id, completed, err := cd.complete()
	if err != nil {
		return callbackResult{}, err
	}

	if err := h.services.Topics.SetSubTopicCompleted(ctx, userID, id, completed); err != nil {
		return callbackResult{}, err
	}
	return h.scheduleResult(ctx, userID, id, "")
}

func (h *Handler) todayCallback(ctx context.Context, userID int64) (callbackResult, error) {
	text, kb, err := h.todayView(ctx, userID)
	if err != nil {
		return callbackResult{}, err
	}
	return callbackResult{text: text, kb: &kb}, nil
}

func (h *Handler) calendarCallback(ctx context.Context, userID int64, cd callbackData) (callbackResult, error) {
	year, month, err := cd.month()
	if err != nil {
		return callbackResult{}, err
	}

	text, kb, err := h.calendarView(ctx, userID, year, month)
	if err != nil {
		return callbackResult{}, err
	}
	return callbackResult{text: text, kb: &kb}, nil
}

func (h *Handler) resetCallback(ctx context.Context, userID int64, cd callbackData) (callbackResult, error) {
	if len(cd.Params) != 1 {
		return callbackResult{}, errBadCallback
	}

	switch cd.Params[0] {
	case resetConfirm:
		if err := h.services.Reset.ResetProgress(ctx, userID); err != nil {
			return callbackResult{}, err
		}
		h.logger.Info("progress reset", zap.Int64("user_id", userID))
		return callbackResult{text: md(msgResetDone)}, nil
	case resetCancel:
		return callbackResult{text: md(msgResetCancelled)}, nil
	default:
		return callbackResult{}, errBadCallback
	}
}

func (h *Handler) scheduleResult(ctx context.Context, userID int64, id uuid.UUID, toast string) (callbackResult, error) {
	text, kb, err := h.scheduleView(ctx, userID, id)
	if err != nil {
		return callbackResult{}, err
	}
	return callbackResult{text: text, kb: kb, toast: toast}, nil
}

// scheduleView renders one subtopic's schedule with its keyboard.
func (h *Handler) scheduleView(ctx context.Context, userID int64, id uuid.UUID) (string, *tgbotapi.InlineKeyboardMarkup, error) {
	tracked, err := h.services.Revisions.Tracked(ctx, userID, id)
	if err != nil {
		return "", nil, err
	}
	loc, err := h.services.Agenda.Location(ctx, userID)
	if err != nil {
		return "", nil, err
	}

	kb := buildScheduleKeyboard(tracked)
	return renderSchedule(tracked, loc, h.services.Agenda.Now()), &kb, nil
}

func (h *Handler) todayView(ctx context.Context, userID int64) (string, tgbotapi.InlineKeyboardMarkup, error) {
	summary, err := h.services.Agenda.Today(ctx, userID, h.services.Agenda.Now())
	if err != nil {
		return "", tgbotapi.InlineKeyboardMarkup{}, err
	}
	loc, err := h.services.Agenda.Location(ctx, userID)
	if err != nil {
		return "", tgbotapi.InlineKeyboardMarkup{}, err
	}
	return renderToday(summary, loc), buildTodayKeyboard(summary), nil
}

func (h *Handler) calendarView(ctx context.Context, userID int64, year int, month time.Month) (string, tgbotapi.InlineKeyboardMarkup, error) {
	days, err := h.services.Agenda.Calendar(ctx, userID, year, month)
	if err != nil {
		return "", tgbotapi.InlineKeyboardMarkup{}, err
	}
	return renderCalendar(year, month, days), buildCalendarKeyboard(year, month), nil
}
