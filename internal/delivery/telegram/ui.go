package telegram

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/revision-tracker-bot/internal/domain/entities"
)

const slotButtonsPerRow = 4

// buildScheduleKeyboard builds the per-subtopic keyboard: one toggle per slot, then actions.
func buildScheduleKeyboard(t entities.TrackedSubTopic) tgbotapi.InlineKeyboardMarkup {
	id := t.SubTopic.ID
	var rows [][]tgbotapi.InlineKeyboardButton

	var row []tgbotapi.InlineKeyboardButton
	for _, slot := range t.Slots() {
		label := fmt.Sprintf("⬜ %d", slot.Number)
		if slot.Completed {
			label = fmt.Sprintf("✅ %d", slot.Number)
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, buildToggleCallback(id, slot.Number, !slot.Completed)))
		if len(row) == slotButtonsPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("✔️ Reviewed", buildReviewCallback(id)),
		tgbotapi.NewInlineKeyboardButtonData("⏭ To tomorrow", buildRescheduleCallback(id)),
	))

	completeLabel := "🏁 Mark completed"
	if t.SubTopic.Completed {
		completeLabel = "↩️ Mark pending"
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(completeLabel, buildCompleteCallback(id, !t.SubTopic.Completed)),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildTodayKeyboard offers quick actions for every listed subtopic.
func buildTodayKeyboard(summary entities.TodaySummary) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, t := range summary.Overdue {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✔️ "+t.SubTopic.Title, buildReviewCallback(t.SubTopic.ID)),
			tgbotapi.NewInlineKeyboardButtonData("⏭", buildRescheduleCallback(t.SubTopic.ID)),
			tgbotapi.NewInlineKeyboardButtonData("📋", buildScheduleCallback(t.SubTopic.ID)),
		))
	}
	for _, t := range summary.Due {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✔️ "+t.SubTopic.Title, buildReviewCallback(t.SubTopic.ID)),
			tgbotapi.NewInlineKeyboardButtonData("📋", buildScheduleCallback(t.SubTopic.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔄 Refresh", buildTodayCallback()),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildTopicsKeyboard opens the schedule of each subtopic.
func buildTopicsKeyboard(subs []*entities.SubTopic) *tgbotapi.InlineKeyboardMarkup {
	if len(subs) == 0 {
		return nil
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(subs))
	for _, s := range subs {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 "+s.Title, buildScheduleCallback(s.ID)),
		))
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

// buildCalendarKeyboard builds month navigation.
func buildCalendarKeyboard(year int, month time.Month) tgbotapi.InlineKeyboardMarkup {
	prev := time.Date(year, month-1, 1, 0, 0, 0, 0, time.UTC)
	next := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC)
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ "+prev.Month().String(), buildCalendarCallback(prev.Year(), prev.Month())),
			tgbotapi.NewInlineKeyboardButtonData(next.Month().String()+" ▶️", buildCalendarCallback(next.Year(), next.Month())),
		),
	)
}

// buildResetKeyboard asks to confirm a progress reset.
func buildResetKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Reset", buildResetConfirmCallback()),
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", buildResetCancelCallback()),
		),
	)
}
