package telegram

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aliskhannn/revision-tracker-bot/internal/domain/entities"
	"github.com/aliskhannn/revision-tracker-bot/internal/service"
)

const dayFormat = "Mon, 2 Jan 2006"

func formatDay(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dayFormat)
}

// renderTopics lists topics numbered from 1 and returns the topic ids in that order.
func renderTopics(nodes []service.TopicNode) (string, []uuid.UUID, []*entities.SubTopic) {
	var (
		sb   strings.Builder
		ids  = make([]uuid.UUID, 0, len(nodes))
		subs []*entities.SubTopic
	)

	sb.WriteString(bold("📚 Your topics"))
	sb.WriteString("\n\n")

	for i, node := range nodes {
		ids = append(ids, node.Topic.ID)
		sb.WriteString(bold(fmt.Sprintf("%d. %s", i+1, node.Topic.Title)))
		if node.Topic.Description != "" {
			sb.WriteString(md(" - " + node.Topic.Description))
		}
		sb.WriteString("\n")

		if len(node.SubTopics) == 0 {
			sb.WriteString(md("   no subtopics yet"))
			sb.WriteString("\n")
		}
		for _, s := range node.SubTopics {
			line := fmt.Sprintf("   • %s (%s)", s.Title, s.Difficulty)
			if s.Completed {
				sb.WriteString(strike(line))
			} else {
				sb.WriteString(md(line))
			}
			sb.WriteString("\n")
			subs = append(subs, s)
		}
		sb.WriteString("\n")
	}

	sb.WriteString(md("Add a subtopic with /addsub N | Title | easy|medium|hard | YYYY-MM-DD"))
	return sb.String(), ids, subs
}

// renderSchedule shows every revision slot of one subtopic.
func renderSchedule(t entities.TrackedSubTopic, loc *time.Location, now time.Time) string {
	var sb strings.Builder

	sub := t.SubTopic
	sb.WriteString(bold("📋 " + sub.Title))
	sb.WriteString("\n")
	if sub.Description != "" {
		sb.WriteString(md(sub.Description))
		sb.WriteString("\n")
	}
	sb.WriteString(md(fmt.Sprintf("Difficulty: %s\nStudied: %s", sub.Difficulty, formatDay(sub.StudyDate, loc))))
	if sub.Completed {
		sb.WriteString(md("\nMarked completed"))
	}
	sb.WriteString("\n\n")

	today := entities.KeyOf(now, loc)
	done := 0
	slots := t.Slots()
	for _, slot := range slots {
		mark := "⬜"
		note := ""
		switch {
		case slot.Completed:
			mark = "✅"
			done++
		case entities.KeyOf(slot.Date, loc).Before(today):
			note = " (overdue)"
		case entities.KeyOf(slot.Date, loc) == today:
			note = " (today)"
		}
		sb.WriteString(md(fmt.Sprintf("%s #%d  %s%s", mark, slot.Number, formatDay(slot.Date, loc), note)))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(md(fmt.Sprintf("%s %d/%d done", buildProgressBar(done, len(slots), 10), done, len(slots))))
	return sb.String()
}

// renderToday shows overdue and due subtopics of one day.
func renderToday(summary entities.TodaySummary, loc *time.Location) string {
	var sb strings.Builder

	sb.WriteString(bold("🗓 " + summary.Date.String()))
	sb.WriteString("\n\n")

	if len(summary.Overdue) == 0 && len(summary.Due) == 0 {
		sb.WriteString(md(msgNothingDue))
		return sb.String()
	}

	if len(summary.Overdue) > 0 {
		sb.WriteString(bold(fmt.Sprintf("⏰ Overdue (%d)", len(summary.Overdue))))
		sb.WriteString("\n")
		writeTrackedList(&sb, summary.Overdue, loc)
		sb.WriteString("\n")
	}

	if len(summary.Due) > 0 {
		sb.WriteString(bold(fmt.Sprintf("📖 Due today (%d)", len(summary.Due))))
		sb.WriteString("\n")
		writeTrackedList(&sb, summary.Due, loc)
	}
	return sb.String()
}

func writeTrackedList(sb *strings.Builder, items []entities.TrackedSubTopic, loc *time.Location) {
	for _, t := range items {
		line := "• " + t.SubTopic.Title
		if next, ok := t.NextReview(); ok {
			line += " - " + formatDay(next, loc)
		}
		sb.WriteString(md(line))
		sb.WriteString("\n")
	}
}

// renderCalendar lists the days of a month that have planned entries.
func renderCalendar(year int, month time.Month, days []entities.CalendarDay) string {
	var sb strings.Builder

	sb.WriteString(bold(fmt.Sprintf("📅 %s %d", month, year)))
	sb.WriteString("\n\n")

	empty := true
	for _, day := range days {
		if len(day.Items) == 0 {
			continue
		}
		empty = false

		header := fmt.Sprintf("%02d", day.Key.Day)
		if day.Missed {
			header += " ❗"
		}
		sb.WriteString(bold(header))
		sb.WriteString("\n")

		for _, item := range day.Items {
			var line string
			if item.Kind == entities.KindStudy {
				line = "  📘 study: " + item.Title
			} else {
				line = fmt.Sprintf("  🔁 #%d %s", item.RevisionNumber, item.Title)
			}
			if item.Completed {
				sb.WriteString(strike(line))
			} else {
				sb.WriteString(md(line))
			}
			sb.WriteString("\n")
		}
	}

	if empty {
		sb.WriteString(md("Nothing planned this month."))
	} else {
		sb.WriteString("\n")
		sb.WriteString(md("❗ marks days with missed revisions."))
	}
	return sb.String()
}

// renderSettings shows intervals, timezone and digest state.
func renderSettings(settings *entities.UserSettings, reminder *entities.DigestReminder) string {
	var sb strings.Builder

	sb.WriteString(bold("⚙️ Settings"))
	sb.WriteString("\n\n")
	sb.WriteString(bold("Intervals (days after study)"))
	sb.WriteString("\n")
	for _, d := range entities.Difficulties {
		sb.WriteString(md(fmt.Sprintf("%s: %s", d, joinInts(settings.Intervals.For(d)))))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(md("🌍 Timezone: " + settings.Timezone))
	sb.WriteString("\n")
	sb.WriteString(md(formatReminderStatus(reminder)))
	sb.WriteString("\n\n")
	sb.WriteString(md("Change with /intervals, /timezone and /reminders."))
	return sb.String()
}

func formatReminderStatus(r *entities.DigestReminder) string {
	if r == nil || !r.IsEnabled {
		return "🔕 Daily digest: off"
	}
	return fmt.Sprintf("🔔 Daily digest: %02d:00", r.Hour)
}

// renderDigest builds the daily digest notification.
func renderDigest(payload entities.DigestPayload, loc *time.Location) string {
	var sb strings.Builder

	sb.WriteString(renderToday(payload.Summary, loc))

	sb.WriteString("\n━━━━━━━━━━━━━━━━\n")
	if payload.MissedDays > 0 {
		sb.WriteString(md(fmt.Sprintf("❗ Days with missed revisions: %d\n", payload.MissedDays)))
	}
	if len(payload.Upcoming) > 0 {
		sb.WriteString(md(fmt.Sprintf("🔜 Revisions in the next 7 days: %d\n", len(payload.Upcoming))))
	}
	sb.WriteString(md(fmt.Sprintf("📚 Active subtopics: %d", payload.ActiveTotal)))
	return sb.String()
}

// buildProgressBar creates a text progress bar.
func buildProgressBar(current, total, length int) string {
	if total == 0 {
		return "[" + strings.Repeat("░", length) + "]"
	}

	filled := current * length / total
	if filled > length {
		filled = length
	}

	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", length-filled) + "]"
}

func joinInts(v []int) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ", ")
}
