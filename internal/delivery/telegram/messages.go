// messages.go contains message templates for Telegram.

package telegram

// Error messages.
const (
	msgInternalError  = "Something went wrong. Please try again later."
	msgNotFound       = "Nothing found. It may have been deleted."
	msgForbidden      = "This item belongs to someone else."
	msgUnknownCommand = "Unknown command. Send /help to see what I can do."
	msgUnknownTopic   = "No topic with that number. Send /topics to see the current numbering."
	msgUseAddTopic    = "Usage: /addtopic Title | optional description"
	msgUseAddSub      = "Usage: /addsub N | Title | easy|medium|hard | YYYY-MM-DD\nN is the topic number from /topics, the date defaults to today."
	msgUseIntervals   = "Usage: /intervals easy|medium|hard 1 3 7 21"
	msgUseTimezone    = "Usage: /timezone Europe/Berlin (or UTC+3)"
	msgUseReminders   = "Usage: /reminders on | off | HOUR (0-23)"
)

const (
	msgNoTopics       = "You have no topics yet. Create one with /addtopic."
	msgNothingDue     = "🎉 Nothing to revise today."
	msgNothingOverdue = "No pending revisions before today."
	msgResetPrompt    = "Reset revision progress? Every revision of every subtopic becomes pending again and all reschedules are dropped."
	msgResetDone      = "✅ Progress reset."
	msgResetCancelled = "Reset cancelled."
	msgNothingToShift = "No overdue revisions to move."
	msgShifted        = "Overdue revisions moved to tomorrow."
	msgAllReviewed    = "Every revision is already done."
)

const msgHelp = `Revision tracker schedules spaced revisions for everything you study.

/topics - list topics and subtopics
/addtopic Title | description - create a topic
/addsub N | Title | easy|medium|hard | YYYY-MM-DD - add a subtopic to topic N
/today - revisions due today and overdue
/calendar - this month's plan
/settings - intervals, timezone and reminders
/intervals easy 7 21 45 90 - change intervals of one difficulty
/timezone Europe/Berlin - change your timezone
/reminders on|off|HOUR - daily digest
/reset - make every revision pending again`

const msgWelcome = "👋 Welcome!\n\n" + msgHelp
