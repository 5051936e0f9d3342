package telegram

import (
	"strconv"
	"strings"
	"time"

	"github.com/aliskhannn/revision-tracker-bot/internal/domain/entities"
)

// splitArgs splits "a | b | c" into trimmed fields.
func splitArgs(args string) []string {
	if strings.TrimSpace(args) == "" {
		return nil
	}
	parts := strings.Split(args, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// parseAddTopic parses "Title | description".
func parseAddTopic(args string) (title, description string, err error) {
	parts := splitArgs(args)
	if len(parts) == 0 || len(parts) > 2 || parts[0] == "" {
		return "", "", usageError(msgUseAddTopic)
	}
	if len(parts) == 2 {
		description = parts[1]
	}
	return parts[0], description, nil
}

// parseAddSubTopic parses "N | Title | difficulty | YYYY-MM-DD". The date is a day in loc
// and defaults to the local day of now.
func parseAddSubTopic(args string, now time.Time, loc *time.Location) (int, entities.SubTopicInput, error) {
	parts := splitArgs(args)
	if len(parts) < 3 || len(parts) > 4 {
		return 0, entities.SubTopicInput{}, usageError(msgUseAddSub)
	}

	n, err := strconv.Atoi(parts[0])
	if err != nil || n < 1 {
		return 0, entities.SubTopicInput{}, usageError(msgUseAddSub)
	}

	d, err := entities.ParseDifficulty(parts[2])
	if err != nil {
		return 0, entities.SubTopicInput{}, err
	}

	key := entities.KeyOf(now, loc)
	if len(parts) == 4 && parts[3] != "" {
		key, err = entities.ParseDateKey(parts[3])
		if err != nil {
			return 0, entities.SubTopicInput{}, err
		}
	}

	// Noon keeps the study date on the same local day under any DST shift.
	study := time.Date(key.Year, key.Month, key.Day, 12, 0, 0, 0, loc)

	return n, entities.SubTopicInput{
		Title:      parts[1],
		Difficulty: d,
		StudyDate:  study,
	}, nil
}

// parseIntervals parses "difficulty d1 d2 ...".
func parseIntervals(args string) (entities.Difficulty, []int, error) {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		return "", nil, usageError(msgUseIntervals)
	}

	d, err := entities.ParseDifficulty(fields[0])
	if err != nil {
		return "", nil, err
	}

	days := make([]int, 0, len(fields)-1)
	for _, f := range fields[1:] {
		v, err := strconv.Atoi(strings.TrimSuffix(f, ","))
		if err != nil {
			return "", nil, usageError(msgUseIntervals)
		}
		days = append(days, v)
	}
	return d, days, nil
}

type reminderCommand struct {
	enabled *bool
	hour    *int
}

// parseReminders parses "on", "off" or an hour 0..23. Empty args only show the state.
func parseReminders(args string) (reminderCommand, error) {
	arg := strings.ToLower(strings.TrimSpace(args))
	switch arg {
	case "":
		return reminderCommand{}, nil
	case "on":
		v := true
		return reminderCommand{enabled: &v}, nil
	case "off":
		v := false
		return reminderCommand{enabled: &v}, nil
	}

	hour, err := strconv.Atoi(strings.TrimSuffix(arg, ":00"))
	if err != nil {
		return reminderCommand{}, usageError(msgUseReminders)
	}
	return reminderCommand{hour: &hour}, nil
}
