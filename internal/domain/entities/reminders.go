package entities

import (
	"fmt"
	"time"
)

// DefaultDigestHour is the local hour a new owner receives the daily digest at.
const DefaultDigestHour = 8

// DigestReminder holds an owner's daily digest configuration.
type DigestReminder struct {
	OwnerID    int64
	IsEnabled  bool
	Hour       int        // local hour, 0..23
	LastSentAt *time.Time // nullable
	NextSendAt *time.Time // nullable, UTC
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewDigestReminder creates an enabled reminder at DefaultDigestHour.
func NewDigestReminder(ownerID int64, now time.Time) *DigestReminder {
	return &DigestReminder{
		OwnerID:   ownerID,
		IsEnabled: true,
		Hour:      DefaultDigestHour,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetHour changes the delivery hour and forgets the previously planned send time.
func (r *DigestReminder) SetHour(hour int) error {
	if hour < 0 || hour > 23 {
		return fmt.Errorf("%w: hour must be within 0..23, got %d", ErrInvalidArgument, hour)
	}
	r.Hour = hour
	r.NextSendAt = nil
	return nil
}

// CalculateNextSendAt returns the first Hour:00 in loc strictly after now, in UTC.
func (r *DigestReminder) CalculateNextSendAt(loc *time.Location, now time.Time) time.Time {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), r.Hour, 0, 0, 0, loc)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, r.Hour, 0, 0, 0, loc)
	}
	return next.UTC()
}

// CanSendNow reports whether the digest is due. Without a planned send time the digest
// goes out during the configured local hour only.
func (r *DigestReminder) CanSendNow(loc *time.Location, now time.Time) bool {
	if !r.IsEnabled {
		return false
	}
	if r.NextSendAt == nil {
		return now.In(loc).Hour() == r.Hour
	}
	return !now.Before(*r.NextSendAt)
}

// MarkSent records a delivery and plans the next one.
func (r *DigestReminder) MarkSent(loc *time.Location, now time.Time) {
	next := r.CalculateNextSendAt(loc, now)
	r.LastSentAt = &now
	r.NextSendAt = &next
	r.UpdatedAt = now
}

// ReminderTarget is a reminder joined with what is needed to deliver it.
type ReminderTarget struct {
	Reminder DigestReminder
	ChatID   int64
	Timezone string
}

// DigestPayload is the content of one daily digest.
type DigestPayload struct {
	Summary     TodaySummary
	MissedDays  int
	Upcoming    []PlannedItem // next seven days, today excluded
	ActiveTotal int           // subtopics not marked completed
}

// IsEmpty reports whether there is nothing worth sending.
func (p DigestPayload) IsEmpty() bool {
	return len(p.Summary.Due) == 0 && len(p.Summary.Overdue) == 0
}
