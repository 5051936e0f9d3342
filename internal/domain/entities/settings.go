package entities

import (
	"fmt"
	"slices"
	"time"
)

// DefaultTimezone is used for day bucketing when an owner never chose a zone.
const DefaultTimezone = "UTC"

// UserSettings stores per-owner revision cadence and calendar preferences.
type UserSettings struct {
	OwnerID             int64
	Intervals           IntervalTable
	PreferredReviewDays []time.Weekday // advisory only, never applied to date math
	Timezone            string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NewUserSettings creates settings populated with the default interval table.
func NewUserSettings(ownerID int64, now time.Time) *UserSettings {
	return &UserSettings{
		OwnerID:   ownerID,
		Intervals: DefaultIntervalTable(),
		Timezone:  DefaultTimezone,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Location resolves the stored timezone, falling back to UTC on bad input.
func (s *UserSettings) Location() *time.Location {
	loc, err := ParseTimezoneLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SetIntervals validates and replaces the interval table and preferred days.
func (s *UserSettings) SetIntervals(table IntervalTable, preferred []time.Weekday) error {
	if err := table.Validate(); err != nil {
		return err
	}

	days, err := normalizeWeekdays(preferred)
	if err != nil {
		return err
	}

	s.Intervals = table.Clone()
	s.PreferredReviewDays = days
	return nil
}

// SetTimezone validates and stores a timezone name.
func (s *UserSettings) SetTimezone(tz string) error {
	if _, err := ParseTimezoneLocation(tz); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	s.Timezone = tz
	return nil
}

// normalizeWeekdays sorts and de-duplicates weekday numbers, rejecting anything outside 0..6.
func normalizeWeekdays(days []time.Weekday) ([]time.Weekday, error) {
	out := make([]time.Weekday, 0, len(days))
	for _, d := range days {
		if d < time.Sunday || d > time.Saturday {
			return nil, fmt.Errorf("%w: weekday %d out of range", ErrInvalidArgument, d)
		}
		if !slices.Contains(out, d) {
			out = append(out, d)
		}
	}
	slices.Sort(out)
	return out, nil
}

// Clone returns a deep copy.
func (s *UserSettings) Clone() *UserSettings {
	c := *s
	c.Intervals = s.Intervals.Clone()
	c.PreferredReviewDays = slices.Clone(s.PreferredReviewDays)
	return &c
}
