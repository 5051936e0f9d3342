package entities

import (
	"fmt"
	"time"
)

// DateKey identifies a calendar day in the viewer's location.
// Two instants on the same local day share a key.
type DateKey struct {
	Year  int
	Month time.Month
	Day   int
}

// KeyOf returns the local calendar day of t in loc.
func KeyOf(t time.Time, loc *time.Location) DateKey {
	y, m, d := t.In(loc).Date()
	return DateKey{Year: y, Month: m, Day: d}
}

// ParseDateKey parses "YYYY-MM-DD".
func ParseDateKey(s string) (DateKey, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return DateKey{}, fmt.Errorf("%w: bad date %q, want YYYY-MM-DD", ErrInvalidArgument, s)
	}
	return KeyOf(t, time.UTC), nil
}

func (k DateKey) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", k.Year, int(k.Month), k.Day)
}

// Start returns local midnight of the day.
func (k DateKey) Start(loc *time.Location) time.Time {
	return time.Date(k.Year, k.Month, k.Day, 0, 0, 0, 0, loc)
}

// End returns the last representable instant of the day.
func (k DateKey) End(loc *time.Location) time.Time {
	return k.AddDays(1).Start(loc).Add(-time.Nanosecond)
}

// AddDays moves the key by n calendar days.
func (k DateKey) AddDays(n int) DateKey {
	return KeyOf(time.Date(k.Year, k.Month, k.Day+n, 12, 0, 0, 0, time.UTC), time.UTC)
}

func (k DateKey) Before(other DateKey) bool {
	return k.Compare(other) < 0
}

func (k DateKey) After(other DateKey) bool {
	return k.Compare(other) > 0
}

// Compare returns -1, 0 or +1.
func (k DateKey) Compare(other DateKey) int {
	switch {
	case k.Year != other.Year:
		return sign(k.Year - other.Year)
	case k.Month != other.Month:
		return sign(int(k.Month) - int(other.Month))
	default:
		return sign(k.Day - other.Day)
	}
}

// DaysUntil counts calendar days from k to other (negative when other is earlier).
func (k DateKey) DaysUntil(other DateKey) int {
	from := time.Date(k.Year, k.Month, k.Day, 0, 0, 0, 0, time.UTC)
	to := time.Date(other.Year, other.Month, other.Day, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from) / (24 * time.Hour))
}

// StartOfDay returns local midnight of t's day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	return KeyOf(t, loc).Start(loc)
}

// EndOfDay returns the last instant of t's day in loc.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	return KeyOf(t, loc).End(loc)
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
