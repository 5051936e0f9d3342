package entities

import (
	"testing"
	"time"
)

func TestParseTimezoneLocation(t *testing.T) {
	tests := []struct {
		in         string
		wantOffset int
		wantErr    bool
	}{
		{"", 0, false},
		{"UTC", 0, false},
		{"gmt", 0, false},
		{"UTC+3", 3 * 3600, false},
		{"UTC-7", -7 * 3600, false},
		{"+5:30", 5*3600 + 30*60, false},
		{"-03:30", -(3*3600 + 30*60), false},
		{"UTC+15", 0, true},
		{"Mars/Olympus", 0, true},
	}

	ref := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			loc, err := ParseTimezoneLocation(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if _, off := ref.In(loc).Zone(); off != tt.wantOffset {
				t.Fatalf("offset = %d, want %d", off, tt.wantOffset)
			}
		})
	}
}

func TestUserSettingsSetTimezone(t *testing.T) {
	s := NewUserSettings(1, time.Now())
	if err := s.SetTimezone("UTC+2"); err != nil {
		t.Fatalf("SetTimezone: %v", err)
	}
	if _, off := time.Now().In(s.Location()).Zone(); off != 2*3600 {
		t.Fatalf("Location offset = %d", off)
	}
	if err := s.SetTimezone("nowhere"); err == nil {
		t.Fatalf("expected error for unknown zone")
	}
	if s.Timezone != "UTC+2" {
		t.Fatalf("rejected zone overwrote the stored one")
	}
}

func TestUserSettingsSetIntervalsNormalizesWeekdays(t *testing.T) {
	s := NewUserSettings(1, time.Now())
	err := s.SetIntervals(DefaultIntervalTable(), []time.Weekday{time.Friday, time.Monday, time.Friday})
	if err != nil {
		t.Fatalf("SetIntervals: %v", err)
	}
	if len(s.PreferredReviewDays) != 2 || s.PreferredReviewDays[0] != time.Monday {
		t.Fatalf("PreferredReviewDays = %v", s.PreferredReviewDays)
	}
	if err := s.SetIntervals(DefaultIntervalTable(), []time.Weekday{7}); err == nil {
		t.Fatalf("expected error for weekday 7")
	}
}

func TestDateKey(t *testing.T) {
	k, err := ParseDateKey("2024-02-28")
	if err != nil {
		t.Fatalf("ParseDateKey: %v", err)
	}
	if got := k.AddDays(2).String(); got != "2024-03-01" {
		t.Fatalf("AddDays = %s", got)
	}
	if d := k.DaysUntil(DateKey{2024, time.March, 31}); d != 32 {
		t.Fatalf("DaysUntil = %d, want 32", d)
	}
	if _, err := ParseDateKey("28.02.2024"); err == nil {
		t.Fatalf("expected error for bad format")
	}

	loc := time.FixedZone("UTC-05:00", -5*3600)
	late := time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC)
	if KeyOf(late, loc).String() != "2024-01-01" {
		t.Fatalf("KeyOf ignored location")
	}
}

func TestDigestReminderNextSendAt(t *testing.T) {
	r := NewDigestReminder(1, time.Now())
	loc := time.FixedZone("UTC+03:00", 3*3600)

	// 06:00 local, digest at 08:00 local = 05:00 UTC.
	now := time.Date(2024, 1, 1, 3, 0, 0, 0, time.UTC)
	if got := r.CalculateNextSendAt(loc, now); !got.Equal(time.Date(2024, 1, 1, 5, 0, 0, 0, time.UTC)) {
		t.Fatalf("next = %v", got)
	}

	// Exactly 08:00 local rolls over to tomorrow.
	now = time.Date(2024, 1, 1, 5, 0, 0, 0, time.UTC)
	if got := r.CalculateNextSendAt(loc, now); !got.Equal(time.Date(2024, 1, 2, 5, 0, 0, 0, time.UTC)) {
		t.Fatalf("next = %v", got)
	}

	if !r.CanSendNow(loc, now) {
		t.Fatalf("digest must be sendable during its hour")
	}
	r.MarkSent(loc, now)
	if r.CanSendNow(loc, now.Add(time.Hour)) {
		t.Fatalf("digest sent twice on the same day")
	}
	if !r.CanSendNow(loc, now.Add(24*time.Hour)) {
		t.Fatalf("digest not due the next day")
	}

	if err := r.SetHour(24); err == nil {
		t.Fatalf("expected error for hour 24")
	}
}
