package entities

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 9, 30, 0, 0, time.UTC)
}

func keys(ts []time.Time, loc *time.Location) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = KeyOf(t, loc).String()
	}
	return out
}

func TestPlanRevisions(t *testing.T) {
	table := DefaultIntervalTable()

	tests := []struct {
		name string
		d    Difficulty
		want []string
	}{
		{"easy", DifficultyEasy, []string{"2024-01-08", "2024-01-22", "2024-02-15", "2024-03-31"}},
		{"medium", DifficultyMedium, []string{"2024-01-04", "2024-01-08", "2024-01-22", "2024-02-15", "2024-03-31"}},
		{"hard", DifficultyHard, []string{"2024-01-02", "2024-01-04", "2024-01-08", "2024-01-22", "2024-02-15"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := keys(PlanRevisions(date(2024, 1, 1), tt.d, table, time.UTC), time.UTC)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d dates, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("date %d: got %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestPlanRevisionsKeepsTimeOfDay(t *testing.T) {
	study := date(2024, 1, 1)
	for i, d := range PlanRevisions(study, DifficultyHard, DefaultIntervalTable(), time.UTC) {
		if d.Hour() != 9 || d.Minute() != 30 {
			t.Fatalf("date %d: time of day changed to %s", i, d.Format(time.TimeOnly))
		}
	}
}

func TestPlanRevisionsEmptyTable(t *testing.T) {
	got := PlanRevisions(date(2024, 1, 1), DifficultyEasy, IntervalTable{}, time.UTC)
	if len(got) != 0 {
		t.Fatalf("expected no dates, got %d", len(got))
	}
}

func TestPlanRevisionsCalendarDaysAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	// Clocks move forward on 2024-03-31 in Berlin.
	study := time.Date(2024, 3, 30, 0, 15, 0, 0, loc)
	got := PlanOffsets(study, []int{1, 2}, loc)
	want := []string{"2024-03-31", "2024-04-01"}
	for i, k := range keys(got, loc) {
		if k != want[i] {
			t.Fatalf("date %d: got %s, want %s", i, k, want[i])
		}
	}
}

func TestIntervalTableValidate(t *testing.T) {
	tests := []struct {
		name    string
		table   IntervalTable
		wantErr bool
	}{
		{"defaults", DefaultIntervalTable(), false},
		{"empty easy", IntervalTable{Medium: []int{1}, Hard: []int{1}}, true},
		{"zero value", IntervalTable{Easy: []int{1, 0}, Medium: []int{1}, Hard: []int{1}}, true},
		{"negative value", IntervalTable{Easy: []int{1}, Medium: []int{-3}, Hard: []int{1}}, true},
		{"upper bound", IntervalTable{Easy: []int{MaxIntervalDays}, Medium: []int{1}, Hard: []int{1}}, false},
		{"above upper bound", IntervalTable{Easy: []int{1}, Medium: []int{1}, Hard: []int{MaxIntervalDays + 1}}, true},
		{"int32 overflow", IntervalTable{Easy: []int{1 << 31}, Medium: []int{1}, Hard: []int{1}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestIntervalTableForReturnsCopy(t *testing.T) {
	table := DefaultIntervalTable()
	easy := table.For(DifficultyEasy)
	easy[0] = 100
	if table.Easy[0] != 7 {
		t.Fatalf("For leaked the underlying slice")
	}
}

func TestParseDifficulty(t *testing.T) {
	d, err := ParseDifficulty(" Hard ")
	if err != nil || d != DifficultyHard {
		t.Fatalf("ParseDifficulty = %q, %v", d, err)
	}
	if _, err := ParseDifficulty("insane"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}
