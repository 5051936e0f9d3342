package entities

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func trackedEasy(t *testing.T, title string, study time.Time) TrackedSubTopic {
	t.Helper()
	sub, err := NewSubTopic(1, uuid.New(), SubTopicInput{
		Title:      title,
		Difficulty: DifficultyEasy,
		StudyDate:  study,
	}, study)
	if err != nil {
		t.Fatalf("NewSubTopic: %v", err)
	}
	base := PlanRevisions(study, DifficultyEasy, DefaultIntervalTable(), time.UTC)
	return Track(sub, NewRevisionSchedule(1, sub.ID, base), DefaultIntervalTable(), time.UTC)
}

func TestAgendaDueAndOverdue(t *testing.T) {
	today := date(2024, 1, 9)
	yesterdayDue := trackedEasy(t, "yesterday", date(2024, 1, 1)) // first slot 2024-01-08
	todayDue := trackedEasy(t, "today", date(2024, 1, 2))         // first slot 2024-01-09
	later := trackedEasy(t, "later", date(2024, 1, 5))

	a := NewAgenda([]TrackedSubTopic{yesterdayDue, todayDue, later}, time.UTC)

	due := a.DueOn(today)
	if len(due) != 1 || due[0].SubTopic.Title != "today" {
		t.Fatalf("DueOn = %v", titles(due))
	}
	overdue := a.OverdueAsOf(today)
	if len(overdue) != 1 || overdue[0].SubTopic.Title != "yesterday" {
		t.Fatalf("OverdueAsOf = %v", titles(overdue))
	}

	summary := a.Today(today)
	if summary.Date.String() != "2024-01-09" || len(summary.Due) != 1 || len(summary.Overdue) != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestAgendaSkipsCompletedSubTopics(t *testing.T) {
	item := trackedEasy(t, "done", date(2024, 1, 1))
	item.SubTopic.Completed = true

	a := NewAgenda([]TrackedSubTopic{item}, time.UTC)
	if len(a.OverdueAsOf(date(2024, 2, 1))) != 0 {
		t.Fatalf("completed subtopic reported overdue")
	}
	if len(a.MissedDates(date(2024, 2, 1))) != 0 {
		t.Fatalf("completed subtopic produced missed dates")
	}
}

func TestAgendaFallsBackToStudyDate(t *testing.T) {
	item := trackedEasy(t, "unscheduled", date(2024, 1, 3))
	item.Schedule = nil

	a := NewAgenda([]TrackedSubTopic{item}, time.UTC)
	if len(a.DueOn(date(2024, 1, 3))) != 1 {
		t.Fatalf("subtopic without schedule must be due on its study date")
	}
}

func TestAgendaDayBoundariesUseLocation(t *testing.T) {
	loc := time.FixedZone("UTC+03:00", 3*3600)
	// 22:30 UTC on Dec 31 is already Jan 1 in UTC+3, so the first revision lands on local Jan 8.
	study := time.Date(2023, 12, 31, 22, 30, 0, 0, time.UTC)
	sub, _ := NewSubTopic(1, uuid.New(), SubTopicInput{Title: "late", Difficulty: DifficultyEasy, StudyDate: study}, study)
	item := Track(sub, nil, DefaultIntervalTable(), loc)
	item.Schedule = NewRevisionSchedule(1, sub.ID, item.Base)

	a := NewAgenda([]TrackedSubTopic{item}, loc)
	if len(a.DueOn(time.Date(2024, 1, 8, 12, 0, 0, 0, loc))) != 1 {
		t.Fatalf("expected first revision on local 2024-01-08")
	}
}

func TestPlannedInRangeDeduplicates(t *testing.T) {
	study := date(2024, 3, 1)
	sub, _ := NewSubTopic(1, uuid.New(), SubTopicInput{Title: "dup", Difficulty: DifficultyHard, StudyDate: study}, study)

	// First revision on the study day, second and third share the next day.
	item := TrackedSubTopic{
		SubTopic: sub,
		Base: []time.Time{
			study.Add(2 * time.Hour),
			study.AddDate(0, 0, 1),
			study.AddDate(0, 0, 1).Add(3 * time.Hour),
		},
	}

	a := NewAgenda([]TrackedSubTopic{item}, time.UTC)
	got := a.PlannedInRange(KeyOf(study, time.UTC), KeyOf(study, time.UTC).AddDays(1))

	if len(got) != 3 {
		t.Fatalf("got %d items, want 3: %+v", len(got), got)
	}
	if got[0].Kind != KindStudy || got[1].Kind != KindRevision || got[0].Key != got[1].Key {
		t.Fatalf("study and revision on the same day must both appear: %+v", got[:2])
	}
	if got[2].RevisionNumber != 2 {
		t.Fatalf("expected the first revision of the second day to win, got #%d", got[2].RevisionNumber)
	}
}

func TestPlannedInRangeBounds(t *testing.T) {
	item := trackedEasy(t, "range", date(2024, 1, 1))
	a := NewAgenda([]TrackedSubTopic{item}, time.UTC)

	got := a.PlannedInRange(DateKey{2024, time.January, 2}, DateKey{2024, time.January, 22})
	if len(got) != 2 {
		t.Fatalf("got %d items, want revisions on 01-08 and 01-22", len(got))
	}
	if len(a.PlannedInRange(DateKey{2025, time.January, 1}, DateKey{2025, time.December, 31})) != 0 {
		t.Fatalf("expected empty result outside the schedule")
	}
}

func TestMissedDates(t *testing.T) {
	item := trackedEasy(t, "missed", date(2024, 1, 1))
	_ = item.Schedule.MarkComplete(1, item.Base)

	a := NewAgenda([]TrackedSubTopic{item}, time.UTC)
	got := a.MissedDates(date(2024, 2, 20))
	if len(got) != 2 || got[0].String() != "2024-01-22" || got[1].String() != "2024-02-15" {
		t.Fatalf("MissedDates = %v", got)
	}
}

func TestMonth(t *testing.T) {
	item := trackedEasy(t, "month", date(2024, 1, 10))
	a := NewAgenda([]TrackedSubTopic{item}, time.UTC)

	days := a.Month(2024, time.February, date(2024, 3, 1))
	if len(days) != 29 {
		t.Fatalf("February 2024 has 29 days, got %d", len(days))
	}

	// Jan 10 + 45 days = Feb 24.
	feb24 := days[23]
	if feb24.Key.String() != "2024-02-24" || len(feb24.Items) != 1 || !feb24.Missed {
		t.Fatalf("unexpected day: %+v", feb24)
	}
}

func titles(items []TrackedSubTopic) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.SubTopic.Title
	}
	return out
}
