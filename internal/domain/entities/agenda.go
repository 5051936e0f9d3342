package entities

import (
	"cmp"
	"slices"
	"time"

	"github.com/google/uuid"
)

// TrackedSubTopic joins a subtopic with its schedule and the base revision dates planned
// from the owner's current interval table.
type TrackedSubTopic struct {
	SubTopic *SubTopic
	Schedule *RevisionSchedule // nil when no schedule was ever stored
	Base     []time.Time
}

// Track plans the base dates for sub and reconciles a copy of sched against them.
func Track(sub *SubTopic, sched *RevisionSchedule, table IntervalTable, loc *time.Location) TrackedSubTopic {
	base := PlanRevisions(sub.StudyDate, sub.Difficulty, table, loc)
	if sched != nil {
		sched = sched.Clone()
		sched.Reconcile(base)
	}
	return TrackedSubTopic{SubTopic: sub, Schedule: sched, Base: base}
}

// NextReview is the schedule's next pending date, or the study date when there is no schedule.
// ok is false once every revision is completed.
func (t TrackedSubTopic) NextReview() (next time.Time, ok bool) {
	if t.Schedule == nil {
		return t.SubTopic.StudyDate, true
	}
	if t.Schedule.NextReview.Equal(NoPendingReview) {
		return NoPendingReview, false
	}
	return t.Schedule.NextReview, true
}

// Slots returns the revision slots with effective dates.
func (t TrackedSubTopic) Slots() []Slot {
	if t.Schedule == nil {
		slots := make([]Slot, len(t.Base))
		for i, d := range t.Base {
			slots[i] = Slot{Number: i + 1, Date: d}
		}
		return slots
	}
	return t.Schedule.Slots(t.Base)
}

// PlannedDates returns the effective revision dates in slot order.
func (t TrackedSubTopic) PlannedDates() []time.Time {
	if t.Schedule == nil {
		return slices.Clone(t.Base)
	}
	return t.Schedule.Dates(t.Base)
}

// PlannedKind tells a study entry from a revision entry in the calendar.
type PlannedKind string

const (
	KindStudy    PlannedKind = "study"
	KindRevision PlannedKind = "revision"
)

// PlannedItem is one calendar entry.
type PlannedItem struct {
	SubTopicID     uuid.UUID
	MainTopicID    uuid.UUID
	Title          string
	Difficulty     Difficulty
	Kind           PlannedKind
	Date           time.Time
	Key            DateKey
	RevisionNumber int // 0 for study entries
	Completed      bool
}

// CalendarDay groups the planned items of one date key.
type CalendarDay struct {
	Key    DateKey
	Items  []PlannedItem
	Missed bool
}

// TodaySummary is what an owner has to work on for one day.
type TodaySummary struct {
	Date    DateKey
	Due     []TrackedSubTopic
	Overdue []TrackedSubTopic
}

// Agenda answers date-range questions over an owner's tracked subtopics.
// Every day boundary is computed in Location.
type Agenda struct {
	Items    []TrackedSubTopic
	Location *time.Location
}

func NewAgenda(items []TrackedSubTopic, loc *time.Location) *Agenda {
	if loc == nil {
		loc = time.UTC
	}
	return &Agenda{Items: items, Location: loc}
}

// DueOn returns not-completed subtopics whose next review falls on date's local day.
func (a *Agenda) DueOn(date time.Time) []TrackedSubTopic {
	start, end := StartOfDay(date, a.Location), EndOfDay(date, a.Location)
	return a.filterByNext(func(next time.Time) bool {
		return !next.Before(start) && !next.After(end)
	})
}

// OverdueAsOf returns not-completed subtopics whose next review is before date's local day.
func (a *Agenda) OverdueAsOf(date time.Time) []TrackedSubTopic {
	start := StartOfDay(date, a.Location)
	return a.filterByNext(func(next time.Time) bool {
		return next.Before(start)
	})
}

// Today combines DueOn and OverdueAsOf for now's local day.
func (a *Agenda) Today(now time.Time) TodaySummary {
	return TodaySummary{
		Date:    KeyOf(now, a.Location),
		Due:     a.DueOn(now),
		Overdue: a.OverdueAsOf(now),
	}
}

func (a *Agenda) filterByNext(match func(time.Time) bool) []TrackedSubTopic {
	out := make([]TrackedSubTopic, 0)
	for _, item := range a.Items {
		if item.SubTopic.Completed {
			continue
		}
		next, ok := item.NextReview()
		if ok && match(next) {
			out = append(out, item)
		}
	}

	slices.SortStableFunc(out, func(x, y TrackedSubTopic) int {
		nx, _ := x.NextReview()
		ny, _ := y.NextReview()
		if c := nx.Compare(ny); c != 0 {
			return c
		}
		return cmp.Compare(x.SubTopic.Title, y.SubTopic.Title)
	})
	return out
}

// PlannedInRange lists study and revision entries whose date key lies in [from, to].
// A subtopic appears at most once per (date key, kind).
func (a *Agenda) PlannedInRange(from, to DateKey) []PlannedItem {
	type dedupKey struct {
		id   uuid.UUID
		day  DateKey
		kind PlannedKind
	}

	seen := make(map[dedupKey]struct{})
	out := make([]PlannedItem, 0)
	add := func(item PlannedItem) {
		if item.Key.Before(from) || item.Key.After(to) {
			return
		}
		k := dedupKey{id: item.SubTopicID, day: item.Key, kind: item.Kind}
		if _, dup := seen[k]; dup {
			return
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}

	for _, t := range a.Items {
		sub := t.SubTopic
		add(PlannedItem{
			SubTopicID:  sub.ID,
			MainTopicID: sub.MainTopicID,
			Title:       sub.Title,
			Difficulty:  sub.Difficulty,
			Kind:        KindStudy,
			Date:        sub.StudyDate,
			Key:         KeyOf(sub.StudyDate, a.Location),
			Completed:   sub.Completed,
		})
		for _, slot := range t.Slots() {
			add(PlannedItem{
				SubTopicID:     sub.ID,
				MainTopicID:    sub.MainTopicID,
				Title:          sub.Title,
				Difficulty:     sub.Difficulty,
				Kind:           KindRevision,
				Date:           slot.Date,
				Key:            KeyOf(slot.Date, a.Location),
				RevisionNumber: slot.Number,
				Completed:      slot.Completed,
			})
		}
	}

	slices.SortStableFunc(out, func(x, y PlannedItem) int {
		if c := x.Key.Compare(y.Key); c != 0 {
			return c
		}
		if x.Kind != y.Kind {
			if x.Kind == KindStudy {
				return -1
			}
			return 1
		}
		return cmp.Compare(x.Title, y.Title)
	})
	return out
}

// MissedDates returns, in ascending order, the date keys before now's local day that hold
// a pending revision of a subtopic not marked completed.
func (a *Agenda) MissedDates(now time.Time) []DateKey {
	today := KeyOf(now, a.Location)

	seen := make(map[DateKey]struct{})
	out := make([]DateKey, 0)
	for _, t := range a.Items {
		if t.SubTopic.Completed {
			continue
		}
		for _, slot := range t.Slots() {
			if slot.Completed {
				continue
			}
			key := KeyOf(slot.Date, a.Location)
			if !key.Before(today) {
				continue
			}
			if _, dup := seen[key]; !dup {
				seen[key] = struct{}{}
				out = append(out, key)
			}
		}
	}

	slices.SortFunc(out, DateKey.Compare)
	return out
}

// Month lays out every day of the given month with its planned items and missed flag.
func (a *Agenda) Month(year int, month time.Month, now time.Time) []CalendarDay {
	first := DateKey{Year: year, Month: month, Day: 1}
	last := KeyOf(time.Date(year, month+1, 0, 12, 0, 0, 0, time.UTC), time.UTC)

	missed := make(map[DateKey]bool)
	for _, k := range a.MissedDates(now) {
		missed[k] = true
	}

	byDay := make(map[DateKey][]PlannedItem)
	for _, item := range a.PlannedInRange(first, last) {
		byDay[item.Key] = append(byDay[item.Key], item)
	}

	days := make([]CalendarDay, 0, last.Day)
	for k := first; !k.After(last); k = k.AddDays(1) {
		days = append(days, CalendarDay{
			Key:    k,
			Items:  byDay[k],
			Missed: missed[k],
		})
	}
	return days
}
