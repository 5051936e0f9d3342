package entities

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
)

// NoPendingReview is the NextReview value of a schedule whose slots are all completed.
// It is the largest instant representable as epoch nanoseconds.
var NoPendingReview = time.Unix(0, math.MaxInt64).UTC()

// RevisionSchedule tracks completion of each planned revision slot of one subtopic.
//
// Slot dates are not stored: callers pass the base dates computed by PlanRevisions and the
// schedule applies its per-slot day shifts on top. ReviewCount always equals the number of
// true entries in ReviewStatuses.
type RevisionSchedule struct {
	OwnerID        int64
	SubTopicID     uuid.UUID
	NextReview     time.Time
	ReviewCount    int
	ReviewStatuses []bool
	SlotShifts     []int // calendar days each slot was moved by rescheduling
	UpdatedAt      time.Time
}

// Slot is one revision occurrence with its effective date.
type Slot struct {
	Number    int // 1-based
	Date      time.Time
	Completed bool
}

// NewRevisionSchedule starts a schedule with every slot pending.
func NewRevisionSchedule(ownerID int64, subTopicID uuid.UUID, base []time.Time) *RevisionSchedule {
	s := &RevisionSchedule{
		OwnerID:    ownerID,
		SubTopicID: subTopicID,
	}
	s.Reset(base)
	return s
}

// Clone returns a deep copy.
func (s *RevisionSchedule) Clone() *RevisionSchedule {
	c := *s
	c.ReviewStatuses = slices.Clone(s.ReviewStatuses)
	c.SlotShifts = slices.Clone(s.SlotShifts)
	return &c
}

// Len is the number of slots as of the last reconciliation.
func (s *RevisionSchedule) Len() int {
	return len(s.ReviewStatuses)
}

// Reset marks every slot pending and drops all shifts.
func (s *RevisionSchedule) Reset(base []time.Time) {
	s.ReviewStatuses = make([]bool, len(base))
	s.SlotShifts = make([]int, len(base))
	s.recompute(base)
}

// Reconcile resizes the slot state to match base (padding with pending slots or
// truncating) and recomputes ReviewCount and NextReview.
func (s *RevisionSchedule) Reconcile(base []time.Time) {
	n := len(base)
	s.ReviewStatuses = resize(s.ReviewStatuses, n)
	s.SlotShifts = resize(s.SlotShifts, n)
	s.recompute(base)
}

// Dates returns the effective date of each slot: base date plus the slot's shift.
func (s *RevisionSchedule) Dates(base []time.Time) []time.Time {
	dates := make([]time.Time, len(base))
	for i, d := range base {
		if i < len(s.SlotShifts) && s.SlotShifts[i] != 0 {
			d = d.AddDate(0, 0, s.SlotShifts[i])
		}
		dates[i] = d
	}
	return dates
}

// Slots pairs effective dates with completion state.
func (s *RevisionSchedule) Slots(base []time.Time) []Slot {
	dates := s.Dates(base)
	slots := make([]Slot, len(dates))
	for i, d := range dates {
		slots[i] = Slot{
			Number:    i + 1,
			Date:      d,
			Completed: i < len(s.ReviewStatuses) && s.ReviewStatuses[i],
		}
	}
	return slots
}

// MarkComplete completes revision number (1-based). Completing a completed slot is a no-op.
func (s *RevisionSchedule) MarkComplete(number int, base []time.Time) error {
	return s.setStatus(number, true, base)
}

// Unmark returns revision number to pending. Unmarking a pending slot is a no-op.
func (s *RevisionSchedule) Unmark(number int, base []time.Time) error {
	return s.setStatus(number, false, base)
}

func (s *RevisionSchedule) setStatus(number int, done bool, base []time.Time) error {
	s.Reconcile(base)
	if number < 1 || number > len(s.ReviewStatuses) {
		return fmt.Errorf("%w: revision number %d outside 1..%d", ErrInvalidArgument, number, len(s.ReviewStatuses))
	}

	s.ReviewStatuses[number-1] = done
	s.recompute(base)
	return nil
}

// MarkNext completes the lowest-numbered pending slot and returns its number,
// or 0 when nothing is pending.
func (s *RevisionSchedule) MarkNext(base []time.Time) int {
	s.Reconcile(base)

	idx := s.CurrentIndex()
	if idx >= len(s.ReviewStatuses) {
		return 0
	}

	s.ReviewStatuses[idx] = true
	s.recompute(base)
	return idx + 1
}

// CurrentIndex is the 0-based index of the lowest-numbered pending slot, or Len() when none.
func (s *RevisionSchedule) CurrentIndex() int {
	if i := slices.Index(s.ReviewStatuses, false); i >= 0 {
		return i
	}
	return len(s.ReviewStatuses)
}

// IsComplete reports whether no slot is pending. A schedule without slots is complete.
func (s *RevisionSchedule) IsComplete() bool {
	return s.ReviewCount == len(s.ReviewStatuses)
}

// IsReviewed reports whether every slot dated on or before now's local day is completed,
// i.e. nothing is currently due.
func (s *RevisionSchedule) IsReviewed(base []time.Time, now time.Time, loc *time.Location) bool {
	today := KeyOf(now, loc)
	for _, slot := range s.Slots(base) {
		if !slot.Completed && !KeyOf(slot.Date, loc).After(today) {
			return false
		}
	}
	return true
}

// RescheduleToTomorrow moves pending revisions forward so that the earliest pending slot
// dated before today lands on tomorrow. All pending slots move by the same number of days,
// which keeps their spacing; completed slots keep their dates, so a pending slot can end up
// after a completed slot with a higher number. It reports whether anything moved.
func (s *RevisionSchedule) RescheduleToTomorrow(base []time.Time, now time.Time, loc *time.Location) bool {
	s.Reconcile(base)

	today := KeyOf(now, loc)
	var (
		earliest DateKey
		found    bool
	)
	for _, slot := range s.Slots(base) {
		if slot.Completed {
			continue
		}
		key := KeyOf(slot.Date, loc)
		if !key.Before(today) {
			continue
		}
		if !found || key.Before(earliest) {
			earliest, found = key, true
		}
	}
	if !found {
		return false
	}

	delta := earliest.DaysUntil(today.AddDays(1))
	for i, done := range s.ReviewStatuses {
		if !done {
			s.SlotShifts[i] += delta
		}
	}

	s.recompute(base)
	return true
}

func (s *RevisionSchedule) recompute(base []time.Time) {
	dates := s.Dates(base)

	s.ReviewCount = 0
	s.NextReview = NoPendingReview
	for i, done := range s.ReviewStatuses {
		if done {
			s.ReviewCount++
			continue
		}
		if i < len(dates) && dates[i].Before(s.NextReview) {
			s.NextReview = dates[i]
		}
	}
}

func resize[T any](in []T, n int) []T {
	if len(in) >= n {
		return in[:n:n]
	}
	out := make([]T, n)
	copy(out, in)
	return out
}
