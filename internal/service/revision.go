package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aliskhannn/revision-tracker-bot/internal/domain/entities"
)

// PlannedDates lists the effective revision dates of one subtopic.
type PlannedDates struct {
	SubTopicID uuid.UUID
	OwnerID    int64
	Difficulty entities.Difficulty
	Dates      []time.Time
}

// RevisionService tracks revision progress. Every mutation reads, changes and writes
// a schedule inside one transaction.
type RevisionService struct {
	core
}

func NewRevisionService(repos Repositories, tr Transactor, opts ...Option) *RevisionService {
	return &RevisionService{core: newCore(repos, tr, opts)}
}

// PlannedDates returns the revision dates of one subtopic in slot order.
func (s *RevisionService) PlannedDates(ctx context.Context, ownerID int64, subTopicID uuid.UUID) ([]time.Time, error) {
	tracked, err := s.Tracked(ctx, ownerID, subTopicID)
	if err != nil {
		return nil, err
	}
	return tracked.PlannedDates(), nil
}

// AllPlannedDates returns PlannedDates for every subtopic of the owner.
func (s *RevisionService) AllPlannedDates(ctx context.Context, ownerID int64) ([]PlannedDates, error) {
	agenda, _, err := s.agenda(ctx, s.repos, ownerID)
	if err != nil {
		return nil, err
	}

	out := make([]PlannedDates, 0, len(agenda.Items))
	for _, item := range agenda.Items {
		out = append(out, PlannedDates{
			SubTopicID: item.SubTopic.ID,
			OwnerID:    item.SubTopic.OwnerID,
			Difficulty: item.SubTopic.Difficulty,
			Dates:      item.PlannedDates(),
		})
	}
	return out, nil
}

// Schedules returns every stored schedule of the owner, reconciled against the current table.
func (s *RevisionService) Schedules(ctx context.Context, ownerID int64) ([]entities.TrackedSubTopic, error) {
	agenda, _, err := s.agenda(ctx, s.repos, ownerID)
	if err != nil {
		return nil, err
	}

	out := make([]entities.TrackedSubTopic, 0, len(agenda.Items))
	for _, item := range agenda.Items {
		if item.Schedule != nil {
			out = append(out, item)
		}
	}
	return out, nil
}

// Tracked returns one subtopic with its schedule and planned dates.
func (s *RevisionService) Tracked(ctx context.Context, ownerID int64, subTopicID uuid.UUID) (entities.TrackedSubTopic, error) {
	sub, err := s.repos.SubTopics.Get(ctx, ownerID, subTopicID)
	if err != nil {
		return entities.TrackedSubTopic{}, fmt.Errorf("get subtopic: %w", err)
	}

	settings, err := s.settings(ctx, s.repos, ownerID)
	if err != nil {
		return entities.TrackedSubTopic{}, err
	}

	sched, err := schedule(ctx, s.repos, ownerID, subTopicID, false)
	if err != nil {
		return entities.TrackedSubTopic{}, err
	}

	return entities.Track(sub, sched, settings.Intervals, settings.Location()), nil
}

// MarkRevision completes revision number (1-based). Repeating the call is a no-op.
func (s *RevisionService) MarkRevision(ctx context.Context, ownerID int64, subTopicID uuid.UUID, number int) error {
	return s.mutate(ctx, ownerID, subTopicID, func(m *mutation) error {
		if err := m.sched.MarkComplete(number, m.base); err != nil {
			return err
		}
		m.sub.LastReviewedAt = &m.now
		return nil
	})
}

// UnmarkRevision returns revision number to pending. Unmarking a pending revision is a no-op.
func (s *RevisionService) UnmarkRevision(ctx context.Context, ownerID int64, subTopicID uuid.UUID, number int) error {
	return s.mutate(ctx, ownerID, subTopicID, func(m *mutation) error {
		return m.sched.Unmark(number, m.base)
	})
}

// MarkNextReviewed completes the lowest-numbered pending revision and returns its number,
// or 0 when every revision was already completed.
func (s *RevisionService) MarkNextReviewed(ctx context.Context, ownerID int64, subTopicID uuid.UUID) (int, error) {
	var number int
	err := s.mutate(ctx, ownerID, subTopicID, func(m *mutation) error {
		number = m.sched.MarkNext(m.base)
		if number > 0 {
			m.sub.LastReviewedAt = &m.now
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return number, nil
}

// RescheduleToNextDay moves past-due pending revisions so the earliest lands on tomorrow.
// It reports whether anything moved; nothing past due is not an error.
func (s *RevisionService) RescheduleToNextDay(ctx context.Context, ownerID int64, subTopicID uuid.UUID) (bool, error) {
	var moved bool
	err := s.mutate(ctx, ownerID, subTopicID, func(m *mutation) error {
		moved = m.sched.RescheduleToTomorrow(m.base, m.now, m.loc)
		return nil
	})
	if err != nil {
		return false, err
	}
	return moved, nil
}

type mutation struct {
	sub   *entities.SubTopic
	sched *entities.RevisionSchedule
	base  []time.Time
	loc   *time.Location
	now   time.Time
}

// mutate loads a subtopic and its locked schedule, applies fn and stores both.
// A subtopic that lost its schedule gets a fresh one first.
func (s *RevisionService) mutate(ctx context.Context, ownerID int64, subTopicID uuid.UUID, fn func(m *mutation) error) error {
	return s.tr.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		sub, err := repos.SubTopics.Get(ctx, ownerID, subTopicID)
		if err != nil {
			return fmt.Errorf("get subtopic: %w", err)
		}

		settings, err := s.settings(ctx, repos, ownerID)
		if err != nil {
			return err
		}
		loc := settings.Location()
		base := entities.PlanRevisions(sub.StudyDate, sub.Difficulty, settings.Intervals, loc)

		sched, err := schedule(ctx, repos, ownerID, subTopicID, true)
		if err != nil {
			return err
		}
		if sched == nil {
			sched = entities.NewRevisionSchedule(ownerID, subTopicID, base)
		}

		m := &mutation{sub: sub, sched: sched, base: base, loc: loc, now: s.now()}
		if err := fn(m); err != nil {
			return err
		}

		sched.UpdatedAt = m.now
		sub.CurrentIntervalIndex = sched.CurrentIndex()

		if err := repos.Schedules.Upsert(ctx, sched); err != nil {
			return fmt.Errorf("save schedule: %w", err)
		}
		if err := repos.SubTopics.Update(ctx, sub); err != nil {
			return fmt.Errorf("update subtopic: %w", err)
		}
		return nil
	})
}
