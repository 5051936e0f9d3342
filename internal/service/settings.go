package service

import (
	"context"
	"fmt"
	"time"

	"github.com/aliskhannn/revision-tracker-bot/internal/domain/entities"
)

// SettingsService reads and saves per-owner interval tables and calendar preferences.
type SettingsService struct {
	core
}

func NewSettingsService(repos Repositories, tr Transactor, opts ...Option) *SettingsService {
	return &SettingsService{core: newCore(repos, tr, opts)}
}

// Get returns the owner's settings, or the defaults when nothing was saved.
func (s *SettingsService) Get(ctx context.Context, ownerID int64) (*entities.UserSettings, error) {
	return s.settings(ctx, s.repos, ownerID)
}

// Defaults returns the built-in interval table.
func (s *SettingsService) Defaults() entities.IntervalTable {
	return entities.DefaultIntervalTable()
}

// IntervalsFor returns the owner's day offsets for one difficulty.
func (s *SettingsService) IntervalsFor(ctx context.Context, ownerID int64, d entities.Difficulty) ([]int, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: unknown difficulty %q", entities.ErrInvalidArgument, d)
	}

	settings, err := s.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return settings.Intervals.For(d), nil
}

// SetIntervals validates and saves a new interval table and preferred review days.
// Every schedule of the owner is reconciled in the same transaction.
func (s *SettingsService) SetIntervals(ctx context.Context, ownerID int64, table entities.IntervalTable, preferred []time.Weekday) (*entities.UserSettings, error) {
	return s.update(ctx, ownerID, func(settings *entities.UserSettings) error {
		return settings.SetIntervals(table, preferred)
	})
}

// SetDifficultyIntervals replaces the offsets of a single difficulty.
func (s *SettingsService) SetDifficultyIntervals(ctx context.Context, ownerID int64, d entities.Difficulty, days []int) (*entities.UserSettings, error) {
	return s.update(ctx, ownerID, func(settings *entities.UserSettings) error {
		table := settings.Intervals.Clone()
		switch d {
		case entities.DifficultyEasy:
			table.Easy = days
		case entities.DifficultyMedium:
			table.Medium = days
		case entities.DifficultyHard:
			table.Hard = days
		default:
			return fmt.Errorf("%w: unknown difficulty %q", entities.ErrInvalidArgument, d)
		}
		return settings.SetIntervals(table, settings.PreferredReviewDays)
	})
}

// SetTimezone changes the zone used for day bucketing.
func (s *SettingsService) SetTimezone(ctx context.Context, ownerID int64, tz string) (*entities.UserSettings, error) {
	return s.update(ctx, ownerID, func(settings *entities.UserSettings) error {
		return settings.SetTimezone(tz)
	})
}

func (s *SettingsService) update(ctx context.Context, ownerID int64, fn func(*entities.UserSettings) error) (*entities.UserSettings, error) {
	var saved *entities.UserSettings
	err := s.tr.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		settings, err := s.settings(ctx, repos, ownerID)
		if err != nil {
			return err
		}
		if err := fn(settings); err != nil {
			return err
		}
		settings.UpdatedAt = s.now()

		if err := repos.Settings.Upsert(ctx, settings); err != nil {
			return fmt.Errorf("save settings: %w", err)
		}
		if err := s.reconcileAll(ctx, repos, settings); err != nil {
			return err
		}

		saved = settings
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// reconcileAll resizes every stored schedule to the new table and refreshes next review dates.
func (s *SettingsService) reconcileAll(ctx context.Context, repos Repositories, settings *entities.UserSettings) error {
	subs, err := repos.SubTopics.List(ctx, settings.OwnerID)
	if err != nil {
		return fmt.Errorf("list subtopics: %w", err)
	}

	loc := settings.Location()
	for _, sub := range subs {
		sched, err := schedule(ctx, repos, settings.OwnerID, sub.ID, true)
		if err != nil {
			return err
		}

		base := entities.PlanRevisions(sub.StudyDate, sub.Difficulty, settings.Intervals, loc)
		if sched == nil {
			sched = entities.NewRevisionSchedule(settings.OwnerID, sub.ID, base)
		} else {
			sched.Reconcile(base)
		}
		sched.UpdatedAt = settings.UpdatedAt

		if err := repos.Schedules.Upsert(ctx, sched); err != nil {
			return fmt.Errorf("save schedule: %w", err)
		}

		if idx := sched.CurrentIndex(); idx != sub.CurrentIntervalIndex {
			sub.CurrentIntervalIndex = idx
			if err := repos.SubTopics.Update(ctx, sub); err != nil {
				return fmt.Errorf("update subtopic: %w", err)
			}
		}
	}
	return nil
}

// Save replaces the interval table, preferred days and, when tz is not empty, the timezone
// in one transaction.
func (s *SettingsService) Save(ctx context.Context, ownerID int64, table entities.IntervalTable, preferred []time.Weekday, tz string) (*entities.UserSettings, error) {
	return s.update(ctx, ownerID, func(settings *entities.UserSettings) error {
		if err := settings.SetIntervals(table, preferred); err != nil {
			return err
		}
		if tz == "" {
			return nil
		}
		return settings.SetTimezone(tz)
	})
}
