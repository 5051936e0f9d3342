package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aliskhannn/revision-tracker-bot/internal/domain/entities"
)

// Option customizes a service.
type Option func(*core)

// WithClock replaces time.Now.
func WithClock(clock Clock) Option {
	return func(c *core) {
		if clock != nil {
			c.now = clock
		}
	}
}

// WithDefaultTimezone sets the zone used for owners that never saved settings.
func WithDefaultTimezone(tz string) Option {
	return func(c *core) {
		if tz != "" {
			c.defaultTimezone = tz
		}
	}
}

// core holds what every service shares: plain repositories for reads,
// the transactor for writes and the clock.
type core struct {
	repos           Repositories
	tr              Transactor
	now             Clock
	defaultTimezone string
}

func newCore(repos Repositories, tr Transactor, opts []Option) core {
	c := core{
		repos:           repos,
		tr:              tr,
		now:             time.Now,
		defaultTimezone: entities.DefaultTimezone,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// settings returns the owner's stored settings or unsaved defaults.
func (c core) settings(ctx context.Context, repos Repositories, ownerID int64) (*entities.UserSettings, error) {
	settings, err := repos.Settings.Get(ctx, ownerID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, entities.ErrNotFound) {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	settings = entities.NewUserSettings(ownerID, c.now())
	if err := settings.SetTimezone(c.defaultTimezone); err != nil {
		settings.Timezone = entities.DefaultTimezone
	}
	return settings, nil
}

// schedule returns the stored schedule or nil when none exists.
func schedule(ctx context.Context, repos Repositories, ownerID int64, subTopicID uuid.UUID, lock bool) (*entities.RevisionSchedule, error) {
	get := repos.Schedules.Get
	if lock {
		get = repos.Schedules.GetForUpdate
	}

	sched, err := get(ctx, ownerID, subTopicID)
	if errors.Is(err, entities.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	return sched, nil
}

// agenda tracks every subtopic of the owner against the current interval table.
func (c core) agenda(ctx context.Context, repos Repositories, ownerID int64) (*entities.Agenda, *entities.UserSettings, error) {
	settings, err := c.settings(ctx, repos, ownerID)
	if err != nil {
		return nil, nil, err
	}

	subs, err := repos.SubTopics.List(ctx, ownerID)
	if err != nil {
		return nil, nil, fmt.Errorf("list subtopics: %w", err)
	}

	schedules, err := repos.Schedules.List(ctx, ownerID)
	if err != nil {
		return nil, nil, fmt.Errorf("list schedules: %w", err)
	}

	bySub := make(map[uuid.UUID]*entities.RevisionSchedule, len(schedules))
	for _, sched := range schedules {
		bySub[sched.SubTopicID] = sched
	}

	loc := settings.Location()
	items := make([]entities.TrackedSubTopic, 0, len(subs))
	for _, sub := range subs {
		items = append(items, entities.Track(sub, bySub[sub.ID], settings.Intervals, loc))
	}

	return entities.NewAgenda(items, loc), settings, nil
}
