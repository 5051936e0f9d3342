package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/aliskhannn/revision-tracker-bot/internal/domain/entities"
)

func checkOwner(st *state, ownerID int64, id uuid.UUID, kind string) error {
	owner, ok := st.owners[id]
	if !ok {
		return fmt.Errorf("%w: %s %s", entities.ErrNotFound, kind, id)
	}
	if owner != ownerID {
		return fmt.Errorf("%w: %s %s belongs to another owner", entities.ErrUnauthorized, kind, id)
	}
	return nil
}

func partition[V any](m map[int64]map[uuid.UUID]V, ownerID int64) map[uuid.UUID]V {
	inner, ok := m[ownerID]
	if !ok {
		inner = make(map[uuid.UUID]V)
		m[ownerID] = inner
	}
	return inner
}

func copyTopic(t *entities.MainTopic) *entities.MainTopic {
	c := *t
	return &c
}

func copySubTopic(s *entities.SubTopic) *entities.SubTopic {
	c := *s
	if s.LastReviewedAt != nil {
		t := *s.LastReviewedAt
		c.LastReviewedAt = &t
	}
	return &c
}

type TopicRepository struct {
	v view
}

func (r *TopicRepository) Create(_ context.Context, topic *entities.MainTopic) error {
	return r.v.write(func(st *state) error {
		if _, exists := st.owners[topic.ID]; exists {
			return fmt.Errorf("%w: duplicate id %s", entities.ErrInvalidArgument, topic.ID)
		}
		partition(st.topics, topic.OwnerID)[topic.ID] = copyTopic(topic)
		st.owners[topic.ID] = topic.OwnerID
		return nil
	})
}

func (r *TopicRepository) Get(_ context.Context, ownerID int64, id uuid.UUID) (*entities.MainTopic, error) {
	var out *entities.MainTopic
	err := r.v.read(func(st *state) error {
		if err := checkOwner(st, ownerID, id, "topic"); err != nil {
			return err
		}
		t, ok := st.topics[ownerID][id]
		if !ok {
			return fmt.Errorf("%w: topic %s", entities.ErrNotFound, id)
		}
		out = copyTopic(t)
		return nil
	})
	return out, err
}

func (r *TopicRepository) List(_ context.Context, ownerID int64) ([]*entities.MainTopic, error) {
	var out []*entities.MainTopic
	err := r.v.read(func(st *state) error {
		out = make([]*entities.MainTopic, 0, len(st.topics[ownerID]))
		for _, t := range st.topics[ownerID] {
			out = append(out, copyTopic(t))
		}
		return nil
	})
	return out, err
}

func (r *TopicRepository) Update(_ context.Context, topic *entities.MainTopic) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.topics[topic.OwnerID][topic.ID]; !ok {
			return checkOwnerOrMissing(st, topic.OwnerID, topic.ID, "topic")
		}
		st.topics[topic.OwnerID][topic.ID] = copyTopic(topic)
		return nil
	})
}

func (r *TopicRepository) Delete(_ context.Context, ownerID int64, id uuid.UUID) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.topics[ownerID][id]; !ok {
			return checkOwnerOrMissing(st, ownerID, id, "topic")
		}
		delete(st.topics[ownerID], id)
		delete(st.owners, id)
		return nil
	})
}

// checkOwnerOrMissing explains why id is absent from the owner's partition.
func checkOwnerOrMissing(st *state, ownerID int64, id uuid.UUID, kind string) error {
	if err := checkOwner(st, ownerID, id, kind); err != nil {
		return err
	}
	return fmt.Errorf("%w: %s %s", entities.ErrNotFound, kind, id)
}

type SubTopicRepository struct {
	v view
}

func (r *SubTopicRepository) Create(_ context.Context, sub *entities.SubTopic) error {
	return r.v.write(func(st *state) error {
		if _, exists := st.owners[sub.ID]; exists {
			return fmt.Errorf("%w: duplicate id %s", entities.ErrInvalidArgument, sub.ID)
		}
		if err := checkOwner(st, sub.OwnerID, sub.MainTopicID, "topic"); err != nil {
			return err
		}
		partition(st.subTopics, sub.OwnerID)[sub.ID] = copySubTopic(sub)
		st.owners[sub.ID] = sub.OwnerID
		return nil
	})
}

func (r *SubTopicRepository) Get(_ context.Context, ownerID int64, id uuid.UUID) (*entities.SubTopic, error) {
	var out *entities.SubTopic
	err := r.v.read(func(st *state) error {
		s, ok := st.subTopics[ownerID][id]
		if !ok {
			return checkOwnerOrMissing(st, ownerID, id, "subtopic")
		}
		out = copySubTopic(s)
		return nil
	})
	return out, err
}

func (r *SubTopicRepository) List(_ context.Context, ownerID int64) ([]*entities.SubTopic, error) {
	return r.list(ownerID, func(*entities.SubTopic) bool { return true })
}

func (r *SubTopicRepository) ListByMainTopic(_ context.Context, ownerID int64, mainTopicID uuid.UUID) ([]*entities.SubTopic, error) {
	return r.list(ownerID, func(s *entities.SubTopic) bool { return s.MainTopicID == mainTopicID })
}

func (r *SubTopicRepository) list(ownerID int64, keep func(*entities.SubTopic) bool) ([]*entities.SubTopic, error) {
	var out []*entities.SubTopic
	err := r.v.read(func(st *state) error {
		out = make([]*entities.SubTopic, 0, len(st.subTopics[ownerID]))
		for _, s := range st.subTopics[ownerID] {
			if keep(s) {
				out = append(out, copySubTopic(s))
			}
		}
		return nil
	})
	return out, err
}

func (r *SubTopicRepository) Update(_ context.Context, sub *entities.SubTopic) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.subTopics[sub.OwnerID][sub.ID]; !ok {
			return checkOwnerOrMissing(st, sub.OwnerID, sub.ID, "subtopic")
		}
		st.subTopics[sub.OwnerID][sub.ID] = copySubTopic(sub)
		return nil
	})
}

func (r *SubTopicRepository) Delete(_ context.Context, ownerID int64, id uuid.UUID) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.subTopics[ownerID][id]; !ok {
			return checkOwnerOrMissing(st, ownerID, id, "subtopic")
		}
		delete(st.subTopics[ownerID], id)
		delete(st.owners, id)
		return nil
	})
}

type ScheduleRepository struct {
	v view
}

// GetForUpdate is Get: transactions already hold the store exclusively.
func (r *ScheduleRepository) GetForUpdate(ctx context.Context, ownerID int64, subTopicID uuid.UUID) (*entities.RevisionSchedule, error) {
	return r.Get(ctx, ownerID, subTopicID)
}

func (r *ScheduleRepository) Get(_ context.Context, ownerID int64, subTopicID uuid.UUID) (*entities.RevisionSchedule, error) {
	var out *entities.RevisionSchedule
	err := r.v.read(func(st *state) error {
		if err := checkOwner(st, ownerID, subTopicID, "subtopic"); err != nil {
			return err
		}
		s, ok := st.schedules[ownerID][subTopicID]
		if !ok {
			return fmt.Errorf("%w: schedule of subtopic %s", entities.ErrNotFound, subTopicID)
		}
		out = s.Clone()
		return nil
	})
	return out, err
}

func (r *ScheduleRepository) List(_ context.Context, ownerID int64) ([]*entities.RevisionSchedule, error) {
	var out []*entities.RevisionSchedule
	err := r.v.read(func(st *state) error {
		out = make([]*entities.RevisionSchedule, 0, len(st.schedules[ownerID]))
		for _, s := range st.schedules[ownerID] {
			out = append(out, s.Clone())
		}
		return nil
	})
	return out, err
}

func (r *ScheduleRepository) Upsert(_ context.Context, schedule *entities.RevisionSchedule) error {
	return r.v.write(func(st *state) error {
		if err := checkOwner(st, schedule.OwnerID, schedule.SubTopicID, "subtopic"); err != nil {
			return err
		}
		partition(st.schedules, schedule.OwnerID)[schedule.SubTopicID] = schedule.Clone()
		return nil
	})
}

func (r *ScheduleRepository) Delete(_ context.Context, ownerID int64, subTopicID uuid.UUID) error {
	return r.v.write(func(st *state) error {
		if err := checkOwner(st, ownerID, subTopicID, "subtopic"); err != nil {
			return err
		}
		delete(st.schedules[ownerID], subTopicID)
		return nil
	})
}

type SettingsRepository struct {
	v view
}

func (r *SettingsRepository) Get(_ context.Context, ownerID int64) (*entities.UserSettings, error) {
	var out *entities.UserSettings
	err := r.v.read(func(st *state) error {
		s, ok := st.settings[ownerID]
		if !ok {
			return fmt.Errorf("%w: settings of owner %d", entities.ErrNotFound, ownerID)
		}
		out = s.Clone()
		return nil
	})
	return out, err
}

func (r *SettingsRepository) Upsert(_ context.Context, settings *entities.UserSettings) error {
	return r.v.write(func(st *state) error {
		st.settings[settings.OwnerID] = settings.Clone()
		return nil
	})
}

type UserRepository struct {
	v view
}

func (r *UserRepository) Save(_ context.Context, user *entities.User) error {
	return r.v.write(func(st *state) error {
		c := *user
		st.users[user.ID] = &c
		return nil
	})
}

func (r *UserRepository) Get(_ context.Context, id int64) (*entities.User, error) {
	var out *entities.User
	err := r.v.read(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return fmt.Errorf("%w: user %d", entities.ErrNotFound, id)
		}
		c := *u
		out = &c
		return nil
	})
	return out, err
}

func (r *UserRepository) Exists(_ context.Context, id int64) (bool, error) {
	var ok bool
	err := r.v.read(func(st *state) error {
		_, ok = st.users[id]
		return nil
	})
	return ok, err
}

type ReminderRepository struct {
	v view
}

func copyReminder(r *entities.DigestReminder) *entities.DigestReminder {
	c := *r
	if r.LastSentAt != nil {
		t := *r.LastSentAt
		c.LastSentAt = &t
	}
	if r.NextSendAt != nil {
		t := *r.NextSendAt
		c.NextSendAt = &t
	}
	return &c
}

func (r *ReminderRepository) Get(_ context.Context, ownerID int64) (*entities.DigestReminder, error) {
	var out *entities.DigestReminder
	err := r.v.read(func(st *state) error {
		rem, ok := st.reminders[ownerID]
		if !ok {
			return fmt.Errorf("%w: reminder of owner %d", entities.ErrNotFound, ownerID)
		}
		out = copyReminder(rem)
		return nil
	})
	return out, err
}

func (r *ReminderRepository) Upsert(_ context.Context, reminder *entities.DigestReminder) error {
	return r.v.write(func(st *state) error {
		st.reminders[reminder.OwnerID] = copyReminder(reminder)
		return nil
	})
}

func (r *ReminderRepository) MarkSent(_ context.Context, ownerID int64, hour int, sentAt, nextSendAt time.Time) error {
	return r.v.write(func(st *state) error {
		rem, ok := st.reminders[ownerID]
		if !ok || !rem.IsEnabled || rem.Hour != hour {
			return nil
		}
		c := copyReminder(rem)
		c.LastSentAt = &sentAt
		c.NextSendAt = &nextSendAt
		c.UpdatedAt = sentAt
		st.reminders[ownerID] = c
		return nil
	})
}

func (r *ReminderRepository) ListDue(_ context.Context, now time.Time, afterOwnerID int64, limit int) ([]*entities.ReminderTarget, error) {
	var out []*entities.ReminderTarget
	err := r.v.read(func(st *state) error {
		out = make([]*entities.ReminderTarget, 0)
		for ownerID, rem := range st.reminders {
			if ownerID <= afterOwnerID || !rem.IsEnabled {
				continue
			}
			if rem.NextSendAt != nil && now.Before(*rem.NextSendAt) {
				continue
			}
			user, ok := st.users[ownerID]
			if !ok || !user.IsActive {
				continue
			}

			tz := entities.DefaultTimezone
			if s, ok := st.settings[ownerID]; ok && s.Timezone != "" {
				tz = s.Timezone
			}
			out = append(out, &entities.ReminderTarget{
				Reminder: *copyReminder(rem),
				ChatID:   user.ChatID,
				Timezone: tz,
			})
		}

		slices.SortFunc(out, func(a, b *entities.ReminderTarget) int {
			return cmp.Compare(a.Reminder.OwnerID, b.Reminder.OwnerID)
		})
		if limit > 0 && len(out) > limit {
			out = out[:limit]
		}
		return nil
	})
	return out, err
}
