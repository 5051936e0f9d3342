package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aliskhannn/revision-tracker-bot/internal/domain/entities"
)

// Repositories lookups return entities.ErrNotFound for unknown ids and
// entities.ErrUnauthorized when the id belongs to another owner.

type MainTopicRepository interface {
	Create(ctx context.Context, topic *entities.MainTopic) error
	Get(ctx context.Context, ownerID int64, id uuid.UUID) (*entities.MainTopic, error)
	List(ctx context.Context, ownerID int64) ([]*entities.MainTopic, error)
	Update(ctx context.Context, topic *entities.MainTopic) error
	Delete(ctx context.Context, ownerID int64, id uuid.UUID) error
}

type SubTopicRepository interface {
	Create(ctx context.Context, sub *entities.SubTopic) error
	Get(ctx context.Context, ownerID int64, id uuid.UUID) (*entities.SubTopic, error)
	List(ctx context.Context, ownerID int64) ([]*entities.SubTopic, error)
	ListByMainTopic(ctx context.Context, ownerID int64, mainTopicID uuid.UUID) ([]*entities.SubTopic, error)
	Update(ctx context.Context, sub *entities.SubTopic) error
	Delete(ctx context.Context, ownerID int64, id uuid.UUID) error
}

type ScheduleRepository interface {
	// GetForUpdate is Get that also locks the row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, ownerID int64, subTopicID uuid.UUID) (*entities.RevisionSchedule, error)
	Get(ctx context.Context, ownerID int64, subTopicID uuid.UUID) (*entities.RevisionSchedule, error)
	List(ctx context.Context, ownerID int64) ([]*entities.RevisionSchedule, error)
	Upsert(ctx context.Context, schedule *entities.RevisionSchedule) error
	Delete(ctx context.Context, ownerID int64, subTopicID uuid.UUID) error
}

type SettingsRepository interface {
	Get(ctx context.Context, ownerID int64) (*entities.UserSettings, error)
	Upsert(ctx context.Context, settings *entities.UserSettings) error
}

type UserRepository interface {
	Save(ctx context.Context, user *entities.User) error
	Get(ctx context.Context, id int64) (*entities.User, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// ReminderRepository manages digest reminder persistence.
type ReminderRepository interface {
	Get(ctx context.Context, ownerID int64) (*entities.DigestReminder, error)
	Upsert(ctx context.Context, reminder *entities.DigestReminder) error
	// MarkSent records a delivery on the send-tracking fields only. It is a no-op when the
	// reminder was disabled or moved to another hour since it was listed.
	MarkSent(ctx context.Context, ownerID int64, hour int, sentAt, nextSendAt time.Time) error
	// ListDue returns enabled reminders whose next send time is unset or not after now,
	// ordered by owner id and starting after afterOwnerID.
	ListDue(ctx context.Context, now time.Time, afterOwnerID int64, limit int) ([]*entities.ReminderTarget, error)
}

// Repositories bundles every repository bound to one connection or transaction.
type Repositories struct {
	Topics    MainTopicRepository
	SubTopics SubTopicRepository
	Schedules ScheduleRepository
	Settings  SettingsRepository
	Users     UserRepository
	Reminders ReminderRepository
}

// Transactor runs fn atomically: either every write made through repos is applied or none is.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

// DigestNotifier delivers the daily digest to a chat.
type DigestNotifier interface {
	SendDigest(ctx context.Context, chatID int64, payload entities.DigestPayload, loc *time.Location) error
}

// Clock returns the current time. Services never read the wall clock directly.
type Clock func() time.Time
