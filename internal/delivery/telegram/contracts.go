package telegram

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/aliskhannn/revision-tracker-bot/internal/domain/entities"
	"github.com/aliskhannn/revision-tracker-bot/internal/service"
	"github.com/aliskhannn/revision-tracker-bot/internal/storage"
)

// BotAPI is the part of *tgbotapi.BotAPI the handler uses.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

type UserService interface {
	EnsureUser(ctx context.Context, userID, chatID int64, username string) (bool, error)
}

type TopicService interface {
	CreateMainTopic(ctx context.Context, ownerID int64, title, description string) (*entities.MainTopic, error)
	Hierarchy(ctx context.Context, ownerID int64) ([]service.TopicNode, error)
	CreateSubTopic(ctx context.Context, ownerID int64, mainTopicID uuid.UUID, in entities.SubTopicInput) (*entities.SubTopic, error)
	SetSubTopicCompleted(ctx context.Context, ownerID int64, id uuid.UUID, completed bool) error
}

type RevisionService interface {
	Tracked(ctx context.Context, ownerID int64, subTopicID uuid.UUID) (entities.TrackedSubTopic, error)
	MarkRevision(ctx context.Context, ownerID int64, subTopicID uuid.UUID, number int) error
	UnmarkRevision(ctx context.Context, ownerID int64, subTopicID uuid.UUID, number int) error
	MarkNextReviewed(ctx context.Context, ownerID int64, subTopicID uuid.UUID) (int, error)
	RescheduleToNextDay(ctx context.Context, ownerID int64, subTopicID uuid.UUID) (bool, error)
}

type ResetService interface {
	ResetProgress(ctx context.Context, ownerID int64) error
}

type SettingsService interface {
	Get(ctx context.Context, ownerID int64) (*entities.UserSettings, error)
	SetDifficultyIntervals(ctx context.Context, ownerID int64, d entities.Difficulty, days []int) (*entities.UserSettings, error)
	SetTimezone(ctx context.Context, ownerID int64, tz string) (*entities.UserSettings, error)
}

type AgendaService interface {
	Now() time.Time
	Today(ctx context.Context, ownerID int64, date time.Time) (entities.TodaySummary, error)
	Calendar(ctx context.Context, ownerID int64, year int, month time.Month) ([]entities.CalendarDay, error)
	Location(ctx context.Context, ownerID int64) (*time.Location, error)
}

type ReminderService interface {
	Get(ctx context.Context, ownerID int64) (*entities.DigestReminder, error)
	SetEnabled(ctx context.Context, ownerID int64, enabled bool) (*entities.DigestReminder, error)
	SetHour(ctx context.Context, ownerID int64, hour int) (*entities.DigestReminder, error)
}

// ListingStorage maps the numbers shown by /topics back to topic ids.
type ListingStorage interface {
	Store(chatID int64, ids []uuid.UUID)
	Resolve(chatID int64, n int) (uuid.UUID, bool)
}

// DigestStorage remembers the last digest sent to a chat.
type DigestStorage interface {
	UpsertAndGetPrev(chatID int64, messageID int, sentAt time.Time) (prev storage.DigestMessage, hadPrev bool)
}

// Services groups everything the handler calls.
type Services struct {
	Users     UserService
	Topics    TopicService
	Revisions RevisionService
	Reset     ResetService
	Settings  SettingsService
	Agenda    AgendaService
	Reminders ReminderService
}
