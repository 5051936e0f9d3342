package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aliskhannn/revision-tracker-bot/internal/domain/entities"
	"github.com/aliskhannn/revision-tracker-bot/internal/service"
)

type TopicService interface {
	CreateMainTopic(ctx context.Context, ownerID int64, title, description string) (*entities.MainTopic, error)
	UpdateMainTopic(ctx context.Context, ownerID int64, id uuid.UUID, title, description string) (*entities.MainTopic, error)
	DeleteMainTopic(ctx context.Context, ownerID int64, id uuid.UUID) error
	ListMainTopics(ctx context.Context, ownerID int64) ([]*entities.MainTopic, error)
	Hierarchy(ctx context.Context, ownerID int64) ([]service.TopicNode, error)

	CreateSubTopic(ctx context.Context, ownerID int64, mainTopicID uuid.UUID, in entities.SubTopicInput) (*entities.SubTopic, error)
	UpdateSubTopic(ctx context.Context, ownerID int64, id uuid.UUID, in entities.SubTopicInput) (*entities.SubTopic, error)
	DeleteSubTopic(ctx context.Context, ownerID int64, id uuid.UUID) error
	ListSubTopics(ctx context.Context, ownerID int64) ([]*entities.SubTopic, error)
	ListSubTopicsByMainTopic(ctx context.Context, ownerID int64, mainTopicID uuid.UUID) ([]*entities.SubTopic, error)
	SetSubTopicCompleted(ctx context.Context, ownerID int64, id uuid.UUID, completed bool) error
}

type RevisionService interface {
	PlannedDates(ctx context.Context, ownerID int64, subTopicID uuid.UUID) ([]time.Time, error)
	AllPlannedDates(ctx context.Context, ownerID int64) ([]service.PlannedDates, error)
	Schedules(ctx context.Context, ownerID int64) ([]entities.TrackedSubTopic, error)
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
	Defaults() entities.IntervalTable
	IntervalsFor(ctx context.Context, ownerID int64, d entities.Difficulty) ([]int, error)
	Save(ctx context.Context, ownerID int64, table entities.IntervalTable, preferred []time.Weekday, tz string) (*entities.UserSettings, error)
}

type AgendaService interface {
	Now() time.Time
	Location(ctx context.Context, ownerID int64) (*time.Location, error)
	DueOn(ctx context.Context, ownerID int64, date time.Time) ([]entities.TrackedSubTopic, error)
	OverdueAsOf(ctx context.Context, ownerID int64, date time.Time) ([]entities.TrackedSubTopic, error)
	Today(ctx context.Context, ownerID int64, date time.Time) (entities.TodaySummary, error)
	Planned(ctx context.Context, ownerID int64, start, end time.Time) ([]entities.PlannedItem, error)
	Calendar(ctx context.Context, ownerID int64, year int, month time.Month) ([]entities.CalendarDay, error)
	MissedDates(ctx context.Context, ownerID int64, date time.Time) ([]entities.DateKey, error)
}
