package service

import (
	"context"
	"fmt"
	"time"

	"github.com/aliskhannn/revision-tracker-bot/internal/domain/entities"
)

// AgendaService answers date-range questions. It never writes.
type AgendaService struct {
	core
}

func NewAgendaService(repos Repositories, opts ...Option) *AgendaService {
	return &AgendaService{core: newCore(repos, nil, opts)}
}

// Now returns the service clock reading, used by callers that default a query date.
func (s *AgendaService) Now() time.Time {
	return s.now()
}

func (s *AgendaService) DueOn(ctx context.Context, ownerID int64, date time.Time) ([]entities.TrackedSubTopic, error) {
	agenda, _, err := s.agenda(ctx, s.repos, ownerID)
	if err != nil {
		return nil, err
	}
	return agenda.DueOn(date), nil
}

func (s *AgendaService) OverdueAsOf(ctx context.Context, ownerID int64, date time.Time) ([]entities.TrackedSubTopic, error) {
	agenda, _, err := s.agenda(ctx, s.repos, ownerID)
	if err != nil {
		return nil, err
	}
	return agenda.OverdueAsOf(date), nil
}

// Today returns what is due on date's local day and what is already overdue.
func (s *AgendaService) Today(ctx context.Context, ownerID int64, date time.Time) (entities.TodaySummary, error) {
	agenda, _, err := s.agenda(ctx, s.repos, ownerID)
	if err != nil {
		return entities.TodaySummary{}, err
	}
	return agenda.Today(date), nil
}

// Planned lists study and revision entries between the local days of start and end, inclusive.
func (s *AgendaService) Planned(ctx context.Context, ownerID int64, start, end time.Time) ([]entities.PlannedItem, error) {
	agenda, _, err := s.agenda(ctx, s.repos, ownerID)
	if err != nil {
		return nil, err
	}

	from, to := entities.KeyOf(start, agenda.Location), entities.KeyOf(end, agenda.Location)
	if to.Before(from) {
		return nil, fmt.Errorf("%w: range end %s is before start %s", entities.ErrInvalidArgument, to, from)
	}
	return agenda.PlannedInRange(from, to), nil
}

// Calendar lays out one month with planned items and missed-day flags as of now.
func (s *AgendaService) Calendar(ctx context.Context, ownerID int64, year int, month time.Month) ([]entities.CalendarDay, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("%w: month must be within 1..12, got %d", entities.ErrInvalidArgument, month)
	}

	agenda, _, err := s.agenda(ctx, s.repos, ownerID)
	if err != nil {
		return nil, err
	}
	return agenda.Month(year, month, s.now()), nil
}

// MissedDates returns the local days before date's day that still hold a pending revision.
func (s *AgendaService) MissedDates(ctx context.Context, ownerID int64, date time.Time) ([]entities.DateKey, error) {
	agenda, _, err := s.agenda(ctx, s.repos, ownerID)
	if err != nil {
		return nil, err
	}
	return agenda.MissedDates(date), nil
}

// Location returns the owner's configured zone.
func (s *AgendaService) Location(ctx context.Context, ownerID int64) (*time.Location, error) {
	settings, err := s.settings(ctx, s.repos, ownerID)
	if err != nil {
		return nil, err
	}
	return settings.Location(), nil
}
