package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/aliskhannn/revision-tracker-bot/internal/domain/entities"
)

// DefaultReminderSchedule fires at the top of every hour.
const DefaultReminderSchedule = "0 * * * *"

const (
	reminderBatchSize     = 100
	reminderMaxConcurrent = 10
	upcomingDays          = 7
)

// ReminderService sends each owner a daily digest of due and overdue revisions.
// It only reads schedules.
type ReminderService struct {
	core
	cronSpec string
	notifier DigestNotifier
	logger   *zap.Logger
}

// NewReminderService creates a reminder service driven by the cron expression cronSpec.
func NewReminderService(repos Repositories, tr Transactor, cronSpec string, logger *zap.Logger, opts ...Option) *ReminderService {
	if cronSpec == "" {
		cronSpec = DefaultReminderSchedule
	}
	return &ReminderService{
		core:     newCore(repos, tr, opts),
		cronSpec: cronSpec,
		logger:   logger,
	}
}

// SetNotifier sets the notifier (called after the chat handler is created).
func (s *ReminderService) SetNotifier(notifier DigestNotifier) {
	s.notifier = notifier
}

// Start runs the cron loop until ctx is cancelled.
func (s *ReminderService) Start(ctx context.Context) error {
	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(s.cronSpec, func() {
		s.logger.Debug("cron triggered: processing digests")
		sent, err := s.SendDueDigests(ctx)
		if err != nil {
			s.logger.Error("failed to send digests", zap.Error(err))
			return
		}
		s.logger.Info("digests processed", zap.Int("sent", sent))
	})
	if err != nil {
		return fmt.Errorf("add cron job: %w", err)
	}

	c.Start()
	s.logger.Info("reminder service started", zap.String("schedule", s.cronSpec))

	<-ctx.Done()

	<-c.Stop().Done()
	s.logger.Info("reminder service stopped")
	return nil
}

// SendDueDigests walks every due reminder in owner order and returns how many digests went out.
func (s *ReminderService) SendDueDigests(ctx context.Context) (int, error) {
	if s.notifier == nil {
		return 0, errors.New("notifier not initialized")
	}

	now := s.now().UTC()
	var (
		after int64
		total int
	)
	for {
		targets, err := s.repos.Reminders.ListDue(ctx, now, after, reminderBatchSize)
		if err != nil {
			return total, fmt.Errorf("list due reminders: %w", err)
		}
		if len(targets) == 0 {
			break
		}

		total += s.processBatch(ctx, targets, now)
		after = targets[len(targets)-1].Reminder.OwnerID

		if len(targets) < reminderBatchSize {
			break
		}
	}
	return total, nil
}

// processBatch processes a batch of reminders concurrently.
func (s *ReminderService) processBatch(ctx context.Context, targets []*entities.ReminderTarget, now time.Time) int {
	sem := make(chan struct{}, reminderMaxConcurrent)
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		sent int
	)

	for _, target := range targets {
		wg.Add(1)
		sem <- struct{}{}

		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			ok, err := s.processReminder(ctx, target, now)
			if err != nil {
				s.logger.Error("failed to process reminder",
					zap.Int64("owner_id", target.Reminder.OwnerID),
					zap.Error(err))
				return
			}
			if ok {
				mu.Lock()
				sent++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	return sent
}

// processReminder sends one digest if it is due and plans the next one.
// Empty digests are not sent but still move the reminder to the next day.
func (s *ReminderService) processReminder(ctx context.Context, target *entities.ReminderTarget, now time.Time) (bool, error) {
	loc, err := entities.ParseTimezoneLocation(target.Timezone)
	if err != nil {
		loc = time.UTC
	}

	reminder := target.Reminder
	if !reminder.CanSendNow(loc, now) {
		return false, nil
	}

	payload, err := s.digest(ctx, s.repos, reminder.OwnerID, now)
	if err != nil {
		return false, fmt.Errorf("build digest: %w", err)
	}

	sent := false
	if !payload.IsEmpty() {
		if err := s.notifier.SendDigest(ctx, target.ChatID, payload, loc); err != nil {
			return false, fmt.Errorf("send digest: %w", err)
		}
		sent = true
	}

	reminder.MarkSent(loc, now)
	if err := s.repos.Reminders.MarkSent(ctx, reminder.OwnerID, reminder.Hour, now, *reminder.NextSendAt); err != nil {
		return sent, fmt.Errorf("update after send: %w", err)
	}

	s.logger.Debug("digest handled",
		zap.Int64("owner_id", reminder.OwnerID),
		zap.Bool("sent", sent),
		zap.Timep("next_send_at", reminder.NextSendAt),
	)
	return sent, nil
}

// Digest builds the digest an owner would receive now.
func (s *ReminderService) Digest(ctx context.Context, ownerID int64) (entities.DigestPayload, *time.Location, error) {
	settings, err := s.settings(ctx, s.repos, ownerID)
	if err != nil {
		return entities.DigestPayload{}, nil, err
	}

	payload, err := s.digest(ctx, s.repos, ownerID, s.now())
	if err != nil {
		return entities.DigestPayload{}, nil, err
	}
	return payload, settings.Location(), nil
}

func (s *ReminderService) digest(ctx context.Context, repos Repositories, ownerID int64, now time.Time) (entities.DigestPayload, error) {
	agenda, _, err := s.agenda(ctx, repos, ownerID)
	if err != nil {
		return entities.DigestPayload{}, err
	}

	today := entities.KeyOf(now, agenda.Location)
	upcoming := make([]entities.PlannedItem, 0)
	for _, item := range agenda.PlannedInRange(today.AddDays(1), today.AddDays(upcomingDays)) {
		if item.Kind == entities.KindRevision && !item.Completed {
			upcoming = append(upcoming, item)
		}
	}

	active := 0
	for _, item := range agenda.Items {
		if !item.SubTopic.Completed {
			active++
		}
	}

	return entities.DigestPayload{
		Summary:     agenda.Today(now),
		MissedDays:  len(agenda.MissedDates(now)),
		Upcoming:    upcoming,
		ActiveTotal: active,
	}, nil
}

// Get returns the owner's reminder, creating the default one on first use.
func (s *ReminderService) Get(ctx context.Context, ownerID int64) (*entities.DigestReminder, error) {
	var reminder *entities.DigestReminder
	err := s.tr.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		var err error
		reminder, err = getOrCreateReminder(ctx, repos, ownerID, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return reminder, nil
}

// SetEnabled turns the daily digest on or off.
func (s *ReminderService) SetEnabled(ctx context.Context, ownerID int64, enabled bool) (*entities.DigestReminder, error) {
	return s.update(ctx, ownerID, func(r *entities.DigestReminder) error {
		r.IsEnabled = enabled
		r.NextSendAt = nil
		return nil
	})
}

// SetHour enables the digest and moves it to the given local hour.
func (s *ReminderService) SetHour(ctx context.Context, ownerID int64, hour int) (*entities.DigestReminder, error) {
	return s.update(ctx, ownerID, func(r *entities.DigestReminder) error {
		if err := r.SetHour(hour); err != nil {
			return err
		}
		r.IsEnabled = true
		return nil
	})
}

func (s *ReminderService) update(ctx context.Context, ownerID int64, fn func(*entities.DigestReminder) error) (*entities.DigestReminder, error) {
	var reminder *entities.DigestReminder
	err := s.tr.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		now := s.now()

		var err error
		reminder, err = getOrCreateReminder(ctx, repos, ownerID, now)
		if err != nil {
			return err
		}
		if err := fn(reminder); err != nil {
			return err
		}
		reminder.UpdatedAt = now

		if err := repos.Reminders.Upsert(ctx, reminder); err != nil {
			return fmt.Errorf("upsert reminder: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("reminder updated",
		zap.Int64("owner_id", ownerID),
		zap.Bool("enabled", reminder.IsEnabled),
		zap.Int("hour", reminder.Hour),
	)
	return reminder, nil
}

func getOrCreateReminder(ctx context.Context, repos Repositories, ownerID int64, now time.Time) (*entities.DigestReminder, error) {
	reminder, err := repos.Reminders.Get(ctx, ownerID)
	if err == nil {
		return reminder, nil
	}
	if !errors.Is(err, entities.ErrNotFound) {
		return nil, fmt.Errorf("get reminder: %w", err)
	}

	reminder = entities.NewDigestReminder(ownerID, now)
	if err := repos.Reminders.Upsert(ctx, reminder); err != nil {
		return nil, fmt.Errorf("create default reminder: %w", err)
	}
	return reminder, nil
}
