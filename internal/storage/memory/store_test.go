package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aliskhannn/revision-tracker-bot/internal/domain/entities"
	"github.com/aliskhannn/revision-tracker-bot/internal/service"
)

func seedTopic(t *testing.T, s *Store, ownerID int64) *entities.MainTopic {
	t.Helper()
	topic, err := entities.NewMainTopic(ownerID, "Algebra", "", time.Now())
	if err != nil {
		t.Fatalf("NewMainTopic: %v", err)
	}
	if err := s.Repositories().Topics.Create(context.Background(), topic); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return topic
}

func TestOwnerIsolation(t *testing.T) {
	s := New()
	ctx := context.Background()
	topic := seedTopic(t, s, 1)

	if _, err := s.Repositories().Topics.Get(ctx, 2, topic.ID); !errors.Is(err, entities.ErrUnauthorized) {
		t.Fatalf("foreign Get err = %v, want ErrUnauthorized", err)
	}
	if err := s.Repositories().Topics.Delete(ctx, 2, topic.ID); !errors.Is(err, entities.ErrUnauthorized) {
		t.Fatalf("foreign Delete err = %v, want ErrUnauthorized", err)
	}

	list, err := s.Repositories().Topics.List(ctx, 2)
	if err != nil || len(list) != 0 {
		t.Fatalf("owner 2 sees %d topics, err %v", len(list), err)
	}
}

func TestGetReturnsCopies(t *testing.T) {
	s := New()
	ctx := context.Background()
	topic := seedTopic(t, s, 1)

	got, _ := s.Repositories().Topics.Get(ctx, 1, topic.ID)
	got.Title = "changed"

	again, _ := s.Repositories().Topics.Get(ctx, 1, topic.ID)
	if again.Title != "Algebra" {
		t.Fatalf("stored entity was mutated through a returned pointer")
	}
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	s := New()
	ctx := context.Background()
	topic := seedTopic(t, s, 1)
	boom := errors.New("boom")

	err := s.WithinTx(ctx, func(ctx context.Context, repos service.Repositories) error {
		if err := repos.Topics.Delete(ctx, 1, topic.ID); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithinTx err = %v", err)
	}

	if _, err := s.Repositories().Topics.Get(ctx, 1, topic.ID); err != nil {
		t.Fatalf("topic lost after rollback: %v", err)
	}
}

func TestWithinTxCommits(t *testing.T) {
	s := New()
	ctx := context.Background()
	topic := seedTopic(t, s, 1)

	err := s.WithinTx(ctx, func(ctx context.Context, repos service.Repositories) error {
		return repos.Topics.Delete(ctx, 1, topic.ID)
	})
	if err != nil {
		t.Fatalf("WithinTx: %v", err)
	}

	if _, err := s.Repositories().Topics.Get(ctx, 1, topic.ID); !errors.Is(err, entities.ErrNotFound) {
		t.Fatalf("Get after delete err = %v, want ErrNotFound", err)
	}
}

func TestScheduleRequiresSubTopic(t *testing.T) {
	s := New()
	ctx := context.Background()
	topic := seedTopic(t, s, 1)

	sub, _ := entities.NewSubTopic(1, topic.ID, entities.SubTopicInput{
		Title:      "Groups",
		Difficulty: entities.DifficultyHard,
		StudyDate:  time.Now(),
	}, time.Now())

	sched := entities.NewRevisionSchedule(1, sub.ID, nil)
	if err := s.Repositories().Schedules.Upsert(ctx, sched); !errors.Is(err, entities.ErrNotFound) {
		t.Fatalf("Upsert without subtopic err = %v, want ErrNotFound", err)
	}

	if err := s.Repositories().SubTopics.Create(ctx, sub); err != nil {
		t.Fatalf("Create subtopic: %v", err)
	}
	if err := s.Repositories().Schedules.Upsert(ctx, sched); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
}

func TestListDue(t *testing.T) {
	s := New()
	ctx := context.Background()
	repos := s.Repositories()
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	later := now.Add(time.Hour)

	for _, id := range []int64{30, 10, 20, 40} {
		_ = repos.Users.Save(ctx, entities.NewUser(id, id*100, "", now))
		_ = repos.Reminders.Upsert(ctx, entities.NewDigestReminder(id, now))
	}

	disabled := entities.NewDigestReminder(40, now)
	disabled.IsEnabled = false
	_ = repos.Reminders.Upsert(ctx, disabled)

	notYet := entities.NewDigestReminder(20, now)
	notYet.NextSendAt = &later
	_ = repos.Reminders.Upsert(ctx, notYet)

	got, err := repos.Reminders.ListDue(ctx, now, 0, 10)
	if err != nil {
		t.Fatalf("ListDue: %v", err)
	}
	if len(got) != 2 || got[0].Reminder.OwnerID != 10 || got[1].Reminder.OwnerID != 30 {
		t.Fatalf("unexpected due reminders: %+v", got)
	}
	if got[0].ChatID != 1000 || got[0].Timezone != entities.DefaultTimezone {
		t.Fatalf("target not joined: %+v", got[0])
	}

	page, _ := repos.Reminders.ListDue(ctx, now, 10, 10)
	if len(page) != 1 || page[0].Reminder.OwnerID != 30 {
		t.Fatalf("keyset page: %+v", page)
	}
}
