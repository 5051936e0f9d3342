package service

import (
	"context"
	"fmt"

	"github.com/aliskhannn/revision-tracker-bot/internal/domain/entities"
)

// ResetService wipes an owner's revision progress.
type ResetService struct {
	core
}

func NewResetService(repos Repositories, tr Transactor, opts ...Option) *ResetService {
	return &ResetService{core: newCore(repos, tr, opts)}
}

// ResetProgress returns every revision of every subtopic to pending and drops reschedule
// shifts. Topics, settings and the manual completion flag are kept.
func (s *ResetService) ResetProgress(ctx context.Context, ownerID int64) error {
	return s.tr.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		settings, err := s.settings(ctx, repos, ownerID)
		if err != nil {
			return err
		}
		loc := settings.Location()
		now := s.now()

		subs, err := repos.SubTopics.List(ctx, ownerID)
		if err != nil {
			return fmt.Errorf("list subtopics: %w", err)
		}

		for _, sub := range subs {
			base := entities.PlanRevisions(sub.StudyDate, sub.Difficulty, settings.Intervals, loc)

			sched := entities.NewRevisionSchedule(ownerID, sub.ID, base)
			sched.UpdatedAt = now
			if err := repos.Schedules.Upsert(ctx, sched); err != nil {
				return fmt.Errorf("reset schedule: %w", err)
			}

			sub.CurrentIntervalIndex = 0
			sub.LastReviewedAt = nil
			if err := repos.SubTopics.Update(ctx, sub); err != nil {
				return fmt.Errorf("update subtopic: %w", err)
			}
		}
		return nil
	})
}
