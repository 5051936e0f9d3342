package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/aliskhannn/revision-tracker-bot/internal/domain/entities"
)

// TopicNode is a main topic with its subtopics.
type TopicNode struct {
	Topic     *entities.MainTopic
	SubTopics []*entities.SubTopic
}

// TopicService manages the topic hierarchy and keeps each subtopic's schedule in step with it.
type TopicService struct {
	core
}

func NewTopicService(repos Repositories, tr Transactor, opts ...Option) *TopicService {
	return &TopicService{core: newCore(repos, tr, opts)}
}

func (s *TopicService) CreateMainTopic(ctx context.Context, ownerID int64, title, description string) (*entities.MainTopic, error) {
	topic, err := entities.NewMainTopic(ownerID, title, description, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.repos.Topics.Create(ctx, topic); err != nil {
		return nil, fmt.Errorf("create topic: %w", err)
	}
	return topic, nil
}

func (s *TopicService) UpdateMainTopic(ctx context.Context, ownerID int64, id uuid.UUID, title, description string) (*entities.MainTopic, error) {
	var topic *entities.MainTopic
	err := s.tr.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		var err error
		topic, err = repos.Topics.Get(ctx, ownerID, id)
		if err != nil {
			return fmt.Errorf("get topic: %w", err)
		}
		if err := topic.Rename(title, description); err != nil {
			return err
		}
		if err := repos.Topics.Update(ctx, topic); err != nil {
			return fmt.Errorf("update topic: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return topic, nil
}

// DeleteMainTopic removes the topic together with its subtopics and their schedules.
func (s *TopicService) DeleteMainTopic(ctx context.Context, ownerID int64, id uuid.UUID) error {
	return s.tr.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		if _, err := repos.Topics.Get(ctx, ownerID, id); err != nil {
			return fmt.Errorf("get topic: %w", err)
		}

		subs, err := repos.SubTopics.ListByMainTopic(ctx, ownerID, id)
		if err != nil {
			return fmt.Errorf("list subtopics: %w", err)
		}
		for _, sub := range subs {
			if err := deleteSubTopic(ctx, repos, ownerID, sub.ID); err != nil {
				return err
			}
		}

		if err := repos.Topics.Delete(ctx, ownerID, id); err != nil {
			return fmt.Errorf("delete topic: %w", err)
		}
		return nil
	})
}

func (s *TopicService) ListMainTopics(ctx context.Context, ownerID int64) ([]*entities.MainTopic, error) {
	topics, err := s.repos.Topics.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	sortTopics(topics)
	return topics, nil
}

// Hierarchy returns every main topic with its subtopics, ordered by creation time.
func (s *TopicService) Hierarchy(ctx context.Context, ownerID int64) ([]TopicNode, error) {
	topics, err := s.ListMainTopics(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	subs, err := s.ListSubTopics(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	byTopic := make(map[uuid.UUID][]*entities.SubTopic, len(topics))
	for _, sub := range subs {
		byTopic[sub.MainTopicID] = append(byTopic[sub.MainTopicID], sub)
	}

	nodes := make([]TopicNode, 0, len(topics))
	for _, t := range topics {
		nodes = append(nodes, TopicNode{Topic: t, SubTopics: byTopic[t.ID]})
	}
	return nodes, nil
}

// CreateSubTopic stores a subtopic under mainTopicID and initializes its schedule with every
// revision pending.
func (s *TopicService) CreateSubTopic(
	ctx context.Context,
	ownerID int64,
	mainTopicID uuid.UUID,
	in entities.SubTopicInput,
) (*entities.SubTopic, error) {
	var sub *entities.SubTopic
	err := s.tr.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		if _, err := repos.Topics.Get(ctx, ownerID, mainTopicID); err != nil {
			return fmt.Errorf("get topic: %w", err)
		}

		var err error
		sub, err = entities.NewSubTopic(ownerID, mainTopicID, in, s.now())
		if err != nil {
			return err
		}

		settings, err := s.settings(ctx, repos, ownerID)
		if err != nil {
			return err
		}
		base := entities.PlanRevisions(sub.StudyDate, sub.Difficulty, settings.Intervals, settings.Location())

		if err := repos.SubTopics.Create(ctx, sub); err != nil {
			return fmt.Errorf("create subtopic: %w", err)
		}

		sched := entities.NewRevisionSchedule(ownerID, sub.ID, base)
		sched.UpdatedAt = s.now()
		if err := repos.Schedules.Upsert(ctx, sched); err != nil {
			return fmt.Errorf("create schedule: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// UpdateSubTopic edits a subtopic. Changing difficulty or study date resets the schedule.
func (s *TopicService) UpdateSubTopic(
	ctx context.Context,
	ownerID int64,
	id uuid.UUID,
	in entities.SubTopicInput,
) (*entities.SubTopic, error) {
	var sub *entities.SubTopic
	err := s.tr.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		var err error
		sub, err = repos.SubTopics.Get(ctx, ownerID, id)
		if err != nil {
			return fmt.Errorf("get subtopic: %w", err)
		}

		anchorChanged, err := sub.Update(in)
		if err != nil {
			return err
		}

		if anchorChanged {
			settings, err := s.settings(ctx, repos, ownerID)
			if err != nil {
				return err
			}
			base := entities.PlanRevisions(sub.StudyDate, sub.Difficulty, settings.Intervals, settings.Location())

			sched := entities.NewRevisionSchedule(ownerID, sub.ID, base)
			sched.UpdatedAt = s.now()
			if err := repos.Schedules.Upsert(ctx, sched); err != nil {
				return fmt.Errorf("reset schedule: %w", err)
			}
		}

		if err := repos.SubTopics.Update(ctx, sub); err != nil {
			return fmt.Errorf("update subtopic: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// DeleteSubTopic removes a subtopic and its schedule.
func (s *TopicService) DeleteSubTopic(ctx context.Context, ownerID int64, id uuid.UUID) error {
	return s.tr.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		if _, err := repos.SubTopics.Get(ctx, ownerID, id); err != nil {
			return fmt.Errorf("get subtopic: %w", err)
		}
		return deleteSubTopic(ctx, repos, ownerID, id)
	})
}

func deleteSubTopic(ctx context.Context, repos Repositories, ownerID int64, id uuid.UUID) error {
	if err := repos.Schedules.Delete(ctx, ownerID, id); err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	if err := repos.SubTopics.Delete(ctx, ownerID, id); err != nil {
		return fmt.Errorf("delete subtopic: %w", err)
	}
	return nil
}

func (s *TopicService) GetSubTopic(ctx context.Context, ownerID int64, id uuid.UUID) (*entities.SubTopic, error) {
	sub, err := s.repos.SubTopics.Get(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("get subtopic: %w", err)
	}
	return sub, nil
}

func (s *TopicService) ListSubTopics(ctx context.Context, ownerID int64) ([]*entities.SubTopic, error) {
	subs, err := s.repos.SubTopics.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list subtopics: %w", err)
	}
	sortSubTopics(subs)
	return subs, nil
}

func (s *TopicService) ListSubTopicsByMainTopic(ctx context.Context, ownerID int64, mainTopicID uuid.UUID) ([]*entities.SubTopic, error) {
	if _, err := s.repos.Topics.Get(ctx, ownerID, mainTopicID); err != nil {
		return nil, fmt.Errorf("get topic: %w", err)
	}

	subs, err := s.repos.SubTopics.ListByMainTopic(ctx, ownerID, mainTopicID)
	if err != nil {
		return nil, fmt.Errorf("list subtopics: %w", err)
	}
	sortSubTopics(subs)
	return subs, nil
}

// SetSubTopicCompleted sets the manual completion flag. Revision progress is not touched.
func (s *TopicService) SetSubTopicCompleted(ctx context.Context, ownerID int64, id uuid.UUID, completed bool) error {
	return s.tr.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		sub, err := repos.SubTopics.Get(ctx, ownerID, id)
		if err != nil {
			return fmt.Errorf("get subtopic: %w", err)
		}
		if sub.Completed == completed {
			return nil
		}

		sub.Completed = completed
		if err := repos.SubTopics.Update(ctx, sub); err != nil {
			return fmt.Errorf("update subtopic: %w", err)
		}
		return nil
	})
}

func sortTopics(topics []*entities.MainTopic) {
	slices.SortStableFunc(topics, func(a, b *entities.MainTopic) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Title, b.Title)
	})
}

func sortSubTopics(subs []*entities.SubTopic) {
	slices.SortStableFunc(subs, func(a, b *entities.SubTopic) int {
		if c := a.StudyDate.Compare(b.StudyDate); c != 0 {
			return c
		}
		return strings.Compare(a.Title, b.Title)
	})
}
