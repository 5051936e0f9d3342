package handlers

import (
	"time"

	"github.com/google/uuid"

	"github.com/aliskhannn/revision-tracker-bot/internal/domain/entities"
	"github.com/aliskhannn/revision-tracker-bot/internal/service"
)

// Every timestamp on the wire is int64 nanoseconds since the Unix epoch.

type mainTopicDTO struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   int64     `json:"created_at"`
}

func toMainTopicDTO(t *entities.MainTopic) mainTopicDTO {
	return mainTopicDTO{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		CreatedAt:   t.CreatedAt.UnixNano(),
	}
}

type subTopicDTO struct {
	ID                   uuid.UUID `json:"id"`
	MainTopicID          uuid.UUID `json:"main_topic_id"`
	Title                string    `json:"title"`
	Description          string    `json:"description"`
	Difficulty           string    `json:"difficulty"`
	StudyDate            int64     `json:"study_date"`
	CurrentIntervalIndex int       `json:"current_interval_index"`
	Completed            bool      `json:"completed"`
	LastReviewedAt       *int64    `json:"last_reviewed_at"`
	CreatedAt            int64     `json:"created_at"`
}

func toSubTopicDTO(s *entities.SubTopic) subTopicDTO {
	dto := subTopicDTO{
		ID:                   s.ID,
		MainTopicID:          s.MainTopicID,
		Title:                s.Title,
		Description:          s.Description,
		Difficulty:           s.Difficulty.String(),
		StudyDate:            s.StudyDate.UnixNano(),
		CurrentIntervalIndex: s.CurrentIntervalIndex,
		Completed:            s.Completed,
		CreatedAt:            s.CreatedAt.UnixNano(),
	}
	if s.LastReviewedAt != nil {
		ns := s.LastReviewedAt.UnixNano()
		dto.LastReviewedAt = &ns
	}
	return dto
}

func toSubTopicDTOs(subs []*entities.SubTopic) []subTopicDTO {
	out := make([]subTopicDTO, 0, len(subs))
	for _, s := range subs {
		out = append(out, toSubTopicDTO(s))
	}
	return out
}

type topicNodeDTO struct {
	mainTopicDTO
	SubTopics []subTopicDTO `json:"sub_topics"`
}

type slotDTO struct {
	Number    int   `json:"number"`
	Date      int64 `json:"date"`
	Completed bool  `json:"completed"`
}

type scheduleDTO struct {
	SubTopicID     uuid.UUID `json:"sub_topic_id"`
	NextReview     int64     `json:"next_review"`
	ReviewCount    int       `json:"review_count"`
	ReviewStatuses []bool    `json:"review_statuses"`
	Slots          []slotDTO `json:"slots"`
	Completed      bool      `json:"completed"`
	UpdatedAt      int64     `json:"updated_at"`
}

type trackedDTO struct {
	SubTopic   subTopicDTO  `json:"sub_topic"`
	Schedule   *scheduleDTO `json:"schedule"`
	NextReview *int64       `json:"next_review"`
}

func toTrackedDTO(t entities.TrackedSubTopic) trackedDTO {
	dto := trackedDTO{SubTopic: toSubTopicDTO(t.SubTopic)}
	if next, ok := t.NextReview(); ok {
		ns := next.UnixNano()
		dto.NextReview = &ns
	}
	if t.Schedule == nil {
		return dto
	}

	slots := t.Slots()
	sd := &scheduleDTO{
		SubTopicID:     t.Schedule.SubTopicID,
		NextReview:     t.Schedule.NextReview.UnixNano(),
		ReviewCount:    t.Schedule.ReviewCount,
		ReviewStatuses: append([]bool(nil), t.Schedule.ReviewStatuses...),
		Slots:          make([]slotDTO, 0, len(slots)),
		Completed:      t.Schedule.IsComplete(),
		UpdatedAt:      t.Schedule.UpdatedAt.UnixNano(),
	}
	for _, s := range slots {
		sd.Slots = append(sd.Slots, slotDTO{Number: s.Number, Date: s.Date.UnixNano(), Completed: s.Completed})
	}
	dto.Schedule = sd
	return dto
}

func toTrackedDTOs(items []entities.TrackedSubTopic) []trackedDTO {
	out := make([]trackedDTO, 0, len(items))
	for _, t := range items {
		out = append(out, toTrackedDTO(t))
	}
	return out
}

type plannedDatesDTO struct {
	SubTopicID uuid.UUID `json:"sub_topic_id"`
	Difficulty string    `json:"difficulty"`
	Dates      []int64   `json:"dates"`
}

func toPlannedDatesDTO(p service.PlannedDates) plannedDatesDTO {
	return plannedDatesDTO{
		SubTopicID: p.SubTopicID,
		Difficulty: p.Difficulty.String(),
		Dates:      unixNanos(p.Dates),
	}
}

type plannedItemDTO struct {
	SubTopicID     uuid.UUID `json:"sub_topic_id"`
	MainTopicID    uuid.UUID `json:"main_topic_id"`
	Title          string    `json:"title"`
	Difficulty     string    `json:"difficulty"`
	Kind           string    `json:"kind"`
	Date           int64     `json:"date"`
	DateKey        string    `json:"date_key"`
	RevisionNumber int       `json:"revision_number,omitempty"`
	Completed      bool      `json:"completed"`
}

func toPlannedItemDTOs(items []entities.PlannedItem) []plannedItemDTO {
	out := make([]plannedItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, plannedItemDTO{
			SubTopicID:     it.SubTopicID,
			MainTopicID:    it.MainTopicID,
			Title:          it.Title,
			Difficulty:     it.Difficulty.String(),
			Kind:           string(it.Kind),
			Date:           it.Date.UnixNano(),
			DateKey:        it.Key.String(),
			RevisionNumber: it.RevisionNumber,
			Completed:      it.Completed,
		})
	}
	return out
}

type calendarDayDTO struct {
	DateKey string           `json:"date_key"`
	Items   []plannedItemDTO `json:"items"`
	Missed  bool             `json:"missed"`
}

type settingsDTO struct {
	Intervals           entities.IntervalTable `json:"intervals"`
	PreferredReviewDays []int                  `json:"preferred_review_days"`
	Timezone            string                 `json:"timezone"`
	UpdatedAt           int64                  `json:"updated_at"`
}

func toSettingsDTO(s *entities.UserSettings) settingsDTO {
	days := make([]int, 0, len(s.PreferredReviewDays))
	for _, d := range s.PreferredReviewDays {
		days = append(days, int(d))
	}
	return settingsDTO{
		Intervals:           s.Intervals.Clone(),
		PreferredReviewDays: days,
		Timezone:            s.Timezone,
		UpdatedAt:           s.UpdatedAt.UnixNano(),
	}
}

func unixNanos(ts []time.Time) []int64 {
	out := make([]int64, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.UnixNano())
	}
	return out
}
