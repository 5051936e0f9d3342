package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MainTopic groups related subtopics. Deleting it removes all of its subtopics.
type MainTopic struct {
	ID          uuid.UUID
	OwnerID     int64
	Title       string
	Description string
	CreatedAt   time.Time
}

// NewMainTopic validates input and builds a topic with a fresh id.
func NewMainTopic(ownerID int64, title, description string, now time.Time) (*MainTopic, error) {
	title, err := normalizeTitle(title)
	if err != nil {
		return nil, err
	}

	return &MainTopic{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       title,
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
	}, nil
}

// Rename updates title and description.
func (t *MainTopic) Rename(title, description string) error {
	title, err := normalizeTitle(title)
	if err != nil {
		return err
	}
	t.Title = title
	t.Description = strings.TrimSpace(description)
	return nil
}

// SubTopic is the unit that gets a revision schedule.
type SubTopic struct {
	ID                   uuid.UUID
	OwnerID              int64
	MainTopicID          uuid.UUID
	Title                string
	Description          string
	Difficulty           Difficulty
	StudyDate            time.Time // anchor of every planned revision date
	CurrentIntervalIndex int       // index of the next pending slot
	Completed            bool      // manual flag, independent of revision progress
	LastReviewedAt       *time.Time
	CreatedAt            time.Time
}

// SubTopicInput carries the editable fields of a subtopic.
type SubTopicInput struct {
	Title       string
	Description string
	Difficulty  Difficulty
	StudyDate   time.Time
}

func (in SubTopicInput) validate() (SubTopicInput, error) {
	title, err := normalizeTitle(in.Title)
	if err != nil {
		return in, err
	}
	if !in.Difficulty.Valid() {
		return in, fmt.Errorf("%w: unknown difficulty %q", ErrInvalidArgument, in.Difficulty)
	}
	if in.StudyDate.IsZero() {
		return in, fmt.Errorf("%w: study date is required", ErrInvalidArgument)
	}

	in.Title = title
	in.Description = strings.TrimSpace(in.Description)
	return in, nil
}

// NewSubTopic validates input and builds a subtopic under mainTopicID.
func NewSubTopic(ownerID int64, mainTopicID uuid.UUID, in SubTopicInput, now time.Time) (*SubTopic, error) {
	in, err := in.validate()
	if err != nil {
		return nil, err
	}

	return &SubTopic{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		MainTopicID: mainTopicID,
		Title:       in.Title,
		Description: in.Description,
		Difficulty:  in.Difficulty,
		StudyDate:   in.StudyDate,
		CreatedAt:   now,
	}, nil
}

// Update applies in and reports whether the schedule anchor (difficulty or study date) changed.
func (s *SubTopic) Update(in SubTopicInput) (bool, error) {
	in, err := in.validate()
	if err != nil {
		return false, err
	}

	anchorChanged := s.Difficulty != in.Difficulty || !s.StudyDate.Equal(in.StudyDate)

	s.Title = in.Title
	s.Description = in.Description
	s.Difficulty = in.Difficulty
	s.StudyDate = in.StudyDate
	if anchorChanged {
		s.CurrentIntervalIndex = 0
		s.LastReviewedAt = nil
	}

	return anchorChanged, nil
}

func normalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("%w: title must not be empty", ErrInvalidArgument)
	}
	return title, nil
}
