package entities

import (
	"fmt"
	"slices"
)

// IntervalTable holds, per difficulty, the ordered day offsets from the study date
// at which revisions are planned.
type IntervalTable struct {
	Easy   []int `json:"easy"`
	Medium []int `json:"medium"`
	Hard   []int `json:"hard"`
}

// DefaultIntervalTable returns the built-in cadence used when an owner has no settings.
func DefaultIntervalTable() IntervalTable {
	return IntervalTable{
		Easy:   []int{7, 21, 45, 90},
		Medium: []int{3, 7, 21, 45, 90},
		Hard:   []int{1, 3, 7, 21, 45},
	}
}

// For returns a copy of the offsets configured for d.
func (t IntervalTable) For(d Difficulty) []int {
	switch d {
	case DifficultyEasy:
		return slices.Clone(t.Easy)
	case DifficultyMedium:
		return slices.Clone(t.Medium)
	case DifficultyHard:
		return slices.Clone(t.Hard)
	default:
		return nil
	}
}

// Clone returns a deep copy.
func (t IntervalTable) Clone() IntervalTable {
	return IntervalTable{
		Easy:   slices.Clone(t.Easy),
		Medium: slices.Clone(t.Medium),
		Hard:   slices.Clone(t.Hard),
	}
}

// MaxIntervalDays bounds a single interval to roughly one hundred years.
const MaxIntervalDays = 36500

// Validate rejects empty lists and day counts outside 1..MaxIntervalDays.
func (t IntervalTable) Validate() error {
	for _, d := range Difficulties {
		days := t.For(d)
		if len(days) == 0 {
			return fmt.Errorf("%w: %s intervals must not be empty", ErrInvalidArgument, d)
		}
		for i, v := range days {
			if v <= 0 {
				return fmt.Errorf("%w: %s interval #%d must be positive, got %d", ErrInvalidArgument, d, i+1, v)
			}
			if v > MaxIntervalDays {
				return fmt.Errorf("%w: %s interval #%d must not exceed %d days, got %d", ErrInvalidArgument, d, i+1, MaxIntervalDays, v)
			}
		}
	}
	return nil
}
