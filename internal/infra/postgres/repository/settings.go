package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/revision-tracker-bot/internal/domain/entities"
	"github.com/aliskhannn/revision-tracker-bot/internal/infra/postgres"
)

// SettingsRepository provides access to user settings data in the database.
type SettingsRepository struct {
	db postgres.DBTX
}

// NewSettingsRepository creates a new SettingsRepository on db.
func NewSettingsRepository(db postgres.DBTX) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get retrieves settings for an owner.
func (r *SettingsRepository) Get(ctx context.Context, ownerID int64) (*entities.UserSettings, error) {
	query := `
		SELECT owner_id, easy_intervals, medium_intervals, hard_intervals,
		       preferred_review_days, timezone, created_at, updated_at
		FROM user_settings
		WHERE owner_id = $1
	`

	var (
		settings           entities.UserSettings
		easy, medium, hard []int32
		preferred          []int16
	)
	err := r.db.QueryRow(ctx, query, ownerID).Scan(
		&settings.OwnerID,
		&easy,
		&medium,
		&hard,
		&preferred,
		&settings.Timezone,
		&settings.CreatedAt,
		&settings.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("settings of owner", ownerID)
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}

	settings.Intervals = entities.IntervalTable{
		Easy:   toInts(easy),
		Medium: toInts(medium),
		Hard:   toInts(hard),
	}
	settings.PreferredReviewDays = make([]time.Weekday, len(preferred))
	for i, d := range preferred {
		settings.PreferredReviewDays[i] = time.Weekday(d)
	}

	return &settings, nil
}

// Upsert creates or replaces an owner's settings.
func (r *SettingsRepository) Upsert(ctx context.Context, settings *entities.UserSettings) error {
	preferred := make([]int16, len(settings.PreferredReviewDays))
	for i, d := range settings.PreferredReviewDays {
		preferred[i] = int16(d)
	}

	var intervals [3][]int32
	for i, days := range [][]int{settings.Intervals.Easy, settings.Intervals.Medium, settings.Intervals.Hard} {
		converted, err := toInt32s(days)
		if err != nil {
			return fmt.Errorf("upsert settings: %w", err)
		}
		intervals[i] = converted
	}

	query := `
		INSERT INTO user_settings (
			owner_id, easy_intervals, medium_intervals, hard_intervals,
			preferred_review_days, timezone, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (owner_id) DO UPDATE SET
			easy_intervals = EXCLUDED.easy_intervals,
			medium_intervals = EXCLUDED.medium_intervals,
			hard_intervals = EXCLUDED.hard_intervals,
			preferred_review_days = EXCLUDED.preferred_review_days,
			timezone = EXCLUDED.timezone,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.Exec(ctx, query,
		settings.OwnerID,
		intervals[0],
		intervals[1],
		intervals[2],
		preferred,
		settings.Timezone,
		settings.CreatedAt,
		settings.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}

func toInts(in []int32) []int {
	out := make([]int, len(in))
	for i, v := range in {
		out[i] = int(v)
	}
	return out
}

// toInt32s narrows day counts for INTEGER[] columns, refusing values that do not fit.
func toInt32s(in []int) ([]int32, error) {
	out := make([]int32, len(in))
	for i, v := range in {
		if v < math.MinInt32 || v > math.MaxInt32 {
			return nil, fmt.Errorf("%w: day count %d is out of range", entities.ErrInvalidArgument, v)
		}
		out[i] = int32(v)
	}
	return out, nil
}
