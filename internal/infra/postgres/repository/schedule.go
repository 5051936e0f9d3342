package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/aliskhannn/revision-tracker-bot/internal/domain/entities"
	"github.com/aliskhannn/revision-tracker-bot/internal/infra/postgres"
)

// ScheduleRepository provides access to revision schedules in the database.
// next_review is stored as epoch nanoseconds so the all-done sentinel survives a round trip.
type ScheduleRepository struct {
	db postgres.DBTX
}

func NewScheduleRepository(db postgres.DBTX) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

type scheduleRow struct {
	subOwner    int64
	ownerID     pgtype.Int8
	subTopicID  uuid.UUID
	nextReview  pgtype.Int8
	reviewCount pgtype.Int4
	statuses    []bool
	shifts      []int32
	updatedAt   pgtype.Timestamptz
}

func (row scheduleRow) schedule() *entities.RevisionSchedule {
	shifts := make([]int, len(row.shifts))
	for i, v := range row.shifts {
		shifts[i] = int(v)
	}

	return &entities.RevisionSchedule{
		OwnerID:        row.ownerID.Int64,
		SubTopicID:     row.subTopicID,
		NextReview:     time.Unix(0, row.nextReview.Int64).UTC(),
		ReviewCount:    int(row.reviewCount.Int32),
		ReviewStatuses: row.statuses,
		SlotShifts:     shifts,
		UpdatedAt:      row.updatedAt.Time,
	}
}

func (r *ScheduleRepository) Get(ctx context.Context, ownerID int64, subTopicID uuid.UUID) (*entities.RevisionSchedule, error) {
	return r.get(ctx, ownerID, subTopicID, "")
}

// GetForUpdate locks the subtopic row, which serializes concurrent schedule mutations.
func (r *ScheduleRepository) GetForUpdate(ctx context.Context, ownerID int64, subTopicID uuid.UUID) (*entities.RevisionSchedule, error) {
	return r.get(ctx, ownerID, subTopicID, "FOR UPDATE OF s")
}

func (r *ScheduleRepository) get(ctx context.Context, ownerID int64, subTopicID uuid.UUID, lock string) (*entities.RevisionSchedule, error) {
	query := `
		SELECT s.owner_id, rs.owner_id, s.id, rs.next_review_ns, rs.review_count,
		       rs.review_statuses, rs.slot_shifts, rs.updated_at
		FROM sub_topics s
		LEFT JOIN revision_schedules rs ON rs.sub_topic_id = s.id
		WHERE s.id = $1
	` + lock

	var row scheduleRow
	err := r.db.QueryRow(ctx, query, subTopicID).Scan(
		&row.subOwner,
		&row.ownerID,
		&row.subTopicID,
		&row.nextReview,
		&row.reviewCount,
		&row.statuses,
		&row.shifts,
		&row.updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("subtopic", subTopicID)
		}
		return nil, fmt.Errorf("select schedule: %w", err)
	}

	if err := checkOwner(row.subOwner, ownerID, "subtopic", subTopicID); err != nil {
		return nil, err
	}
	if !row.ownerID.Valid {
		return nil, notFound("schedule of subtopic", subTopicID)
	}
	return row.schedule(), nil
}

func (r *ScheduleRepository) List(ctx context.Context, ownerID int64) ([]*entities.RevisionSchedule, error) {
	query := `
		SELECT owner_id, owner_id, sub_topic_id, next_review_ns, review_count,
		       review_statuses, slot_shifts, updated_at
		FROM revision_schedules
		WHERE owner_id = $1
	`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("select schedules: %w", err)
	}
	defer rows.Close()

	schedules := make([]*entities.RevisionSchedule, 0)
	for rows.Next() {
		var row scheduleRow
		if err := rows.Scan(
			&row.subOwner,
			&row.ownerID,
			&row.subTopicID,
			&row.nextReview,
			&row.reviewCount,
			&row.statuses,
			&row.shifts,
			&row.updatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		schedules = append(schedules, row.schedule())
	}

	return schedules, rows.Err()
}

// Upsert writes the schedule; the subtopic must exist and belong to the schedule's owner.
func (r *ScheduleRepository) Upsert(ctx context.Context, schedule *entities.RevisionSchedule) error {
	shifts, err := toInt32s(schedule.SlotShifts)
	if err != nil {
		return fmt.Errorf("upsert schedule: %w", err)
	}

	query := `
		INSERT INTO revision_schedules (
			sub_topic_id, owner_id, next_review_ns, review_count,
			review_statuses, slot_shifts, updated_at
		)
		SELECT s.id, s.owner_id, $3, $4, $5, $6, $7
		FROM sub_topics s
		WHERE s.id = $1 AND s.owner_id = $2
		ON CONFLICT (sub_topic_id) DO UPDATE SET
			next_review_ns = EXCLUDED.next_review_ns,
			review_count = EXCLUDED.review_count,
			review_statuses = EXCLUDED.review_statuses,
			slot_shifts = EXCLUDED.slot_shifts,
			updated_at = EXCLUDED.updated_at
	`

	tag, err := r.db.Exec(ctx, query,
		schedule.SubTopicID,
		schedule.OwnerID,
		schedule.NextReview.UnixNano(),
		schedule.ReviewCount,
		schedule.ReviewStatuses,
		shifts,
		schedule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return explainMissing(ctx, r.db, "sub_topics", "subtopic", schedule.OwnerID, schedule.SubTopicID)
	}
	return nil
}

func (r *ScheduleRepository) Delete(ctx context.Context, ownerID int64, subTopicID uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		"DELETE FROM revision_schedules WHERE sub_topic_id = $1 AND owner_id = $2",
		subTopicID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Nothing to delete is fine as long as the subtopic is the caller's.
		if err := explainMissing(ctx, r.db, "sub_topics", "subtopic", ownerID, subTopicID); err != nil && !errors.Is(err, entities.ErrNotFound) {
			return err
		}
	}
	return nil
}
