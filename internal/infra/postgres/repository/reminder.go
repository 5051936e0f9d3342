package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/aliskhannn/revision-tracker-bot/internal/domain/entities"
	"github.com/aliskhannn/revision-tracker-bot/internal/infra/postgres"
)

// ReminderRepository provides access to digest reminders in the database.
type ReminderRepository struct {
	db postgres.DBTX
}

// NewReminderRepository creates a new ReminderRepository on db.
func NewReminderRepository(db postgres.DBTX) *ReminderRepository {
	return &ReminderRepository{db: db}
}

func setNullableTimes(rem *entities.DigestReminder, lastSent, nextSend pgtype.Timestamptz) {
	if lastSent.Valid {
		t := lastSent.Time
		rem.LastSentAt = &t
	}
	if nextSend.Valid {
		t := nextSend.Time
		rem.NextSendAt = &t
	}
}

// Get retrieves the reminder of an owner.
func (r *ReminderRepository) Get(ctx context.Context, ownerID int64) (*entities.DigestReminder, error) {
	query := `
		SELECT owner_id, is_enabled, hour, last_sent_at, next_send_at, created_at, updated_at
		FROM digest_reminders
		WHERE owner_id = $1
	`

	var (
		rem      entities.DigestReminder
		lastSent pgtype.Timestamptz
		nextSend pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, query, ownerID).Scan(
		&rem.OwnerID,
		&rem.IsEnabled,
		&rem.Hour,
		&lastSent,
		&nextSend,
		&rem.CreatedAt,
		&rem.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("reminder of owner", ownerID)
		}
		return nil, fmt.Errorf("get reminder: %w", err)
	}

	setNullableTimes(&rem, lastSent, nextSend)
	return &rem, nil
}

// Upsert creates or updates a reminder.
func (r *ReminderRepository) Upsert(ctx context.Context, rem *entities.DigestReminder) error {
	query := `
		INSERT INTO digest_reminders (
			owner_id, is_enabled, hour, last_sent_at, next_send_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (owner_id) DO UPDATE SET
			is_enabled = EXCLUDED.is_enabled,
			hour = EXCLUDED.hour,
			last_sent_at = EXCLUDED.last_sent_at,
			next_send_at = EXCLUDED.next_send_at,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.Exec(ctx, query,
		rem.OwnerID,
		rem.IsEnabled,
		rem.Hour,
		rem.LastSentAt,
		rem.NextSendAt,
		rem.CreatedAt,
		rem.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert reminder: %w", err)
	}
	return nil
}

// MarkSent updates the send-tracking columns of a reminder that is still enabled at hour.
func (r *ReminderRepository) MarkSent(ctx context.Context, ownerID int64, hour int, sentAt, nextSendAt time.Time) error {
	query := `
		UPDATE digest_reminders
		SET last_sent_at = $2,
			next_send_at = $3,
			updated_at = $2
		WHERE owner_id = $1
			AND is_enabled = true
			AND hour = $4
	`

	if _, err := r.db.Exec(ctx, query, ownerID, sentAt, nextSendAt, hour); err != nil {
		return fmt.Errorf("mark reminder sent: %w", err)
	}
	return nil
}

// ListDue retrieves enabled reminders of active users that are due at now, one keyset page at a time.
func (r *ReminderRepository) ListDue(ctx context.Context, now time.Time, afterOwnerID int64, limit int) ([]*entities.ReminderTarget, error) {
	query := `
		SELECT
			dr.owner_id,
			dr.is_enabled,
			dr.hour,
			dr.last_sent_at,
			dr.next_send_at,
			dr.created_at,
			dr.updated_at,
			u.chat_id,
			COALESCE(us.timezone, 'UTC') AS timezone
		FROM digest_reminders dr
		INNER JOIN users u ON dr.owner_id = u.id
		LEFT JOIN user_settings us ON dr.owner_id = us.owner_id
		WHERE dr.is_enabled = true
			AND u.is_active = true
			AND (dr.next_send_at IS NULL OR dr.next_send_at <= $1)
			AND dr.owner_id > $2
		ORDER BY dr.owner_id
		LIMIT $3
	`

	rows, err := r.db.Query(ctx, query, now, afterOwnerID, limit)
	if err != nil {
		return nil, fmt.Errorf("get due reminders: %w", err)
	}
	defer rows.Close()

	targets := make([]*entities.ReminderTarget, 0)
	for rows.Next() {
		var (
			target   entities.ReminderTarget
			lastSent pgtype.Timestamptz
			nextSend pgtype.Timestamptz
		)
		if err := rows.Scan(
			&target.Reminder.OwnerID,
			&target.Reminder.IsEnabled,
			&target.Reminder.Hour,
			&lastSent,
			&nextSend,
			&target.Reminder.CreatedAt,
			&target.Reminder.UpdatedAt,
			&target.ChatID,
			&target.Timezone,
		); err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}

		setNullableTimes(&target.Reminder, lastSent, nextSend)
		targets = append(targets, &target)
	}

	return targets, rows.Err()
}
