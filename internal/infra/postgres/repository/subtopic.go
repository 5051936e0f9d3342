package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/aliskhannn/revision-tracker-bot/internal/domain/entities"
	"github.com/aliskhannn/revision-tracker-bot/internal/infra/postgres"
)

const subTopicColumns = `
	id, owner_id, main_topic_id, title, description, difficulty,
	study_date, current_interval_index, completed, last_reviewed_at, created_at
`

// SubTopicRepository provides access to subtopics in the database.
type SubTopicRepository struct {
	db postgres.DBTX
}

func NewSubTopicRepository(db postgres.DBTX) *SubTopicRepository {
	return &SubTopicRepository{db: db}
}

func scanSubTopic(row pgx.Row) (*entities.SubTopic, error) {
	var (
		s            entities.SubTopic
		difficulty   string
		lastReviewed pgtype.Timestamptz
	)

	err := row.Scan(
		&s.ID,
		&s.OwnerID,
		&s.MainTopicID,
		&s.Title,
		&s.Description,
		&difficulty,
		&s.StudyDate,
		&s.CurrentIntervalIndex,
		&s.Completed,
		&lastReviewed,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Difficulty = entities.Difficulty(difficulty)
	if lastReviewed.Valid {
		t := lastReviewed.Time
		s.LastReviewedAt = &t
	}
	return &s, nil
}

func (r *SubTopicRepository) Create(ctx context.Context, sub *entities.SubTopic) error {
	query := `INSERT INTO sub_topics (` + subTopicColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(ctx, query,
		sub.ID,
		sub.OwnerID,
		sub.MainTopicID,
		sub.Title,
		sub.Description,
		string(sub.Difficulty),
		sub.StudyDate,
		sub.CurrentIntervalIndex,
		sub.Completed,
		sub.LastReviewedAt,
		sub.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert subtopic: %w", err)
	}
	return nil
}

func (r *SubTopicRepository) Get(ctx context.Context, ownerID int64, id uuid.UUID) (*entities.SubTopic, error) {
	query := `SELECT ` + subTopicColumns + ` FROM sub_topics WHERE id = $1`

	sub, err := scanSubTopic(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("subtopic", id)
		}
		return nil, fmt.Errorf("select subtopic: %w", err)
	}

	if err := checkOwner(sub.OwnerID, ownerID, "subtopic", id); err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *SubTopicRepository) List(ctx context.Context, ownerID int64) ([]*entities.SubTopic, error) {
	query := `SELECT ` + subTopicColumns + ` FROM sub_topics WHERE owner_id = $1 ORDER BY study_date, title`
	return r.list(ctx, query, ownerID)
}

func (r *SubTopicRepository) ListByMainTopic(ctx context.Context, ownerID int64, mainTopicID uuid.UUID) ([]*entities.SubTopic, error) {
	query := `SELECT ` + subTopicColumns + `
		FROM sub_topics
		WHERE owner_id = $1 AND main_topic_id = $2
		ORDER BY study_date, title`
	return r.list(ctx, query, ownerID, mainTopicID)
}

func (r *SubTopicRepository) list(ctx context.Context, query string, args ...any) ([]*entities.SubTopic, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select subtopics: %w", err)
	}
	defer rows.Close()

	subs := make([]*entities.SubTopic, 0)
	for rows.Next() {
		sub, err := scanSubTopic(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subtopic: %w", err)
		}
		subs = append(subs, sub)
	}

	return subs, rows.Err()
}

func (r *SubTopicRepository) Update(ctx context.Context, sub *entities.SubTopic) error {
	query := `
		UPDATE sub_topics
		SET title = $3,
		    description = $4,
		    difficulty = $5,
		    study_date = $6,
		    current_interval_index = $7,
		    completed = $8,
		    last_reviewed_at = $9
		WHERE id = $1 AND owner_id = $2
	`

	tag, err := r.db.Exec(ctx, query,
		sub.ID,
		sub.OwnerID,
		sub.Title,
		sub.Description,
		string(sub.Difficulty),
		sub.StudyDate,
		sub.CurrentIntervalIndex,
		sub.Completed,
		sub.LastReviewedAt,
	)
	if err != nil {
		return fmt.Errorf("update subtopic: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return explainMissing(ctx, r.db, "sub_topics", "subtopic", sub.OwnerID, sub.ID)
	}
	return nil
}

func (r *SubTopicRepository) Delete(ctx context.Context, ownerID int64, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM sub_topics WHERE id = $1 AND owner_id = $2", id, ownerID)
	if err != nil {
		return fmt.Errorf("delete subtopic: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return explainMissing(ctx, r.db, "sub_topics", "subtopic", ownerID, id)
	}
	return nil
}
