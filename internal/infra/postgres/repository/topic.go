package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/revision-tracker-bot/internal/domain/entities"
	"github.com/aliskhannn/revision-tracker-bot/internal/infra/postgres"
)

// TopicRepository provides access to main topics in the database.
type TopicRepository struct {
	db postgres.DBTX
}

func NewTopicRepository(db postgres.DBTX) *TopicRepository {
	return &TopicRepository{db: db}
}

func (r *TopicRepository) Create(ctx context.Context, topic *entities.MainTopic) error {
	query := `
		INSERT INTO main_topics (id, owner_id, title, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query, topic.ID, topic.OwnerID, topic.Title, topic.Description, topic.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert topic: %w", err)
	}
	return nil
}

func (r *TopicRepository) Get(ctx context.Context, ownerID int64, id uuid.UUID) (*entities.MainTopic, error) {
	query := `
		SELECT id, owner_id, title, description, created_at
		FROM main_topics
		WHERE id = $1
	`

	var t entities.MainTopic
	err := r.db.QueryRow(ctx, query, id).Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("topic", id)
		}
		return nil, fmt.Errorf("select topic: %w", err)
	}

	if err := checkOwner(t.OwnerID, ownerID, "topic", id); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TopicRepository) List(ctx context.Context, ownerID int64) ([]*entities.MainTopic, error) {
	query := `
		SELECT id, owner_id, title, description, created_at
		FROM main_topics
		WHERE owner_id = $1
		ORDER BY created_at, title
	`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("select topics: %w", err)
	}
	defer rows.Close()

	topics := make([]*entities.MainTopic, 0)
	for rows.Next() {
		var t entities.MainTopic
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		topics = append(topics, &t)
	}

	return topics, rows.Err()
}

func (r *TopicRepository) Update(ctx context.Context, topic *entities.MainTopic) error {
	query := `
		UPDATE main_topics
		SET title = $3, description = $4
		WHERE id = $1 AND owner_id = $2
	`

	tag, err := r.db.Exec(ctx, query, topic.ID, topic.OwnerID, topic.Title, topic.Description)
	if err != nil {
		return fmt.Errorf("update topic: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return explainMissing(ctx, r.db, "main_topics", "topic", topic.OwnerID, topic.ID)
	}
	return nil
}

func (r *TopicRepository) Delete(ctx context.Context, ownerID int64, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM main_topics WHERE id = $1 AND owner_id = $2", id, ownerID)
	if err != nil {
		return fmt.Errorf("delete topic: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return explainMissing(ctx, r.db, "main_topics", "topic", ownerID, id)
	}
	return nil
}
