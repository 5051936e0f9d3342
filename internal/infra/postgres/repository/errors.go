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

// explainMissing tells apart an unknown id from an id owned by someone else after a
// statement scoped to (id, owner) matched nothing. table is a trusted constant.
func explainMissing(ctx context.Context, db postgres.DBTX, table, kind string, ownerID int64, id uuid.UUID) error {
	var owner int64
	err := db.QueryRow(ctx, "SELECT owner_id FROM "+table+" WHERE id = $1", id).Scan(&owner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: %s %s", entities.ErrNotFound, kind, id)
		}
		return fmt.Errorf("lookup %s owner: %w", kind, err)
	}
	return checkOwner(owner, ownerID, kind, id)
}

func checkOwner(owner, ownerID int64, kind string, id uuid.UUID) error {
	if owner != ownerID {
		return fmt.Errorf("%w: %s %s belongs to another owner", entities.ErrUnauthorized, kind, id)
	}
	return nil
}

func notFound(kind string, id any) error {
	return fmt.Errorf("%w: %s %v", entities.ErrNotFound, kind, id)
}
