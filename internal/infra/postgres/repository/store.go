package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aliskhannn/revision-tracker-bot/internal/infra/postgres"
	"github.com/aliskhannn/revision-tracker-bot/internal/service"
)

// Store exposes the postgres repositories to the service layer and implements
// service.Transactor on top of postgres.Transactor.
type Store struct {
	pool *pgxpool.Pool
	tr   *postgres.Transactor
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, tr: postgres.NewTransactor(pool)}
}

// Repositories returns repositories bound to the pool.
func (s *Store) Repositories() service.Repositories {
	return newRepositories(s.pool)
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos service.Repositories) error) error {
	return s.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, newRepositories(tx))
	})
}

func newRepositories(db postgres.DBTX) service.Repositories {
	return service.Repositories{
		Topics:    NewTopicRepository(db),
		SubTopics: NewSubTopicRepository(db),
		Schedules: NewScheduleRepository(db),
		Settings:  NewSettingsRepository(db),
		Users:     NewUserRepository(db),
		Reminders: NewReminderRepository(db),
	}
}
