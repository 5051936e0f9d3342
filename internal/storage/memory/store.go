// Package memory keeps every repository in process memory. Data is partitioned by owner
// and lost on restart.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/google/uuid"

	"github.com/aliskhannn/revision-tracker-bot/internal/domain/entities"
	"github.com/aliskhannn/revision-tracker-bot/internal/service"
)

// state holds one generation of data. Stored entities are never mutated in place:
// repositories copy on the way in and on the way out, so cloning a state only copies maps.
type state struct {
	topics    map[int64]map[uuid.UUID]*entities.MainTopic
	subTopics map[int64]map[uuid.UUID]*entities.SubTopic
	schedules map[int64]map[uuid.UUID]*entities.RevisionSchedule
	owners    map[uuid.UUID]int64 // topic and subtopic id -> owner
	settings  map[int64]*entities.UserSettings
	users     map[int64]*entities.User
	reminders map[int64]*entities.DigestReminder
}

func newState() *state {
	return &state{
		topics:    make(map[int64]map[uuid.UUID]*entities.MainTopic),
		subTopics: make(map[int64]map[uuid.UUID]*entities.SubTopic),
		schedules: make(map[int64]map[uuid.UUID]*entities.RevisionSchedule),
		owners:    make(map[uuid.UUID]int64),
		settings:  make(map[int64]*entities.UserSettings),
		users:     make(map[int64]*entities.User),
		reminders: make(map[int64]*entities.DigestReminder),
	}
}

func (st *state) clone() *state {
	return &state{
		topics:    cloneNested(st.topics),
		subTopics: cloneNested(st.subTopics),
		schedules: cloneNested(st.schedules),
		owners:    maps.Clone(st.owners),
		settings:  maps.Clone(st.settings),
		users:     maps.Clone(st.users),
		reminders: maps.Clone(st.reminders),
	}
}

func cloneNested[V any](m map[int64]map[uuid.UUID]V) map[int64]map[uuid.UUID]V {
	out := make(map[int64]map[uuid.UUID]V, len(m))
	for owner, inner := range m {
		out[owner] = maps.Clone(inner)
	}
	return out
}

// Store is the in-memory backend. It implements service.Transactor.
type Store struct {
	mu sync.RWMutex
	st *state
}

// New creates an empty store.
func New() *Store {
	return &Store{st: newState()}
}

// Repositories returns repositories that each lock the store per call.
func (s *Store) Repositories() service.Repositories {
	return repositories(view{store: s})
}

// WithinTx runs fn against a private copy of the data and publishes the copy only when fn
// succeeds. Transactions are serialized.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos service.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft := s.st.clone()
	if err := fn(ctx, repositories(view{tx: draft})); err != nil {
		return err
	}

	s.st = draft
	return nil
}

func repositories(v view) service.Repositories {
	return service.Repositories{
		Topics:    &TopicRepository{v: v},
		SubTopics: &SubTopicRepository{v: v},
		Schedules: &ScheduleRepository{v: v},
		Settings:  &SettingsRepository{v: v},
		Users:     &UserRepository{v: v},
		Reminders: &ReminderRepository{v: v},
	}
}

// view routes repository calls either to the live state under the store lock
// or to a transaction draft that is already exclusively held.
type view struct {
	store *Store
	tx    *state
}

func (v view) read(fn func(st *state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.RLock()
	defer v.store.mu.RUnlock()
	return fn(v.store.st)
}

func (v view) write(fn func(st *state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	return fn(v.store.st)
}
