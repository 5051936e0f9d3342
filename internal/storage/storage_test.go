package storage

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestListingStorageResolve(t *testing.T) {
	s := NewListingStorage()
	a, b := uuid.New(), uuid.New()
	s.Store(10, []uuid.UUID{a, b})

	tests := []struct {
		name string
		chat int64
		n    int
		want uuid.UUID
		ok   bool
	}{
		{"first", 10, 1, a, true},
		{"second", 10, 2, b, true},
		{"zero", 10, 0, uuid.Nil, false},
		{"past end", 10, 3, uuid.Nil, false},
		{"other chat", 11, 1, uuid.Nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.Resolve(tt.chat, tt.n)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("Resolve(%d, %d) = %v, %v; want %v, %v", tt.chat, tt.n, got, ok, tt.want, tt.ok)
			}
		})
	}

	s.Delete(10)
	if _, ok := s.Resolve(10, 1); ok {
		t.Fatalf("listing still present after Delete")
	}
}

func TestListingStorageCopiesInput(t *testing.T) {
	s := NewListingStorage()
	ids := []uuid.UUID{uuid.New()}
	s.Store(1, ids)
	ids[0] = uuid.Nil

	if got, _ := s.Resolve(1, 1); got == uuid.Nil {
		t.Fatalf("stored listing aliases caller slice")
	}
}

func TestDigestStorageUpsertAndGetPrev(t *testing.T) {
	s := NewDigestStorage()
	now := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)

	if _, had := s.UpsertAndGetPrev(5, 100, now); had {
		t.Fatalf("unexpected previous message on first send")
	}

	prev, had := s.UpsertAndGetPrev(5, 101, now.Add(24*time.Hour))
	if !had || prev.MessageID != 100 || !prev.SentAt.Equal(now) {
		t.Fatalf("prev = %+v, %v", prev, had)
	}

	cur, ok := s.Get(5)
	if !ok || cur.MessageID != 101 {
		t.Fatalf("current = %+v, %v", cur, ok)
	}

	s.Delete(5)
	if _, ok := s.Get(5); ok {
		t.Fatalf("message still present after Delete")
	}
}
