package storage

import (
	"sync"

	"github.com/google/uuid"
)

// ListingStorage remembers the order in which topics were last shown in a chat,
// so commands can refer to them by their 1-based position.
type ListingStorage struct {
	mu       sync.RWMutex
	listings map[int64][]uuid.UUID
}

// NewListingStorage creates a new ListingStorage.
func NewListingStorage() *ListingStorage {
	return &ListingStorage{
		listings: make(map[int64][]uuid.UUID),
	}
}

// Store replaces the listing shown in chatID.
func (s *ListingStorage) Store(chatID int64, ids []uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listings[chatID] = append([]uuid.UUID(nil), ids...)
}

// Resolve returns the id shown at position n (1-based) in chatID.
func (s *ListingStorage) Resolve(chatID int64, n int) (uuid.UUID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.listings[chatID]
	if n < 1 || n > len(ids) {
		return uuid.Nil, false
	}
	return ids[n-1], true
}

// Delete forgets the listing of chatID.
func (s *ListingStorage) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.listings, chatID)
}
