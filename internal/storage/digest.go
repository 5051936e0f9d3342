package storage

import (
	"sync"
	"time"
)

type DigestMessage struct {
	ChatID    int64
	MessageID int
	SentAt    time.Time
}

// DigestStorage keeps the last digest message sent to each chat.
type DigestStorage struct {
	mu       sync.RWMutex
	messages map[int64]DigestMessage
}

func NewDigestStorage() *DigestStorage {
	return &DigestStorage{
		messages: make(map[int64]DigestMessage),
	}
}

func (s *DigestStorage) Get(chatID int64) (DigestMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.messages[chatID]
	return msg, ok
}

func (s *DigestStorage) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.messages, chatID)
}

// UpsertAndGetPrev stores the new digest message and returns the one it replaced.
func (s *DigestStorage) UpsertAndGetPrev(chatID int64, messageID int, sentAt time.Time) (prev DigestMessage, hadPrev bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, hadPrev = s.messages[chatID]

	s.messages[chatID] = DigestMessage{
		ChatID:    chatID,
		MessageID: messageID,
		SentAt:    sentAt,
	}

	return prev, hadPrev
}
