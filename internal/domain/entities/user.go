package entities

import "time"

// User is a registered owner reachable through chat.
type User struct {
	ID        int64 // owner id, equal to the Telegram user id
	ChatID    int64
	Username  string
	IsActive  bool
	CreatedAt time.Time
}

func NewUser(id, chatID int64, username string, now time.Time) *User {
	return &User{
		ID:        id,
		ChatID:    chatID,
		Username:  username,
		IsActive:  true,
		CreatedAt: now,
	}
}
