package service

import (
	"context"
	"fmt"

	"github.com/aliskhannn/revision-tracker-bot/internal/domain/entities"
)

type UserService struct {
	core
}

func NewUserService(repos Repositories, tr Transactor, opts ...Option) *UserService {
	return &UserService{core: newCore(repos, tr, opts)}
}

// EnsureUser registers the user on first contact and keeps the chat id current.
// New users get a default daily digest. It reports whether the user was created.
func (s *UserService) EnsureUser(ctx context.Context, userID, chatID int64, username string) (bool, error) {
	var created bool
	err := s.tr.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		exists, err := repos.Users.Exists(ctx, userID)
		if err != nil {
			return fmt.Errorf("check user: %w", err)
		}

		now := s.now()
		if exists {
			user, err := repos.Users.Get(ctx, userID)
			if err != nil {
				return fmt.Errorf("get user: %w", err)
			}
			if user.ChatID == chatID && user.Username == username {
				return nil
			}
			user.ChatID = chatID
			user.Username = username
			if err := repos.Users.Save(ctx, user); err != nil {
				return fmt.Errorf("save user: %w", err)
			}
			return nil
		}

		if err := repos.Users.Save(ctx, entities.NewUser(userID, chatID, username, now)); err != nil {
			return fmt.Errorf("save user: %w", err)
		}
		if err := repos.Reminders.Upsert(ctx, entities.NewDigestReminder(userID, now)); err != nil {
			return fmt.Errorf("create reminder: %w", err)
		}

		created = true
		return nil
	})
	return created, err
}
