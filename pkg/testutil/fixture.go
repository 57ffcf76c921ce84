package testutil

import (
	"context"
	"time"

	"github.com/xoso-lab/backend/internal/entity"
	"github.com/xoso-lab/backend/internal/repository"
)

var (
	User1 = entity.User{
		Base:    entity.Base{ID: "user1"},
		Name:    "user1",
		Role:    entity.UserRole,
		Balance: 10_000_000,
	}

	User2 = entity.User{
		Base:    entity.Base{ID: "user2"},
		Name:    "user2",
		Role:    entity.UserRole,
		Balance: 500_000,
	}

	Admin = entity.User{
		Base:    entity.Base{ID: "admin"},
		Name:    "admin",
		Role:    entity.AdminRole,
		Balance: 0,
	}

	Session1 = entity.LotterySession{
		Base:          entity.Base{ID: "session1"},
		GameType:      entity.GameFast1m,
		SessionNumber: 1,
		StartTime:     time.Now().Add(-30 * time.Second),
		EndTime:       time.Now().Add(30 * time.Second),
		Status:        entity.SessionOpen,
	}
)

func CreateFixtureDb(ctx context.Context) {
	InsertUsers(ctx)
	InsertSessions(ctx)
}

func InsertUsers(ctx context.Context) {
	userRepo := repository.NewUserRepository()

	for _, user := range []entity.User{User1, User2, Admin} {
		user := user
		if err := userRepo.Create(ctx, &user); err != nil {
			panic(err)
		}
	}
}

func InsertSessions(ctx context.Context) {
	sessionRepo := repository.NewSessionRepository(nil)

	session := Session1
	if err := sessionRepo.Create(ctx, &session); err != nil {
		panic(err)
	}
}
