package cron

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/xoso-lab/backend/internal/entity"
	"github.com/xoso-lab/backend/internal/repository"
	"github.com/xoso-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// CreateSessionCronJob keeps exactly one open session per game type. A new
// session is numbered one past the last one of its type and spans the type's
// duration; the traditional daily game runs until its 18:15 draw.
type CreateSessionCronJob struct {
	sessionRepo repository.SessionRepository
	interval    time.Duration
}

func NewCreateSessionCronJob(
	ctx context.Context, sessionRepo repository.SessionRepository,
) *CreateSessionCronJob {
	return &CreateSessionCronJob{
		sessionRepo: sessionRepo,
		interval:    xcontext.Configs(ctx).Lottery.SchedulerInterval,
	}
}

func (job *CreateSessionCronJob) Do(ctx context.Context) {
	gameTypes := append([]entity.GameType{}, entity.FastGameTypes...)
	gameTypes = append(gameTypes, entity.GameTraditional)

	for _, gameType := range gameTypes {
		if err := job.ensureOpenSession(ctx, gameType); err != nil {
			xcontext.Logger(ctx).Errorf(
				"Cannot ensure open session of %s: %v", gameType, err)
		}
	}
}

func (job *CreateSessionCronJob) ensureOpenSession(
	ctx context.Context, gameType entity.GameType,
) error {
	last, err := job.sessionRepo.GetLastByGameType(ctx, gameType)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	var nextNumber int64 = 1
	if last != nil {
		if last.Status != entity.SessionCompleted && last.EndTime.After(time.Now()) {
			return nil
		}

		nextNumber = last.SessionNumber + 1
	}

	start := time.Now()
	end := start.Add(gameType.Duration())
	if gameType == entity.GameTraditional {
		// The daily game draws at 18:15. The session covers the day of its
		// draw, rolling to tomorrow once today's draw time has passed.
		y, m, d := start.Date()
		end = time.Date(y, m, d, 18, 15, 0, 0, start.Location())
		if !start.Before(end) {
			end = end.AddDate(0, 0, 1)
		}
		start = time.Date(y, m, d, 0, 0, 0, 0, start.Location())
	}

	session := &entity.LotterySession{
		Base:          entity.Base{ID: uuid.NewString()},
		GameType:      gameType,
		SessionNumber: nextNumber,
		StartTime:     start,
		EndTime:       end,
		Status:        entity.SessionOpen,
	}

	// The unique (game_type, session_number) index turns a race between two
	// schedulers into a duplicate-key error for the loser.
	if err := job.sessionRepo.Create(ctx, session); err != nil {
		return err
	}

	xcontext.Logger(ctx).Infof(
		"Created session %d of %s ending at %s",
		session.SessionNumber, gameType, session.EndTime.Format(time.RFC3339))
	return nil
}

func (job *CreateSessionCronJob) RunNow() bool {
	return true
}

func (job *CreateSessionCronJob) Next() time.Time {
	return time.Now().Add(job.interval)
}
