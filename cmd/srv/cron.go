package main

import (
	"github.com/urfave/cli/v2"
	"github.com/xoso-lab/backend/internal/domain/cron"
	"github.com/xoso-lab/backend/internal/domain/drawengine"
	"github.com/xoso-lab/backend/pkg/xcontext"
)

func (s *srv) startCron(*cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadAuth()
	s.loadRedisClient()
	s.loadPublisher()
	s.loadRepos()

	settler := drawengine.NewSettler(s.wagerRepo, s.userRepo, s.transactionRepo)
	s.lifecycle = drawengine.NewLifecycle(
		s.sessionRepo, drawengine.NewGenerator(), settler, s.publisher)

	cronJobManager := cron.NewCronJobManager()
	cronJobManager.Start(
		s.ctx,
		cron.NewCreateSessionCronJob(s.ctx, s.sessionRepo),
		cron.NewDrawSessionCronJob(s.ctx, s.sessionRepo, s.lifecycle),
	)

	return nil
}
