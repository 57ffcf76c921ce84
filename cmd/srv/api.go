package main

import (
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"
	"github.com/xoso-lab/backend/internal/middleware"
	"github.com/xoso-lab/backend/pkg/router"
	"github.com/xoso-lab/backend/pkg/xcontext"
)

func (s *srv) startApi(*cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadAuth()
	s.loadRedisClient()
	s.loadPublisher()
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	cfg := xcontext.Configs(s.ctx).ApiServer
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: s.router.Handler(),
	}

	xcontext.Logger(s.ctx).Infof("Starting api server on port %s", cfg.Port)
	if err := s.server.ListenAndServe(); err != nil {
		panic(err)
	}

	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.ctx)

	// Public API
	publicRouter := s.router.Branch("")
	publicRouter.Use(middleware.WithOptionalAuthed)
	{
		router.GET(publicRouter, "/getBetTypes", s.wagerDomain.GetBetTypes)
		router.GET(publicRouter, "/getCurrentSession", s.sessionDomain.GetCurrent)
		router.GET(publicRouter, "/getSessionResults", s.sessionDomain.GetResults)
		router.GET(publicRouter, "/getRecentResults", s.sessionDomain.GetRecentResults)
	}

	// These following APIs need authentication with the access token.
	authRouter := s.router.Branch("")
	authRouter.Use(middleware.WithAuthed)
	{
		router.GET(authRouter, "/getMe", s.userDomain.GetMe)
		router.GET(authRouter, "/getMyWagers", s.wagerDomain.GetMyWagers)
		router.GET(authRouter, "/getMyTransactions", s.transactionDomain.GetMyTransactions)
		router.POST(authRouter, "/placeBet", s.wagerDomain.PlaceBet)

		// Admin API
		router.POST(authRouter, "/forceDraw", s.sessionDomain.ForceDraw)
		router.POST(authRouter, "/adjustBalance", s.transactionDomain.AdjustBalance)
	}
}
