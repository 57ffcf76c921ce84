package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/urfave/cli/v2"
	"github.com/xoso-lab/backend/config"
	"github.com/xoso-lab/backend/internal/common"
	"github.com/xoso-lab/backend/internal/domain"
	"github.com/xoso-lab/backend/internal/domain/drawengine"
	"github.com/xoso-lab/backend/internal/entity"
	"github.com/xoso-lab/backend/internal/model"
	"github.com/xoso-lab/backend/internal/repository"
	"github.com/xoso-lab/backend/pkg/jwt"
	"github.com/xoso-lab/backend/pkg/kafka"
	"github.com/xoso-lab/backend/pkg/logger"
	"github.com/xoso-lab/backend/pkg/pubsub"
	"github.com/xoso-lab/backend/pkg/router"
	"github.com/xoso-lab/backend/pkg/xcontext"
	"github.com/xoso-lab/backend/pkg/xredis"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	ctx context.Context
	app *cli.App

	redisClient xredis.Client
	publisher   pubsub.Publisher

	sessionRepo     repository.SessionRepository
	wagerRepo       repository.WagerRepository
	userRepo        repository.UserRepository
	transactionRepo repository.TransactionRepository

	lifecycle *drawengine.Lifecycle

	sessionDomain     domain.SessionDomain
	wagerDomain       domain.WagerDomain
	transactionDomain domain.TransactionDomain
	userDomain        domain.UserDomain

	router *router.Router
	server *http.Server
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}

	return value
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}

	return value
}

func (s *srv) loadConfig() {
	s.ctx = xcontext.WithConfigs(context.Background(), config.Configs{
		Env: getEnv("ENV", "local"),
		Database: config.DatabaseConfigs{
			Host:     getEnv("MYSQL_HOST", "localhost"),
			Port:     getEnv("MYSQL_PORT", "3306"),
			User:     getEnv("MYSQL_USER", "xoso"),
			Password: getEnv("MYSQL_PASSWORD", "xoso"),
			Database: getEnv("MYSQL_DATABASE", "xoso"),
		},
		ApiServer: config.APIServerConfigs{
			Host:         getEnv("API_HOST", "localhost"),
			Port:         getEnv("API_PORT", "8080"),
			Cert:         getEnv("API_CERT", ""),
			Key:          getEnv("API_KEY", ""),
			MaxLimit:     getEnvInt("API_MAX_LIMIT", 50),
			DefaultLimit: getEnvInt("API_DEFAULT_LIMIT", 10),
		},
		Auth: config.AuthConfigs{
			TokenSecret: getEnv("TOKEN_SECRET", "token-secret"),
			AccessToken: config.TokenConfigs{
				Name:       getEnv("ACCESS_TOKEN_NAME", "access_token"),
				Expiration: getEnvDuration("ACCESS_TOKEN_DURATION", 24*time.Hour),
			},
		},
		Redis: config.RedisConfigs{
			Addr: getEnv("REDIS_ADDRESS", "localhost:6379"),
		},
		Kafka: config.KafkaConfigs{
			Addr: getEnv("KAFKA_ADDRESS", "localhost:9092"),
		},
		Lottery: config.LotteryConfigs{
			SchedulerInterval:     getEnvDuration("LOTTERY_SCHEDULER_INTERVAL", 3*time.Second),
			CloseBeforeEnd:        getEnvDuration("LOTTERY_CLOSE_BEFORE_END", 30*time.Second),
			FastestCloseBeforeEnd: getEnvDuration("LOTTERY_FASTEST_CLOSE_BEFORE_END", 15*time.Second),
			DrawBeforeEnd:         getEnvDuration("LOTTERY_DRAW_BEFORE_END", 10*time.Second),
			ResultsTopic:          getEnv("LOTTERY_RESULTS_TOPIC", "lottery.results"),
			SettlementsTopic:      getEnv("LOTTERY_SETTLEMENTS_TOPIC", "lottery.settlements"),
		},
	})
}

func (s *srv) loadLogger() {
	level := logger.INFO
	if xcontext.Configs(s.ctx).Env == "local" {
		level = logger.DEBUG
	}

	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(level))
}

func (s *srv) newDatabase() *gorm.DB {
	cfg := xcontext.Configs(s.ctx).Database
	db, err := gorm.Open(mysql.Open(cfg.ConnectionString()), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	return db
}

func (s *srv) migrateDB() {
	if err := entity.MigrateTable(xcontext.DB(s.ctx)); err != nil {
		panic(err)
	}
}

func (s *srv) loadAuth() {
	cfg := xcontext.Configs(s.ctx).Auth
	engine := jwt.NewEngine[model.AccessToken](cfg.TokenSecret, cfg.AccessToken.Expiration)
	s.ctx = xcontext.WithTokenEngine(s.ctx, engine)

	node, err := snowflake.NewNode(int64(getEnvInt("SNOWFLAKE_NODE", 1)))
	if err != nil {
		panic(err)
	}

	s.ctx = xcontext.WithSnowFlake(s.ctx, node)
}

func (s *srv) loadRedisClient() {
	client, err := xredis.NewClient(s.ctx, xcontext.Configs(s.ctx).Redis)
	if err != nil {
		xcontext.Logger(s.ctx).Warnf("Cannot connect to redis, cache disabled: %v", err)
		return
	}

	s.redisClient = client
}

func (s *srv) loadPublisher() {
	cfg := xcontext.Configs(s.ctx).Kafka
	s.publisher = kafka.NewPublisher("xoso-backend", []string{cfg.Addr})
}

func (s *srv) loadRepos() {
	s.sessionRepo = repository.NewSessionRepository(s.redisClient)
	s.wagerRepo = repository.NewWagerRepository()
	s.userRepo = repository.NewUserRepository()
	s.transactionRepo = repository.NewTransactionRepository()
}

func (s *srv) loadDomains() {
	settler := drawengine.NewSettler(s.wagerRepo, s.userRepo, s.transactionRepo)
	s.lifecycle = drawengine.NewLifecycle(
		s.sessionRepo, drawengine.NewGenerator(), settler, s.publisher)

	roleVerifier := common.NewGlobalRoleVerifier(s.userRepo)

	s.sessionDomain = domain.NewSessionDomain(s.sessionRepo, s.lifecycle, roleVerifier)
	s.wagerDomain = domain.NewWagerDomain(
		s.wagerRepo, s.sessionRepo, s.userRepo, s.transactionRepo)
	s.transactionDomain = domain.NewTransactionDomain(
		s.transactionRepo, s.userRepo, roleVerifier)
	s.userDomain = domain.NewUserDomain(s.userRepo)
}

func (s *srv) startMigrate(*cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	return nil
}
