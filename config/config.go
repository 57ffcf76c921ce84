package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env string

	Database  DatabaseConfigs
	ApiServer APIServerConfigs
	Auth      AuthConfigs
	Redis     RedisConfigs
	Kafka     KafkaConfigs
	Lottery   LotteryConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type APIServerConfigs struct {
	Host         string
	Port         string
	Cert         string
	Key          string
	MaxLimit     int
	DefaultLimit int
}

type AuthConfigs struct {
	TokenSecret string
	AccessToken TokenConfigs
}

type TokenConfigs struct {
	Name       string
	Expiration time.Duration
}

type RedisConfigs struct {
	Addr string
}

type KafkaConfigs struct {
	Addr string
}

// LotteryConfigs controls the draw state machine timing. CloseBeforeEnd stops
// betting before the draw (FastestCloseBeforeEnd applies to the one-minute
// game), DrawBeforeEnd is the inner window in which results are generated.
type LotteryConfigs struct {
	SchedulerInterval     time.Duration
	CloseBeforeEnd        time.Duration
	FastestCloseBeforeEnd time.Duration
	DrawBeforeEnd         time.Duration

	ResultsTopic     string
	SettlementsTopic string
}
