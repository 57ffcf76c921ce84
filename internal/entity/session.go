package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/xoso-lab/backend/pkg/enum"
)

type GameType string

var (
	GameFast1m      = enum.New(GameType("fast_1m"))
	GameFast5m      = enum.New(GameType("fast_5m"))
	GameFast30m     = enum.New(GameType("fast_30m"))
	GameTraditional = enum.New(GameType("traditional"))
)

// FastGameTypes are the session types the scheduler scans on every tick.
var FastGameTypes = []GameType{GameFast1m, GameFast5m, GameFast30m}

func (t GameType) Duration() time.Duration {
	switch t {
	case GameFast1m:
		return time.Minute
	case GameFast5m:
		return 5 * time.Minute
	case GameFast30m:
		return 30 * time.Minute
	default:
		return 24 * time.Hour
	}
}

type SessionStatus string

var (
	SessionOpen              = enum.New(SessionStatus("open"))
	SessionClosing           = enum.New(SessionStatus("closing"))
	SessionDrawing           = enum.New(SessionStatus("drawing"))
	SessionProcessingRewards = enum.New(SessionStatus("processing_rewards"))
	SessionCompleted         = enum.New(SessionStatus("completed"))
)

var sessionStatusOrder = map[SessionStatus]int{
	SessionOpen:              0,
	SessionClosing:           1,
	SessionDrawing:           2,
	SessionProcessingRewards: 3,
	SessionCompleted:         4,
}

// Order returns the position of the status in the session lifecycle. Statuses
// only ever move to a strictly greater order.
func (s SessionStatus) Order() int {
	return sessionStatusOrder[s]
}

// DrawResult is the eight-tier prize payload of a session. It is generated
// once, stored as a JSON column, and never modified afterwards.
type DrawResult struct {
	Special string   `json:"special"`
	First   string   `json:"first"`
	Second  []string `json:"second"`
	Third   []string `json:"third"`
	Fourth  []string `json:"fourth"`
	Fifth   []string `json:"fifth"`
	Sixth   []string `json:"sixth"`
	Seventh []string `json:"seventh"`
}

// AllPrizes returns every prize value of the draw as a flat list, special
// first, in tier order.
func (r DrawResult) AllPrizes() []string {
	all := make([]string, 0, 27)
	all = append(all, r.Special, r.First)
	all = append(all, r.Second...)
	all = append(all, r.Third...)
	all = append(all, r.Fourth...)
	all = append(all, r.Fifth...)
	all = append(all, r.Sixth...)
	all = append(all, r.Seventh...)
	return all
}

// TwoDigitEndings returns the last two digits of every prize value,
// preserving duplicates. This is the authoritative winning-numbers list for
// two-digit matching.
func (r DrawResult) TwoDigitEndings() []string {
	prizes := r.AllPrizes()
	endings := make([]string, 0, len(prizes))
	for _, p := range prizes {
		endings = append(endings, p[len(p)-2:])
	}
	return endings
}

func (r DrawResult) IsZero() bool {
	return r.Special == ""
}

func (r *DrawResult) Scan(value any) error {
	switch t := value.(type) {
	case string:
		return json.Unmarshal([]byte(t), r)
	case []byte:
		return json.Unmarshal(t, r)
	default:
		return fmt.Errorf("cannot scan invalid data type %T", value)
	}
}

func (r DrawResult) Value() (driver.Value, error) {
	return json.Marshal(r)
}

type LotterySession struct {
	Base

	GameType      GameType `gorm:"uniqueIndex:idx_sessions_game_number"`
	SessionNumber int64    `gorm:"uniqueIndex:idx_sessions_game_number"`

	StartTime time.Time
	EndTime   time.Time
	Status    SessionStatus `gorm:"index"`

	WinningNumbers Array[string] `gorm:"type:text"`
	Results        DrawResult    `gorm:"type:text"`
	SettlementInfo Map           `gorm:"type:text"`
}
