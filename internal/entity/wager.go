package entity

import (
	"database/sql"

	"github.com/xoso-lab/backend/pkg/enum"
)

type WagerStatus string

var (
	WagerPending = enum.New(WagerStatus("pending"))
	WagerWon     = enum.New(WagerStatus("won"))
	WagerLost    = enum.New(WagerStatus("lost"))
)

type Wager struct {
	Base

	UserID string
	User   User `gorm:"foreignKey:UserID"`

	SessionID string         `gorm:"index"`
	Session   LotterySession `gorm:"foreignKey:SessionID"`

	BetType string        `gorm:"index"`
	Numbers Array[string] `gorm:"type:text"`

	// Stake is the user input: points for point-method bet types, currency
	// for money-method ones.
	Stake        float64
	Cost         float64
	PotentialWin float64

	Status      WagerStatus `gorm:"index"`
	ProcessedAt sql.NullTime
}
