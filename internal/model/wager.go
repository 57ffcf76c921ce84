package model

import "time"

type Wager struct {
	ID            string    `json:"id"`
	SessionID     string    `json:"session_id"`
	SessionNumber int64     `json:"session_number,omitempty"`
	BetType       string    `json:"bet_type"`
	Numbers       []string  `json:"numbers"`
	Stake         float64   `json:"stake"`
	Cost          float64   `json:"cost"`
	PotentialWin  float64   `json:"potential_win"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	ProcessedAt   time.Time `json:"processed_at,omitempty"`
}

type BetType struct {
	ID              string  `json:"id"`
	Category        string  `json:"category"`
	Method          string  `json:"method"`
	Multiplier      float64 `json:"multiplier"`
	MinStake        float64 `json:"min_stake"`
	PointValue      float64 `json:"point_value,omitempty"`
	RequiredNumbers int     `json:"required_numbers,omitempty"`
	DigitWidth      int     `json:"digit_width"`
}

type PlaceBetRequest struct {
	SessionID string   `json:"session_id"`
	BetType   string   `json:"bet_type"`
	Numbers   []string `json:"numbers"`
	Stake     float64  `json:"stake"`
}

type PlaceBetResponse struct {
	Wager   Wager   `json:"wager"`
	Balance float64 `json:"balance"`
}

type GetMyWagersRequest struct {
	Offset int `json:"offset" form:"offset"`
	Limit  int `json:"limit" form:"limit"`
}

type GetMyWagersResponse struct {
	Wagers []Wager `json:"wagers"`
}

type GetBetTypesRequest struct{}

type GetBetTypesResponse struct {
	BetTypes []BetType `json:"bet_types"`
}
