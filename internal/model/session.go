package model

import "time"

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

type LotterySession struct {
	ID             string         `json:"id"`
	GameType       string         `json:"game_type"`
	SessionNumber  int64          `json:"session_number"`
	StartTime      time.Time      `json:"start_time"`
	EndTime        time.Time      `json:"end_time"`
	Status         string         `json:"status"`
	WinningNumbers []string       `json:"winning_numbers,omitempty"`
	Results        *DrawResult    `json:"results,omitempty"`
	SettlementInfo map[string]any `json:"settlement_info,omitempty"`
}

type GetCurrentSessionRequest struct {
	GameType string `json:"game_type" form:"game_type"`
}

type GetCurrentSessionResponse struct {
	Session          LotterySession `json:"session"`
	RemainingSeconds int64          `json:"remaining_seconds"`
	BettingClosed    bool           `json:"betting_closed"`
}

type GetSessionResultsRequest struct {
	GameType      string `json:"game_type" form:"game_type"`
	SessionNumber int64  `json:"session_number" form:"session_number"`
}

type GetSessionResultsResponse struct {
	Session LotterySession `json:"session"`
}

type GetRecentResultsRequest struct {
	GameType string `json:"game_type" form:"game_type"`
	Limit    int    `json:"limit" form:"limit"`
}

type GetRecentResultsResponse struct {
	Sessions []LotterySession `json:"sessions"`
}

type ForceDrawRequest struct {
	SessionID string `json:"session_id"`
}

type ForceDrawResponse struct {
	Session    LotterySession     `json:"session"`
	Settlement *SettlementSummary `json:"settlement,omitempty"`
}

type SettlementSummary struct {
	Processed   int     `json:"processed"`
	Winners     int     `json:"winners"`
	TotalPayout float64 `json:"total_payout"`
	Errors      int     `json:"errors"`
}
