package model

import "time"

type Transaction struct {
	ID            int64          `json:"id"`
	Type          string         `json:"type"`
	Amount        float64        `json:"amount"`
	BalanceBefore float64        `json:"balance_before"`
	BalanceAfter  float64        `json:"balance_after"`
	Status        string         `json:"status"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	Metadata      map[string]any  `json:"metadata,omitempty"`
	Payout        *PayoutMetadata `json:"payout,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// PayoutMetadata is the typed shape of a payout entry's metadata column.
type PayoutMetadata struct {
	SessionID     string         `json:"session_id" structs:"session_id" mapstructure:"session_id"`
	SessionNumber int64          `json:"session_number" structs:"session_number" mapstructure:"session_number"`
	BetType       string         `json:"bet_type" structs:"bet_type" mapstructure:"bet_type"`
	Hits          map[string]int `json:"hits" structs:"hits" mapstructure:"hits"`
}

type GetMyTransactionsRequest struct {
	Type   string `json:"type" form:"type"`
	Offset int    `json:"offset" form:"offset"`
	Limit  int    `json:"limit" form:"limit"`
}

type GetMyTransactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
}

type AdjustBalanceRequest struct {
	UserID string  `json:"user_id"`
	Amount float64 `json:"amount"`
	Note   string  `json:"note"`
}

type AdjustBalanceResponse struct {
	Balance float64 `json:"balance"`
}
