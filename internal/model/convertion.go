package model

import (
	"github.com/mitchellh/mapstructure"

	"github.com/xoso-lab/backend/internal/entity"
)

func ConvertSession(session *entity.LotterySession) LotterySession {
	if session == nil {
		return LotterySession{}
	}

	resp := LotterySession{
		ID:            session.ID,
		GameType:      string(session.GameType),
		SessionNumber: session.SessionNumber,
		StartTime:     session.StartTime,
		EndTime:       session.EndTime,
		Status:        string(session.Status),
	}

	// Results become visible once the draw has happened; before that the
	// payload is empty and must not leak.
	if !session.Results.IsZero() {
		resp.WinningNumbers = session.WinningNumbers
		resp.Results = &DrawResult{
			Special: session.Results.Special,
			First:   session.Results.First,
			Second:  session.Results.Second,
			Third:   session.Results.Third,
			Fourth:  session.Results.Fourth,
			Fifth:   session.Results.Fifth,
			Sixth:   session.Results.Sixth,
			Seventh: session.Results.Seventh,
		}
		resp.SettlementInfo = session.SettlementInfo
	}

	return resp
}

func ConvertWager(wager *entity.Wager) Wager {
	if wager == nil {
		return Wager{}
	}

	resp := Wager{
		ID:           wager.ID,
		SessionID:    wager.SessionID,
		BetType:      wager.BetType,
		Numbers:      wager.Numbers,
		Stake:        wager.Stake,
		Cost:         wager.Cost,
		PotentialWin: wager.PotentialWin,
		Status:       string(wager.Status),
		CreatedAt:    wager.CreatedAt,
	}

	if wager.ProcessedAt.Valid {
		resp.ProcessedAt = wager.ProcessedAt.Time
	}

	return resp
}

func ConvertTransaction(tx *entity.Transaction) Transaction {
	if tx == nil {
		return Transaction{}
	}

	resp := Transaction{
		ID:            tx.ID,
		Type:          string(tx.Type),
		Amount:        tx.Amount,
		BalanceBefore: tx.BalanceBefore,
		BalanceAfter:  tx.BalanceAfter,
		Status:        string(tx.Status),
		ReferenceID:   tx.ReferenceID,
		Metadata:      tx.Metadata,
		CreatedAt:     tx.CreatedAt,
	}

	if tx.Type == entity.TransactionPayout && len(tx.Metadata) > 0 {
		// Metadata loaded from the json column carries numbers as float64.
		var payout PayoutMetadata
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &payout,
		})
		if err == nil && decoder.Decode(map[string]any(tx.Metadata)) == nil {
			resp.Payout = &payout
		}
	}

	return resp
}

func ConvertUser(user *entity.User) User {
	if user == nil {
		return User{}
	}

	return User{
		ID:      user.ID,
		Name:    user.Name,
		Role:    user.Role,
		Balance: user.Balance,
	}
}
