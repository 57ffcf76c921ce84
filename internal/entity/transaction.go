package entity

import (
	"github.com/xoso-lab/backend/pkg/enum"
)

type TransactionType string

var (
	TransactionBet        = enum.New(TransactionType("bet"))
	TransactionPayout     = enum.New(TransactionType("payout"))
	TransactionRefund     = enum.New(TransactionType("refund"))
	TransactionDeposit    = enum.New(TransactionType("deposit"))
	TransactionWithdrawal = enum.New(TransactionType("withdrawal"))
	TransactionAdjustment = enum.New(TransactionType("adjustment"))
)

type TransactionStatus string

var (
	TransactionPending = enum.New(TransactionStatus("pending"))
	TransactionSuccess = enum.New(TransactionStatus("success"))
	TransactionFailure = enum.New(TransactionStatus("failure"))
)

// Transaction is one ledger entry. BalanceAfter is always BalanceBefore plus
// the signed Amount at the instant of creation; replaying a user's entries in
// id order reconstructs the stored balance.
type Transaction struct {
	SnowFlakeBase

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	Type   TransactionType `gorm:"index"`
	Amount float64

	BalanceBefore float64
	BalanceAfter  float64

	Status TransactionStatus

	// ReferenceID links the entry to the wager, session or request that
	// caused it.
	ReferenceID string `gorm:"index"`

	Metadata Map `gorm:"type:text"`
}
