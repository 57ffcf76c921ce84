package common

import (
	"context"
	"errors"

	"github.com/xoso-lab/backend/internal/entity"
	"github.com/xoso-lab/backend/internal/repository"
	"github.com/xoso-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

var ErrInsufficientBalance = errors.New("insufficient balance")

// ApplyBalanceChange mutates a user balance and appends the matching ledger
// entry. The two writes must share the caller's database transaction so they
// land atomically. The balance moves with a single guarded delta update whose
// floor check runs against the latest committed row, so concurrent writers
// never lose an update and an overdraft never matches.
func ApplyBalanceChange(
	ctx context.Context,
	userRepo repository.UserRepository,
	transactionRepo repository.TransactionRepository,
	userID string,
	amount float64,
	txType entity.TransactionType,
	referenceID string,
	metadata entity.Map,
) (*entity.Transaction, error) {
	if _, err := userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	if err := userRepo.ApplyBalanceDelta(ctx, userID, amount); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInsufficientBalance
		}

		return nil, err
	}

	// The re-read happens after our own update in the same transaction, so
	// it observes the post-delta balance.
	user, err := userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	tx := &entity.Transaction{
		SnowFlakeBase: entity.SnowFlakeBase{
			ID: xcontext.SnowFlake(ctx).Generate().Int64(),
		},
		UserID:        userID,
		Type:          txType,
		Amount:        amount,
		BalanceBefore: user.Balance - amount,
		BalanceAfter:  user.Balance,
		Status:        entity.TransactionSuccess,
		ReferenceID:   referenceID,
		Metadata:      metadata,
	}

	if err := transactionRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}
