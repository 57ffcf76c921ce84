package common_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xoso-lab/backend/internal/common"
	"github.com/xoso-lab/backend/internal/entity"
	"github.com/xoso-lab/backend/internal/repository"
	"github.com/xoso-lab/backend/pkg/testutil"
)

func TestApplyBalanceChange(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.InsertUsers(ctx)

	userRepo := repository.NewUserRepository()
	transactionRepo := repository.NewTransactionRepository()

	tx, err := common.ApplyBalanceChange(
		ctx, userRepo, transactionRepo,
		testutil.User1.ID, -300_000, entity.TransactionBet, "wager1", nil)
	require.NoError(t, err)
	require.Equal(t, testutil.User1.Balance, tx.BalanceBefore)
	require.Equal(t, testutil.User1.Balance-300_000, tx.BalanceAfter)
	require.NotZero(t, tx.ID)

	user, err := userRepo.GetByID(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, tx.BalanceAfter, user.Balance)

	tx2, err := common.ApplyBalanceChange(
		ctx, userRepo, transactionRepo,
		testutil.User1.ID, 500_000, entity.TransactionPayout, "wager1", nil)
	require.NoError(t, err)
	require.Equal(t, tx.BalanceAfter, tx2.BalanceBefore)

	// The ledger replays to the stored balance.
	sum, err := transactionRepo.ReplayBalance(ctx, testutil.User1.ID)
	require.NoError(t, err)

	user, err = userRepo.GetByID(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, testutil.User1.Balance+sum, user.Balance)

	// Snowflake ids keep the ledger in creation order.
	entries, err := transactionRepo.GetByReferenceID(ctx, "wager1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Less(t, entries[0].ID, entries[1].ID)
}

func TestApplyBalanceChangeInsufficient(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.InsertUsers(ctx)

	userRepo := repository.NewUserRepository()
	transactionRepo := repository.NewTransactionRepository()

	_, err := common.ApplyBalanceChange(
		ctx, userRepo, transactionRepo,
		testutil.User2.ID, -(testutil.User2.Balance + 1),
		entity.TransactionBet, "wager1", nil)
	require.ErrorIs(t, err, common.ErrInsufficientBalance)

	// Nothing was written.
	user, err := userRepo.GetByID(ctx, testutil.User2.ID)
	require.NoError(t, err)
	require.Equal(t, testutil.User2.Balance, user.Balance)

	entries, err := transactionRepo.GetByReferenceID(ctx, "wager1")
	require.NoError(t, err)
	require.Empty(t, entries)
}
