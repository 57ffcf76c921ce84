package drawengine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xoso-lab/backend/internal/entity"
	"github.com/xoso-lab/backend/internal/repository"
	"github.com/xoso-lab/backend/pkg/testutil"
)

func newTestSettler() *Settler {
	return NewSettler(
		repository.NewWagerRepository(),
		repository.NewUserRepository(),
		repository.NewTransactionRepository(),
	)
}

func drawnSession(id string) *entity.LotterySession {
	return &entity.LotterySession{
		Base:          entity.Base{ID: id},
		GameType:      entity.GameFast1m,
		SessionNumber: 1,
		StartTime:     time.Now().Add(-time.Minute),
		EndTime:       time.Now(),
		Status:        entity.SessionDrawing,
		Results:       testDraw,
		WinningNumbers: entity.Array[string](
			testDraw.TwoDigitEndings()),
	}
}

func TestSettleUnknownBetTypeIsLoss(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.InsertUsers(ctx)

	sessionRepo := repository.NewSessionRepository(nil)
	wagerRepo := repository.NewWagerRepository()

	session := drawnSession("s1")
	require.NoError(t, sessionRepo.Create(ctx, session))

	wager := &entity.Wager{
		Base:      entity.Base{ID: "wager1"},
		UserID:    testutil.User1.ID,
		SessionID: session.ID,
		BetType:   "legacy_type",
		Numbers:   []string{"78"},
		Stake:     100000,
		Status:    entity.WagerPending,
	}
	require.NoError(t, wagerRepo.Create(ctx, wager))

	result := newTestSettler().Settle(ctx, session)
	require.Equal(t, 1, result.Processed)
	require.Equal(t, 0, result.Winners)
	require.Equal(t, 0, result.Errors)

	settled, err := wagerRepo.GetByID(ctx, wager.ID)
	require.NoError(t, err)
	require.Equal(t, entity.WagerLost, settled.Status)
}

func TestSettleFailureIsIsolated(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.InsertUsers(ctx)

	sessionRepo := repository.NewSessionRepository(nil)
	wagerRepo := repository.NewWagerRepository()
	transactionRepo := repository.NewTransactionRepository()

	session := drawnSession("s1")
	require.NoError(t, sessionRepo.Create(ctx, session))

	// A winning wager whose owner does not exist cannot be paid. It must
	// stay pending while the rest of the batch settles.
	orphan := &entity.Wager{
		Base:      entity.Base{ID: "orphan"},
		UserID:    "no-such-user",
		SessionID: session.ID,
		BetType:   BetDe,
		Numbers:   []string{"78"},
		Stake:     100000,
		Status:    entity.WagerPending,
	}
	require.NoError(t, wagerRepo.Create(ctx, orphan))

	healthy := &entity.Wager{
		Base:      entity.Base{ID: "healthy"},
		UserID:    testutil.User1.ID,
		SessionID: session.ID,
		BetType:   BetDe,
		Numbers:   []string{"78"},
		Stake:     100000,
		Status:    entity.WagerPending,
	}
	require.NoError(t, wagerRepo.Create(ctx, healthy))

	result := newTestSettler().Settle(ctx, session)
	require.Equal(t, 1, result.Processed)
	require.Equal(t, 1, result.Winners)
	require.Equal(t, 1, result.Errors)
	require.Equal(t, float64(9_900_000), result.TotalPayout)

	// The failed wager is still pending, with no status flip and no payout.
	stillPending, err := wagerRepo.GetByID(ctx, orphan.ID)
	require.NoError(t, err)
	require.Equal(t, entity.WagerPending, stillPending.Status)

	payouts, err := transactionRepo.GetByReferenceID(ctx, orphan.ID)
	require.NoError(t, err)
	require.Empty(t, payouts)

	// A later pass picks it up again and fails again, without touching the
	// already settled wager.
	retry := newTestSettler().Settle(ctx, session)
	require.Equal(t, 0, retry.Processed)
	require.Equal(t, 1, retry.Errors)
}

func TestSettlePayoutLedgerPairing(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.InsertUsers(ctx)

	sessionRepo := repository.NewSessionRepository(nil)
	wagerRepo := repository.NewWagerRepository()
	userRepo := repository.NewUserRepository()
	transactionRepo := repository.NewTransactionRepository()

	session := drawnSession("s1")
	require.NoError(t, sessionRepo.Create(ctx, session))

	wager := &entity.Wager{
		Base:      entity.Base{ID: "wager1"},
		UserID:    testutil.User2.ID,
		SessionID: session.ID,
		BetType:   BetDe,
		Numbers:   []string{"78"},
		Stake:     100000,
		Status:    entity.WagerPending,
	}
	require.NoError(t, wagerRepo.Create(ctx, wager))

	result := newTestSettler().Settle(ctx, session)
	require.Equal(t, 1, result.Winners)

	user, err := userRepo.GetByID(ctx, testutil.User2.ID)
	require.NoError(t, err)
	require.Equal(t, testutil.User2.Balance+9_900_000, user.Balance)

	payouts, err := transactionRepo.GetByReferenceID(ctx, wager.ID)
	require.NoError(t, err)
	require.Len(t, payouts, 1)
	require.Equal(t, entity.TransactionPayout, payouts[0].Type)
	require.Equal(t, testutil.User2.Balance, payouts[0].BalanceBefore)
	require.Equal(t, user.Balance, payouts[0].BalanceAfter)
	require.Equal(t, "s1", payouts[0].Metadata["session_id"])

	// The ledger replays to the stored balance delta.
	sum, err := transactionRepo.ReplayBalance(ctx, testutil.User2.ID)
	require.NoError(t, err)
	require.Equal(t, user.Balance-testutil.User2.Balance, sum)
}
