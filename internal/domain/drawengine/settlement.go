package drawengine

import (
	"context"

	"github.com/fatih/structs"
	"github.com/xoso-lab/backend/internal/common"
	"github.com/xoso-lab/backend/internal/entity"
	"github.com/xoso-lab/backend/internal/model"
	"github.com/xoso-lab/backend/internal/repository"
	"github.com/xoso-lab/backend/pkg/xcontext"
)

// SettleResult aggregates one settlement pass over a session.
type SettleResult struct {
	Processed   int
	Winners     int
	TotalPayout float64
	Errors      int
}

func (r SettleResult) ToMap() entity.Map {
	return entity.Map{
		"processed":    r.Processed,
		"winners":      r.Winners,
		"total_payout": r.TotalPayout,
		"errors":       r.Errors,
	}
}

// mergeSettlementInfo folds a retry pass into a previously stored summary.
// Counters accumulate; the error count reflects the latest pass only, so a
// summary with zero errors means every wager of the session reached a
// terminal status.
func mergeSettlementInfo(prev entity.Map, retry SettleResult) entity.Map {
	return entity.Map{
		"processed":    mapInt(prev, "processed") + retry.Processed,
		"winners":      mapInt(prev, "winners") + retry.Winners,
		"total_payout": mapFloat(prev, "total_payout") + retry.TotalPayout,
		"errors":       retry.Errors,
	}
}

// Summaries written in-process hold ints, summaries loaded back from the json
// column hold float64.
func mapInt(m entity.Map, key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}

	return 0
}

func mapFloat(m entity.Map, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}

	return 0
}

type Settler struct {
	wagerRepo       repository.WagerRepository
	userRepo        repository.UserRepository
	transactionRepo repository.TransactionRepository
}

func NewSettler(
	wagerRepo repository.WagerRepository,
	userRepo repository.UserRepository,
	transactionRepo repository.TransactionRepository,
) *Settler {
	return &Settler{
		wagerRepo:       wagerRepo,
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
	}
}

// Settle evaluates and pays every pending wager of the session. Each wager is
// settled in its own transaction so one failure never poisons the batch; a
// failed wager stays pending and is picked up again on the next pass.
func (s *Settler) Settle(ctx context.Context, session *entity.LotterySession) SettleResult {
	var result SettleResult

	wagers, err := s.wagerRepo.GetPendingBySessionID(ctx, session.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf(
			"Cannot load pending wagers of session %s: %v", session.ID, err)
		result.Errors++
		return result
	}

	for i := range wagers {
		payout, err := s.settleOne(ctx, session, &wagers[i])
		if err != nil {
			xcontext.Logger(ctx).Errorf(
				"Cannot settle wager %s: %v", wagers[i].ID, err)
			result.Errors++
			continue
		}

		result.Processed++
		if payout > 0 {
			result.Winners++
			result.TotalPayout += payout
		}
	}

	return result
}

func (s *Settler) settleOne(
	ctx context.Context, session *entity.LotterySession, wager *entity.Wager,
) (float64, error) {
	cfg, ok := GetBetType(wager.BetType)
	hits := map[string]int{}
	if ok {
		hits = Evaluate(ctx, wager.BetType, wager.Numbers, session.Results)
	} else {
		xcontext.Logger(ctx).Warnf(
			"Wager %s has unknown bet type %q, settling as loss", wager.ID, wager.BetType)
	}

	outcome := CalculatePayout(cfg, wager.Stake, hits)

	status := entity.WagerLost
	if outcome.IsWinner {
		status = entity.WagerWon
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := s.wagerRepo.CheckAndSettle(ctx, wager.ID, status); err != nil {
		return 0, err
	}

	if outcome.IsWinner {
		metadata := entity.Map(structs.Map(model.PayoutMetadata{
			SessionID:     session.ID,
			SessionNumber: session.SessionNumber,
			BetType:       wager.BetType,
			Hits:          hits,
		}))
		_, err := common.ApplyBalanceChange(
			ctx,
			s.userRepo,
			s.transactionRepo,
			wager.UserID,
			outcome.TotalPayout,
			entity.TransactionPayout,
			wager.ID,
			metadata,
		)
		if err != nil {
			return 0, err
		}
	}

	xcontext.WithCommitDBTransaction(ctx)
	return outcome.TotalPayout, nil
}
