package drawengine

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/xoso-lab/backend/internal/entity"
	"github.com/xoso-lab/backend/internal/repository"
	"github.com/xoso-lab/backend/pkg/pubsub"
	"github.com/xoso-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// AdvanceResult reports what one Advance call did to a session. Settlement is
// non-nil only for the call that actually ran the settlement pass.
type AdvanceResult struct {
	Session    *entity.LotterySession
	Settlement *SettleResult
}

// Lifecycle drives a session through its statuses. Advance is safe to call
// redundantly and concurrently; every transition is a compare-and-set at the
// storage layer, so of two racing callers exactly one wins and the other
// observes a no-op.
type Lifecycle struct {
	sessionRepo repository.SessionRepository
	generator   *Generator
	settler     *Settler
	publisher   pubsub.Publisher
}

func NewLifecycle(
	sessionRepo repository.SessionRepository,
	generator *Generator,
	settler *Settler,
	publisher pubsub.Publisher,
) *Lifecycle {
	return &Lifecycle{
		sessionRepo: sessionRepo,
		generator:   generator,
		settler:     settler,
		publisher:   publisher,
	}
}

func (l *Lifecycle) closeThreshold(ctx context.Context, gameType entity.GameType) time.Duration {
	cfg := xcontext.Configs(ctx).Lottery
	if gameType == entity.GameFast1m {
		return cfg.FastestCloseBeforeEnd
	}

	return cfg.CloseBeforeEnd
}

// Advance re-evaluates the session's timer guards and applies at most one
// forward transition (the draw transition also settles, so the session can
// move two statuses in one call). With force set, timer gating is bypassed
// and an undrawn session is drawn immediately.
func (l *Lifecycle) Advance(
	ctx context.Context, session *entity.LotterySession, force bool,
) (*AdvanceResult, error) {
	remaining := time.Until(session.EndTime)
	drawThreshold := xcontext.Configs(ctx).Lottery.DrawBeforeEnd

	switch session.Status {
	case entity.SessionOpen:
		if force || remaining <= drawThreshold {
			// Covers the regular draw window, the forced admin draw and
			// the recovery of a session that missed its window entirely.
			return l.drawAndSettle(ctx, session)
		}

		if remaining <= l.closeThreshold(ctx, session.GameType) {
			err := l.sessionRepo.CheckAndUpdateStatus(
				ctx, session.ID, entity.SessionOpen, entity.SessionClosing)
			if err != nil {
				return l.loseRace(ctx, session, err)
			}

			session.Status = entity.SessionClosing
		}

		return &AdvanceResult{Session: session}, nil

	case entity.SessionClosing:
		if force || remaining <= drawThreshold {
			return l.drawAndSettle(ctx, session)
		}

		return &AdvanceResult{Session: session}, nil

	case entity.SessionDrawing:
		// A previous caller crashed between committing results and
		// settling. Results are already immutable, so re-run settlement.
		return l.settleAndPark(ctx, session)

	case entity.SessionProcessingRewards:
		// Wagers whose settlement failed earlier are still pending. Retry
		// them on every tick; the per-wager compare-and-set makes a double
		// payout impossible.
		retry := l.settler.Settle(ctx, session)

		var settlement *SettleResult
		if retry.Processed > 0 || retry.Errors > 0 {
			info := mergeSettlementInfo(session.SettlementInfo, retry)
			if err := l.sessionRepo.UpdateSettlementInfo(ctx, session.ID, info); err != nil {
				xcontext.Logger(ctx).Errorf(
					"Cannot record settlement summary of session %s: %v", session.ID, err)
			}

			session.SettlementInfo = info
			settlement = &retry
		}

		if remaining <= 0 && retry.Errors == 0 {
			err := l.sessionRepo.CheckAndUpdateStatus(
				ctx, session.ID, entity.SessionProcessingRewards, entity.SessionCompleted)
			if err != nil {
				return l.loseRace(ctx, session, err)
			}

			session.Status = entity.SessionCompleted
		}

		return &AdvanceResult{Session: session, Settlement: settlement}, nil

	default:
		return &AdvanceResult{Session: session}, nil
	}
}

// drawAndSettle generates results if the session has none yet, then runs the
// settlement pass and parks the session in processing_rewards. The results
// write is a compare-and-set guarded on a pre-draw status, so the draw happens
// exactly once no matter how many callers reach this point.
func (l *Lifecycle) drawAndSettle(
	ctx context.Context, session *entity.LotterySession,
) (*AdvanceResult, error) {
	if len(session.WinningNumbers) == 0 && session.Results.IsZero() {
		results := l.generator.Generate()
		winningNumbers := results.TwoDigitEndings()

		err := l.sessionRepo.CheckAndSaveResults(ctx, session.ID, results, winningNumbers)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Another caller drew first; reload and settle against
				// its results.
				return l.reloadAndSettle(ctx, session.ID)
			}

			return nil, err
		}

		session.Status = entity.SessionDrawing
		session.Results = results
		session.WinningNumbers = winningNumbers
		l.publishResults(ctx, session)
	}

	return l.settleAndPark(ctx, session)
}

func (l *Lifecycle) reloadAndSettle(
	ctx context.Context, sessionID string,
) (*AdvanceResult, error) {
	session, err := l.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Results.IsZero() {
		// Lost the race to a caller that is still mid-draw. Nothing to
		// settle yet; the next tick picks the session up again.
		return &AdvanceResult{Session: session}, nil
	}

	return l.settleAndPark(ctx, session)
}

func (l *Lifecycle) settleAndPark(
	ctx context.Context, session *entity.LotterySession,
) (*AdvanceResult, error) {
	if session.Status != entity.SessionDrawing {
		return &AdvanceResult{Session: session}, nil
	}

	settlement := l.settler.Settle(ctx, session)

	// Only the caller winning this transition may record the summary and
	// publish. A racing loser ran its pass against already settled wagers
	// and holds an empty summary that must not clobber the real one.
	err := l.sessionRepo.CheckAndUpdateStatus(
		ctx, session.ID, entity.SessionDrawing, entity.SessionProcessingRewards)
	if err != nil {
		return l.loseRace(ctx, session, err)
	}

	info := settlement.ToMap()
	if err := l.sessionRepo.UpdateSettlementInfo(ctx, session.ID, info); err != nil {
		xcontext.Logger(ctx).Errorf(
			"Cannot record settlement summary of session %s: %v", session.ID, err)
	}

	session.Status = entity.SessionProcessingRewards
	session.SettlementInfo = info
	l.publishSettlement(ctx, session, settlement)

	return &AdvanceResult{Session: session, Settlement: &settlement}, nil
}

// loseRace reloads the session after a failed compare-and-set. A no-op
// outcome is reported with the winner's state, any other error propagates.
func (l *Lifecycle) loseRace(
	ctx context.Context, session *entity.LotterySession, err error,
) (*AdvanceResult, error) {
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	current, err := l.sessionRepo.GetByID(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	return &AdvanceResult{Session: current}, nil
}

type resultEvent struct {
	SessionID      string            `json:"session_id"`
	GameType       string            `json:"game_type"`
	SessionNumber  int64             `json:"session_number"`
	Results        entity.DrawResult `json:"results"`
	WinningNumbers []string          `json:"winning_numbers"`
}

func (l *Lifecycle) publishResults(ctx context.Context, session *entity.LotterySession) {
	if l.publisher == nil {
		return
	}

	msg, err := json.Marshal(resultEvent{
		SessionID:      session.ID,
		GameType:       string(session.GameType),
		SessionNumber:  session.SessionNumber,
		Results:        session.Results,
		WinningNumbers: session.WinningNumbers,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal result event: %v", err)
		return
	}

	topic := xcontext.Configs(ctx).Lottery.ResultsTopic
	err = l.publisher.Publish(ctx, topic, &pubsub.Pack{Key: []byte(session.ID), Msg: msg})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot publish result event: %v", err)
	}
}

type settlementEvent struct {
	SessionID   string  `json:"session_id"`
	Processed   int     `json:"processed"`
	Winners     int     `json:"winners"`
	TotalPayout float64 `json:"total_payout"`
	Errors      int     `json:"errors"`
}

func (l *Lifecycle) publishSettlement(
	ctx context.Context, session *entity.LotterySession, settlement SettleResult,
) {
	if l.publisher == nil {
		return
	}

	msg, err := json.Marshal(settlementEvent{
		SessionID:   session.ID,
		Processed:   settlement.Processed,
		Winners:     settlement.Winners,
		TotalPayout: settlement.TotalPayout,
		Errors:      settlement.Errors,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal settlement event: %v", err)
		return
	}

	topic := xcontext.Configs(ctx).Lottery.SettlementsTopic
	err = l.publisher.Publish(ctx, topic, &pubsub.Pack{Key: []byte(session.ID), Msg: msg})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot publish settlement event: %v", err)
	}
}
