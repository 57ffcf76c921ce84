package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/xoso-lab/backend/internal/common"
	"github.com/xoso-lab/backend/internal/domain/drawengine"
	"github.com/xoso-lab/backend/internal/entity"
	"github.com/xoso-lab/backend/internal/model"
	"github.com/xoso-lab/backend/internal/repository"
	"github.com/xoso-lab/backend/pkg/errorx"
	"github.com/xoso-lab/backend/pkg/xcontext"
)

type WagerDomain interface {
	PlaceBet(ctx context.Context, req *model.PlaceBetRequest) (*model.PlaceBetResponse, error)
	GetMyWagers(ctx context.Context, req *model.GetMyWagersRequest) (*model.GetMyWagersResponse, error)
	GetBetTypes(ctx context.Context, req *model.GetBetTypesRequest) (*model.GetBetTypesResponse, error)
}

type wagerDomain struct {
	wagerRepo       repository.WagerRepository
	sessionRepo     repository.SessionRepository
	userRepo        repository.UserRepository
	transactionRepo repository.TransactionRepository
}

func NewWagerDomain(
	wagerRepo repository.WagerRepository,
	sessionRepo repository.SessionRepository,
	userRepo repository.UserRepository,
	transactionRepo repository.TransactionRepository,
) *wagerDomain {
	return &wagerDomain{
		wagerRepo:       wagerRepo,
		sessionRepo:     sessionRepo,
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
	}
}

// PlaceBet validates the wager, debits the cost and creates the pending
// record in one transaction. The session must still be open and outside its
// betting-close window.
func (d *wagerDomain) PlaceBet(
	ctx context.Context, req *model.PlaceBetRequest,
) (*model.PlaceBetResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	cfg, ok := drawengine.GetBetType(req.BetType)
	if !ok {
		return nil, errorx.New(errorx.BadRequest, "Unknown bet type %q", req.BetType)
	}

	if req.Stake < cfg.MinStake {
		return nil, errorx.New(errorx.BadRequest,
			"Stake must be at least %g", cfg.MinStake)
	}

	if err := drawengine.ValidateNumbers(cfg, req.Numbers); err != nil {
		return nil, err
	}

	session, err := d.sessionRepo.GetByID(ctx, req.SessionID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get session: %v", err)
		return nil, errorx.New(errorx.NotFound, "Not found session")
	}

	lotteryCfg := xcontext.Configs(ctx).Lottery
	closeThreshold := lotteryCfg.CloseBeforeEnd
	if session.GameType == entity.GameFast1m {
		closeThreshold = lotteryCfg.FastestCloseBeforeEnd
	}

	if session.Status != entity.SessionOpen || time.Until(session.EndTime) <= closeThreshold {
		return nil, errorx.New(errorx.SessionClosed, "Session is closed for betting")
	}

	cost := drawengine.CalculateCost(cfg, req.Stake, len(req.Numbers))
	potentialWin := maxPayout(cfg, req.Stake, req.Numbers)

	wager := &entity.Wager{
		Base:         entity.Base{ID: uuid.NewString()},
		UserID:       userID,
		SessionID:    session.ID,
		BetType:      cfg.ID,
		Numbers:      req.Numbers,
		Stake:        req.Stake,
		Cost:         cost,
		PotentialWin: potentialWin,
		Status:       entity.WagerPending,
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.wagerRepo.Create(ctx, wager); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create wager: %v", err)
		return nil, errorx.Unknown
	}

	tx, err := common.ApplyBalanceChange(
		ctx,
		d.userRepo,
		d.transactionRepo,
		userID,
		-cost,
		entity.TransactionBet,
		wager.ID,
		entity.Map{"session_id": session.ID, "bet_type": cfg.ID},
	)
	if err != nil {
		if errors.Is(err, common.ErrInsufficientBalance) {
			return nil, errorx.New(errorx.InsufficientBalance, "Insufficient balance")
		}

		xcontext.Logger(ctx).Errorf("Cannot debit bet cost: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	resp := model.ConvertWager(wager)
	resp.SessionNumber = session.SessionNumber
	return &model.PlaceBetResponse{Wager: resp, Balance: tx.BalanceAfter}, nil
}

// maxPayout is the payout the wager earns if every selected number hits once.
// It is informational; settlement recomputes the real payout from the draw.
func maxPayout(cfg drawengine.BetTypeConfig, stake float64, numbers []string) float64 {
	hits := make(map[string]int, len(numbers))
	for _, n := range numbers {
		hits[n] = 1
	}

	return drawengine.CalculatePayout(cfg, stake, hits).TotalPayout
}

func (d *wagerDomain) GetMyWagers(
	ctx context.Context, req *model.GetMyWagersRequest,
) (*model.GetMyWagersResponse, error) {
	apiCfg := xcontext.Configs(ctx).ApiServer
	if req.Limit == 0 {
		req.Limit = apiCfg.DefaultLimit
	}

	if req.Limit < 0 {
		return nil, errorx.New(errorx.BadRequest, "Limit must be positive")
	}

	if req.Limit > apiCfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (%d)", apiCfg.MaxLimit)
	}

	wagers, err := d.wagerRepo.GetListByUserID(
		ctx, xcontext.RequestUserID(ctx), req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get wagers: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetMyWagersResponse{Wagers: make([]model.Wager, 0, len(wagers))}
	for i := range wagers {
		resp.Wagers = append(resp.Wagers, model.ConvertWager(&wagers[i]))
	}

	return resp, nil
}

func (d *wagerDomain) GetBetTypes(
	ctx context.Context, req *model.GetBetTypesRequest,
) (*model.GetBetTypesResponse, error) {
	configs := drawengine.BetTypes()
	resp := &model.GetBetTypesResponse{BetTypes: make([]model.BetType, 0, len(configs))}
	for _, cfg := range configs {
		resp.BetTypes = append(resp.BetTypes, model.BetType{
			ID:              cfg.ID,
			Category:        string(cfg.Category),
			Method:          string(cfg.CalculationMethod),
			Multiplier:      cfg.Multiplier,
			MinStake:        cfg.MinStake,
			PointValue:      cfg.PointValue,
			RequiredNumbers: cfg.RequiredNumberCount,
			DigitWidth:      cfg.DigitWidth,
		})
	}

	return resp, nil
}
