package domain

import (
	"context"
	"time"

	"github.com/pkg/math"
	"github.com/xoso-lab/backend/internal/common"
	"github.com/xoso-lab/backend/internal/domain/drawengine"
	"github.com/xoso-lab/backend/internal/entity"
	"github.com/xoso-lab/backend/internal/model"
	"github.com/xoso-lab/backend/internal/repository"
	"github.com/xoso-lab/backend/pkg/enum"
	"github.com/xoso-lab/backend/pkg/errorx"
	"github.com/xoso-lab/backend/pkg/xcontext"
)

type SessionDomain interface {
	GetCurrent(ctx context.Context, req *model.GetCurrentSessionRequest) (*model.GetCurrentSessionResponse, error)
	GetResults(ctx context.Context, req *model.GetSessionResultsRequest) (*model.GetSessionResultsResponse, error)
	GetRecentResults(ctx context.Context, req *model.GetRecentResultsRequest) (*model.GetRecentResultsResponse, error)
	ForceDraw(ctx context.Context, req *model.ForceDrawRequest) (*model.ForceDrawResponse, error)
}

type sessionDomain struct {
	sessionRepo  repository.SessionRepository
	lifecycle    *drawengine.Lifecycle
	roleVerifier *common.GlobalRoleVerifier
}

func NewSessionDomain(
	sessionRepo repository.SessionRepository,
	lifecycle *drawengine.Lifecycle,
	roleVerifier *common.GlobalRoleVerifier,
) *sessionDomain {
	return &sessionDomain{
		sessionRepo:  sessionRepo,
		lifecycle:    lifecycle,
		roleVerifier: roleVerifier,
	}
}

func (d *sessionDomain) GetCurrent(
	ctx context.Context, req *model.GetCurrentSessionRequest,
) (*model.GetCurrentSessionResponse, error) {
	gameType, err := enum.ToEnum[entity.GameType](req.GameType)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid game type %q", req.GameType)
	}

	session, err := d.sessionRepo.GetCurrentByGameType(ctx, gameType)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get current session: %v", err)
		return nil, errorx.New(errorx.NotFound, "No open session for %s", gameType)
	}

	remaining := time.Until(session.EndTime)
	closeThreshold := xcontext.Configs(ctx).Lottery.CloseBeforeEnd
	if gameType == entity.GameFast1m {
		closeThreshold = xcontext.Configs(ctx).Lottery.FastestCloseBeforeEnd
	}

	return &model.GetCurrentSessionResponse{
		Session:          model.ConvertSession(session),
		RemainingSeconds: math.MaxInt64(int64(remaining.Seconds()), 0),
		BettingClosed:    session.Status != entity.SessionOpen || remaining <= closeThreshold,
	}, nil
}

func (d *sessionDomain) GetResults(
	ctx context.Context, req *model.GetSessionResultsRequest,
) (*model.GetSessionResultsResponse, error) {
	gameType, err := enum.ToEnum[entity.GameType](req.GameType)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid game type %q", req.GameType)
	}

	session, err := d.sessionRepo.GetByNumber(ctx, gameType, req.SessionNumber)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get session by number: %v", err)
		return nil, errorx.New(errorx.NotFound, "Not found session")
	}

	return &model.GetSessionResultsResponse{Session: model.ConvertSession(session)}, nil
}

func (d *sessionDomain) GetRecentResults(
	ctx context.Context, req *model.GetRecentResultsRequest,
) (*model.GetRecentResultsResponse, error) {
	gameType, err := enum.ToEnum[entity.GameType](req.GameType)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid game type %q", req.GameType)
	}

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

	sessions, err := d.sessionRepo.GetRecentCompleted(ctx, gameType, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get recent sessions: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetRecentResultsResponse{
		Sessions: make([]model.LotterySession, 0, len(sessions)),
	}
	for i := range sessions {
		resp.Sessions = append(resp.Sessions, model.ConvertSession(&sessions[i]))
	}

	return resp, nil
}

// ForceDraw advances the session immediately, bypassing timer gating. It is
// the manual escape hatch for a stuck or overdue session.
func (d *sessionDomain) ForceDraw(
	ctx context.Context, req *model.ForceDrawRequest,
) (*model.ForceDrawResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	session, err := d.sessionRepo.GetByID(ctx, req.SessionID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get session: %v", err)
		return nil, errorx.New(errorx.NotFound, "Not found session")
	}

	if session.Status == entity.SessionCompleted {
		return nil, errorx.New(errorx.BadRequest, "Session is already completed")
	}

	result, err := d.lifecycle.Advance(ctx, session, true)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot force draw session %s: %v", session.ID, err)
		return nil, errorx.Unknown
	}

	resp := &model.ForceDrawResponse{Session: model.ConvertSession(result.Session)}
	if result.Settlement != nil {
		resp.Settlement = &model.SettlementSummary{
			Processed:   result.Settlement.Processed,
			Winners:     result.Settlement.Winners,
			TotalPayout: result.Settlement.TotalPayout,
			Errors:      result.Settlement.Errors,
		}
	}

	return resp, nil
}
