package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/xoso-lab/backend/internal/entity"
	"github.com/xoso-lab/backend/pkg/xcontext"
	"github.com/xoso-lab/backend/pkg/xredis"
	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(ctx context.Context, session *entity.LotterySession) error
	GetByID(ctx context.Context, id string) (*entity.LotterySession, error)
	GetByNumber(ctx context.Context, gameType entity.GameType, number int64) (*entity.LotterySession, error)
	GetLastByGameType(ctx context.Context, gameType entity.GameType) (*entity.LotterySession, error)
	GetCurrentByGameType(ctx context.Context, gameType entity.GameType) (*entity.LotterySession, error)
	GetUnfinishedByGameTypes(ctx context.Context, gameTypes []entity.GameType) ([]entity.LotterySession, error)
	GetRecentCompleted(ctx context.Context, gameType entity.GameType, limit int) ([]entity.LotterySession, error)

	// CheckAndUpdateStatus advances the session status only if the current
	// status still equals from. It returns gorm.ErrRecordNotFound when the
	// session moved on already, which callers treat as losing the race.
	CheckAndUpdateStatus(ctx context.Context, id string, from, to entity.SessionStatus) error

	// CheckAndSaveResults commits the draw atomically with the transition
	// into the drawing status. Only one caller can observe the session
	// before its draw, so a second draw always fails with
	// gorm.ErrRecordNotFound.
	CheckAndSaveResults(ctx context.Context, id string, results entity.DrawResult, winningNumbers []string) error

	UpdateSettlementInfo(ctx context.Context, id string, info entity.Map) error
}

type sessionRepository struct {
	redisClient xredis.Client
}

func NewSessionRepository(redisClient xredis.Client) *sessionRepository {
	return &sessionRepository{redisClient: redisClient}
}

func currentSessionKey(gameType entity.GameType) string {
	return fmt.Sprintf("current_session:%s", gameType)
}

func recentResultsKey(gameType entity.GameType) string {
	return fmt.Sprintf("recent_results:%s", gameType)
}

// recentResultsCacheSize bounds the cached recent-results list. Requests for
// more than this go straight to the database.
const recentResultsCacheSize = 20

const recentResultsCacheTTL = 10 * time.Minute

func (r *sessionRepository) Create(ctx context.Context, session *entity.LotterySession) error {
	if err := xcontext.DB(ctx).Create(session).Error; err != nil {
		return err
	}

	r.invalidateCache(ctx, session.GameType)
	return nil
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (*entity.LotterySession, error) {
	var result entity.LotterySession
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *sessionRepository) GetByNumber(
	ctx context.Context, gameType entity.GameType, number int64,
) (*entity.LotterySession, error) {
	var result entity.LotterySession
	err := xcontext.DB(ctx).
		Take(&result, "game_type=? AND session_number=?", gameType, number).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *sessionRepository) GetLastByGameType(
	ctx context.Context, gameType entity.GameType,
) (*entity.LotterySession, error) {
	var result entity.LotterySession
	err := xcontext.DB(ctx).Where("game_type=?", gameType).
		Order("session_number DESC").Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *sessionRepository) GetCurrentByGameType(
	ctx context.Context, gameType entity.GameType,
) (*entity.LotterySession, error) {
	if r.redisClient != nil {
		var cached entity.LotterySession
		if err := r.redisClient.GetObj(ctx, currentSessionKey(gameType), &cached); err == nil {
			if cached.Status == entity.SessionOpen && cached.EndTime.After(time.Now()) {
				return &cached, nil
			}
		} else if !xredis.IsNil(err) {
			xcontext.Logger(ctx).Warnf("Cannot get current session from cache: %v", err)
		}
	}

	var result entity.LotterySession
	err := xcontext.DB(ctx).
		Where("game_type=? AND status=?", gameType, entity.SessionOpen).
		Order("session_number DESC").Take(&result).Error
	if err != nil {
		return nil, err
	}

	if r.redisClient != nil {
		ttl := time.Until(result.EndTime)
		if ttl > 0 {
			err := r.redisClient.SetObj(ctx, currentSessionKey(result.GameType), result, ttl)
			if err != nil {
				xcontext.Logger(ctx).Warnf("Cannot cache current session: %v", err)
			}
		}
	}

	return &result, nil
}

func (r *sessionRepository) GetUnfinishedByGameTypes(
	ctx context.Context, gameTypes []entity.GameType,
) ([]entity.LotterySession, error) {
	var result []entity.LotterySession
	err := xcontext.DB(ctx).
		Where("game_type IN (?) AND status != ?", gameTypes, entity.SessionCompleted).
		Order("end_time ASC").Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *sessionRepository) GetRecentCompleted(
	ctx context.Context, gameType entity.GameType, limit int,
) ([]entity.LotterySession, error) {
	if r.redisClient != nil && limit <= recentResultsCacheSize {
		var cached []entity.LotterySession
		err := r.redisClient.GetObj(ctx, recentResultsKey(gameType), &cached)
		if err == nil {
			if len(cached) > limit {
				cached = cached[:limit]
			}
			return cached, nil
		}

		if !xredis.IsNil(err) {
			xcontext.Logger(ctx).Warnf("Cannot get recent results from cache: %v", err)
		}
	}

	fetch := limit
	if r.redisClient != nil && fetch < recentResultsCacheSize {
		fetch = recentResultsCacheSize
	}

	var result []entity.LotterySession
	err := xcontext.DB(ctx).
		Where("game_type=? AND status=?", gameType, entity.SessionCompleted).
		Order("session_number DESC").Limit(fetch).Find(&result).Error
	if err != nil {
		return nil, err
	}

	if r.redisClient != nil && limit <= recentResultsCacheSize {
		err := r.redisClient.SetObj(ctx, recentResultsKey(gameType), result, recentResultsCacheTTL)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot cache recent results: %v", err)
		}
	}

	if len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

func (r *sessionRepository) CheckAndUpdateStatus(
	ctx context.Context, id string, from, to entity.SessionStatus,
) error {
	tx := xcontext.DB(ctx).Model(&entity.LotterySession{}).
		Where("id=? AND status=?", id, from).
		Update("status", to)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.invalidateCacheByID(ctx, id)
	return nil
}

func (r *sessionRepository) CheckAndSaveResults(
	ctx context.Context, id string, results entity.DrawResult, winningNumbers []string,
) error {
	tx := xcontext.DB(ctx).Model(&entity.LotterySession{}).
		Where("id=? AND status IN (?)",
			id, []entity.SessionStatus{entity.SessionOpen, entity.SessionClosing}).
		Updates(map[string]any{
			"status":          entity.SessionDrawing,
			"results":         results,
			"winning_numbers": entity.Array[string](winningNumbers),
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.invalidateCacheByID(ctx, id)
	return nil
}

func (r *sessionRepository) UpdateSettlementInfo(
	ctx context.Context, id string, info entity.Map,
) error {
	return xcontext.DB(ctx).Model(&entity.LotterySession{}).
		Where("id=?", id).
		Update("settlement_info", info).Error
}

func (r *sessionRepository) invalidateCache(ctx context.Context, gameType entity.GameType) {
	if r.redisClient == nil {
		return
	}

	err := r.redisClient.Del(ctx, currentSessionKey(gameType), recentResultsKey(gameType))
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot invalidate session caches: %v", err)
	}
}

func (r *sessionRepository) invalidateCacheByID(ctx context.Context, id string) {
	if r.redisClient == nil {
		return
	}

	session, err := r.GetByID(ctx, id)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot load session for cache invalidation: %v", err)
		return
	}

	r.invalidateCache(ctx, session.GameType)
}
